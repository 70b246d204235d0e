package crop

import "fmt"

const None = "none"

// SlotCount is the number of ordered crop slots on pivots and fields.
const SlotCount = 4

var choices = []string{None, "corn", "wheat", "soybean", "barley", "canola", "sunflower", "potato"}

// Choices returns the known crop values, "none" first.
func Choices() []string {
	return append([]string(nil), choices...)
}

func IsKnown(value string) bool {
	for _, c := range choices {
		if c == value {
			return true
		}
	}
	return false
}

// Normalize maps the empty string to None.
func Normalize(value string) string {
	if value == "" {
		return None
	}
	return value
}

func IsEmpty(value string) bool {
	return Normalize(value) == None
}

type Reason string

const (
	ReasonGap       Reason = "gap"
	ReasonDuplicate Reason = "duplicate"
	ReasonUnknown   Reason = "unknown"
)

// SlotError names the first offending slot, 1-based.
type SlotError struct {
	Slot   int
	Reason Reason
	Crop   string
}

func (e *SlotError) Error() string {
	switch e.Reason {
	case ReasonGap:
		return fmt.Sprintf("crop %d cannot be selected before crop %d", e.Slot, e.Slot-1)
	case ReasonDuplicate:
		return fmt.Sprintf("crop %d duplicates an earlier crop", e.Slot)
	default:
		return fmt.Sprintf("crop %d has unknown value %q", e.Slot, e.Crop)
	}
}

// ValidateSlots checks every slot left to right: values must be known, a
// filled slot may not follow an empty one, and no crop may repeat.
func ValidateSlots(slots [SlotCount]string) error {
	for i, raw := range slots {
		value := Normalize(raw)
		if !IsKnown(value) {
			return &SlotError{Slot: i + 1, Reason: ReasonUnknown, Crop: raw}
		}
		if value == None || i == 0 {
			continue
		}
		if IsEmpty(slots[i-1]) {
			return &SlotError{Slot: i + 1, Reason: ReasonGap, Crop: value}
		}
		for _, earlier := range slots[:i] {
			if Normalize(earlier) == value {
				return &SlotError{Slot: i + 1, Reason: ReasonDuplicate, Crop: value}
			}
		}
	}
	return nil
}
