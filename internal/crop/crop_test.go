package crop

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestValidateSlots(t *testing.T) {
	tests := []struct {
		name   string
		slots  [SlotCount]string
		slot   int
		reason Reason
	}{
		{"gap after first slot", [SlotCount]string{"corn", "none", "wheat", "none"}, 3, ReasonGap},
		{"duplicate", [SlotCount]string{"corn", "corn", "none", "none"}, 2, ReasonDuplicate},
		{"gap in last slot", [SlotCount]string{"corn", "wheat", "", "barley"}, 4, ReasonGap},
		{"empty first slot", [SlotCount]string{"none", "wheat", "none", "none"}, 2, ReasonGap},
		{"duplicate of first", [SlotCount]string{"corn", "wheat", "corn", "none"}, 3, ReasonDuplicate},
		{"unknown crop", [SlotCount]string{"corn", "rice", "none", "none"}, 2, ReasonUnknown},
		{"leftmost wins", [SlotCount]string{"corn", "corn", "none", "wheat"}, 2, ReasonDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			err := ValidateSlots(tt.slots)

			var slotErr *SlotError
			is.True(errors.As(err, &slotErr))
			is.Equal(slotErr.Slot, tt.slot)
			is.Equal(slotErr.Reason, tt.reason)
		})
	}
}

func TestValidateSlotsAccepts(t *testing.T) {
	is := is.New(t)

	is.NoErr(ValidateSlots([SlotCount]string{"corn", "wheat", "none", "none"}))
	is.NoErr(ValidateSlots([SlotCount]string{"", "", "", ""}))
	is.NoErr(ValidateSlots([SlotCount]string{"corn", "wheat", "soybean", "potato"}))
}

func TestSlotErrorMessageNamesSlot(t *testing.T) {
	is := is.New(t)

	err := ValidateSlots([SlotCount]string{"corn", "none", "wheat", "none"})
	is.Equal(err.Error(), "crop 3 cannot be selected before crop 2")

	err = ValidateSlots([SlotCount]string{"corn", "corn", "none", "none"})
	is.Equal(err.Error(), "crop 2 duplicates an earlier crop")
}
