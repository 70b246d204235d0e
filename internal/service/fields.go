package service

import (
	"fmt"
	"strings"
	"time"

	"farm-service/internal/crop"
	"farm-service/internal/geometry"
	"farm-service/internal/metric"
	"farm-service/internal/utils"
)

const dateLayout = "2006-01-02"

// canonicalShape rewrites stored geometry text into its canonical form.
// Blank text clears the value.
func canonicalShape(text *string, kind geometry.Kind, field string) (*string, error) {
	if text == nil || strings.TrimSpace(*text) == "" {
		return nil, nil
	}
	canonical, err := geometry.Canonical(*text, kind)
	if err != nil {
		return nil, invalidInput("%s: %v", field, err)
	}
	return &canonical, nil
}

func normalizeDate(value *string, field string) (*string, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, invalidInput("%s must be YYYY-MM-DD", field)
	}
	out := d.Format(dateLayout)
	return &out, nil
}

func checkSeason(seeding, harvest *string) error {
	if seeding == nil || harvest == nil {
		return nil
	}
	// Both are normalized YYYY-MM-DD so string order is date order.
	if *harvest < *seeding {
		return invalidInput("harvest_date is before seeding_date")
	}
	return nil
}

func checkCrops(slots [crop.SlotCount]string) ([crop.SlotCount]string, error) {
	for i := range slots {
		slots[i] = crop.Normalize(slots[i])
	}
	if err := crop.ValidateSlots(slots); err != nil {
		return slots, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return slots, nil
}

func requireName(name *string, field string) (string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return "", invalidInput("%s is required", field)
	}
	return strings.TrimSpace(*name), nil
}

func color(value *string, fallback string) (string, error) {
	if value == nil || *value == "" {
		return fallback, nil
	}
	normalized := utils.NormalizeColor(*value)
	if normalized == "" {
		return "", invalidInput("color must be a hex color")
	}
	return normalized, nil
}

// derivedArea computes the area in hectares of canonical geometry text.
func derivedArea(text *string, radiusM float64) float64 {
	if text == nil {
		return 0
	}
	g, ok := geometry.Parse(*text)
	if !ok {
		return 0
	}
	return metric.Area(g, radiusM)
}
