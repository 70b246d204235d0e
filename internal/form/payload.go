package form

import "farm-service/internal/crop"

// Payload is the request body assembled on submit. Only the fields that
// belong to the form's entity are set.
type Payload struct {
	Name                  string   `json:"name,omitempty"`
	LogicalName           string   `json:"logical_name,omitempty"`
	Color                 string   `json:"color,omitempty"`
	Center                *string  `json:"center,omitempty"`
	Shape                 *string  `json:"shape,omitempty"`
	RadiusM               *float64 `json:"radius_m,omitempty"`
	Area                  *float64 `json:"area,omitempty"`
	TotalWaterRequirement *float64 `json:"total_water_requirement,omitempty"`
	CompanyID             *uint    `json:"company_id,omitempty"`
	RegionID              *uint    `json:"region_id,omitempty"`
	SectorID              *uint    `json:"sector_id,omitempty"`
	Crop1                 string   `json:"crop_1,omitempty"`
	Crop2                 string   `json:"crop_2,omitempty"`
	Crop3                 string   `json:"crop_3,omitempty"`
	Crop4                 string   `json:"crop_4,omitempty"`
	SeedingDate           *string  `json:"seeding_date,omitempty"`
	HarvestDate           *string  `json:"harvest_date,omitempty"`
}

// Initial pre-populates a form from an existing entity.
type Initial struct {
	ID                    uint
	Name                  string
	Color                 string
	Center                string
	Shape                 string
	RadiusM               float64
	Area                  float64
	ParentID              uint
	TotalWaterRequirement float64
	Crops                 [crop.SlotCount]string
	SeedingDate           string
	HarvestDate           string
}

// LookupOption is one row of a lookup list.
type LookupOption struct {
	ID    uint
	Label string
}
