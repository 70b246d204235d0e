package model

import (
	"time"

	"gorm.io/gorm"

	"farm-service/internal/utils"
)

// Sector is a waterway sector: a polygon inside a region that feeds pivots
// and fields.
type Sector struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	RegionID              uint      `gorm:"not null;index" json:"region_id"`
	Region                *Region   `gorm:"foreignKey:RegionID" json:"-"`
	RegionName            string    `gorm:"-" json:"region"`
	Name                  string    `gorm:"type:varchar(100);not null" json:"name"`
	AreaHa                *float64  `json:"area_ha"`
	TotalWaterRequirement float64   `gorm:"not null;default:0" json:"total_water_requirement"`
	Shape                 *string   `gorm:"type:text" json:"shape"`
	Color                 string    `gorm:"type:varchar(7)" json:"color"`
	PivotCount            int64     `gorm:"-" json:"pivot_count"`
	TotalPivotArea        float64   `gorm:"-" json:"total_pivot_area"`
	CreatedAt             time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Sector) TableName() string {
	return "sectors"
}

func (s *Sector) BeforeSave(tx *gorm.DB) error {
	s.Color = utils.NormalizeColor(s.Color)
	return nil
}

func (s *Sector) AfterFind(tx *gorm.DB) error {
	if s.Region != nil {
		s.RegionName = s.Region.Name
	}
	return nil
}

// SectorPivotStats aggregates the pivots irrigated from one sector.
type SectorPivotStats struct {
	SectorID  uint
	Count     int64
	TotalArea float64
}
