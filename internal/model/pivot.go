package model

import (
	"time"

	"gorm.io/gorm"

	"farm-service/internal/crop"
	"farm-service/internal/utils"
)

const DefaultPivotRadiusM = 100.0

// Pivot is a center-pivot irrigated circle.
type Pivot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SectorID    uint      `gorm:"not null;index" json:"sector_id"`
	Sector      *Sector   `gorm:"foreignKey:SectorID" json:"-"`
	SectorName  string    `gorm:"-" json:"sector"`
	LogicalName string    `gorm:"type:varchar(10)" json:"logical_name"`
	Area        float64   `gorm:"not null" json:"area"`
	Crop1       string    `gorm:"column:crop_1;type:varchar(50)" json:"crop_1"`
	Crop2       string    `gorm:"column:crop_2;type:varchar(50)" json:"crop_2"`
	Crop3       string    `gorm:"column:crop_3;type:varchar(50)" json:"crop_3"`
	Crop4       string    `gorm:"column:crop_4;type:varchar(50)" json:"crop_4"`
	SeedingDate *string   `gorm:"type:varchar(10)" json:"seeding_date"`
	HarvestDate *string   `gorm:"type:varchar(10)" json:"harvest_date"`
	Center      *string   `gorm:"type:text" json:"center"`
	RadiusM     float64   `gorm:"not null;default:100" json:"radius_m"`
	Color       string    `gorm:"type:varchar(7)" json:"color"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Pivot) TableName() string {
	return "pivots"
}

func (p *Pivot) Crops() [crop.SlotCount]string {
	return [crop.SlotCount]string{p.Crop1, p.Crop2, p.Crop3, p.Crop4}
}

func (p *Pivot) SetCrops(c [crop.SlotCount]string) {
	p.Crop1, p.Crop2, p.Crop3, p.Crop4 = c[0], c[1], c[2], c[3]
}

func (p *Pivot) BeforeSave(tx *gorm.DB) error {
	p.Color = utils.NormalizeColor(p.Color)
	return nil
}

func (p *Pivot) AfterFind(tx *gorm.DB) error {
	if p.Sector != nil {
		p.SectorName = p.Sector.Name
	}
	return nil
}
