package model

import (
	"time"

	"gorm.io/gorm"

	"farm-service/internal/crop"
	"farm-service/internal/utils"
)

// Field is a free-form polygon crop field.
type Field struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SectorID    uint      `gorm:"not null;index" json:"sector_id"`
	Sector      *Sector   `gorm:"foreignKey:SectorID" json:"-"`
	SectorName  string    `gorm:"-" json:"sector"`
	LogicalName string    `gorm:"type:varchar(50)" json:"logical_name"`
	Area        float64   `gorm:"not null;default:0" json:"area"`
	Crop1       string    `gorm:"column:crop_1;type:varchar(50)" json:"crop_1"`
	Crop2       string    `gorm:"column:crop_2;type:varchar(50)" json:"crop_2"`
	Crop3       string    `gorm:"column:crop_3;type:varchar(50)" json:"crop_3"`
	Crop4       string    `gorm:"column:crop_4;type:varchar(50)" json:"crop_4"`
	SeedingDate *string   `gorm:"type:varchar(10)" json:"seeding_date"`
	HarvestDate *string   `gorm:"type:varchar(10)" json:"harvest_date"`
	Shape       *string   `gorm:"type:text" json:"shape"`
	Color       string    `gorm:"type:varchar(7)" json:"color"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Field) TableName() string {
	return "fields"
}

func (f *Field) Crops() [crop.SlotCount]string {
	return [crop.SlotCount]string{f.Crop1, f.Crop2, f.Crop3, f.Crop4}
}

func (f *Field) SetCrops(c [crop.SlotCount]string) {
	f.Crop1, f.Crop2, f.Crop3, f.Crop4 = c[0], c[1], c[2], c[3]
}

func (f *Field) BeforeSave(tx *gorm.DB) error {
	f.Color = utils.NormalizeColor(f.Color)
	return nil
}

func (f *Field) AfterFind(tx *gorm.DB) error {
	if f.Sector != nil {
		f.SectorName = f.Sector.Name
	}
	return nil
}
