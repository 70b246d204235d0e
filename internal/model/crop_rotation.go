package model

import "time"

// CropRotation records what grew on a pivot or field in one season.
type CropRotation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PivotID     *uint     `gorm:"index" json:"pivot_id"`
	FieldID     *uint     `gorm:"index" json:"field_id"`
	PivotName   string    `gorm:"type:varchar(50)" json:"pivot_name"`
	FieldName   string    `gorm:"type:varchar(50)" json:"field_name"`
	SectorName  string    `gorm:"type:varchar(100)" json:"sector_name"`
	CompanyName string    `gorm:"type:varchar(100)" json:"company_name"`
	Year        int       `gorm:"not null;index" json:"year"`
	Crop        string    `gorm:"type:varchar(50);not null" json:"crop"`
	SeedingDate *string   `gorm:"type:varchar(10)" json:"seeding_date"`
	HarvestDate *string   `gorm:"type:varchar(10)" json:"harvest_date"`
	YieldTons   *float64  `json:"yield_tons"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (CropRotation) TableName() string {
	return "crop_rotations"
}
