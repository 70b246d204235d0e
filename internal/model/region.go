package model

import (
	"time"

	"gorm.io/gorm"

	"farm-service/internal/utils"
)

type Region struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"not null;index" json:"company_id"`
	Company     *Company  `gorm:"foreignKey:CompanyID" json:"-"`
	CompanyName string    `gorm:"-" json:"company"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Center      *string   `gorm:"type:text" json:"center"`
	Color       string    `gorm:"type:varchar(7)" json:"color"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Region) TableName() string {
	return "regions"
}

func (r *Region) BeforeSave(tx *gorm.DB) error {
	r.Color = utils.NormalizeColor(r.Color)
	return nil
}

func (r *Region) AfterFind(tx *gorm.DB) error {
	if r.Company != nil {
		r.CompanyName = r.Company.Name
	}
	return nil
}
