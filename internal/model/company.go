package model

import (
	"time"

	"gorm.io/gorm"

	"farm-service/internal/utils"
)

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;index" json:"-"`
	Owner     *User     `gorm:"foreignKey:OwnerID" json:"-"`
	OwnerName string    `gorm:"-" json:"owner"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Center    *string   `gorm:"type:text" json:"center"`
	Color     string    `gorm:"type:varchar(7)" json:"color"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

func (c *Company) BeforeSave(tx *gorm.DB) error {
	c.Color = utils.NormalizeColor(c.Color)
	return nil
}

func (c *Company) AfterFind(tx *gorm.DB) error {
	if c.Owner != nil {
		c.OwnerName = c.Owner.Username
	}
	return nil
}
