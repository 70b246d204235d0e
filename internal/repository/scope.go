package repository

import (
	"gorm.io/gorm"

	"farm-service/internal/model"
)

// The owned* helpers build id subqueries that walk the hierarchy up to
// companies.owner_id. They must be given the root handle, not a chained
// statement.

func ownedCompanyIDs(db *gorm.DB, ownerID uint) *gorm.DB {
	return db.Model(&model.Company{}).Select("id").Where("owner_id = ?", ownerID)
}

func ownedRegionIDs(db *gorm.DB, ownerID uint) *gorm.DB {
	return db.Model(&model.Region{}).Select("id").Where("company_id IN (?)", ownedCompanyIDs(db, ownerID))
}

func ownedSectorIDs(db *gorm.DB, ownerID uint) *gorm.DB {
	return db.Model(&model.Sector{}).Select("id").Where("region_id IN (?)", ownedRegionIDs(db, ownerID))
}

func ownedPivotIDs(db *gorm.DB, ownerID uint) *gorm.DB {
	return db.Model(&model.Pivot{}).Select("id").Where("sector_id IN (?)", ownedSectorIDs(db, ownerID))
}

func ownedFieldIDs(db *gorm.DB, ownerID uint) *gorm.DB {
	return db.Model(&model.Field{}).Select("id").Where("sector_id IN (?)", ownedSectorIDs(db, ownerID))
}
