package testutil

import (
	"testing"

	"gorm.io/gorm"

	"farm-service/internal/model"
)

// Hierarchy is one owner's company, region and sector.
type Hierarchy struct {
	User    *model.User
	Company *model.Company
	Region  *model.Region
	Sector  *model.Sector
}

const SquareShape = "SRID=4326;POLYGON((47.4 39.8, 47.41 39.8, 47.41 39.81, 47.4 39.81, 47.4 39.8))"

func SeedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()

	user := &model.User{Username: username, PasswordHash: "not-a-real-hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// SeedHierarchy creates a user owning a company with one region and one
// sector. Names are prefixed so that several owners can coexist.
func SeedHierarchy(t *testing.T, db *gorm.DB, prefix string) Hierarchy {
	t.Helper()

	user := SeedUser(t, db, prefix)

	company := &model.Company{OwnerID: user.ID, Name: prefix + " Agro", Color: "#3388ff"}
	must(t, db.Create(company).Error)

	region := &model.Region{CompanyID: company.ID, Name: prefix + " Region"}
	must(t, db.Create(region).Error)

	shape := SquareShape
	sector := &model.Sector{RegionID: region.ID, Name: prefix + " Sector", Shape: &shape}
	must(t, db.Create(sector).Error)

	return Hierarchy{User: user, Company: company, Region: region, Sector: sector}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("failed to seed fixture: %v", err)
	}
}
