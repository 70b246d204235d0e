package repository

import (
	"context"

	"gorm.io/gorm"

	"farm-service/internal/model"
)

type SectorRepository struct {
	db *gorm.DB
}

func NewSectorRepository(db *gorm.DB) *SectorRepository {
	return &SectorRepository{db: db}
}

func (r *SectorRepository) Create(ctx context.Context, sector *model.Sector) error {
	return r.db.WithContext(ctx).Omit("Region").Create(sector).Error
}

func (r *SectorRepository) GetByID(ctx context.Context, ownerID, id uint) (*model.Sector, error) {
	var sector model.Sector
	err := r.db.WithContext(ctx).
		Preload("Region").
		Where("id = ? AND region_id IN (?)", id, ownedRegionIDs(r.db, ownerID)).
		First(&sector).Error
	if err != nil {
		return nil, err
	}
	return &sector, nil
}

type SectorListFilter struct {
	RegionID *uint
}

func (r *SectorRepository) List(ctx context.Context, ownerID uint, filter SectorListFilter) ([]model.Sector, error) {
	var sectors []model.Sector
	query := r.db.WithContext(ctx).
		Preload("Region").
		Where("region_id IN (?)", ownedRegionIDs(r.db, ownerID))

	if filter.RegionID != nil {
		query = query.Where("region_id = ?", *filter.RegionID)
	}

	if err := query.Order("id").Find(&sectors).Error; err != nil {
		return nil, err
	}
	return sectors, nil
}

func (r *SectorRepository) Update(ctx context.Context, sector *model.Sector) error {
	return r.db.WithContext(ctx).Omit("Region").Save(sector).Error
}

func (r *SectorRepository) Delete(ctx context.Context, sector *model.Sector) error {
	return r.db.WithContext(ctx).Delete(sector).Error
}

// PivotStats counts the pivots of each sector and sums their areas. Sectors
// without pivots are absent from the result.
func (r *SectorRepository) PivotStats(ctx context.Context, sectorIDs []uint) (map[uint]model.SectorPivotStats, error) {
	stats := make(map[uint]model.SectorPivotStats, len(sectorIDs))
	if len(sectorIDs) == 0 {
		return stats, nil
	}

	var rows []model.SectorPivotStats
	err := r.db.WithContext(ctx).Model(&model.Pivot{}).
		Select("sector_id, COUNT(*) AS count, COALESCE(SUM(area), 0) AS total_area").
		Where("sector_id IN ?", sectorIDs).
		Group("sector_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.SectorID] = row
	}
	return stats, nil
}
