package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS companies (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL UNIQUE,
		center TEXT,
		color VARCHAR(7),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_companies_owner_id ON companies (owner_id);`,
	`CREATE TABLE IF NOT EXISTS regions (
		id BIGSERIAL PRIMARY KEY,
		company_id BIGINT NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		center TEXT,
		color VARCHAR(7),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_regions_company_id ON regions (company_id);`,
	`CREATE TABLE IF NOT EXISTS sectors (
		id BIGSERIAL PRIMARY KEY,
		region_id BIGINT NOT NULL REFERENCES regions(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		area_ha DOUBLE PRECISION,
		total_water_requirement DOUBLE PRECISION NOT NULL DEFAULT 0,
		shape TEXT,
		color VARCHAR(7),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sectors_region_id ON sectors (region_id);`,
	`CREATE TABLE IF NOT EXISTS pivots (
		id BIGSERIAL PRIMARY KEY,
		sector_id BIGINT NOT NULL REFERENCES sectors(id) ON DELETE CASCADE,
		logical_name VARCHAR(10),
		area DOUBLE PRECISION NOT NULL,
		crop_1 VARCHAR(50),
		crop_2 VARCHAR(50),
		crop_3 VARCHAR(50),
		crop_4 VARCHAR(50),
		seeding_date VARCHAR(10),
		harvest_date VARCHAR(10),
		center TEXT,
		radius_m DOUBLE PRECISION NOT NULL DEFAULT 100,
		color VARCHAR(7),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_pivots_sector_id ON pivots (sector_id);`,
	`CREATE TABLE IF NOT EXISTS fields (
		id BIGSERIAL PRIMARY KEY,
		sector_id BIGINT NOT NULL REFERENCES sectors(id) ON DELETE CASCADE,
		logical_name VARCHAR(50),
		area DOUBLE PRECISION NOT NULL DEFAULT 0,
		crop_1 VARCHAR(50),
		crop_2 VARCHAR(50),
		crop_3 VARCHAR(50),
		crop_4 VARCHAR(50),
		seeding_date VARCHAR(10),
		harvest_date VARCHAR(10),
		shape TEXT,
		color VARCHAR(7),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_fields_sector_id ON fields (sector_id);`,
	`CREATE TABLE IF NOT EXISTS crop_rotations (
		id BIGSERIAL PRIMARY KEY,
		pivot_id BIGINT REFERENCES pivots(id) ON DELETE CASCADE,
		field_id BIGINT REFERENCES fields(id) ON DELETE CASCADE,
		pivot_name VARCHAR(50),
		field_name VARCHAR(50),
		sector_name VARCHAR(100),
		company_name VARCHAR(100),
		year INTEGER NOT NULL,
		crop VARCHAR(50) NOT NULL,
		seeding_date VARCHAR(10),
		harvest_date VARCHAR(10),
		yield_tons DOUBLE PRECISION,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_crop_rotations_target CHECK ((pivot_id IS NULL) <> (field_id IS NULL))
	);`,
	`CREATE INDEX IF NOT EXISTS idx_crop_rotations_pivot_id ON crop_rotations (pivot_id);`,
	`CREATE INDEX IF NOT EXISTS idx_crop_rotations_field_id ON crop_rotations (field_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_crop_rotations_pivot_year ON crop_rotations (pivot_id, year) WHERE pivot_id IS NOT NULL;`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_crop_rotations_field_year ON crop_rotations (field_id, year) WHERE field_id IS NOT NULL;`,
	`CREATE OR REPLACE FUNCTION set_updated_at() RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	DECLARE
		t TEXT;
	BEGIN
		FOREACH t IN ARRAY ARRAY['users', 'companies', 'regions', 'sectors', 'pivots', 'fields', 'crop_rotations'] LOOP
			IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_' || t || '_updated_at') THEN
				EXECUTE format('CREATE TRIGGER %I BEFORE UPDATE ON %I FOR EACH ROW EXECUTE PROCEDURE set_updated_at()', 'trg_' || t || '_updated_at', t);
			END IF;
		END LOOP;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
