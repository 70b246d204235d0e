package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"farm-service/internal/auth"
	"farm-service/internal/config"
	"farm-service/internal/db"
	"farm-service/internal/logger"
	"farm-service/internal/repository"
	"farm-service/internal/service"
)

type app struct {
	cfg *config.Config
	log zerolog.Logger

	users        *repository.UserRepository
	tokenParser  *auth.Parser
	authService  *service.AuthService
	companies    *service.CompanyService
	regions      *service.RegionService
	sectors      *service.SectorService
	pivots       *service.PivotService
	fields       *service.FieldService
	cropRotation *service.CropRotationService
}

// bootstrap loads config, opens the database and wires repositories and
// services the same way for every subcommand.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	userRepo := repository.NewUserRepository(database)
	companyRepo := repository.NewCompanyRepository(database)
	regionRepo := repository.NewRegionRepository(database)
	sectorRepo := repository.NewSectorRepository(database)
	pivotRepo := repository.NewPivotRepository(database)
	fieldRepo := repository.NewFieldRepository(database)
	rotationRepo := repository.NewCropRotationRepository(database)

	tokenIssuer := auth.NewIssuer(cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BCryptCost)

	return &app{
		cfg:          cfg,
		log:          appLogger,
		users:        userRepo,
		tokenParser:  auth.NewParser(cfg.Auth.AccessSecret),
		authService:  service.NewAuthService(userRepo, hasher, tokenIssuer, appLogger),
		companies:    service.NewCompanyService(companyRepo),
		regions:      service.NewRegionService(regionRepo, companyRepo),
		sectors:      service.NewSectorService(sectorRepo, regionRepo),
		pivots:       service.NewPivotService(pivotRepo, sectorRepo),
		fields:       service.NewFieldService(fieldRepo, sectorRepo),
		cropRotation: service.NewCropRotationService(rotationRepo, pivotRepo, fieldRepo),
	}, nil
}
