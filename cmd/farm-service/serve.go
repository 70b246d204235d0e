package main

import (
	"fmt"

	httphandler "farm-service/internal/http"
	"farm-service/internal/http/middleware"
)

func serve() error {
	a, err := bootstrap()
	if err != nil {
		return err
	}

	handler := httphandler.NewHandler(
		a.authService,
		a.companies,
		a.regions,
		a.sectors,
		a.pivots,
		a.fields,
		a.cropRotation,
		a.log,
	)
	authMiddleware := middleware.Auth(a.tokenParser)
	authLimiter, err := middleware.RateLimit(a.cfg.Auth.RateLimit, a.log)
	if err != nil {
		return fmt.Errorf("invalid auth rate limit %q: %w", a.cfg.Auth.RateLimit, err)
	}
	router := httphandler.NewRouter(handler, authMiddleware, authLimiter, a.cfg.Environment)

	addr := fmt.Sprintf("%s:%d", a.cfg.HTTP.Host, a.cfg.HTTP.Port)
	a.log.Info().Str("addr", addr).Msg("starting farm service")

	if err := router.Run(addr); err != nil {
		a.log.Error().Err(err).Msg("failed to start server")
		return err
	}
	return nil
}
