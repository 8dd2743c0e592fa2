// Package bootstrap builds the concrete adapters shared by the server and
// the CLI from a resolved Config.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"trip-planner-service/internal/adapters/geocode"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/db"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
	"trip-planner-service/internal/services"

	"go.uber.org/zap"
)

// Engine wires the Nominatim geocoder into a distance engine.
func Engine(cfg *config.Config, log *zap.Logger) (*services.Engine, error) {
	geocoder, err := geocode.NewNominatimGeocoder(geocode.Options{
		BaseURL:     cfg.GeocoderBaseURL,
		APIKey:      cfg.GeocoderAPIKey,
		UserAgent:   cfg.GeocoderUserAgent,
		Timeout:     cfg.GeocoderTimeout,
		MaxAttempts: cfg.GeocoderMaxAttempts,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: geocoder: %w", err)
	}

	engine, err := services.NewEngine(geocoder, cfg.DistanceTimeout, log)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return engine, nil
}

// Database opens Postgres and makes sure the schema exists.
func Database(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *sql.DB, err error) {
	defer obs.Time(ctx, log, "bootstrap.Database")(&err)

	if cfg.DatabaseURL == "" {
		return nil, errors.New("bootstrap: DATABASE_URL is required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	if err := repositories.InitSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return conn, nil
}

// PlaceRepository returns a Postgres-backed repository when DATABASE_URL is
// set and an in-memory one otherwise. The returned close func is never nil.
func PlaceRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (ports.PlaceRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, places are kept in memory")
		return repositories.NewMemoryPlaceRepository(), func() {}, nil
	}

	conn, err := Database(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	return repositories.NewPostgresPlaceRepository(conn), func() { _ = conn.Close() }, nil
}
