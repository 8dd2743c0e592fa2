package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"trip-planner-service/internal/domain"

	"github.com/goccy/go-json"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlacesQuery := `
	CREATE TABLE IF NOT EXISTS places (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('restaurant', 'activity')),
		address TEXT NOT NULL,
		distance_km DOUBLE PRECISION,
		distance_unit TEXT NOT NULL CHECK (distance_unit IN ('km', 'mi')),
		notes TEXT NOT NULL DEFAULT '',
		visited BOOLEAN NOT NULL DEFAULT FALSE,
		rating SMALLINT NOT NULL DEFAULT 0 CHECK (rating BETWEEN 0 AND 5),
		archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_places_type_archived
	ON places(type, archived);
	`

	statements := []string{
		createPlacesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type PlaceSeed struct {
	Name    string           `json:"name"`
	Type    domain.PlaceType `json:"type"`
	Address string           `json:"address"`
	Notes   string           `json:"notes"`
	Rating  int              `json:"rating"`
}

// Read and validate place seed data from a JSON file.
func ReadPlaceSeeds(jsonPath string) ([]PlaceSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed places: read %q: %w", jsonPath, err)
	}

	var data []PlaceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed places: parse json: %w", err)
	}

	rows := make([]PlaceSeed, 0, len(data))
	for i, item := range data {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("seed places: item at index %d: name cannot be empty", i+1)
		}

		if !item.Type.Valid() {
			return nil, fmt.Errorf("seed places: item at index %d: invalid type %q", i+1, item.Type)
		}

		addr := strings.TrimSpace(item.Address)
		if addr == "" {
			return nil, fmt.Errorf("seed places: item at index %d: address cannot be empty", i+1)
		}

		if item.Rating < 0 || item.Rating > domain.MaxRating {
			return nil, fmt.Errorf("seed places: item at index %d: rating %d out of range", i+1, item.Rating)
		}

		rows = append(rows, PlaceSeed{
			Name:    name,
			Type:    item.Type,
			Address: addr,
			Notes:   strings.TrimSpace(item.Notes),
			Rating:  item.Rating,
		})
	}

	return rows, nil
}
