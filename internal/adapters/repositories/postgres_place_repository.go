package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
)

var _ ports.PlaceRepository = (*PostgresPlaceRepository)(nil)

// Postgres-backed implementation of the PlaceRepository port.
type PostgresPlaceRepository struct{ DB *sql.DB }

func NewPostgresPlaceRepository(db *sql.DB) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{DB: db}
}

const placeColumns = `
		id,
		name,
		type,
		address,
		distance_km,
		distance_unit,
		notes,
		visited,
		rating,
		archived,
		created_at,
		updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlace(r rowScanner) (*domain.Place, error) {
	var (
		p        domain.Place
		typ      string
		unit     string
		distance sql.NullFloat64
	)

	err := r.Scan(
		&p.ID,
		&p.Name,
		&typ,
		&p.Address,
		&distance,
		&unit,
		&p.Notes,
		&p.Visited,
		&p.Rating,
		&p.Archived,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Type = domain.PlaceType(typ)
	p.DistanceUnit = domain.Unit(unit)
	if distance.Valid {
		km := distance.Float64
		p.DistanceKm = &km
	}

	return &p, nil
}

func nullDistance(km *float64) sql.NullFloat64 {
	if km == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *km, Valid: true}
}

// Return places matching filter, newest first.
func (s *PostgresPlaceRepository) ListPlaces(ctx context.Context, filter ports.PlaceFilter) ([]*domain.Place, error) {
	if s.DB == nil {
		return nil, errors.New("postgres place repository: DB is nil")
	}

	var (
		where []string
		args  []any
	)
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.Archived != nil {
		args = append(args, *filter.Archived)
		where = append(where, fmt.Sprintf("archived = $%d", len(args)))
	}

	query := "SELECT" + placeColumns + "\n\tFROM places"
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tORDER BY created_at DESC, id;"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list places: query places table: %w", err)
	}
	defer rows.Close()

	places := make([]*domain.Place, 0, 64)
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, fmt.Errorf("list places: scan row: %w", err)
		}
		places = append(places, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list places: row iteration: %w", err)
	}

	return places, nil
}

func (s *PostgresPlaceRepository) GetPlace(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	if s.DB == nil {
		return nil, errors.New("postgres place repository: DB is nil")
	}

	query := "SELECT" + placeColumns + "\n\tFROM places\n\tWHERE id = $1;"

	p, err := scanPlace(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get place %s: %w", id, ports.ErrPlaceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get place %s: %w", id, err)
	}

	return p, nil
}

func (s *PostgresPlaceRepository) CreatePlace(ctx context.Context, p *domain.Place) error {
	if s.DB == nil {
		return errors.New("postgres place repository: DB is nil")
	}

	query := `
	INSERT INTO places (` + placeColumns + `
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := s.DB.ExecContext(ctx, query,
		p.ID,
		p.Name,
		string(p.Type),
		p.Address,
		nullDistance(p.DistanceKm),
		string(p.DistanceUnit),
		p.Notes,
		p.Visited,
		p.Rating,
		p.Archived,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create place %s: %w", p.ID, err)
	}

	return nil
}

func (s *PostgresPlaceRepository) UpdatePlace(ctx context.Context, p *domain.Place) error {
	if s.DB == nil {
		return errors.New("postgres place repository: DB is nil")
	}

	query := `
	UPDATE places SET
		name = $2,
		address = $3,
		distance_km = $4,
		distance_unit = $5,
		notes = $6,
		visited = $7,
		rating = $8,
		archived = $9,
		updated_at = $10
	WHERE id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Address,
		nullDistance(p.DistanceKm),
		string(p.DistanceUnit),
		p.Notes,
		p.Visited,
		p.Rating,
		p.Archived,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update place %s: %w", p.ID, err)
	}

	return expectOneRow(res, "update place", p.ID)
}

func (s *PostgresPlaceRepository) DeletePlace(ctx context.Context, id uuid.UUID) error {
	if s.DB == nil {
		return errors.New("postgres place repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM places WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete place %s: %w", id, err)
	}

	return expectOneRow(res, "delete place", id)
}

func (s *PostgresPlaceRepository) SetAllArchived(ctx context.Context, archived bool, at time.Time) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("postgres place repository: DB is nil")
	}

	query := `
	UPDATE places SET
		archived = $1,
		updated_at = $2
	WHERE archived <> $1;
	`
	res, err := s.DB.ExecContext(ctx, query, archived, at)
	if err != nil {
		return 0, fmt.Errorf("set all archived=%t: %w", archived, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set all archived=%t: rows affected: %w", archived, err)
	}
	return n, nil
}

func expectOneRow(res sql.Result, op string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: rows affected: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ports.ErrPlaceNotFound)
	}
	return nil
}
