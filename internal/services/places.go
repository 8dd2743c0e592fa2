package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidPlace reports place input rejected before it reaches storage.
	ErrInvalidPlace = errors.New("invalid place")
	ErrInvalidTrip  = errors.New("invalid trip")
)

// TripDates bound the trip being archived. Both must be set.
type TripDates struct {
	Start time.Time
	End   time.Time
}

// distanceResolver is the part of Engine the place service depends on.
type distanceResolver interface {
	Resolve(ctx context.Context, origin, destination string, unit domain.Unit) (DistanceResult, error)
}

type CreatePlaceInput struct {
	Name    string
	Type    domain.PlaceType
	Address string
	Notes   string
	Rating  int
	Unit    domain.Unit
}

// Nil fields are left unchanged.
type UpdatePlaceInput struct {
	Name    *string
	Address *string
	Notes   *string
	Rating  *int
	Unit    domain.Unit
}

// PlaceService manages trip places and keeps each place's distance from
// the base location up to date.
//
// A failed distance lookup never blocks saving: the place is stored with
// an unresolved distance instead.
type PlaceService struct {
	repo         ports.PlaceRepository
	distances    distanceResolver
	baseLocation string
	now          func() time.Time
	log          *zap.Logger
}

func NewPlaceService(
	repo ports.PlaceRepository,
	distances distanceResolver,
	baseLocation string,
	log *zap.Logger,
) *PlaceService {
	if log == nil {
		log = zap.NewNop()
	}

	return &PlaceService{
		repo:         repo,
		distances:    distances,
		baseLocation: strings.TrimSpace(baseLocation),
		now:          time.Now,
		log:          log,
	}
}

func (s *PlaceService) BaseLocation() string { return s.baseLocation }

func (s *PlaceService) CreatePlace(ctx context.Context, in CreatePlaceInput) (*domain.Place, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("create place: %w: name must be non-empty", ErrInvalidPlace)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("create place: %w: type %q", ErrInvalidPlace, in.Type)
	}
	address := strings.TrimSpace(in.Address)
	if address == "" {
		return nil, fmt.Errorf("create place: %w: address must be non-empty", ErrInvalidPlace)
	}
	if !in.Unit.Valid() {
		return nil, fmt.Errorf("create place: %w: %w", ErrInvalidPlace, domain.ErrUnsupportedUnit)
	}

	now := s.now().UTC()
	p := &domain.Place{
		ID:        uuid.New(),
		Name:      name,
		Type:      in.Type,
		Address:   address,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Rate(in.Rating); err != nil {
		return nil, fmt.Errorf("create place: %w: %w", ErrInvalidPlace, err)
	}

	s.refreshDistance(ctx, p, in.Unit)

	if err := s.repo.CreatePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}

	return p, nil
}

func (s *PlaceService) UpdatePlace(ctx context.Context, id uuid.UUID, in UpdatePlaceInput) (*domain.Place, error) {
	p, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update place %s: %w", id, err)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("update place: %w: name must be non-empty", ErrInvalidPlace)
		}
		p.Name = name
	}

	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	if in.Rating != nil {
		if err := p.Rate(*in.Rating); err != nil {
			return nil, fmt.Errorf("update place: %w: %w", ErrInvalidPlace, err)
		}
	}

	if in.Address != nil {
		address := strings.TrimSpace(*in.Address)
		if address == "" {
			return nil, fmt.Errorf("update place: %w: address must be non-empty", ErrInvalidPlace)
		}
		if !in.Unit.Valid() {
			return nil, fmt.Errorf("update place: %w: %w", ErrInvalidPlace, domain.ErrUnsupportedUnit)
		}
		// An unresolved distance is retried even when the address is unchanged.
		if address != p.Address || p.DistanceKm == nil {
			p.Address = address
			s.refreshDistance(ctx, p, in.Unit)
		}
	}

	p.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdatePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("update place %s: %w", id, err)
	}

	return p, nil
}

func (s *PlaceService) ToggleVisited(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	p, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("toggle visited %s: %w", id, err)
	}

	p.Visited = !p.Visited
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdatePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("toggle visited %s: %w", id, err)
	}
	return p, nil
}

func (s *PlaceService) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*domain.Place, error) {
	p, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("archive place %s: %w", id, err)
	}

	p.Archived = archived
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdatePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("archive place %s: %w", id, err)
	}
	return p, nil
}

// ArchiveAll archives every active place and reports how many changed.
// It refuses to run until the trip dates are known.
func (s *PlaceService) ArchiveAll(ctx context.Context, trip TripDates) (int64, error) {
	if trip.Start.IsZero() || trip.End.IsZero() {
		return 0, fmt.Errorf("archive trip: %w: trip dates must be set", ErrInvalidTrip)
	}
	if trip.End.Before(trip.Start) {
		return 0, fmt.Errorf("archive trip: %w: end date before start date", ErrInvalidTrip)
	}

	n, err := s.repo.SetAllArchived(ctx, true, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("archive trip: %w", err)
	}

	s.log.Info("trip archived",
		zap.Time("start", trip.Start),
		zap.Time("end", trip.End),
		zap.Int64("places", n),
	)
	return n, nil
}

// UnarchiveAll restores every archived place and reports how many changed.
func (s *PlaceService) UnarchiveAll(ctx context.Context) (int64, error) {
	n, err := s.repo.SetAllArchived(ctx, false, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("unarchive trip: %w", err)
	}
	return n, nil
}

func (s *PlaceService) GetPlace(ctx context.Context, id uuid.UUID) (*domain.Place, error) {
	p, err := s.repo.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get place %s: %w", id, err)
	}
	return p, nil
}

func (s *PlaceService) ListPlaces(ctx context.Context, filter ports.PlaceFilter) ([]*domain.Place, error) {
	places, err := s.repo.ListPlaces(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	return places, nil
}

func (s *PlaceService) DeletePlace(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePlace(ctx, id); err != nil {
		return fmt.Errorf("delete place %s: %w", id, err)
	}
	return nil
}

// refreshDistance recomputes p's distance from the base location.
// Failures leave the distance unresolved.
func (s *PlaceService) refreshDistance(ctx context.Context, p *domain.Place, unit domain.Unit) {
	if s.baseLocation == "" {
		s.log.Warn("no base location configured, distance left unresolved",
			zap.String("place_id", p.ID.String()))
		p.ClearDistance(unit)
		return
	}

	res, err := s.distances.Resolve(ctx, s.baseLocation, p.Address, unit)
	if err != nil || !res.Resolved {
		s.log.Warn("distance lookup failed, distance left unresolved",
			zap.String("place_id", p.ID.String()),
			zap.String("address", p.Address),
			zap.Error(err),
		)
		p.ClearDistance(unit)
		return
	}

	p.SetDistance(res.Km, unit)
}
