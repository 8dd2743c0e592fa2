package ports

import (
	"context"
	"errors"
	"time"
	"trip-planner-service/internal/domain"

	"github.com/google/uuid"
)

var ErrPlaceNotFound = errors.New("place not found")

// Filter applied when listing places. Nil fields are not filtered on.
type PlaceFilter struct {
	Type     *domain.PlaceType
	Archived *bool
}

// Port: a boundary for storing and retrieving Place entities.
type PlaceRepository interface {
	ListPlaces(ctx context.Context, filter PlaceFilter) ([]*domain.Place, error)
	GetPlace(ctx context.Context, id uuid.UUID) (*domain.Place, error)
	CreatePlace(ctx context.Context, p *domain.Place) error
	UpdatePlace(ctx context.Context, p *domain.Place) error
	DeletePlace(ctx context.Context, id uuid.UUID) error
	// SetAllArchived flips every place whose flag differs from archived and
	// returns the number of places changed.
	SetAllArchived(ctx context.Context, archived bool, at time.Time) (int64, error)
}
