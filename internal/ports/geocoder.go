package ports

import (
	"context"
	"errors"
	"trip-planner-service/internal/domain"
)

// ErrAddressNotFound reports that the lookup service returned no candidate.
var ErrAddressNotFound = errors.New("address not found")

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	// Return the best-match coordinates for address.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}
