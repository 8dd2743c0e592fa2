package geocode

import (
	"context"
	"fmt"
	"sync/atomic"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

var _ ports.Geocoder = (*MockGeocoder)(nil)

// MockGeocoder resolves addresses from a fixed table. Unknown addresses
// are reported as ports.ErrAddressNotFound. Safe for concurrent use.
type MockGeocoder struct {
	m     map[string]domain.Coordinates
	calls atomic.Int64
}

func NewMockGeocoder(table map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(table))
	for k, v := range table {
		m[normalize(k)] = v
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	g.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}

	c, ok := g.m[normalize(address)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", address, ports.ErrAddressNotFound)
	}

	return c, nil
}

// Calls returns the number of Geocode invocations so far.
func (g *MockGeocoder) Calls() int64 { return g.calls.Load() }
