package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
)

var _ ports.PlaceRepository = (*MemoryPlaceRepository)(nil)

// In-memory implementation of the PlaceRepository port, used when no
// database is configured. Contents are lost on restart.
type MemoryPlaceRepository struct {
	mu     sync.RWMutex
	places map[uuid.UUID]domain.Place
}

func NewMemoryPlaceRepository() *MemoryPlaceRepository {
	return &MemoryPlaceRepository{places: make(map[uuid.UUID]domain.Place)}
}

func (m *MemoryPlaceRepository) ListPlaces(_ context.Context, filter ports.PlaceFilter) ([]*domain.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	places := make([]*domain.Place, 0, len(m.places))
	for _, p := range m.places {
		if filter.Type != nil && p.Type != *filter.Type {
			continue
		}
		if filter.Archived != nil && p.Archived != *filter.Archived {
			continue
		}
		places = append(places, clonePlace(p))
	}

	sort.Slice(places, func(i, j int) bool {
		if !places[i].CreatedAt.Equal(places[j].CreatedAt) {
			return places[i].CreatedAt.After(places[j].CreatedAt)
		}
		return places[i].ID.String() < places[j].ID.String()
	})

	return places, nil
}

func (m *MemoryPlaceRepository) GetPlace(_ context.Context, id uuid.UUID) (*domain.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.places[id]
	if !ok {
		return nil, fmt.Errorf("get place %s: %w", id, ports.ErrPlaceNotFound)
	}
	return clonePlace(p), nil
}

func (m *MemoryPlaceRepository) CreatePlace(_ context.Context, p *domain.Place) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.places[p.ID]; ok {
		return fmt.Errorf("create place %s: duplicate id", p.ID)
	}
	m.places[p.ID] = *clonePlace(*p)
	return nil
}

func (m *MemoryPlaceRepository) UpdatePlace(_ context.Context, p *domain.Place) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.places[p.ID]
	if !ok {
		return fmt.Errorf("update place %s: %w", p.ID, ports.ErrPlaceNotFound)
	}

	next := *clonePlace(*p)
	next.Type = prev.Type
	next.CreatedAt = prev.CreatedAt
	m.places[p.ID] = next
	return nil
}

func (m *MemoryPlaceRepository) DeletePlace(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.places[id]; !ok {
		return fmt.Errorf("delete place %s: %w", id, ports.ErrPlaceNotFound)
	}
	delete(m.places, id)
	return nil
}

func (m *MemoryPlaceRepository) SetAllArchived(_ context.Context, archived bool, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, p := range m.places {
		if p.Archived == archived {
			continue
		}
		p.Archived = archived
		p.UpdatedAt = at
		m.places[id] = p
		n++
	}
	return n, nil
}

// clonePlace copies p so callers never share the distance pointer with
// stored state.
func clonePlace(p domain.Place) *domain.Place {
	if p.DistanceKm != nil {
		km := *p.DistanceKm
		p.DistanceKm = &km
	}
	return &p
}
