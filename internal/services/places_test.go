package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/geocode"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCreateRepo struct {
	ports.PlaceRepository
	err error
}

func (r failingCreateRepo) CreatePlace(context.Context, *domain.Place) error { return r.err }

func newTestPlaceService(t *testing.T, base string) (*PlaceService, ports.PlaceRepository) {
	t.Helper()
	return newTestPlaceServiceWithRepo(t, base, repositories.NewMemoryPlaceRepository())
}

func newTestPlaceServiceWithRepo(t *testing.T, base string, repo ports.PlaceRepository) (*PlaceService, ports.PlaceRepository) {
	t.Helper()

	engine, err := NewEngine(geocode.NewMockGeocoder(cities), time.Second, nil)
	require.NoError(t, err)

	svc := NewPlaceService(repo, engine, base, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestPlaceServiceCreateComputesDistanceFromBase(t *testing.T) {
	svc, repo := newTestPlaceService(t, "New York, NY")

	p, err := svc.CreatePlace(context.Background(), CreatePlaceInput{
		Name:    "  Griffith Observatory ",
		Type:    domain.Activity,
		Address: "Los Angeles, CA",
		Rating:  4,
		Unit:    domain.Miles,
	})
	require.NoError(t, err)

	assert.Equal(t, "Griffith Observatory", p.Name)
	assert.Equal(t, domain.Miles, p.DistanceUnit)
	require.NotNil(t, p.DistanceKm)
	assert.InDelta(t, 3935.75, *p.DistanceKm, 5)

	d, ok := p.DistanceIn(domain.Miles)
	require.True(t, ok)
	assert.InDelta(t, 2445.6, d.Value, 5)

	stored, err := repo.GetPlace(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.DistanceKm, stored.DistanceKm)
	assert.Equal(t, 4, stored.Rating)
}

func TestPlaceServiceCreateUnresolvedStoresNoDistance(t *testing.T) {
	svc, _ := newTestPlaceService(t, "New York, NY")

	p, err := svc.CreatePlace(context.Background(), CreatePlaceInput{
		Name:    "Nowhere Diner",
		Type:    domain.Restaurant,
		Address: "Atlantis",
		Unit:    domain.Kilometers,
	})
	require.NoError(t, err)

	assert.Nil(t, p.DistanceKm)
	_, ok := p.DistanceIn(domain.Kilometers)
	assert.False(t, ok)
}

func TestPlaceServiceCreateWithoutBaseLocation(t *testing.T) {
	svc, _ := newTestPlaceService(t, "  ")

	p, err := svc.CreatePlace(context.Background(), CreatePlaceInput{
		Name:    "Pier",
		Type:    domain.Activity,
		Address: "Chicago, IL",
		Unit:    domain.Miles,
	})
	require.NoError(t, err)
	assert.Nil(t, p.DistanceKm)
}

func TestPlaceServiceCreateValidation(t *testing.T) {
	svc, repo := newTestPlaceService(t, "New York, NY")

	tests := []struct {
		name string
		in   CreatePlaceInput
	}{
		{"empty name", CreatePlaceInput{Type: domain.Activity, Address: "Chicago, IL", Unit: domain.Miles}},
		{"bad type", CreatePlaceInput{Name: "x", Type: "museum", Address: "Chicago, IL", Unit: domain.Miles}},
		{"empty address", CreatePlaceInput{Name: "x", Type: domain.Activity, Unit: domain.Miles}},
		{"bad unit", CreatePlaceInput{Name: "x", Type: domain.Activity, Address: "Chicago, IL", Unit: "ft"}},
		{"bad rating", CreatePlaceInput{Name: "x", Type: domain.Activity, Address: "Chicago, IL", Unit: domain.Miles, Rating: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePlace(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrInvalidPlace)
		})
	}

	stored, err := repo.ListPlaces(context.Background(), ports.PlaceFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestPlaceServiceCreateRepositoryError(t *testing.T) {
	diskFull := errors.New("disk full")
	svc, _ := newTestPlaceServiceWithRepo(t, "New York, NY",
		failingCreateRepo{PlaceRepository: repositories.NewMemoryPlaceRepository(), err: diskFull})

	_, err := svc.CreatePlace(context.Background(), CreatePlaceInput{
		Name: "x", Type: domain.Activity, Address: "Chicago, IL", Unit: domain.Miles,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, diskFull)
}

func TestPlaceServiceUpdateAddressRecomputesDistance(t *testing.T) {
	svc, _ := newTestPlaceService(t, "New York, NY")
	ctx := context.Background()

	p, err := svc.CreatePlace(ctx, CreatePlaceInput{
		Name: "Deep dish", Type: domain.Restaurant, Address: "Chicago, IL", Unit: domain.Miles,
	})
	require.NoError(t, err)
	before := *p.DistanceKm

	addr := "Los Angeles, CA"
	updated, err := svc.UpdatePlace(ctx, p.ID, UpdatePlaceInput{Address: &addr, Unit: domain.Kilometers})
	require.NoError(t, err)

	require.NotNil(t, updated.DistanceKm)
	assert.NotEqual(t, before, *updated.DistanceKm)
	assert.InDelta(t, 3935.75, *updated.DistanceKm, 5)
	assert.Equal(t, domain.Kilometers, updated.DistanceUnit)
	assert.Equal(t, "Los Angeles, CA", updated.Address)
}

func TestPlaceServiceUpdateWithoutAddressKeepsDistance(t *testing.T) {
	svc, _ := newTestPlaceService(t, "New York, NY")
	ctx := context.Background()

	p, err := svc.CreatePlace(ctx, CreatePlaceInput{
		Name: "Deep dish", Type: domain.Restaurant, Address: "Chicago, IL", Unit: domain.Miles,
	})
	require.NoError(t, err)

	name := "Deep dish pizza"
	notes := "order the giardiniera"
	rating := 5
	updated, err := svc.UpdatePlace(ctx, p.ID, UpdatePlaceInput{Name: &name, Notes: &notes, Rating: &rating})
	require.NoError(t, err)

	assert.Equal(t, name, updated.Name)
	assert.Equal(t, notes, updated.Notes)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, *p.DistanceKm, *updated.DistanceKm)
	assert.Equal(t, domain.Miles, updated.DistanceUnit)
}

func TestPlaceServiceUpdateNotFound(t *testing.T) {
	svc, _ := newTestPlaceService(t, "New York, NY")

	_, err := svc.UpdatePlace(context.Background(), uuid.New(), UpdatePlaceInput{})
	assert.ErrorIs(t, err, ports.ErrPlaceNotFound)
}

func TestPlaceServiceToggleVisitedAndArchive(t *testing.T) {
	svc, _ := newTestPlaceService(t, "New York, NY")
	ctx := context.Background()

	p, err := svc.CreatePlace(ctx, CreatePlaceInput{
		Name: "Museum", Type: domain.Activity, Address: "Chicago, IL", Unit: domain.Miles,
	})
	require.NoError(t, err)

	got, err := svc.ToggleVisited(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Visited)

	got, err = svc.ToggleVisited(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Visited)

	got, err = svc.SetArchived(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Archived)

	archived := false
	active, err := svc.ListPlaces(ctx, ports.PlaceFilter{Archived: &archived})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestPlaceServiceListAndDelete(t *testing.T) {
	svc, _ := newTestPlaceService(t, "New York, NY")
	ctx := context.Background()

	for _, in := range []CreatePlaceInput{
		{Name: "a", Type: domain.Restaurant, Address: "Chicago, IL", Unit: domain.Miles},
		{Name: "b", Type: domain.Activity, Address: "Boston, MA", Unit: domain.Miles},
	} {
		_, err := svc.CreatePlace(ctx, in)
		require.NoError(t, err)
	}

	restaurant := domain.Restaurant
	got, err := svc.ListPlaces(ctx, ports.PlaceFilter{Type: &restaurant})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)

	require.NoError(t, svc.DeletePlace(ctx, got[0].ID))

	_, err = svc.GetPlace(ctx, got[0].ID)
	assert.ErrorIs(t, err, ports.ErrPlaceNotFound)
	assert.ErrorIs(t, svc.DeletePlace(ctx, got[0].ID), ports.ErrPlaceNotFound)
}

func TestPlaceServiceStoredDistanceIndependentOfUnit(t *testing.T) {
	svc, _ := newTestPlaceService(t, "New York, NY")
	ctx := context.Background()

	var shown []domain.Distance
	for _, unit := range []domain.Unit{domain.Miles, domain.Kilometers} {
		p, err := svc.CreatePlace(ctx, CreatePlaceInput{
			Name: "Observatory", Type: domain.Activity, Address: "Los Angeles, CA", Unit: unit,
		})
		require.NoError(t, err)

		want := domain.Haversine(cities["New York, NY"], cities["Los Angeles, CA"])
		require.NotNil(t, p.DistanceKm)
		assert.Equal(t, want, *p.DistanceKm)
		assert.Equal(t, unit, p.DistanceUnit)

		d, ok := p.DistanceIn(domain.Kilometers)
		require.True(t, ok)
		shown = append(shown, d)
	}

	assert.Equal(t, shown[0], shown[1])
	assert.Equal(t, 3935.7, shown[0].Value)
}

// flakyGeocoder fails the first n lookups, then defers to next.
type flakyGeocoder struct {
	next     ports.Geocoder
	failures atomic.Int64
}

func (g *flakyGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	if g.failures.Add(-1) >= 0 {
		return domain.Coordinates{}, errors.New("upstream unavailable")
	}
	return g.next.Geocode(ctx, address)
}

func TestPlaceServiceUpdateRetriesUnresolvedDistance(t *testing.T) {
	g := &flakyGeocoder{next: geocode.NewMockGeocoder(cities)}
	g.failures.Store(2)

	engine, err := NewEngine(g, time.Second, nil)
	require.NoError(t, err)
	svc := NewPlaceService(repositories.NewMemoryPlaceRepository(), engine, "New York, NY", nil)
	ctx := context.Background()

	p, err := svc.CreatePlace(ctx, CreatePlaceInput{
		Name: "Deep dish", Type: domain.Restaurant, Address: "Chicago, IL", Unit: domain.Miles,
	})
	require.NoError(t, err)
	require.Nil(t, p.DistanceKm)

	same := "Chicago, IL"
	updated, err := svc.UpdatePlace(ctx, p.ID, UpdatePlaceInput{Address: &same, Unit: domain.Miles})
	require.NoError(t, err)
	require.NotNil(t, updated.DistanceKm)
	assert.InDelta(t, 1144.3, *updated.DistanceKm, 1)
}

func TestPlaceServiceArchiveAllRequiresTripDates(t *testing.T) {
	svc, _ := newTestPlaceService(t, "New York, NY")
	ctx := context.Background()

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		trip TripDates
	}{
		{"no dates", TripDates{}},
		{"no end", TripDates{Start: start}},
		{"no start", TripDates{End: end}},
		{"end before start", TripDates{Start: end, End: start}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ArchiveAll(ctx, tt.trip)
			assert.ErrorIs(t, err, ErrInvalidTrip)
		})
	}
}

func TestPlaceServiceArchiveAndUnarchiveAll(t *testing.T) {
	svc, repo := newTestPlaceService(t, "New York, NY")
	ctx := context.Background()

	var ids []uuid.UUID
	for _, name := range []string{"a", "b", "c"} {
		p, err := svc.CreatePlace(ctx, CreatePlaceInput{
			Name: name, Type: domain.Activity, Address: "Chicago, IL", Unit: domain.Miles,
		})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	_, err := svc.SetArchived(ctx, ids[0], true)
	require.NoError(t, err)

	trip := TripDates{
		Start: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC),
	}
	n, err := svc.ArchiveAll(ctx, trip)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	active := false
	left, err := repo.ListPlaces(ctx, ports.PlaceFilter{Archived: &active})
	require.NoError(t, err)
	assert.Empty(t, left)

	n, err = svc.UnarchiveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	left, err = repo.ListPlaces(ctx, ports.PlaceFilter{Archived: &active})
	require.NoError(t, err)
	assert.Len(t, left, 3)
}
