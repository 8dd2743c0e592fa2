package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"
	"trip-planner-service/internal/adapters/geocode"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var cities = map[string]domain.Coordinates{
	"New York, NY":    {Lat: 40.7128, Lon: -74.0060},
	"Los Angeles, CA": {Lat: 34.0522, Lon: -118.2437},
	"Chicago, IL":     {Lat: 41.8781, Lon: -87.6298},
	"Houston, TX":     {Lat: 29.7604, Lon: -95.3698},
	"London, UK":      {Lat: 51.5074, Lon: -0.1278},
	"Paris, FR":       {Lat: 48.8566, Lon: 2.3522},
}

func newTestEngine(t *testing.T, g ports.Geocoder) *Engine {
	t.Helper()
	e, err := NewEngine(g, time.Second, zap.NewNop())
	require.NoError(t, err)
	return e
}

func TestComputeDistanceNewYorkLosAngeles(t *testing.T) {
	e := newTestEngine(t, geocode.NewMockGeocoder(cities))
	ctx := context.Background()

	km := e.ComputeDistance(ctx, "New York, NY", "Los Angeles, CA", domain.Kilometers)
	assert.InDelta(t, 3935.75, km, 5)

	mi := e.ComputeDistance(ctx, "New York, NY", "Los Angeles, CA", domain.Miles)
	assert.InDelta(t, 2445.6, mi, 5)

	// one decimal place
	assert.Equal(t, domain.Round1(mi), mi)
	assert.Equal(t, domain.Round1(km), km)
}

func TestComputeDistanceUnresolvedReturnsZero(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	e, err := NewEngine(geocode.NewMockGeocoder(cities), time.Second, zap.New(core))
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, 0.0, e.ComputeDistance(ctx, "Atlantis", "Paris, FR", domain.Miles))
	assert.Equal(t, 0.0, e.ComputeDistance(ctx, "Paris, FR", "Atlantis", domain.Kilometers))

	// one warning per failed call
	entries := logs.All()
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, "distance lookup failed, defaulting to 0", entry.Message)
	}
}

func TestResolveKeepsUnroundedKilometers(t *testing.T) {
	e := newTestEngine(t, geocode.NewMockGeocoder(cities))
	ctx := context.Background()

	mi, err := e.Resolve(ctx, "New York, NY", "Los Angeles, CA", domain.Miles)
	require.NoError(t, err)
	km, err := e.Resolve(ctx, "New York, NY", "Los Angeles, CA", domain.Kilometers)
	require.NoError(t, err)

	want := domain.Haversine(cities["New York, NY"], cities["Los Angeles, CA"])
	assert.Equal(t, want, mi.Km)
	assert.Equal(t, want, km.Km)
	assert.Equal(t, domain.Round1(want), km.Distance.Value)
}

func TestResolveReportsUnresolved(t *testing.T) {
	e := newTestEngine(t, geocode.NewMockGeocoder(cities))

	res, err := e.Resolve(context.Background(), "Atlantis", "Paris, FR", domain.Kilometers)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrAddressNotFound))
	assert.False(t, res.Resolved)
}

func TestResolveSamePlaceIsZero(t *testing.T) {
	e := newTestEngine(t, geocode.NewMockGeocoder(cities))

	res, err := e.Resolve(context.Background(), "Paris, FR", "Paris, FR", domain.Miles)
	require.NoError(t, err)
	assert.True(t, res.Resolved)
	assert.Equal(t, domain.Distance{Value: 0, Unit: domain.Miles}, res.Distance)
}

func TestResolveRejectsUnsupportedUnit(t *testing.T) {
	g := geocode.NewMockGeocoder(cities)
	e := newTestEngine(t, g)

	_, err := e.Resolve(context.Background(), "Paris, FR", "London, UK", domain.Unit("yd"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedUnit))
	assert.Equal(t, int64(0), g.Calls())

	assert.Equal(t, 0.0, e.ComputeDistance(context.Background(), "Paris, FR", "London, UK", domain.Unit("yd")))
}

type nanGeocoder struct{}

func (nanGeocoder) Geocode(context.Context, string) (domain.Coordinates, error) {
	return domain.Coordinates{Lat: 0, Lon: math.NaN()}, nil
}

func TestResolveTreatsNaNAsUnresolved(t *testing.T) {
	e := newTestEngine(t, nanGeocoder{})

	res, err := e.Resolve(context.Background(), "a", "b", domain.Kilometers)
	require.Error(t, err)
	assert.False(t, res.Resolved)
}

type blockingGeocoder struct{}

func (blockingGeocoder) Geocode(ctx context.Context, _ string) (domain.Coordinates, error) {
	<-ctx.Done()
	return domain.Coordinates{}, ctx.Err()
}

func TestComputeDistanceAppliesTimeout(t *testing.T) {
	e, err := NewEngine(blockingGeocoder{}, 20*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	start := time.Now()
	got := e.ComputeDistance(context.Background(), "a", "b", domain.Miles)
	assert.Equal(t, 0.0, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestComputeDistanceConcurrentInvocations(t *testing.T) {
	g := geocode.NewMockGeocoder(cities)
	e := newTestEngine(t, g)

	type job struct {
		from, to string
		unit     domain.Unit
	}
	var jobs []job
	for from := range cities {
		for to := range cities {
			for _, u := range []domain.Unit{domain.Kilometers, domain.Miles} {
				jobs = append(jobs, job{from, to, u})
			}
		}
	}

	want := make([]float64, len(jobs))
	for i, j := range jobs {
		km := domain.Haversine(cities[j.from], cities[j.to])
		want[i] = domain.Round1(domain.ConvertDistance(km, domain.Kilometers, j.unit))
	}

	got := make([]float64, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			got[i] = e.ComputeDistance(context.Background(), j.from, j.to, j.unit)
		}(i, j)
	}
	wg.Wait()

	for i := range jobs {
		if got[i] != want[i] {
			t.Errorf("%s -> %s (%s) = %v, want %v", jobs[i].from, jobs[i].to, jobs[i].unit, got[i], want[i])
		}
	}
	assert.Equal(t, int64(2*len(jobs)), g.Calls())
}

func TestNewEngineRequiresGeocoder(t *testing.T) {
	_, err := NewEngine(nil, 0, nil)
	require.Error(t, err)
}
