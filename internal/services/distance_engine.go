package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DistanceResult is the outcome of a distance lookup.
// Distance is rounded for display; Km is the unrounded great-circle
// distance for storage. Resolved is false when either address could not be
// geocoded, and the other fields are then zero and must not be read as
// "co-located".
type DistanceResult struct {
	Distance domain.Distance
	Km       float64
	Resolved bool
}

// Engine computes great-circle distances between free-text addresses.
//
// It holds no mutable state; concurrent calls are independent.
type Engine struct {
	geocoder ports.Geocoder
	timeout  time.Duration
	log      *zap.Logger
}

// NewEngine builds an Engine. A zero timeout disables the per-call deadline.
func NewEngine(geocoder ports.Geocoder, timeout time.Duration, log *zap.Logger) (*Engine, error) {
	if geocoder == nil {
		return nil, errors.New("distance engine: geocoder is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{geocoder: geocoder, timeout: timeout, log: log}, nil
}

// Resolve geocodes origin and destination concurrently and returns their
// haversine distance in unit, rounded to one decimal. On a resolution
// failure it returns an unresolved result together with the cause and
// leaves reporting it to the caller.
func (e *Engine) Resolve(
	ctx context.Context,
	origin string,
	destination string,
	unit domain.Unit,
) (_ DistanceResult, err error) {
	defer obs.Trace(ctx, e.log, "engine.Resolve")(&err)

	if !unit.Valid() {
		return DistanceResult{}, fmt.Errorf("resolve distance: %w", domain.ErrUnsupportedUnit)
	}

	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return DistanceResult{}, errors.New("resolve distance: origin and destination must be non-empty")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var from, to domain.Coordinates

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := e.geocoder.Geocode(gctx, origin)
		if err != nil {
			return fmt.Errorf("origin: %w", err)
		}
		from = c
		return nil
	})
	g.Go(func() error {
		c, err := e.geocoder.Geocode(gctx, destination)
		if err != nil {
			return fmt.Errorf("destination: %w", err)
		}
		to = c
		return nil
	})
	if err := g.Wait(); err != nil {
		return DistanceResult{}, fmt.Errorf("resolve distance %q -> %q: %w", origin, destination, err)
	}

	for _, c := range []domain.Coordinates{from, to} {
		if err := c.Validate(); err != nil {
			return DistanceResult{}, fmt.Errorf("resolve distance %q -> %q: %w", origin, destination, err)
		}
	}

	km := domain.Haversine(from, to)

	return DistanceResult{
		Distance: domain.Km(km).In(unit).Rounded(),
		Km:       km,
		Resolved: true,
	}, nil
}

// ComputeDistance returns the distance between origin and destination in
// unit, rounded to one decimal. It never fails: any resolution failure is
// logged and reported as 0 so callers are never blocked by it.
func (e *Engine) ComputeDistance(
	ctx context.Context,
	origin string,
	destination string,
	unit domain.Unit,
) float64 {
	res, err := e.Resolve(ctx, origin, destination, unit)
	if err != nil {
		e.log.Warn("distance lookup failed, defaulting to 0",
			zap.String("req_id", obs.RequestID(ctx)),
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.String("unit", unit.String()),
			zap.Error(err),
		)
		return 0
	}

	return res.Distance.Value
}
