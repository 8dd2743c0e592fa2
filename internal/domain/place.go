package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PlaceType string

const (
	Restaurant PlaceType = "restaurant"
	Activity   PlaceType = "activity"
)

func (t PlaceType) Valid() bool {
	return t == Restaurant || t == Activity
}

const MaxRating = 5

// Represents a candidate restaurant or activity recorded for a trip.
// DistanceKm is the great-circle distance from the base location at the
// time the address was last set; nil means the lookup did not resolve.
// DistanceUnit is the unit the user had selected when it was computed.
type Place struct {
	ID           uuid.UUID
	Name         string
	Type         PlaceType
	Address      string
	DistanceKm   *float64
	DistanceUnit Unit
	Notes        string
	Visited      bool
	Rating       int
	Archived     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DistanceIn returns the stored distance converted to u, rounded for display.
// The boolean is false when the distance is unresolved.
func (p *Place) DistanceIn(u Unit) (Distance, bool) {
	if p.DistanceKm == nil {
		return Distance{}, false
	}
	return Km(*p.DistanceKm).In(u).Rounded(), true
}

// SetDistance records an unrounded distance in kilometers together with the
// unit that was selected when it was computed. Rounding happens only in
// DistanceIn.
func (p *Place) SetDistance(km float64, u Unit) {
	p.DistanceKm = &km
	p.DistanceUnit = u
}

// ClearDistance marks the distance as unresolved.
func (p *Place) ClearDistance(u Unit) {
	p.DistanceKm = nil
	p.DistanceUnit = u
}

// Rate sets the star rating.
func (p *Place) Rate(rating int) error {
	if rating < 0 || rating > MaxRating {
		return fmt.Errorf("rate place: rating %d out of range 0..%d", rating, MaxRating)
	}
	p.Rating = rating
	return nil
}
