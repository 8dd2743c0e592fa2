package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Unit of a distance magnitude.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "mi"
)

// Fixed conversion factor. Kept at this precision so stored values
// reproduce across implementations.
const KmPerMile = 1.60934

var ErrUnsupportedUnit = errors.New("unsupported distance unit")

// ParseUnit accepts "km" or "mi" (case-insensitive, surrounding spaces ignored).
// Any other value is rejected rather than silently treated as miles.
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case Kilometers:
		return Kilometers, nil
	case Miles:
		return Miles, nil
	}
	return "", fmt.Errorf("parse unit %q: %w", s, ErrUnsupportedUnit)
}

func (u Unit) Valid() bool {
	return u == Kilometers || u == Miles
}

func (u Unit) String() string { return string(u) }

// ConvertDistance converts value between units without rounding.
//
// Converting to the same unit returns value unchanged. km -> mi divides by
// KmPerMile; every other pair multiplies, so an unrecognized unit behaves as
// miles. Entry points validate units with ParseUnit before calling this.
func ConvertDistance(value float64, from, to Unit) float64 {
	if from == to {
		return value
	}

	if from == Kilometers && to == Miles {
		return value / KmPerMile
	}
	return value * KmPerMile
}

// Round1 rounds v to one decimal place, half away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
