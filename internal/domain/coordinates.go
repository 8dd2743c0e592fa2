package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates in degrees.
// Produced by a successful geocode and consumed immediately by Haversine.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Validate rejects NaN/Inf and out-of-range coordinates.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("invalid latitude %v", c.Lat)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) || c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("invalid longitude %v", c.Lon)
	}
	return nil
}
