// Package geo provides location acquisition and reverse geocoding.
package geo

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied means the user refused access to their position.
	ErrPermissionDenied = errors.New("location access denied")
	// ErrUnsupported means no location capability exists on this platform.
	ErrUnsupported = errors.New("geolocation is not supported")
	// ErrUnavailable covers every other acquisition failure.
	ErrUnavailable = errors.New("location unavailable")
	ErrNoAddress   = errors.New("no address for coordinates")
)

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// String formats the pair with six decimals, e.g. "48.856600, 2.352200".
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Latitude, c.Longitude)
}

// Locator acquires the current position once.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// ReverseGeocoder turns coordinates into a human-readable address.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, c Coordinates) (string, error)
}

// StaticLocator returns a fixed position or a fixed error.
type StaticLocator struct {
	Coords Coordinates
	Err    error
}

func (l StaticLocator) Locate(ctx context.Context) (Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	if l.Err != nil {
		return Coordinates{}, l.Err
	}
	return l.Coords, nil
}

// EnvLocator stands in for platform geolocation in a terminal: configured
// coordinates are returned as-is, and a missing pair reports ErrUnsupported.
func EnvLocator(lat, lon *float64) Locator {
	if lat == nil || lon == nil {
		return StaticLocator{Err: ErrUnsupported}
	}
	return StaticLocator{Coords: Coordinates{Latitude: *lat, Longitude: *lon}}
}
