// Package geo provides the spherical coordinate projection shared by the
// clustering and heatmap layers.
//
// Every component that needs a world-space position for a threat record must
// go through ProjectLatLng so that a clustered point and its un-clustered
// counterpart never diverge in position.
package geo

import (
	"math"
)

// DefaultGlobeRadius is the radius of the render globe in world units.
const DefaultGlobeRadius = 10.0

// Vec3 is a point in world-frame Cartesian coordinates.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the component-wise sum of two vectors.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference of two vectors.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns the vector multiplied by a scalar.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Length returns the Euclidean magnitude of the vector.
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// ProjectLatLng converts geographic coordinates to a Cartesian point on the
// sphere of the given radius.
//
// Latitude +90° maps to the north pole (+Y), longitude wraps at ±180°.
// The transform is total: out-of-range inputs are clamped/wrapped first, so
// the function never produces NaN, including exactly at the poles where
// sin(phi) reaches zero.
func ProjectLatLng(latDeg, lonDeg, radius float64) Vec3 {
	latDeg, lonDeg = ClampLatLng(latDeg, lonDeg)

	// phi is the polar angle from the north pole, theta the azimuth.
	phi := (90.0 - latDeg) * math.Pi / 180.0
	theta := (lonDeg + 180.0) * math.Pi / 180.0

	sinPhi := math.Sin(phi)

	return Vec3{
		X: -radius * sinPhi * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * sinPhi * math.Sin(theta),
	}
}

// ClampLatLng normalises geographic coordinates into their legal ranges.
// Latitude is clamped to [-90, 90]; longitude wraps around ±180 so that a
// record at 181° renders at -179° rather than being rejected. Malformed
// coordinates degrade to a renderable position, they never fail.
func ClampLatLng(latDeg, lonDeg float64) (float64, float64) {
	if math.IsNaN(latDeg) {
		latDeg = 0
	}
	if math.IsNaN(lonDeg) {
		lonDeg = 0
	}

	if latDeg > 90 {
		latDeg = 90
	} else if latDeg < -90 {
		latDeg = -90
	}

	// Wrap longitude into [-180, 180).
	lonDeg = math.Mod(lonDeg+180.0, 360.0)
	if lonDeg < 0 {
		lonDeg += 360.0
	}
	lonDeg -= 180.0

	return latDeg, lonDeg
}
