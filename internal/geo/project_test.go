package geo

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestProjectLatLng_OnSphere(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
	}{
		{"equator_prime", 0, 0},
		{"equator_dateline", 0, 180},
		{"north_pole", 90, 0},
		{"south_pole", -90, 45},
		{"mid_latitude", 51.5, -0.13},
		{"southern", -33.9, 151.2},
	}

	const radius = 10.0
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ProjectLatLng(tc.lat, tc.lon, radius)
			if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsNaN(v.Z) {
				t.Fatalf("projection produced NaN: %+v", v)
			}
			if got := v.Length(); math.Abs(got-radius) > 1e-9 {
				t.Errorf("expected point on sphere of radius %v, got length %v", radius, got)
			}
		})
	}
}

func TestProjectLatLng_Poles(t *testing.T) {
	north := ProjectLatLng(90, 123.4, 10)
	if !almostEqual(north.Y, 10) {
		t.Errorf("north pole: expected Y=10, got %v", north.Y)
	}
	if math.Abs(north.X) > 1e-9 || math.Abs(north.Z) > 1e-9 {
		t.Errorf("north pole: expected X=Z=0, got X=%v Z=%v", north.X, north.Z)
	}

	south := ProjectLatLng(-90, -77, 10)
	if !almostEqual(south.Y, -10) {
		t.Errorf("south pole: expected Y=-10, got %v", south.Y)
	}
}

func TestProjectLatLng_ClampsMalformedInput(t *testing.T) {
	// Latitude beyond the pole clamps, longitude wraps.
	v := ProjectLatLng(120, 0, 10)
	want := ProjectLatLng(90, 0, 10)
	if !almostEqual(v.Y, want.Y) {
		t.Errorf("over-pole latitude should clamp to the pole: got %+v want %+v", v, want)
	}

	wrapped := ProjectLatLng(0, 190, 10)
	expected := ProjectLatLng(0, -170, 10)
	if !almostEqual(wrapped.X, expected.X) || !almostEqual(wrapped.Z, expected.Z) {
		t.Errorf("longitude 190 should wrap to -170: got %+v want %+v", wrapped, expected)
	}

	nan := ProjectLatLng(math.NaN(), math.NaN(), 10)
	if math.IsNaN(nan.X) || math.IsNaN(nan.Y) || math.IsNaN(nan.Z) {
		t.Errorf("NaN input must not propagate: %+v", nan)
	}
}

func TestClampLatLng_Wrapping(t *testing.T) {
	cases := []struct {
		lat, lon         float64
		wantLat, wantLon float64
	}{
		{0, 0, 0, 0},
		{91, 0, 90, 0},
		{-95, 0, -90, 0},
		{0, 180, 0, -180},
		{0, -180, 0, -180},
		{0, 181, 0, -179},
		{0, 359, 0, -1},
		{0, -190, 0, 170},
	}
	for _, tc := range cases {
		gotLat, gotLon := ClampLatLng(tc.lat, tc.lon)
		if !almostEqual(gotLat, tc.wantLat) || !almostEqual(gotLon, tc.wantLon) {
			t.Errorf("ClampLatLng(%v, %v) = (%v, %v), want (%v, %v)",
				tc.lat, tc.lon, gotLat, gotLon, tc.wantLat, tc.wantLon)
		}
	}
}

func TestVec3_Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -2, 1}

	sum := a.Add(b)
	if sum != (Vec3{5, 0, 4}) {
		t.Errorf("Add: got %+v", sum)
	}
	diff := a.Sub(b)
	if diff != (Vec3{-3, 4, 2}) {
		t.Errorf("Sub: got %+v", diff)
	}
	scaled := a.Scale(2)
	if scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale: got %+v", scaled)
	}
	if got := (Vec3{3, 4, 0}).Length(); !almostEqual(got, 5) {
		t.Errorf("Length: got %v", got)
	}
}
