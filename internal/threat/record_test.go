package threat

import (
	"math/rand"
	"testing"
)

func TestNormalize_ClampsDirtyData(t *testing.T) {
	r := Record{ID: "a", Lat: 120, Lon: 200, Category: Category(99), Severity: 42}
	n := r.Normalize()

	if n.Lat != 90 {
		t.Errorf("expected lat clamped to 90, got %v", n.Lat)
	}
	if n.Lon != -160 {
		t.Errorf("expected lon wrapped to -160, got %v", n.Lon)
	}
	if n.Severity != MaxSeverity {
		t.Errorf("expected severity clamped to %d, got %d", MaxSeverity, n.Severity)
	}
	if n.Category != CategoryUnknown {
		t.Errorf("expected unknown category, got %v", n.Category)
	}

	low := Record{ID: "b", Severity: -3}.Normalize()
	if low.Severity != MinSeverity {
		t.Errorf("expected severity floor %d, got %d", MinSeverity, low.Severity)
	}
}

func TestCategory_RoundTrip(t *testing.T) {
	for c := CategoryMalware; c < categoryCount; c++ {
		if got := ParseCategory(c.String()); got != c {
			t.Errorf("ParseCategory(%q) = %v, want %v", c.String(), got, c)
		}
		if !c.Valid() {
			t.Errorf("expected %v to be valid", c)
		}
	}
	if got := ParseCategory("rootkit-from-mars"); got != CategoryUnknown {
		t.Errorf("unknown name should map to CategoryUnknown, got %v", got)
	}
	if CategoryUnknown.Valid() {
		t.Error("CategoryUnknown must not report as valid")
	}
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	records := []Record{
		{ID: "r1", Lat: 10, Lon: 20, Category: CategoryMalware, Severity: 3},
		{ID: "r2", Lat: -5, Lon: 120, Category: CategoryDDoS, Severity: 9},
		{ID: "r3", Lat: 48.1, Lon: 11.6, Category: CategoryPhishing, Severity: 5},
	}

	fp := Fingerprint(records)

	// Every permutation of the same multiset must hash identically.
	shuffled := append([]Record(nil), records...)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Fingerprint(shuffled); got != fp {
			t.Fatalf("fingerprint changed under reordering: %s vs %s", got, fp)
		}
	}
}

func TestFingerprint_SensitiveToEveryField(t *testing.T) {
	base := []Record{{ID: "r1", Lat: 10, Lon: 20, Category: CategoryMalware, Severity: 3}}
	fp := Fingerprint(base)

	mutations := map[string][]Record{
		"id":       {{ID: "r2", Lat: 10, Lon: 20, Category: CategoryMalware, Severity: 3}},
		"lat":      {{ID: "r1", Lat: 11, Lon: 20, Category: CategoryMalware, Severity: 3}},
		"lon":      {{ID: "r1", Lat: 10, Lon: 21, Category: CategoryMalware, Severity: 3}},
		"category": {{ID: "r1", Lat: 10, Lon: 20, Category: CategoryBotnet, Severity: 3}},
		"severity": {{ID: "r1", Lat: 10, Lon: 20, Category: CategoryMalware, Severity: 4}},
	}
	for field, recs := range mutations {
		if Fingerprint(recs) == fp {
			t.Errorf("fingerprint insensitive to %s change", field)
		}
	}
}

func TestFingerprint_Empty(t *testing.T) {
	if fp := Fingerprint(nil); fp != "" {
		t.Errorf("empty set should fingerprint to empty string, got %q", fp)
	}
}
