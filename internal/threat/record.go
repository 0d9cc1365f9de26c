// Package threat defines the point-record data model consumed by the
// visualization pipeline.
//
// Records are supplied wholesale by an external data source once per refresh;
// the pipeline treats them as immutable and owns none of their lifecycle.
package threat

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/argus-vis/threatglobe/internal/geo"
)

// Category classifies a threat record. The enumeration is small and fixed;
// unknown values decode to CategoryUnknown rather than failing.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryMalware
	CategoryPhishing
	CategoryDDoS
	CategoryBotnet
	CategoryExploit

	categoryCount
)

var categoryNames = [categoryCount]string{
	"unknown",
	"malware",
	"phishing",
	"ddos",
	"botnet",
	"exploit",
}

// String returns the lowercase wire name of the category.
func (c Category) String() string {
	if int(c) >= len(categoryNames) {
		return categoryNames[CategoryUnknown]
	}
	return categoryNames[c]
}

// Valid reports whether the category is a known enumeration member.
func (c Category) Valid() bool {
	return c > CategoryUnknown && c < categoryCount
}

// ParseCategory maps a wire name back to a Category. Unrecognised names map
// to CategoryUnknown; a dirty feed must stay renderable.
func ParseCategory(name string) Category {
	for i, n := range categoryNames {
		if n == name {
			return Category(i)
		}
	}
	return CategoryUnknown
}

// Severity bounds for a record. Values outside the range are clamped on
// ingest, never rejected.
const (
	MinSeverity = 1
	MaxSeverity = 10
)

// Record is a single geolocated threat observation.
//
// ID is stable across refreshes and is the identity used for cluster
// membership and fingerprinting. Lat/Lon are degrees; Severity is an integer
// in [MinSeverity, MaxSeverity].
type Record struct {
	ID       string
	Lat      float64
	Lon      float64
	Category Category
	Severity int
}

// Normalize returns a copy of the record with coordinates clamped into their
// legal ranges, severity clamped into [MinSeverity, MaxSeverity] and a
// missing category defaulted. This is the single ingest-side recovery point
// for malformed data (error taxonomy: recovered locally, never propagated).
func (r Record) Normalize() Record {
	r.Lat, r.Lon = geo.ClampLatLng(r.Lat, r.Lon)
	if r.Severity < MinSeverity {
		r.Severity = MinSeverity
	} else if r.Severity > MaxSeverity {
		r.Severity = MaxSeverity
	}
	if int(r.Category) >= int(categoryCount) {
		r.Category = CategoryUnknown
	}
	return r
}

// NormalizeAll normalizes a whole replacement set in place and returns it.
func NormalizeAll(records []Record) []Record {
	for i := range records {
		records[i] = records[i].Normalize()
	}
	return records
}

// Fingerprint computes a deterministic content hash of a record set.
//
// The hash covers every field that affects rendering (id, lat, lon, severity,
// category) and is order-independent: records are sorted by ID before
// hashing, so the same multiset always produces the same fingerprint
// irrespective of array order. Cache layers key on this value, which is why a
// collision across different record sets would be a defect here rather than
// a runtime condition anywhere else.
func Fingerprint(records []Record) string {
	if len(records) == 0 {
		return ""
	}

	ids := make([]int, len(records))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(a, b int) bool {
		return records[ids[a]].ID < records[ids[b]].ID
	})

	h := sha256.New()
	var buf [8]byte
	for _, idx := range ids {
		r := records[idx]
		h.Write([]byte(r.ID))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(r.Lat*1e6)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(r.Lon*1e6)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(r.Severity))
		h.Write(buf[:])
		h.Write([]byte{byte(r.Category)})
	}
	return hex.EncodeToString(h.Sum(nil))
}
