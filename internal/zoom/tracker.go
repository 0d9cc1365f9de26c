// Package zoom maps camera distance to a discrete visualization mode and a
// smoothly animated transition progress.
//
// Raw progress is a smoothstep of normalized distance between two bounds;
// the discrete mode is derived from progress at a fixed midpoint with a
// small dead zone, so jitter in camera distance near either bound cannot
// make the mode oscillate. Mode flips start a timed easing so the visual
// cross-fade is never faster than the configured minimum, even when the
// camera snaps.
package zoom

import (
	"math"
	"time"
)

// Mode is the discrete visualization mode derived from zoom progress.
type Mode int

const (
	// ModeHeatmap renders the aggregate heat field (far view).
	ModeHeatmap Mode = iota
	// ModePixels renders individually selectable point markers (near view).
	ModePixels
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	if m == ModePixels {
		return "pixels"
	}
	return "heatmap"
}

// Constants for zoom configuration.
const (
	// DefaultFarBound is the camera distance at or above which progress
	// is 0 (fully heatmap).
	DefaultFarBound = 20.0
	// DefaultNearBound is the camera distance at or below which progress
	// is 1 (fully pixels).
	DefaultNearBound = 8.0
	// DefaultTransitionDuration is the minimum wall-clock length of a
	// mode cross-fade.
	DefaultTransitionDuration = 600 * time.Millisecond
	// DefaultModeDeadZone is the width of the progress band around the
	// midpoint inside which the mode holds its current value.
	DefaultModeDeadZone = 0.04

	// modeMidpoint is the fixed progress threshold separating the modes.
	modeMidpoint = 0.5
)

// Config carries the zoom tunables. Zero values select the defaults.
type Config struct {
	FarBound           float64       // Distance for progress 0 (default: 20)
	NearBound          float64       // Distance for progress 1 (default: 8)
	TransitionDuration time.Duration // Min cross-fade duration (default: 600ms)
	ModeDeadZone       float64       // Anti-chatter band width (default: 0.04)
}

// DefaultConfig returns the baseline zoom configuration.
func DefaultConfig() Config {
	return Config{
		FarBound:           DefaultFarBound,
		NearBound:          DefaultNearBound,
		TransitionDuration: DefaultTransitionDuration,
		ModeDeadZone:       DefaultModeDeadZone,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FarBound <= 0 {
		c.FarBound = d.FarBound
	}
	if c.NearBound <= 0 {
		c.NearBound = d.NearBound
	}
	if c.NearBound >= c.FarBound {
		// Degenerate bounds collapse to the defaults rather than
		// producing an undefined mode.
		c.FarBound = d.FarBound
		c.NearBound = d.NearBound
	}
	if c.TransitionDuration <= 0 {
		c.TransitionDuration = d.TransitionDuration
	}
	if c.ModeDeadZone <= 0 || c.ModeDeadZone >= 1 {
		c.ModeDeadZone = d.ModeDeadZone
	}
	return c
}

// State is the externally visible zoom state after an update.
type State struct {
	Distance float64
	Mode     Mode
	// Progress is the displayed transition progress in [0, 1]:
	// 0 = fully heatmap, 1 = fully pixels.
	Progress float64
	// RawProgress is the undamped distance-driven progress.
	RawProgress float64
	// Transitioning reports whether a timed mode cross-fade is in flight.
	Transitioning bool
}

// transition is the in-flight animation descriptor. It exists only while a
// mode change is being eased.
type transition struct {
	start    time.Time
	duration time.Duration
	from, to float64
}

// Tracker is the zoom/mode state machine. Created on first camera read,
// updated every frame, never persisted. Owned by the frame thread.
type Tracker struct {
	cfg Config

	initialized bool
	mode        Mode
	displayed   float64
	anim        *transition
}

// NewTracker creates a Tracker with the given configuration.
func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// RawProgress maps a camera distance to undamped progress. Distances outside
// the configured bounds clamp to the nearest bound. Between the bounds the
// curve is a smoothstep of normalized position, so the cross-fade
// accelerates and decelerates instead of moving at constant rate.
func (t *Tracker) RawProgress(distance float64) float64 {
	span := t.cfg.FarBound - t.cfg.NearBound
	n := (t.cfg.FarBound - distance) / span
	if n <= 0 {
		return 0
	}
	if n >= 1 {
		return 1
	}
	return smoothstep(n)
}

// Update advances the state machine for one frame. Returns the resulting
// state and whether the discrete mode changed during this update.
func (t *Tracker) Update(distance float64, now time.Time) (State, bool) {
	raw := t.RawProgress(distance)

	if !t.initialized {
		t.initialized = true
		t.mode = modeForProgress(raw)
		t.displayed = raw
		return t.state(distance, raw, now), true
	}

	modeChanged := false
	half := t.cfg.ModeDeadZone / 2

	// The mode is derived from progress, not raw distance, and only flips
	// once progress leaves the dead zone on the far side of the midpoint.
	switch t.mode {
	case ModeHeatmap:
		if raw >= modeMidpoint+half {
			t.mode = ModePixels
			modeChanged = true
		}
	case ModePixels:
		if raw < modeMidpoint-half {
			t.mode = ModeHeatmap
			modeChanged = true
		}
	}

	if modeChanged {
		// Begin the timed cross-fade from the live displayed progress.
		// A flip arriving while a previous easing is still in flight
		// replaces it; starting from the current displayed value keeps
		// the curve continuous.
		t.anim = &transition{
			start:    now,
			duration: t.cfg.TransitionDuration,
			from:     t.displayed,
			to:       raw,
		}
	}

	if t.anim != nil {
		// The animation target tracks the live raw progress rather than
		// the value captured at flip time, so adoption at completion is
		// seamless while the fade still takes at least the configured
		// duration.
		t.anim.to = raw
		elapsed := now.Sub(t.anim.start)
		if elapsed >= t.anim.duration {
			// Easing complete; resume distance-driven progress.
			t.anim = nil
			t.displayed = raw
		} else {
			frac := float64(elapsed) / float64(t.anim.duration)
			t.displayed = t.anim.from + (t.anim.to-t.anim.from)*easeInOut(frac)
		}
	} else {
		t.displayed = raw
	}

	return t.state(distance, raw, now), modeChanged
}

func (t *Tracker) state(distance, raw float64, now time.Time) State {
	return State{
		Distance:      distance,
		Mode:          t.mode,
		Progress:      t.displayed,
		RawProgress:   raw,
		Transitioning: t.anim != nil,
	}
}

// modeForProgress derives the mode from progress at the fixed midpoint,
// without the dead zone. Used only for the initial camera read.
func modeForProgress(p float64) Mode {
	if p >= modeMidpoint {
		return ModePixels
	}
	return ModeHeatmap
}

// smoothstep is the cubic 3t²-2t³ ease for t ∈ [0, 1].
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// easeInOut is a symmetric cosine ease-in-out for t ∈ [0, 1].
func easeInOut(t float64) float64 {
	return 0.5 - 0.5*math.Cos(math.Pi*t)
}
