package zoom

import (
	"math"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// sweep runs a linear camera move through the tracker at a fixed frame rate
// and returns the states plus the number of frames on which the mode flipped.
func sweep(t *Tracker, from, to float64, frames int, frameDur time.Duration) ([]State, int) {
	states := make([]State, 0, frames)
	flips := 0
	for i := 0; i < frames; i++ {
		frac := float64(i) / float64(frames-1)
		d := from + (to-from)*frac
		st, changed := t.Update(d, t0.Add(time.Duration(i)*frameDur))
		if i > 0 && changed {
			flips++
		}
		states = append(states, st)
	}
	return states, flips
}

func TestRawProgress_BoundsAndClamping(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	cases := []struct {
		distance float64
		want     float64
	}{
		{100, 0},  // beyond far bound
		{20, 0},   // at far bound
		{14, 0.5}, // midpoint of [8, 20] under symmetric smoothstep
		{8, 1},    // at near bound
		{1, 1},    // beyond near bound
	}
	for _, tc := range cases {
		if got := tr.RawProgress(tc.distance); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("RawProgress(%v) = %v, want %v", tc.distance, got, tc.want)
		}
	}
}

func TestRawProgress_MonotonicInDistance(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	prev := tr.RawProgress(25)
	for d := 24.9; d >= 3; d -= 0.1 {
		cur := tr.RawProgress(d)
		if cur < prev {
			t.Fatalf("raw progress decreased while zooming in: %v at distance %v", cur, d)
		}
		prev = cur
	}
}

func TestUpdate_FirstCallInitializes(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	st, changed := tr.Update(25, t0)
	if !changed {
		t.Error("first update must report a change")
	}
	if st.Mode != ModeHeatmap {
		t.Errorf("far camera should initialize to heatmap, got %v", st.Mode)
	}
	if st.Progress != 0 {
		t.Errorf("expected progress 0 at distance 25, got %v", st.Progress)
	}
	if st.Transitioning {
		t.Error("initialization must not start a transition")
	}

	near := NewTracker(DefaultConfig())
	st, _ = near.Update(5, t0)
	if st.Mode != ModePixels {
		t.Errorf("near camera should initialize to pixels, got %v", st.Mode)
	}
}

func TestUpdate_ZoomInFlipsExactlyOnce(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	// 600 frames at 60fps, distance 25 → 5.
	states, flips := sweep(tr, 25, 5, 600, time.Second/60)

	if flips != 1 {
		t.Fatalf("expected exactly one mode flip during a clean zoom-in, got %d", flips)
	}
	final := states[len(states)-1]
	if final.Mode != ModePixels {
		t.Errorf("expected pixels mode at distance 5, got %v", final.Mode)
	}
	if math.Abs(final.Progress-1) > 1e-9 {
		t.Errorf("expected displayed progress 1 at the end, got %v", final.Progress)
	}
	if final.Transitioning {
		t.Error("transition should have completed by the end of the sweep")
	}
}

func TestUpdate_DisplayedProgressIsContinuous(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	states, _ := sweep(tr, 25, 5, 600, time.Second/60)

	// No frame-to-frame jump in displayed progress may exceed a small
	// step: the easing guarantees continuity through the flip and at
	// transition completion.
	for i := 1; i < len(states); i++ {
		delta := math.Abs(states[i].Progress - states[i-1].Progress)
		if delta > 0.05 {
			t.Fatalf("displayed progress jumped %.4f at frame %d (%.4f → %.4f)",
				delta, i, states[i-1].Progress, states[i].Progress)
		}
	}
}

func TestUpdate_SnapZoomTakesMinimumDuration(t *testing.T) {
	cfg := DefaultConfig()
	tr := NewTracker(cfg)

	tr.Update(25, t0)

	// Camera snaps from far to near in one frame. The displayed progress
	// must ease over the configured duration instead of jumping to 1.
	st, changed := tr.Update(5, t0.Add(16*time.Millisecond))
	if !changed {
		t.Fatal("snap across the midpoint must flip the mode")
	}
	if !st.Transitioning {
		t.Fatal("snap must start a timed transition")
	}
	if st.Progress > 0.5 {
		t.Errorf("displayed progress raced ahead right after the snap: %v", st.Progress)
	}

	// Halfway through the duration the fade is in flight.
	st, _ = tr.Update(5, t0.Add(16*time.Millisecond+cfg.TransitionDuration/2))
	if !st.Transitioning {
		t.Error("transition ended before the configured duration")
	}
	if st.Progress <= 0 || st.Progress >= 1 {
		t.Errorf("mid-transition progress out of open interval: %v", st.Progress)
	}

	// After the duration the fade completes and raw progress is adopted.
	st, _ = tr.Update(5, t0.Add(16*time.Millisecond+cfg.TransitionDuration+time.Millisecond))
	if st.Transitioning {
		t.Error("transition still in flight after the configured duration")
	}
	if math.Abs(st.Progress-1) > 1e-9 {
		t.Errorf("expected progress 1 after the fade, got %v", st.Progress)
	}
}

func TestUpdate_JitterAtMidpointDoesNotOscillate(t *testing.T) {
	cfg := DefaultConfig()
	tr := NewTracker(cfg)

	tr.Update(25, t0)

	// Find the distance whose raw progress sits at the midpoint, then
	// jitter around it within the dead zone.
	mid := 14.0 // progress 0.5 for bounds [8, 20]
	flips := 0
	for i := 1; i <= 400; i++ {
		jitter := 0.05 * math.Sin(float64(i))
		_, changed := tr.Update(mid+jitter, t0.Add(time.Duration(i)*16*time.Millisecond))
		if changed {
			flips++
		}
	}
	if flips > 1 {
		t.Errorf("mode oscillated %d times under dead-zone jitter", flips)
	}
}

func TestUpdate_ZoomOutFlipsBack(t *testing.T) {
	tr := NewTracker(DefaultConfig())

	_, _ = sweep(tr, 25, 5, 300, time.Second/60)
	states, flips := sweep(tr, 5, 25, 300, time.Second/60)

	if flips != 1 {
		t.Fatalf("expected exactly one flip on the way back out, got %d", flips)
	}
	final := states[len(states)-1]
	if final.Mode != ModeHeatmap {
		t.Errorf("expected heatmap mode at distance 25, got %v", final.Mode)
	}
	if math.Abs(final.Progress) > 1e-9 {
		t.Errorf("expected displayed progress 0 at the end, got %v", final.Progress)
	}
}

func TestConfig_DegenerateBoundsFallBack(t *testing.T) {
	tr := NewTracker(Config{FarBound: 5, NearBound: 10})
	cfg := tr.Config()
	if cfg.FarBound != DefaultFarBound || cfg.NearBound != DefaultNearBound {
		t.Errorf("inverted bounds should collapse to defaults, got far=%v near=%v",
			cfg.FarBound, cfg.NearBound)
	}

	equal := NewTracker(Config{FarBound: 10, NearBound: 10}).Config()
	if equal.FarBound <= equal.NearBound {
		t.Error("equal bounds must not survive validation")
	}
}

func TestModeString(t *testing.T) {
	if ModeHeatmap.String() != "heatmap" || ModePixels.String() != "pixels" {
		t.Error("unexpected mode names")
	}
}
