package motion

import (
	"math"
	"testing"
)

func TestSlideSnapPointsSpacing(t *testing.T) {
	points := SlideSnapPoints(4, 300, 16)
	if len(points) != 4 {
		t.Fatalf("len = %d, want 4", len(points))
	}
	stride := 316.0
	for i, p := range points {
		want := float64(i) * stride
		if p.Position != want {
			t.Errorf("point %d at %f, want %f", i, p.Position, want)
		}
		if !p.Enabled {
			t.Errorf("point %d disabled", i)
		}
		if p.Threshold != stride/2 {
			t.Errorf("point %d threshold %f, want %f", i, p.Threshold, stride/2)
		}
	}
}

func TestSlideSnapPointsDegenerateInput(t *testing.T) {
	if SlideSnapPoints(0, 300, 16) != nil {
		t.Error("zero count should produce nil")
	}
	if SlideSnapPoints(3, 0, 16) != nil {
		t.Error("zero width should produce nil")
	}
}

func TestClosestSnapPointPicksNearest(t *testing.T) {
	points := SlideSnapPoints(4, 300, 16)
	i, ok := ClosestSnapPoint(points, 340, 0, 948, true)
	if !ok || i != 1 {
		t.Errorf("got (%d, %v), want (1, true)", i, ok)
	}
}

func TestClosestSnapPointTieBreaksLowestIndex(t *testing.T) {
	points := []SnapPoint{
		{Position: 0, Enabled: true},
		{Position: 100, Enabled: true},
	}
	// Exactly between the two: the lower index wins, deterministically.
	for run := 0; run < 10; run++ {
		i, ok := ClosestSnapPoint(points, 50, 0, 100, true)
		if !ok || i != 0 {
			t.Fatalf("run %d: got (%d, %v), want (0, true)", run, i, ok)
		}
	}
}

func TestClosestSnapPointSkipsDisabled(t *testing.T) {
	points := []SnapPoint{
		{Position: 10, Enabled: false},
		{Position: 500, Enabled: true},
	}
	i, ok := ClosestSnapPoint(points, 0, 0, 1000, true)
	if !ok || i != 1 {
		t.Errorf("got (%d, %v), want (1, true)", i, ok)
	}
}

func TestClosestSnapPointAllDisabled(t *testing.T) {
	points := []SnapPoint{
		{Position: 10},
		{Position: 20},
	}
	if _, ok := ClosestSnapPoint(points, 0, 0, 100, true); ok {
		t.Error("expected no usable point")
	}
	if _, ok := ClosestSnapPoint(nil, 0, 0, 100, true); ok {
		t.Error("expected no usable point for empty slice")
	}
}

func TestClosestSnapPointRatioResolution(t *testing.T) {
	points := []SnapPoint{
		{Position: 0, IsRatio: true, Enabled: true},
		{Position: 0.5, IsRatio: true, Enabled: true},
		{Position: 1, IsRatio: true, Enabled: true},
	}
	i, ok := ClosestSnapPoint(points, 520, 0, 1000, true)
	if !ok || i != 1 {
		t.Errorf("got (%d, %v), want (1, true)", i, ok)
	}
}

func TestClosestSnapPointRatioUnboundedSkipped(t *testing.T) {
	points := []SnapPoint{
		{Position: 0.5, IsRatio: true, Enabled: true},
		{Position: 200, Enabled: true},
	}
	// The ratio point cannot resolve without bounds; only the pixel point counts.
	i, ok := ClosestSnapPoint(points, 0, 0, 0, false)
	if !ok || i != 1 {
		t.Errorf("got (%d, %v), want (1, true)", i, ok)
	}
}

func TestResolveSnapTargetProjectsDeceleration(t *testing.T) {
	points := SlideSnapPoints(4, 300, 16)
	// From slide 0 at 1400 px/s with friction 4 the fling travels 350 px,
	// landing nearest slide 1 (316).
	i, ok := ResolveSnapTarget(points, 0, 1400, 4, 0, 948, true)
	if !ok || i != 1 {
		t.Errorf("got (%d, %v), want (1, true)", i, ok)
	}
}

func TestResolveSnapTargetFastFlickLandsMultipleSlides(t *testing.T) {
	points := SlideSnapPoints(4, 300, 16)
	// 2800 px/s travels 700 px: nearest to the endpoint is slide 2 (632).
	i, ok := ResolveSnapTarget(points, 0, 2800, 4, 0, 948, true)
	if !ok || i != 2 {
		t.Errorf("got (%d, %v), want (2, true)", i, ok)
	}
}

func TestResolveSnapTargetStationaryPicksNearest(t *testing.T) {
	points := SlideSnapPoints(4, 300, 16)
	i, ok := ResolveSnapTarget(points, 470, 0, 4, 0, 948, true)
	if !ok || i != 1 {
		t.Errorf("got (%d, %v), want (1, true)", i, ok)
	}
}

func TestResolveSnapTargetVelocityThresholdFlicksPast(t *testing.T) {
	points := []SnapPoint{
		{Position: 0, Enabled: true, VelocityThreshold: 300},
		{Position: 316, Enabled: true, VelocityThreshold: 300},
		{Position: 632, Enabled: true, VelocityThreshold: 300},
	}
	// 400 px/s only travels 100 px, so the projection stays nearest point 0,
	// but the release speed beats the threshold: the flick advances to point 1.
	i, ok := ResolveSnapTarget(points, 0, 400, 4, 0, 632, true)
	if !ok || i != 1 {
		t.Errorf("got (%d, %v), want (1, true)", i, ok)
	}

	// Same flick leftward from the far end.
	i, ok = ResolveSnapTarget(points, 632, -400, 4, 0, 632, true)
	if !ok || i != 1 {
		t.Errorf("leftward: got (%d, %v), want (1, true)", i, ok)
	}
}

func TestResolveSnapTargetBelowThresholdStays(t *testing.T) {
	points := []SnapPoint{
		{Position: 0, Enabled: true, VelocityThreshold: 300},
		{Position: 316, Enabled: true, VelocityThreshold: 300},
	}
	i, ok := ResolveSnapTarget(points, 20, -250, 4, 0, 316, true)
	if !ok || i != 0 {
		t.Errorf("got (%d, %v), want (0, true)", i, ok)
	}
}

func TestResolveSnapTargetZeroThresholdNeverFlicksPast(t *testing.T) {
	points := []SnapPoint{
		{Position: 0, Enabled: true},
		{Position: 316, Enabled: true},
	}
	// Huge speed but the projection is clamped to the bounds; with no
	// VelocityThreshold the projected nearest point simply wins.
	i, ok := ResolveSnapTarget(points, 0, 150, 4, 0, 316, true)
	if !ok || i != 0 {
		t.Errorf("got (%d, %v), want (0, true)", i, ok)
	}
}

func TestResolveSnapTargetNoUsablePoints(t *testing.T) {
	if _, ok := ResolveSnapTarget(nil, 0, 500, 4, 0, 100, true); ok {
		t.Error("expected fallback for empty set")
	}
	disabled := []SnapPoint{{Position: 50}}
	if _, ok := ResolveSnapTarget(disabled, 0, 500, 4, 0, 100, true); ok {
		t.Error("expected fallback for fully disabled set")
	}
}

func TestResolveSnapTargetClampsProjectionToBounds(t *testing.T) {
	points := SlideSnapPoints(3, 300, 16)
	// A monster fling projects far past the last slide; the clamp keeps the
	// target at the final point instead of an out-of-range index.
	i, ok := ResolveSnapTarget(points, 0, 50000, 4, 0, 632, true)
	if !ok || i != 2 {
		t.Errorf("got (%d, %v), want (2, true)", i, ok)
	}
}

func TestResolveSnapTargetDeterministic(t *testing.T) {
	points := SlideSnapPoints(5, 300, 16)
	first, ok := ResolveSnapTarget(points, 450, 730, 4, 0, 1264, true)
	if !ok {
		t.Fatal("expected a target")
	}
	for run := 0; run < 20; run++ {
		i, _ := ResolveSnapTarget(points, 450, 730, 4, 0, 1264, true)
		if i != first {
			t.Fatalf("run %d: target %d != first %d", run, i, first)
		}
	}
}

func TestSnapPointResolvePositionRatio(t *testing.T) {
	p := SnapPoint{Position: 0.25, IsRatio: true}
	if got := p.resolvePosition(100, 500, true); got != 200 {
		t.Errorf("resolved %f, want 200", got)
	}
	if got := p.resolvePosition(0, 0, false); !math.IsNaN(got) {
		t.Errorf("unbounded ratio resolved %f, want NaN", got)
	}
}
