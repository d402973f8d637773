package motion

import "math"

// SnapPoint is a designated rest position that attracts nearby free-moving
// content. A collection of these belongs to one scrollable instance and is
// evaluated read-only by the inertia model each tick.
type SnapPoint struct {
	// Position is the rest position in pixels, or a [0,1] fraction of the
	// travel range when IsRatio is set.
	Position float64
	IsRatio  bool

	// Strength scales the attraction spring toward this point, in [0,1].
	// Zero means the model's default snap spring is used unscaled.
	Strength float64

	// Threshold is the capture radius in pixels: free-moving content passing
	// within it locks onto the point. Zero disables capture-by-proximity for
	// this point (it can still be chosen as the nearest target).
	Threshold float64

	Enabled bool

	// VelocityThreshold is the release speed (px/s) above which content
	// flicks past this point instead of settling on it. Zero means the point
	// can never be flicked past.
	VelocityThreshold float64

	// Resistance overrides the model's near-snap drag resistance factor for
	// this point, in (0,1]. Zero means use the model default.
	Resistance float64

	Name string
}

// SlideSnapPoints builds one enabled snap point per slide, spaced
// monotonically by slideWidth+spacing starting at 0.
func SlideSnapPoints(count int, slideWidth, spacing float64) []SnapPoint {
	if count <= 0 || slideWidth <= 0 {
		return nil
	}
	stride := slideWidth + spacing
	points := make([]SnapPoint, count)
	for i := range points {
		points[i] = SnapPoint{
			Position:  float64(i) * stride,
			Enabled:   true,
			Threshold: stride / 2,
		}
	}
	return points
}

// resolvePosition returns the absolute position of p within [min, max].
// Ratio points on an unbounded axis have no defined position and resolve to
// NaN; callers must skip them.
func (p SnapPoint) resolvePosition(min, max float64, bounded bool) float64 {
	if !p.IsRatio {
		return p.Position
	}
	if !bounded {
		return math.NaN()
	}
	return min + p.Position*(max-min)
}

// ClosestSnapPoint returns the index of the enabled point nearest to pos by
// absolute distance. Ties resolve to the lowest index, so the result is
// deterministic for a fixed input. ok is false when no point is usable
// (empty slice, all disabled, unresolvable ratios).
func ClosestSnapPoint(points []SnapPoint, pos, min, max float64, bounded bool) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, p := range points {
		if !p.Enabled {
			continue
		}
		at := p.resolvePosition(min, max, bounded)
		if math.IsNaN(at) {
			continue
		}
		if d := math.Abs(at - pos); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, best >= 0
}

// ResolveSnapTarget picks the snap point a release at pos with the given
// velocity should settle on.
//
// The free-deceleration endpoint pos + velocity/friction is projected first
// (exponential decay travels exactly that far), and the nearest enabled point
// to that endpoint wins — this is what makes fast multi-slide flicks land
// several slides away. If the projection still lands on the point nearest the
// release position but the release speed exceeds that point's
// VelocityThreshold, the point is skipped in favor of the next enabled point
// along the direction of travel.
//
// ok is false when no point is usable; the caller falls back to free
// inertial deceleration.
func ResolveSnapTarget(points []SnapPoint, pos, velocity, friction, min, max float64, bounded bool) (int, bool) {
	if friction <= 0 {
		friction = defaultFriction
	}
	projected := pos + velocity/friction
	if bounded {
		projected = clamp(projected, min, max)
	}

	target, ok := ClosestSnapPoint(points, projected, min, max, bounded)
	if !ok {
		return -1, false
	}

	nearest, _ := ClosestSnapPoint(points, pos, min, max, bounded)
	if target != nearest {
		return target, true
	}

	// Flick past: enough speed through the nearest point picks the next one
	// further along instead.
	p := points[target]
	if p.VelocityThreshold > 0 && math.Abs(velocity) > p.VelocityThreshold {
		if next, okNext := nextSnapPoint(points, target, velocity, min, max, bounded); okNext {
			return next, true
		}
	}
	return target, true
}

// nextSnapPoint finds the enabled point adjacent to index `from` in the
// direction of travel: the smallest position greater than from's when moving
// positive, the largest position smaller when moving negative.
func nextSnapPoint(points []SnapPoint, from int, velocity, min, max float64, bounded bool) (int, bool) {
	origin := points[from].resolvePosition(min, max, bounded)
	best := -1
	bestDist := math.Inf(1)
	for i, p := range points {
		if i == from || !p.Enabled {
			continue
		}
		at := p.resolvePosition(min, max, bounded)
		if math.IsNaN(at) {
			continue
		}
		if velocity > 0 && at <= origin {
			continue
		}
		if velocity < 0 && at >= origin {
			continue
		}
		if d := math.Abs(at - origin); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best, best >= 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
