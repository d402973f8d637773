package motion

import "math"

const (
	maxTrackedPointers = 10 // pointer 0 = mouse, 1-9 = touch
	maxGestureSamples  = 32

	defaultDeadZone         = 10.0  // px before the direction lock engages
	defaultVelocityWindowMs = 100.0 // release-velocity sample window
	defaultSwipeVelocity    = 500.0 // px/s separating a swipe from a pan
)

// PointerPhase distinguishes the three normalized pointer event kinds.
type PointerPhase uint8

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
)

// PointerEvent is a normalized pointer/touch event. The UI layer owns the
// native listeners and forwards events here; coordinates are client-space
// pixels and TimestampMs is any monotonic millisecond clock.
type PointerEvent struct {
	Phase       PointerPhase
	PointerID   int
	X, Y        float64
	TimestampMs float64
}

// GestureSample is one buffered movement sample used to compute the release
// velocity. Samples are transient: the ring is discarded at gesture end.
type GestureSample struct {
	PointerID   int
	Position    Vec2
	TimestampMs float64
}

// GestureType classifies a completed or in-progress gesture.
type GestureType uint8

const (
	GestureNone   GestureType = iota
	GesturePan                // slow single-pointer movement
	GestureSwipe              // single-pointer movement released above the swipe velocity
	GesturePinch              // two-pointer scale change
	GestureRotate             // two-pointer rotation
)

// Axis identifies a locked movement axis.
type Axis uint8

const (
	AxisNone       Axis = iota // dead zone not yet exceeded
	AxisHorizontal             // movement locked to X
	AxisVertical               // movement locked to Y
)

// directionLock is the per-gesture axis lock: the first movement exceeding
// the dead zone on one axis locks that axis for the remainder of the gesture,
// so diagonal jitter is never read as both pan and scroll. One lock object is
// created at gesture start and discarded at gesture end.
type directionLock struct {
	deadZone float64
	axis     Axis
}

// feed updates the lock with the cumulative gesture displacement and returns
// the locked axis (AxisNone while still inside the dead zone).
func (l *directionLock) feed(cumulative Vec2) Axis {
	if l.axis != AxisNone {
		return l.axis
	}
	ax, ay := math.Abs(cumulative.X), math.Abs(cumulative.Y)
	if ax <= l.deadZone && ay <= l.deadZone {
		return AxisNone
	}
	if ax >= ay {
		l.axis = AxisHorizontal
	} else {
		l.axis = AxisVertical
	}
	return l.axis
}

// constrain zeroes the non-locked component of a delta.
func (l *directionLock) constrain(d Vec2) Vec2 {
	switch l.axis {
	case AxisHorizontal:
		return Vec2{X: d.X}
	case AxisVertical:
		return Vec2{Y: d.Y}
	default:
		return Vec2{}
	}
}

// PinchUpdate carries two-pointer gesture data.
type PinchUpdate struct {
	Center        Vec2
	Scale         float64 // current distance / initial distance, clamped
	ScaleDelta    float64 // relative change since the previous update
	Rotation      float64 // angle delta from the initial two-point vector
	RotationDelta float64 // change since the previous update
}

// GestureConfig tunes the tracker. Zero values take the package defaults.
type GestureConfig struct {
	DeadZone         float64 // px; default 10
	VelocityWindowMs float64 // default 100
	SwipeVelocity    float64 // px/s; default 500
	PinchScaleMin    float64 // default 0.25
	PinchScaleMax    float64 // default 4
}

func (c GestureConfig) withDefaults() GestureConfig {
	if c.DeadZone <= 0 {
		c.DeadZone = defaultDeadZone
	}
	if c.VelocityWindowMs <= 0 {
		c.VelocityWindowMs = defaultVelocityWindowMs
	}
	if c.SwipeVelocity <= 0 {
		c.SwipeVelocity = defaultSwipeVelocity
	}
	if c.PinchScaleMin <= 0 {
		c.PinchScaleMin = 0.25
	}
	if c.PinchScaleMax <= c.PinchScaleMin {
		c.PinchScaleMax = 4
	}
	return c
}

// pinchState tracks an active two-pointer gesture.
type pinchState struct {
	active       bool
	pointer0     int
	pointer1     int
	initialDist  float64
	initialAngle float64
	prevDist     float64
	prevAngle    float64
	scaleAccum   float64 // |scale-1| accumulated, for classification
	rotateAccum  float64 // |rotation| accumulated, for classification
}

// GestureTracker converts a stream of normalized pointer events into physics
// inputs: locked-axis movement deltas while dragging, a time-windowed release
// velocity at gesture end, and pinch scale/rotation for two-pointer gestures.
//
// Events for one tracker must arrive in order; a tracker is single-threaded
// like the rest of the core.
type GestureTracker struct {
	// Callbacks. Any of them may be nil.
	OnStart func(at Vec2)
	OnMove  func(delta, cumulative Vec2)
	OnEnd   func(releaseVelocity Vec2)
	OnPinch func(PinchUpdate)

	cfg GestureConfig

	active     bool
	primary    int // pointer id driving the gesture
	lock       *directionLock
	start      Vec2
	last       Vec2
	cumulative Vec2
	gestureTyp GestureType

	samples [maxGestureSamples]GestureSample
	head    int // next write slot
	count   int

	pointerDown [maxTrackedPointers]bool
	pointerPos  [maxTrackedPointers]Vec2
	pinch       pinchState
}

// NewGestureTracker creates a tracker with the given config.
func NewGestureTracker(cfg GestureConfig) *GestureTracker {
	return &GestureTracker{cfg: cfg.withDefaults()}
}

// Type returns the current gesture classification. While a single pointer is
// down it is GesturePan; it becomes GestureSwipe only at release, and
// GesturePinch/GestureRotate while two pointers move.
func (t *GestureTracker) Type() GestureType { return t.gestureTyp }

// Active reports whether a gesture is in progress.
func (t *GestureTracker) Active() bool { return t.active }

// Velocity returns the in-progress gesture velocity in px/s, windowed against
// the most recent sample. Zero when no gesture is active; the definitive
// release velocity still arrives through OnEnd.
func (t *GestureTracker) Velocity() Vec2 {
	if !t.active || t.count == 0 {
		return Vec2{}
	}
	latest := t.samples[(t.head-1+maxGestureSamples)%maxGestureSamples]
	return t.releaseVelocity(latest.TimestampMs)
}

// Handle consumes one pointer event. Events with out-of-range pointer ids or
// non-finite coordinates are dropped.
func (t *GestureTracker) Handle(ev PointerEvent) {
	if ev.PointerID < 0 || ev.PointerID >= maxTrackedPointers {
		return
	}
	p := Vec2{ev.X, ev.Y}
	if !p.IsFinite() || !isFinite(ev.TimestampMs) {
		return
	}
	switch ev.Phase {
	case PointerDown:
		t.pointerDown[ev.PointerID] = true
		t.pointerPos[ev.PointerID] = p
		t.handleDown(ev, p)
	case PointerMove:
		if !t.pointerDown[ev.PointerID] {
			return // hover; gestures only track pressed pointers
		}
		t.handleMove(ev, p)
		t.pointerPos[ev.PointerID] = p
	case PointerUp:
		if !t.pointerDown[ev.PointerID] {
			return
		}
		t.pointerDown[ev.PointerID] = false
		t.pointerPos[ev.PointerID] = p
		t.handleUp(ev, p)
	}
}

func (t *GestureTracker) handleDown(ev PointerEvent, p Vec2) {
	if !t.active {
		t.active = true
		t.primary = ev.PointerID
		t.lock = &directionLock{deadZone: t.cfg.DeadZone}
		t.start = p
		t.last = p
		t.cumulative = Vec2{}
		t.gestureTyp = GesturePan
		t.head, t.count = 0, 0
		t.pushSample(ev.PointerID, p, ev.TimestampMs)
		if t.OnStart != nil {
			t.OnStart(p)
		}
		return
	}
	// Second pointer begins a pinch; single-pointer movement is suppressed
	// for its duration.
	if !t.pinch.active && ev.PointerID != t.primary {
		t.beginPinch(t.primary, ev.PointerID)
	}
}

func (t *GestureTracker) beginPinch(p0, p1 int) {
	d, a := pointPair(t.pointerPos[p0], t.pointerPos[p1])
	t.pinch = pinchState{
		active:       true,
		pointer0:     p0,
		pointer1:     p1,
		initialDist:  d,
		initialAngle: a,
		prevDist:     d,
		prevAngle:    a,
	}
	t.gestureTyp = GesturePinch
}

func pointPair(a, b Vec2) (dist, angle float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy), math.Atan2(dy, dx)
}

func (t *GestureTracker) handleMove(ev PointerEvent, p Vec2) {
	if !t.active {
		return
	}
	if t.pinch.active {
		if ev.PointerID == t.pinch.pointer0 || ev.PointerID == t.pinch.pointer1 {
			t.pointerPos[ev.PointerID] = p
			t.updatePinch()
		}
		return
	}
	if ev.PointerID != t.primary {
		return
	}

	raw := p.Sub(t.last)
	t.last = p
	t.cumulative = p.Sub(t.start)
	t.pushSample(ev.PointerID, p, ev.TimestampMs)

	// Nothing is reported until the dead zone is exceeded; the first report
	// carries the whole accumulated displacement on the locked axis.
	prevAxis := t.lock.axis
	axis := t.lock.feed(t.cumulative)
	if axis == AxisNone {
		return
	}
	if t.OnMove != nil {
		delta := t.lock.constrain(raw)
		if prevAxis == AxisNone {
			delta = t.lock.constrain(t.cumulative)
		}
		t.OnMove(delta, t.lock.constrain(t.cumulative))
	}
}

func (t *GestureTracker) updatePinch() {
	p0 := t.pointerPos[t.pinch.pointer0]
	p1 := t.pointerPos[t.pinch.pointer1]
	dist, angle := pointPair(p0, p1)

	scale := 1.0
	if t.pinch.initialDist > 0 {
		scale = clamp(dist/t.pinch.initialDist, t.cfg.PinchScaleMin, t.cfg.PinchScaleMax)
	}
	scaleDelta := 0.0
	if t.pinch.prevDist > 0 {
		scaleDelta = dist/t.pinch.prevDist - 1
	}
	rotation := angle - t.pinch.initialAngle
	rotDelta := angle - t.pinch.prevAngle

	t.pinch.prevDist = dist
	t.pinch.prevAngle = angle
	t.pinch.scaleAccum += math.Abs(scaleDelta)
	t.pinch.rotateAccum += math.Abs(rotDelta)

	// Classification follows the dominant signal so far.
	if t.pinch.rotateAccum > t.pinch.scaleAccum {
		t.gestureTyp = GestureRotate
	} else {
		t.gestureTyp = GesturePinch
	}

	if t.OnPinch != nil {
		t.OnPinch(PinchUpdate{
			Center:        Vec2{(p0.X + p1.X) / 2, (p0.Y + p1.Y) / 2},
			Scale:         scale,
			ScaleDelta:    scaleDelta,
			Rotation:      rotation,
			RotationDelta: rotDelta,
		})
	}
}

func (t *GestureTracker) handleUp(ev PointerEvent, p Vec2) {
	if !t.active {
		return
	}
	if t.pinch.active {
		if ev.PointerID == t.pinch.pointer0 || ev.PointerID == t.pinch.pointer1 {
			t.pinch.active = false
		}
		if !t.anyPointerDown() {
			t.finish(Vec2{})
		}
		return
	}
	if ev.PointerID != t.primary {
		// A leftover pinch pointer lifting after the pinch deactivated.
		// The gesture is over once nothing remains pressed.
		if !t.anyPointerDown() {
			t.finish(Vec2{})
		}
		return
	}
	t.pushSample(ev.PointerID, p, ev.TimestampMs)
	v := t.releaseVelocity(ev.TimestampMs)
	if v.Length() >= t.cfg.SwipeVelocity {
		t.gestureTyp = GestureSwipe
	}
	if t.lock != nil && t.lock.axis != AxisNone {
		v = t.lock.constrain(v)
	}
	t.finish(v)
}

func (t *GestureTracker) anyPointerDown() bool {
	for _, down := range t.pointerDown {
		if down {
			return true
		}
	}
	return false
}

// finish ends the gesture, discards the sample ring and the direction lock,
// and fires OnEnd exactly once.
func (t *GestureTracker) finish(velocity Vec2) {
	t.active = false
	t.lock = nil
	t.head, t.count = 0, 0
	if t.OnEnd != nil {
		t.OnEnd(velocity)
	}
}

func (t *GestureTracker) pushSample(id int, p Vec2, ts float64) {
	t.samples[t.head] = GestureSample{PointerID: id, Position: p, TimestampMs: ts}
	t.head = (t.head + 1) % maxGestureSamples
	if t.count < maxGestureSamples {
		t.count++
	}
}

// releaseVelocity computes the gesture velocity in px/s from the samples
// inside the configured time window, weighting each pairwise delta by its
// recency so the last moments of the gesture dominate.
func (t *GestureTracker) releaseVelocity(nowMs float64) Vec2 {
	if t.count < 2 {
		return Vec2{}
	}
	windowStart := nowMs - t.cfg.VelocityWindowMs

	var sum Vec2
	var weightedDt float64
	prevIdx := -1
	for i := 0; i < t.count; i++ {
		idx := (t.head - t.count + i + maxGestureSamples) % maxGestureSamples
		s := t.samples[idx]
		if s.TimestampMs < windowStart {
			continue
		}
		if prevIdx >= 0 {
			prev := t.samples[prevIdx]
			dt := s.TimestampMs - prev.TimestampMs
			if dt > 0 {
				w := (s.TimestampMs - windowStart) / t.cfg.VelocityWindowMs
				if w > 1 {
					w = 1
				}
				sum = sum.Add(s.Position.Sub(prev.Position).Scale(w))
				weightedDt += dt * w
			}
		}
		prevIdx = idx
	}
	if weightedDt <= 0 {
		return Vec2{}
	}
	// px/ms -> px/s
	return sum.Scale(1000 / weightedDt)
}
