package motion

import "math"

// Vec2 is a 2D vector used for positions, velocities, deltas, and offsets
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v with both components multiplied by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Length returns the Euclidean magnitude of v.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// IsFinite reports whether both components are finite (no NaN, no Inf).
func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Channel identifies one scalar animation channel of a composed visual
// transform. Each channel runs an independent spring with a shared dt.
type Channel uint8

const (
	ChannelX        Channel = iota // horizontal position
	ChannelY                       // vertical position
	ChannelScale                   // uniform scale
	ChannelRotation                // rotation in radians

	channelCount
)

// Well-known property names understood by the bundled visual targets.
// Renderers treat properties as opaque strings; these are only the names the
// display adapter maps onto its transform.
const (
	PropertyX        = "x"
	PropertyY        = "y"
	PropertyScale    = "scale"
	PropertyRotation = "rotation"
	PropertyOpacity  = "opacity"
)

// PlayState is the lifecycle state of one animation handle.
type PlayState uint8

const (
	StateIdle     PlayState = iota // created, not yet started
	StateRunning                   // actively advancing
	StatePaused                    // frozen at its current time
	StateFinished                  // ran to completion
	StateCanceled                  // stopped before completion
)

// String returns the lowercase state name.
func (s PlayState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	case StateCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// RendererKind tags a renderer's execution strategy. Branching logic should
// switch on this tag rather than on the concrete type.
type RendererKind uint8

const (
	KindCompositor RendererKind = iota // timing delegated to the platform compositor
	KindFrameLoop                      // self-scheduled frame loop with manual interpolation
)

// String returns the lowercase kind name.
func (k RendererKind) String() string {
	if k == KindCompositor {
		return "compositor"
	}
	return "frameloop"
}

// RendererPreference selects a renderer backend, or lets the factory decide.
type RendererPreference uint8

const (
	PreferAuto       RendererPreference = iota // capability- and tier-based selection
	PreferCompositor                           // force the compositor backend
	PreferFrameLoop                            // force the frame-loop backend
)

// PerformancePriority biases the factory's frame-rate selection.
type PerformancePriority uint8

const (
	PriorityBalanced PerformancePriority = iota // default trade-off
	PriorityQuality                             // favor smoothness
	PriorityBattery                             // favor low CPU wakeups
)

// DeviceTier is a coarse classification of the runtime environment's
// rendering capability.
type DeviceTier uint8

const (
	TierAuto   DeviceTier = iota // detect from hardware hints
	TierHigh                     // plenty of cores, full frame rate
	TierMedium                   // mid-range hardware
	TierLow                      // constrained hardware, throttled frame loop only
)

// Target is a visual object whose numeric properties renderers read and
// write. The visual mapping (transform strings, CSS, draw calls) is owned by
// the consumer; the motion core only produces numbers.
type Target interface {
	// Property returns the current value of a named property, and whether
	// the target knows the property at all.
	Property(name string) (float64, bool)
	// SetProperty writes a property value. Unknown names are ignored.
	SetProperty(name string, value float64)
}

// ValueTarget is a map-backed Target for headless use and tests.
type ValueTarget struct {
	values map[string]float64
}

// NewValueTarget creates a ValueTarget with the given initial values.
func NewValueTarget(initial map[string]float64) *ValueTarget {
	v := &ValueTarget{values: make(map[string]float64, len(initial))}
	for k, val := range initial {
		v.values[k] = val
	}
	return v
}

// Property returns the stored value for name.
func (v *ValueTarget) Property(name string) (float64, bool) {
	val, ok := v.values[name]
	return val, ok
}

// SetProperty stores a value for name. Properties not present initially are
// created on first write.
func (v *ValueTarget) SetProperty(name string, value float64) {
	v.values[name] = value
}
