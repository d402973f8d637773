package motion

import "math"

// Friction is an exponential decay rate in 1/s: velocity *= exp(-friction*dt).
// A fling therefore travels velocity/friction pixels before stopping.
const defaultFriction = 4.0

// defaultStopVelocity is the speed (px/s) below which a fling is considered
// over and the model resolves its rest position.
const defaultStopVelocity = 20.0

// InertiaPhase is the lifecycle phase of an InertiaModel.
type InertiaPhase uint8

const (
	PhaseIdle     InertiaPhase = iota // at rest, no gesture
	PhaseDragging                     // position tracks the pointer
	PhaseFlinging                     // momentum decay, no user contact
	PhaseSnapping                     // spring-driven approach to a snap target
	PhaseSettled                      // terminal for one gesture; next Step returns to idle
)

// String returns the lowercase phase name.
func (p InertiaPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseFlinging:
		return "flinging"
	case PhaseSnapping:
		return "snapping"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// ResistanceConfig holds the variable drag-resistance factors. Each factor
// multiplies the applied pointer delta, so values in (0,1) always displace
// strictly less than the raw input. Edge resistance is the strongest (lowest
// factor), near-snap-point resistance is moderate, and high-velocity movement
// gets the lightest so a fast drag can flick through snap points.
//
// The magnitudes are empirically tuned defaults, not physical constants.
type ResistanceConfig struct {
	Edge         float64 // outside the travel range; default 0.35
	NearSnap     float64 // within a snap point's threshold; default 0.55
	HighVelocity float64 // replaces NearSnap above the cutoff; default 0.85

	// HighVelocityCutoff is the drag speed (px/s) above which the light
	// factor applies. Default 800.
	HighVelocityCutoff float64
}

func (r ResistanceConfig) withDefaults() ResistanceConfig {
	if r.Edge <= 0 || r.Edge >= 1 {
		r.Edge = 0.35
	}
	if r.NearSnap <= 0 || r.NearSnap >= 1 {
		r.NearSnap = 0.55
	}
	if r.HighVelocity <= 0 || r.HighVelocity >= 1 {
		r.HighVelocity = 0.85
	}
	if r.HighVelocityCutoff <= 0 {
		r.HighVelocityCutoff = 800
	}
	return r
}

// AxisConfig describes one movement axis: optional travel bounds and an
// optional set of snap points evaluated along it.
type AxisConfig struct {
	Min, Max float64
	Bounded  bool
	Snap     []SnapPoint
}

// InertiaConfig configures an InertiaModel.
type InertiaConfig struct {
	X, Y AxisConfig

	// Friction is the exponential velocity decay rate in 1/s. Default 4.
	Friction float64

	// StopVelocity is the speed below which a fling resolves its rest
	// position. Default 20 px/s.
	StopVelocity float64

	Resistance ResistanceConfig

	// SnapSpring drives snap and settle transitions. Zero value means
	// SpringDefault.
	SnapSpring SpringConfig
}

func (c InertiaConfig) withDefaults() InertiaConfig {
	if c.Friction <= 0 {
		c.Friction = defaultFriction
	}
	if c.StopVelocity <= 0 {
		c.StopVelocity = defaultStopVelocity
	}
	c.Resistance = c.Resistance.withDefaults()
	if c.SnapSpring.Validate() != nil {
		c.SnapSpring = SpringDefault
	}
	return c
}

// InertialState is a read-only snapshot of an InertiaModel.
type InertialState struct {
	Position    Vec2
	Velocity    Vec2
	IsAnimating bool
	IsDragging  bool
}

// inertiaAxis is the per-axis simulation state. Both axes run the same code
// with independent bounds and snap sets.
type inertiaAxis struct {
	cfg    AxisConfig
	pos    float64
	vel    float64
	spring *Spring // non-nil while snapping on this axis
	moving bool
}

// InertiaModel owns one interactive element's 2D position/velocity state
// machine: dragging with variable resistance, momentum decay after release,
// and spring-driven snap transitions. One instance per element; instances
// share no state.
type InertiaModel struct {
	cfg   InertiaConfig
	x, y  inertiaAxis
	phase InertiaPhase
}

// NewInertiaModel creates a model at rest at the origin.
func NewInertiaModel(cfg InertiaConfig) *InertiaModel {
	cfg = cfg.withDefaults()
	return &InertiaModel{
		cfg: cfg,
		x:   inertiaAxis{cfg: cfg.X},
		y:   inertiaAxis{cfg: cfg.Y},
	}
}

// Phase returns the current lifecycle phase.
func (m *InertiaModel) Phase() InertiaPhase { return m.phase }

// Position returns the current 2D position.
func (m *InertiaModel) Position() Vec2 { return Vec2{m.x.pos, m.y.pos} }

// Velocity returns the current 2D velocity in px/s.
func (m *InertiaModel) Velocity() Vec2 { return Vec2{m.x.vel, m.y.vel} }

// IsDragging reports whether a gesture currently owns the position.
func (m *InertiaModel) IsDragging() bool { return m.phase == PhaseDragging }

// IsAnimating reports whether the model is moving without user contact.
func (m *InertiaModel) IsAnimating() bool {
	return m.phase == PhaseFlinging || m.phase == PhaseSnapping
}

// State returns a snapshot of the model.
func (m *InertiaModel) State() InertialState {
	return InertialState{
		Position:    m.Position(),
		Velocity:    m.Velocity(),
		IsAnimating: m.IsAnimating(),
		IsDragging:  m.IsDragging(),
	}
}

// SetPosition teleports the model to a position and stops all movement.
// Used for non-animated jumps (reduced motion).
func (m *InertiaModel) SetPosition(p Vec2) {
	if !p.IsFinite() {
		return
	}
	m.x.reset(p.X)
	m.y.reset(p.Y)
	m.phase = PhaseIdle
}

// Stop cancels any fling or snap in progress, freezing the model where it is.
func (m *InertiaModel) Stop() {
	m.x.reset(m.x.pos)
	m.y.reset(m.y.pos)
	m.phase = PhaseIdle
}

func (a *inertiaAxis) reset(pos float64) {
	a.pos = pos
	a.vel = 0
	a.spring = nil
	a.moving = false
}

// StartDrag begins a gesture. Any fling or snap in progress is interrupted
// and the position tracks the pointer from here on.
func (m *InertiaModel) StartDrag() {
	m.x.spring = nil
	m.y.spring = nil
	m.x.vel = 0
	m.y.vel = 0
	m.phase = PhaseDragging
}

// Drag applies one pointer delta while dragging. velocity is the tracker's
// current gesture velocity (px/s), used to pick the resistance factor.
// Inside bounds and away from snap points the delta applies 1:1.
func (m *InertiaModel) Drag(delta, velocity Vec2) {
	if m.phase != PhaseDragging || !delta.IsFinite() {
		return
	}
	speed := velocity.Length()
	m.x.drag(delta.X, speed, m.cfg.Resistance)
	m.y.drag(delta.Y, speed, m.cfg.Resistance)
}

func (a *inertiaAxis) drag(delta, speed float64, res ResistanceConfig) {
	if delta == 0 {
		return
	}
	a.pos += delta * a.resistanceFactor(speed, res)
}

// resistanceFactor selects the variable resistance multiplier for the current
// position and drag speed. Edge wins over everything; high speed lightens
// near-snap resistance so the content can be flicked through.
func (a *inertiaAxis) resistanceFactor(speed float64, res ResistanceConfig) float64 {
	if a.cfg.Bounded && (a.pos < a.cfg.Min || a.pos > a.cfg.Max) {
		return res.Edge
	}
	if i, ok := a.nearSnapPoint(); ok {
		if speed > res.HighVelocityCutoff {
			return res.HighVelocity
		}
		if r := a.cfg.Snap[i].Resistance; r > 0 && r <= 1 {
			return r
		}
		return res.NearSnap
	}
	return 1
}

// nearSnapPoint returns the enabled snap point whose capture threshold
// contains the current position, if any.
func (a *inertiaAxis) nearSnapPoint() (int, bool) {
	for i, p := range a.cfg.Snap {
		if !p.Enabled || p.Threshold <= 0 {
			continue
		}
		at := p.resolvePosition(a.cfg.Min, a.cfg.Max, a.cfg.Bounded)
		if math.IsNaN(at) {
			continue
		}
		// Skip the point we are resting on; resistance applies when
		// approaching a point, not when sitting at it.
		d := math.Abs(at - a.pos)
		if d > 1e-9 && d <= p.Threshold {
			return i, true
		}
	}
	return -1, false
}

// EndDrag releases the gesture with the measured release velocity. With snap
// points configured the target resolves immediately and the model springs to
// it (a release near a point with low velocity snaps directly); otherwise the
// model flings and decays freely. Empty or fully disabled snap sets degrade
// to free deceleration.
func (m *InertiaModel) EndDrag(release Vec2) {
	if m.phase != PhaseDragging {
		return
	}
	if !release.IsFinite() {
		release = Vec2{}
	}
	m.x.vel = release.X
	m.y.vel = release.Y

	xSnapping := m.x.beginRelease(m.cfg)
	ySnapping := m.y.beginRelease(m.cfg)

	switch {
	case xSnapping || ySnapping:
		m.phase = PhaseSnapping
	case m.x.moving || m.y.moving:
		m.phase = PhaseFlinging
	default:
		m.phase = PhaseSettled
	}
}

// beginRelease decides this axis's post-release behavior. Returns true when
// the axis starts a snap spring.
func (a *inertiaAxis) beginRelease(cfg InertiaConfig) bool {
	if i, ok := ResolveSnapTarget(a.cfg.Snap, a.pos, a.vel, cfg.Friction, a.cfg.Min, a.cfg.Max, a.cfg.Bounded); ok {
		a.snapTo(a.cfg.Snap[i], cfg)
		return true
	}
	// Out of bounds with no snap target: rubber-band back to the edge.
	if a.cfg.Bounded && (a.pos < a.cfg.Min || a.pos > a.cfg.Max) {
		a.springTo(clamp(a.pos, a.cfg.Min, a.cfg.Max), cfg.SnapSpring)
		return true
	}
	a.moving = math.Abs(a.vel) > cfg.StopVelocity
	if !a.moving {
		a.vel = 0
	}
	return false
}

func (a *inertiaAxis) snapTo(p SnapPoint, cfg InertiaConfig) {
	spring := cfg.SnapSpring
	if p.Strength > 0 && p.Strength <= 1 {
		spring.Stiffness *= p.Strength
	}
	a.springTo(p.resolvePosition(a.cfg.Min, a.cfg.Max, a.cfg.Bounded), spring)
}

func (a *inertiaAxis) springTo(target float64, cfg SpringConfig) {
	s, err := NewSpring(cfg, a.pos, target)
	if err != nil {
		// Invalid snap spring degrades to an instant stop at the target
		// rather than a frozen element.
		a.reset(target)
		return
	}
	s.SetVelocity(a.vel)
	a.spring = s
	a.moving = true
}

// SnapTo starts a spring transition to an explicit target position,
// independent of any gesture (programmatic navigation).
func (m *InertiaModel) SnapTo(target Vec2) {
	if !target.IsFinite() {
		return
	}
	m.x.springTo(target.X, m.cfg.SnapSpring)
	m.y.springTo(target.Y, m.cfg.SnapSpring)
	m.phase = PhaseSnapping
}

// Step advances the simulation by dt seconds and returns the new position and
// whether the model is still moving. dt is clamped like the spring solver's.
// A settling tick reports PhaseSettled once; the following Step returns the
// model to PhaseIdle.
func (m *InertiaModel) Step(dt float64) (Vec2, bool) {
	switch m.phase {
	case PhaseIdle, PhaseDragging:
		return m.Position(), false
	case PhaseSettled:
		m.phase = PhaseIdle
		return m.Position(), false
	}
	if dt <= 0 {
		return m.Position(), true
	}
	if dt > maxSpringDt {
		dt = maxSpringDt
	}

	m.x.step(dt, m.cfg)
	m.y.step(dt, m.cfg)

	if m.x.moving || m.y.moving {
		if m.x.spring != nil || m.y.spring != nil {
			m.phase = PhaseSnapping
		} else {
			m.phase = PhaseFlinging
		}
		return m.Position(), true
	}
	m.phase = PhaseSettled
	return m.Position(), false
}

func (a *inertiaAxis) step(dt float64, cfg InertiaConfig) {
	if a.spring != nil {
		st, settled := a.spring.Step(dt)
		a.pos = st.Position
		a.vel = st.Velocity
		if settled {
			a.spring = nil
			a.vel = 0
			a.moving = false
		}
		return
	}
	if !a.moving {
		return
	}

	// Free inertial phase: exponential momentum decay.
	a.vel *= math.Exp(-cfg.Friction * dt)
	a.pos += a.vel * dt

	// Crossing the travel boundary converts the fling into a rubber-band
	// spring back to the edge.
	if a.cfg.Bounded && (a.pos < a.cfg.Min || a.pos > a.cfg.Max) {
		a.springTo(clamp(a.pos, a.cfg.Min, a.cfg.Max), cfg.SnapSpring)
		return
	}

	// A snap point's capture radius grabs passing content.
	if i, ok := a.nearSnapPoint(); ok {
		a.snapTo(a.cfg.Snap[i], cfg)
		return
	}

	if math.Abs(a.vel) <= cfg.StopVelocity {
		if i, ok := ResolveSnapTarget(a.cfg.Snap, a.pos, a.vel, cfg.Friction, a.cfg.Min, a.cfg.Max, a.cfg.Bounded); ok {
			a.snapTo(a.cfg.Snap[i], cfg)
			return
		}
		a.vel = 0
		a.moving = false
	}
}
