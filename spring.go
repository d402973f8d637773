package motion

import (
	"fmt"
	"math"
)

// maxSpringDt caps one integration step. Tab-throttled or hitched frames can
// deliver huge dt values that destabilize the integrator; anything above the
// cap is clamped.
const maxSpringDt = 1.0 / 30

// Default rest thresholds: once position is within RestPositionThreshold of
// the target AND speed is below RestVelocityThreshold, the spring snaps to
// the target and reports settled.
const (
	defaultRestPosition = 0.01
	defaultRestVelocity = 0.01
)

// SpringState is one scalar channel's position and velocity. Both values are
// always finite; configurations that would produce NaN are rejected up front.
type SpringState struct {
	Position float64
	Velocity float64
}

// SpringConfig parametrizes a damped harmonic oscillator.
// Stiffness (tension) and Mass must be positive; Damping (friction) must be
// non-negative. Zero rest thresholds fall back to the package defaults.
type SpringConfig struct {
	Stiffness       float64
	Damping         float64
	Mass            float64
	InitialVelocity float64

	RestPositionThreshold float64
	RestVelocityThreshold float64
}

// Named spring presets. All presets are valid configurations.
var (
	SpringGentle     = SpringConfig{Stiffness: 120, Damping: 14, Mass: 1}
	SpringDefault    = SpringConfig{Stiffness: 170, Damping: 26, Mass: 1}
	SpringSnappy     = SpringConfig{Stiffness: 260, Damping: 24, Mass: 1}
	SpringBouncy     = SpringConfig{Stiffness: 180, Damping: 12, Mass: 1}
	SpringHeavy      = SpringConfig{Stiffness: 210, Damping: 60, Mass: 4}
	SpringResponsive = SpringConfig{Stiffness: 300, Damping: 28, Mass: 1}
	SpringWobbly     = SpringConfig{Stiffness: 180, Damping: 8, Mass: 1}
	SpringStiff      = SpringConfig{Stiffness: 210, Damping: 20, Mass: 1}
	SpringSlow       = SpringConfig{Stiffness: 280, Damping: 60, Mass: 1}
)

// Validate reports whether the configuration can be integrated safely.
func (c SpringConfig) Validate() error {
	if !(c.Stiffness > 0) || !isFinite(c.Stiffness) {
		return fmt.Errorf("%w: stiffness %v, must be > 0", ErrInvalidConfig, c.Stiffness)
	}
	if c.Damping < 0 || !isFinite(c.Damping) {
		return fmt.Errorf("%w: damping %v, must be >= 0", ErrInvalidConfig, c.Damping)
	}
	if !(c.Mass > 0) || !isFinite(c.Mass) {
		return fmt.Errorf("%w: mass %v, must be > 0", ErrInvalidConfig, c.Mass)
	}
	if !isFinite(c.InitialVelocity) {
		return fmt.Errorf("%w: initial velocity %v", ErrInvalidConfig, c.InitialVelocity)
	}
	return nil
}

func (c SpringConfig) restPosition() float64 {
	if c.RestPositionThreshold > 0 {
		return c.RestPositionThreshold
	}
	return defaultRestPosition
}

func (c SpringConfig) restVelocity() float64 {
	if c.RestVelocityThreshold > 0 {
		return c.RestVelocityThreshold
	}
	return defaultRestVelocity
}

// Solve advances one semi-implicit Euler step of a damped harmonic
// oscillator pulling `from` toward `to` with the given current velocity.
// It returns the new state and whether the spring has settled at the target.
//
//	force = -stiffness*(position-target) - damping*velocity
//	velocity += (force/mass) * dt
//	position += velocity * dt
//
// dt is clamped to 1/30 s. The config, endpoints, and velocity must be
// finite; otherwise ErrInvalidConfig is returned and the state is unchanged.
func Solve(cfg SpringConfig, from, to, velocity, dt float64) (SpringState, bool, error) {
	if err := cfg.Validate(); err != nil {
		return SpringState{Position: from, Velocity: velocity}, false, err
	}
	if !isFinite(from) || !isFinite(to) || !isFinite(velocity) {
		return SpringState{Position: from, Velocity: velocity}, false,
			fmt.Errorf("%w: non-finite spring state (from=%v to=%v v=%v)", ErrInvalidConfig, from, to, velocity)
	}
	if dt <= 0 {
		return SpringState{Position: from, Velocity: velocity}, false, nil
	}
	if dt > maxSpringDt {
		dt = maxSpringDt
	}

	force := -cfg.Stiffness*(from-to) - cfg.Damping*velocity
	velocity += force / cfg.Mass * dt
	position := from + velocity*dt

	if math.Abs(position-to) < cfg.restPosition() && math.Abs(velocity) < cfg.restVelocity() {
		return SpringState{Position: to, Velocity: 0}, true, nil
	}
	return SpringState{Position: position, Velocity: velocity}, false, nil
}

// Spring is a stateful scalar spring: one channel of position and velocity
// converging on a retargetable value.
type Spring struct {
	cfg     SpringConfig
	target  float64
	state   SpringState
	settled bool
}

// NewSpring creates a spring at `from` converging on `to`, starting with the
// config's initial velocity.
func NewSpring(cfg SpringConfig, from, to float64) (*Spring, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !isFinite(from) || !isFinite(to) {
		return nil, fmt.Errorf("%w: non-finite spring endpoints (from=%v to=%v)", ErrInvalidConfig, from, to)
	}
	return &Spring{
		cfg:    cfg,
		target: to,
		state:  SpringState{Position: from, Velocity: cfg.InitialVelocity},
	}, nil
}

// Step advances the spring by dt seconds and returns the new state and
// whether it has settled. Stepping a settled spring is a no-op.
func (s *Spring) Step(dt float64) (SpringState, bool) {
	if s.settled {
		return s.state, true
	}
	next, settled, err := Solve(s.cfg, s.state.Position, s.target, s.state.Velocity, dt)
	if err != nil {
		// Construction validated the config; the only way to get here is a
		// non-finite target injected via Retarget with a bad value, which
		// Retarget rejects. Settle defensively at the target.
		s.state = SpringState{Position: s.target, Velocity: 0}
		s.settled = true
		return s.state, true
	}
	s.state = next
	s.settled = settled
	return s.state, settled
}

// Retarget redirects the spring toward a new value, preserving current
// position and velocity. Non-finite targets are ignored.
func (s *Spring) Retarget(to float64) {
	if !isFinite(to) {
		return
	}
	s.target = to
	s.settled = false
}

// SetVelocity overrides the spring's current velocity. Non-finite values are
// ignored.
func (s *Spring) SetVelocity(v float64) {
	if !isFinite(v) {
		return
	}
	s.state.Velocity = v
	if v != 0 {
		s.settled = false
	}
}

// State returns the current position and velocity.
func (s *Spring) State() SpringState { return s.state }

// Target returns the value the spring is converging on.
func (s *Spring) Target() float64 { return s.target }

// Settled reports whether the spring has reached rest at its target.
func (s *Spring) Settled() bool { return s.settled }

// SpringSet composes independent springs for the x, y, scale, and rotation
// channels, all advanced with a shared dt. Unset channels are skipped.
type SpringSet struct {
	springs [channelCount]*Spring
	active  [channelCount]bool
	Done    bool
}

// Set attaches a spring to one channel, replacing any existing spring there.
func (g *SpringSet) Set(ch Channel, cfg SpringConfig, from, to float64) error {
	if ch >= channelCount {
		return fmt.Errorf("%w: unknown channel %d", ErrInvalidConfig, ch)
	}
	s, err := NewSpring(cfg, from, to)
	if err != nil {
		return err
	}
	g.springs[ch] = s
	g.active[ch] = true
	g.Done = false
	return nil
}

// Step advances every active channel by the same dt. Done is set once every
// channel has settled.
func (g *SpringSet) Step(dt float64) {
	if g.Done {
		return
	}
	allDone := true
	for i := Channel(0); i < channelCount; i++ {
		if !g.active[i] {
			continue
		}
		if _, settled := g.springs[i].Step(dt); !settled {
			allDone = false
		}
	}
	g.Done = allDone
}

// Value returns the current position of one channel, or 0 if the channel has
// no spring attached.
func (g *SpringSet) Value(ch Channel) float64 {
	if ch >= channelCount || !g.active[ch] {
		return 0
	}
	return g.springs[ch].State().Position
}

// Velocity returns the current velocity of one channel, or 0 if the channel
// has no spring attached.
func (g *SpringSet) Velocity(ch Channel) float64 {
	if ch >= channelCount || !g.active[ch] {
		return 0
	}
	return g.springs[ch].State().Velocity
}
