package motion

import "errors"

// ErrInvalidConfig is returned when a configuration value makes a simulation
// or animation impossible to run (non-positive mass, NaN targets, empty
// keyframes). It is reported synchronously at call time; the solvers refuse
// to start rather than propagate NaN through subsequent ticks.
var ErrInvalidConfig = errors.New("motion: invalid config")

// ErrUnsupportedRenderer is returned when a backend's capability probe fails.
// It is a selection signal for the factory, not a fatal condition: callers
// fall back to the frame-loop backend.
var ErrUnsupportedRenderer = errors.New("motion: renderer not supported")

// Operations on unknown or stale animation ids are deliberately NOT errors:
// they are no-ops, so UI teardown code can cancel in any order.
