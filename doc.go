// Package motion is the physics and animation core behind the Glass UI
// component library: spring simulation, inertial 2D movement with momentum
// and snap points, gesture-to-physics translation, and a dual-backend
// animation renderer with capability-based selection.
//
// The package produces numbers, not pixels. Visual mapping (transforms, draw
// calls) belongs to the consumer; the bundled [github.com/glassui/motion/display]
// package provides an Ebitengine adapter, and examples/ contains runnable
// demos.
//
// # Springs
//
// [Solve] advances a damped harmonic oscillator one step; [Spring] keeps the
// state for you, and [SpringSet] composes up to four channels (x, y, scale,
// rotation) with a shared dt:
//
//	s, _ := motion.NewSpring(motion.SpringSnappy, 0, 100)
//	for !s.Settled() {
//		s.Step(1.0 / 60)
//	}
//
// # Inertial movement
//
// [InertiaModel] owns one interactive element's 2D position and velocity and
// runs the drag/fling/snap state machine. Feed it gesture deltas while
// dragging, a release velocity at the end, then call Step each tick:
//
//	m := motion.NewInertiaModel(cfg)
//	m.StartDrag()
//	m.Drag(delta, velocity)
//	m.EndDrag(releaseVelocity)
//	for m.IsAnimating() {
//		m.Step(dt)
//	}
//
// [GestureTracker] produces those deltas and release velocities from
// normalized pointer events, with a dead-zone direction lock and two-pointer
// pinch support.
//
// # Renderers
//
// A [Renderer] starts, pauses, seeks, reverses, and cancels keyframe
// animations against any [Target]. Two backends share one contract:
// [CompositorRenderer] delegates scheduling to a platform display driver,
// while [FrameLoopRenderer] schedules itself with a throttleable ticker.
// [RendererFactory] picks a backend from capability, device tier, and
// performance priority, and memoizes instances per options signature.
//
// # Carousel
//
// [Carousel] wires a gesture tracker, an inertia model, and slide snap
// points into the physics driver used by GlassCarousel.
package motion
