package motion

import (
	"fmt"
	"math"
	"time"
)

// CarouselConfig configures the physics driver behind a snapping carousel.
type CarouselConfig struct {
	SlideCount int
	SlideWidth float64
	Spacing    float64

	// SnapToSlides generates one snap point per slide. Off, the carousel
	// scrolls with free inertia inside its travel bounds.
	SnapToSlides bool

	// Autoplay advances to the next slide every interval while the carousel
	// is idle. Zero disables autoplay.
	Autoplay time.Duration

	// ReducedMotion bypasses the physics entirely: navigation jumps
	// instantly instead of animating. Consumed at animation start time.
	ReducedMotion bool

	// Spring drives snap transitions; zero value means SpringDefault.
	Spring SpringConfig

	Friction   float64
	Resistance ResistanceConfig
	Gesture    GestureConfig
}

// Carousel is the physics controller for one carousel instance: it owns an
// inertia model, the per-slide snap points, and a gesture tracker, and maps
// between slide indices and scroll positions. The visual layer feeds it
// pointer events and reads Offset each frame.
//
// Scroll position grows rightward through the slide strip: slide i rests at
// i*(SlideWidth+Spacing), and the visual content offset is -position.
type Carousel struct {
	cfg     CarouselConfig
	model   *InertiaModel
	tracker *GestureTracker

	autoplayElapsed float64
	disposed        bool
}

// NewCarousel validates the config and creates an idle carousel at slide 0.
func NewCarousel(cfg CarouselConfig) (*Carousel, error) {
	if cfg.SlideCount <= 0 {
		return nil, fmt.Errorf("%w: slide count %d", ErrInvalidConfig, cfg.SlideCount)
	}
	if cfg.SlideWidth <= 0 || !isFinite(cfg.SlideWidth) || !isFinite(cfg.Spacing) {
		return nil, fmt.Errorf("%w: slide width %v spacing %v", ErrInvalidConfig, cfg.SlideWidth, cfg.Spacing)
	}
	if cfg.Spring.Validate() != nil {
		cfg.Spring = SpringDefault
	}

	axis := AxisConfig{
		Min:     0,
		Max:     float64(cfg.SlideCount-1) * (cfg.SlideWidth + cfg.Spacing),
		Bounded: true,
	}
	if cfg.SnapToSlides {
		axis.Snap = SlideSnapPoints(cfg.SlideCount, cfg.SlideWidth, cfg.Spacing)
	}

	c := &Carousel{
		cfg: cfg,
		model: NewInertiaModel(InertiaConfig{
			X:          axis,
			Friction:   cfg.Friction,
			Resistance: cfg.Resistance,
			SnapSpring: cfg.Spring,
		}),
		tracker: NewGestureTracker(cfg.Gesture),
	}

	// Dragging the content left (negative pointer delta) scrolls forward,
	// so gesture deltas feed the model negated.
	c.tracker.OnStart = func(Vec2) {
		if !c.disposed {
			c.model.StartDrag()
			c.autoplayElapsed = 0
		}
	}
	c.tracker.OnMove = func(delta, _ Vec2) {
		if !c.disposed {
			// The tracker's windowed velocity picks the resistance tier, so
			// a fast drag gets the light factor and can flick through snaps.
			c.model.Drag(delta.Scale(-1), c.tracker.Velocity().Scale(-1))
		}
	}
	c.tracker.OnEnd = func(v Vec2) {
		if !c.disposed {
			c.model.EndDrag(v.Scale(-1))
		}
	}
	return c, nil
}

// Pointer feeds one normalized pointer event into the carousel's gesture
// tracker. Events after Dispose are dropped.
func (c *Carousel) Pointer(ev PointerEvent) {
	if c.disposed {
		return
	}
	c.tracker.Handle(ev)
}

// Update advances the physics by dt seconds and returns the current visual
// content offset. It also drives autoplay while the carousel is idle.
func (c *Carousel) Update(dt float64) float64 {
	if c.disposed {
		return c.Offset()
	}
	c.model.Step(dt)

	if c.cfg.Autoplay > 0 && c.model.Phase() == PhaseIdle && !c.tracker.Active() {
		c.autoplayElapsed += dt
		if c.autoplayElapsed >= c.cfg.Autoplay.Seconds() {
			c.autoplayElapsed = 0
			c.GoTo((c.Index()+1)%c.cfg.SlideCount, true)
		}
	} else {
		c.autoplayElapsed = 0
	}
	return c.Offset()
}

// Offset returns the content offset the visual layer applies (negative
// scroll position).
func (c *Carousel) Offset() float64 { return -c.model.Position().X }

// Position returns the raw scroll position.
func (c *Carousel) Position() float64 { return c.model.Position().X }

// Index returns the slide nearest to the current scroll position.
func (c *Carousel) Index() int {
	stride := c.cfg.SlideWidth + c.cfg.Spacing
	if stride <= 0 {
		return 0
	}
	i := int(math.Round(c.model.Position().X / stride))
	if i < 0 {
		i = 0
	}
	if i > c.cfg.SlideCount-1 {
		i = c.cfg.SlideCount - 1
	}
	return i
}

// GoTo navigates to a slide. With animate set (and reduced motion off) the
// model springs there; otherwise the position jumps instantly.
func (c *Carousel) GoTo(index int, animate bool) {
	if c.disposed {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > c.cfg.SlideCount-1 {
		index = c.cfg.SlideCount - 1
	}
	target := Vec2{X: float64(index) * (c.cfg.SlideWidth + c.cfg.Spacing)}
	if !animate || c.cfg.ReducedMotion {
		c.model.SetPosition(target)
		return
	}
	c.model.SnapTo(target)
}

// Next advances one slide, wrapping at the end.
func (c *Carousel) Next() { c.GoTo((c.Index()+1)%c.cfg.SlideCount, true) }

// Prev goes back one slide, wrapping at the start.
func (c *Carousel) Prev() {
	c.GoTo((c.Index()-1+c.cfg.SlideCount)%c.cfg.SlideCount, true)
}

// State returns the inertia model's snapshot.
func (c *Carousel) State() InertialState { return c.model.State() }

// Model exposes the underlying inertia model for advanced consumers.
func (c *Carousel) Model() *InertiaModel { return c.model }

// Dispose stops all movement and pending autoplay. Further events and
// updates are no-ops. Idempotent.
func (c *Carousel) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	c.model.Stop()
	c.autoplayElapsed = 0
}
