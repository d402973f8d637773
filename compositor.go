package motion

import "time"

// Compositor is a platform animation driver: something that invokes a
// registered callback once per display refresh on the UI thread. The display
// package provides an Ebitengine-backed implementation; tests use stubs.
type Compositor interface {
	// Supported reports whether the platform actually drives the callback.
	// A false probe is a selection signal, not an error condition.
	Supported() bool
	// Register adds a per-frame callback and returns its removal function.
	Register(fn func(now time.Time)) (remove func())
}

// CompositorRenderer delegates animation timing to a platform compositor:
// the renderer registers a single per-frame callback while animations are
// outstanding and never schedules anything itself. This is the lowest
// main-thread-overhead backend, at the cost of per-frame adjustments (those
// require retargeting via seek/rate operations rather than arbitrary
// per-tick code).
//
// The compositor callback and all method calls must happen on the same
// (UI) thread; like the rest of the core there is no internal locking.
type CompositorRenderer struct {
	table      *handleTable
	comp       Compositor
	unregister func()
	now        func() time.Time
	disposed   bool
}

// NewCompositorRenderer creates the compositor-backed renderer. A nil or
// unsupported compositor returns ErrUnsupportedRenderer; the caller (usually
// the factory) selects the frame-loop backend instead.
func NewCompositorRenderer(comp Compositor) (*CompositorRenderer, error) {
	if comp == nil || !comp.Supported() {
		return nil, ErrUnsupportedRenderer
	}
	return &CompositorRenderer{
		table: newHandleTable(KindCompositor),
		comp:  comp,
		now:   time.Now,
	}, nil
}

// Kind returns KindCompositor.
func (r *CompositorRenderer) Kind() RendererKind { return KindCompositor }

// Animate starts a keyframe animation. The handle begins idle and starts
// running on the next compositor frame.
func (r *CompositorRenderer) Animate(target Target, spec KeyframeSpec, opts AnimationOptions) (*AnimationHandle, error) {
	if r.disposed {
		return nil, ErrUnsupportedRenderer
	}
	a, err := r.table.create(target, spec, opts)
	if err != nil {
		return nil, err
	}
	r.ensureRegistered()
	return &AnimationHandle{ID: a.id, Kind: r.table.kind}, nil
}

// ensureRegistered attaches the per-frame callback if it is not attached.
func (r *CompositorRenderer) ensureRegistered() {
	if r.unregister != nil || r.disposed {
		return
	}
	r.unregister = r.comp.Register(r.advance)
}

// advance is the per-frame driver. Exposed to the compositor only.
func (r *CompositorRenderer) advance(now time.Time) {
	fired, _ := r.table.advanceAll(now)
	for _, fn := range fired {
		fn()
	}
	// Release the compositor registration once nothing outstanding remains;
	// paused animations keep it so resuming needs no re-registration.
	if r.table.activeCount() == 0 && r.unregister != nil {
		r.unregister()
		r.unregister = nil
	}
}

// Play resumes (or restarts) the animation.
func (r *CompositorRenderer) Play(id string) {
	r.table.play(id, r.now())
	r.ensureRegistered()
}

// Pause freezes the animation at its current time.
func (r *CompositorRenderer) Pause(id string) { r.table.pause(id, r.now()) }

// Cancel halts the animation; idempotent, unknown ids are no-ops.
func (r *CompositorRenderer) Cancel(id string) {
	for _, fn := range r.table.cancel(id) {
		fn()
	}
}

// Reverse flips playback direction at the current time and resumes.
func (r *CompositorRenderer) Reverse(id string) {
	r.table.reverse(id, r.now())
	r.ensureRegistered()
}

// SetPlaybackRate changes the playback rate, taking effect from now.
func (r *CompositorRenderer) SetPlaybackRate(id string, rate float64) {
	r.table.setPlaybackRate(id, rate, r.now())
}

// State reports the play state; ok is false for unknown ids.
func (r *CompositorRenderer) State(id string) (PlayState, bool) { return r.table.state(id) }

// CurrentTime reports the animation's active time.
func (r *CompositorRenderer) CurrentTime(id string) (time.Duration, bool) {
	return r.table.currentTime(id, r.now())
}

// SetCurrentTime seeks the animation.
func (r *CompositorRenderer) SetCurrentTime(id string, t time.Duration) {
	r.table.setCurrentTime(id, t, r.now())
	r.ensureRegistered()
}

// OnFinish registers a finish callback; fires exactly once, removed by
// cancel.
func (r *CompositorRenderer) OnFinish(id string, fn func(id string)) CallbackHandle {
	return r.table.addCallback(id, eventFinish, fn, r)
}

// OnCancel registers a cancel callback; fires exactly once.
func (r *CompositorRenderer) OnCancel(id string, fn func(id string)) CallbackHandle {
	return r.table.addCallback(id, eventCancel, fn, r)
}

func (r *CompositorRenderer) removeCallback(animID string, event uint8, cbID uint32) {
	r.table.removeCallback(animID, event, cbID)
}

// ActiveCount reports outstanding (non-terminal) handles.
func (r *CompositorRenderer) ActiveCount() int { return r.table.activeCount() }

// Dispose cancels every outstanding animation and releases the compositor
// registration. Idempotent; the renderer rejects new animations afterward.
func (r *CompositorRenderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	fired := r.table.dispose()
	if r.unregister != nil {
		r.unregister()
		r.unregister = nil
	}
	for _, fn := range fired {
		fn()
	}
}
