package motion

import (
	"sync"
	"time"
)

// defaultFrameInterval is the frame-loop tick period when no target FPS or
// throttle is configured (~60 fps).
const defaultFrameInterval = time.Second / 60

// FrameLoopOptions configures the self-scheduled backend.
type FrameLoopOptions struct {
	// TargetFPS sets the natural tick rate. Default 60.
	TargetFPS int
	// Throttle, when set above the natural frame interval, skips
	// intermediate ticks. Interpolation always derives from wall-clock
	// elapsed time, so throttling reduces update granularity without
	// changing visual speed.
	Throttle time.Duration
}

func (o FrameLoopOptions) interval() time.Duration {
	iv := defaultFrameInterval
	if o.TargetFPS > 0 {
		iv = time.Second / time.Duration(o.TargetFPS)
	}
	if o.Throttle > iv {
		iv = o.Throttle
	}
	return iv
}

// FrameLoopRenderer drives animations from its own ticker goroutine: the
// fallback backend for platforms without a usable compositor, and the
// throttleable backend for low device tiers. The loop runs only while at
// least one animation is running and re-arms itself when new work arrives.
//
// Unlike the rest of the core, this type is safe for concurrent use: the
// ticker goroutine and the caller are serialized by an internal mutex.
// Completion callbacks fire on the ticker goroutine, outside the lock.
type FrameLoopRenderer struct {
	mu       sync.Mutex
	table    *handleTable
	opts     FrameLoopOptions
	now      func() time.Time
	stop     chan struct{} // non-nil while the loop goroutine is alive
	disposed bool

	// noSchedule disables the ticker goroutine so tests can drive advance
	// deterministically.
	noSchedule bool
}

// NewFrameLoopRenderer creates the frame-loop backend. It is always
// supported.
func NewFrameLoopRenderer(opts FrameLoopOptions) *FrameLoopRenderer {
	return &FrameLoopRenderer{
		table: newHandleTable(KindFrameLoop),
		opts:  opts,
		now:   time.Now,
	}
}

// Kind returns KindFrameLoop.
func (r *FrameLoopRenderer) Kind() RendererKind { return KindFrameLoop }

// Interval returns the effective tick period after throttling.
func (r *FrameLoopRenderer) Interval() time.Duration { return r.opts.interval() }

// Animate starts a keyframe animation and arms the frame loop.
func (r *FrameLoopRenderer) Animate(target Target, spec KeyframeSpec, opts AnimationOptions) (*AnimationHandle, error) {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return nil, ErrUnsupportedRenderer
	}
	a, err := r.table.create(target, spec, opts)
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}
	r.armLocked()
	r.mu.Unlock()
	return &AnimationHandle{ID: a.id, Kind: r.table.kind}, nil
}

// armLocked starts the loop goroutine if it is not running. Callers hold mu.
func (r *FrameLoopRenderer) armLocked() {
	if r.stop != nil || r.disposed || r.noSchedule {
		return
	}
	stop := make(chan struct{})
	r.stop = stop
	go r.loop(stop)
}

// loop is the ticker goroutine. It exits when stopped or when a tick leaves
// nothing running (the next Animate/Play re-arms it).
func (r *FrameLoopRenderer) loop(stop chan struct{}) {
	ticker := time.NewTicker(r.opts.interval())
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if !r.advance(now) {
				r.mu.Lock()
				// Re-check under the lock: work may have arrived between the
				// tick and here. Only disarm if this goroutine still owns
				// the loop.
				if r.stop == stop && !r.anyRunnableLocked() {
					r.stop = nil
					r.mu.Unlock()
					return
				}
				r.mu.Unlock()
			}
		}
	}
}

func (r *FrameLoopRenderer) anyRunnableLocked() bool {
	for _, a := range r.table.anims {
		if a.state == StateRunning || a.state == StateIdle {
			return true
		}
	}
	return false
}

// advance runs one tick: samples all animations and fires completion
// callbacks outside the lock. Returns whether anything is still running.
func (r *FrameLoopRenderer) advance(now time.Time) bool {
	r.mu.Lock()
	fired, running := r.table.advanceAll(now)
	r.mu.Unlock()
	for _, fn := range fired {
		fn()
	}
	return running > 0
}

// Play resumes (or restarts) the animation and re-arms the loop.
func (r *FrameLoopRenderer) Play(id string) {
	r.mu.Lock()
	r.table.play(id, r.now())
	r.armLocked()
	r.mu.Unlock()
}

// Pause freezes the animation at its current time.
func (r *FrameLoopRenderer) Pause(id string) {
	r.mu.Lock()
	r.table.pause(id, r.now())
	r.mu.Unlock()
}

// Cancel halts the animation; idempotent, unknown ids are no-ops.
func (r *FrameLoopRenderer) Cancel(id string) {
	r.mu.Lock()
	fired := r.table.cancel(id)
	r.mu.Unlock()
	for _, fn := range fired {
		fn()
	}
}

// Reverse flips playback direction at the current time and resumes.
func (r *FrameLoopRenderer) Reverse(id string) {
	r.mu.Lock()
	r.table.reverse(id, r.now())
	r.armLocked()
	r.mu.Unlock()
}

// SetPlaybackRate changes the playback rate, taking effect from now.
func (r *FrameLoopRenderer) SetPlaybackRate(id string, rate float64) {
	r.mu.Lock()
	r.table.setPlaybackRate(id, rate, r.now())
	r.mu.Unlock()
}

// State reports the play state; ok is false for unknown ids.
func (r *FrameLoopRenderer) State(id string) (PlayState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.state(id)
}

// CurrentTime reports the animation's active time.
func (r *FrameLoopRenderer) CurrentTime(id string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.currentTime(id, r.now())
}

// SetCurrentTime seeks the animation and re-arms the loop.
func (r *FrameLoopRenderer) SetCurrentTime(id string, t time.Duration) {
	r.mu.Lock()
	r.table.setCurrentTime(id, t, r.now())
	r.armLocked()
	r.mu.Unlock()
}

// OnFinish registers a finish callback; fires exactly once, removed by
// cancel.
func (r *FrameLoopRenderer) OnFinish(id string, fn func(id string)) CallbackHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.addCallback(id, eventFinish, fn, r)
}

// OnCancel registers a cancel callback; fires exactly once.
func (r *FrameLoopRenderer) OnCancel(id string, fn func(id string)) CallbackHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.addCallback(id, eventCancel, fn, r)
}

func (r *FrameLoopRenderer) removeCallback(animID string, event uint8, cbID uint32) {
	r.mu.Lock()
	r.table.removeCallback(animID, event, cbID)
	r.mu.Unlock()
}

// ActiveCount reports outstanding (non-terminal) handles.
func (r *FrameLoopRenderer) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.activeCount()
}

// Dispose cancels every outstanding animation and stops the loop goroutine,
// leaving no pending ticker. Idempotent.
func (r *FrameLoopRenderer) Dispose() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	r.disposed = true
	fired := r.table.dispose()
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
	r.mu.Unlock()
	for _, fn := range fired {
		fn()
	}
}
