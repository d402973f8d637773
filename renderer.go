package motion

import (
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
)

// PlaybackDirection controls how iteration progress maps to keyframe offsets.
type PlaybackDirection uint8

const (
	DirectionNormal           PlaybackDirection = iota // 0 -> 1 every iteration
	DirectionReverse                                   // 1 -> 0 every iteration
	DirectionAlternate                                 // forward, then backward, alternating
	DirectionAlternateReverse                          // backward, then forward, alternating
)

// FillMode controls what the target shows outside the active interval.
// The zero value keeps the final keyframe values, which is what UI motion
// almost always wants.
type FillMode uint8

const (
	FillForwards  FillMode = iota // keep final values after finishing
	FillNone                      // restore the pre-animation values after finishing
	FillBackwards                 // apply first values during the delay
	FillBoth                      // FillBackwards + FillForwards
)

// InfiniteIterations makes an animation repeat until canceled.
const InfiniteIterations = -1

// defaultDuration applies when AnimationOptions.Duration is zero.
const defaultDuration = 300 * time.Millisecond

// AnimationOptions configures one animation run.
type AnimationOptions struct {
	Duration time.Duration // default 300ms
	Delay    time.Duration
	Easing   ease.TweenFunc // applied per iteration; default ease.Linear
	// Iterations is the repeat count; default 1, InfiniteIterations loops
	// forever.
	Iterations   int
	Direction    PlaybackDirection
	Fill         FillMode
	PlaybackRate float64 // default 1
}

func (o AnimationOptions) withDefaults() AnimationOptions {
	if o.Duration == 0 {
		o.Duration = defaultDuration
	}
	if o.Easing == nil {
		o.Easing = ease.Linear
	}
	if o.Iterations == 0 {
		o.Iterations = 1
	}
	if o.PlaybackRate == 0 {
		o.PlaybackRate = 1
	}
	return o
}

func (o AnimationOptions) validate() error {
	if o.Duration < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	if o.Delay < 0 {
		return fmt.Errorf("%w: negative delay", ErrInvalidConfig)
	}
	if o.Iterations < InfiniteIterations {
		return fmt.Errorf("%w: iterations %d", ErrInvalidConfig, o.Iterations)
	}
	if !isFinite(o.PlaybackRate) {
		return fmt.Errorf("%w: non-finite playback rate", ErrInvalidConfig)
	}
	return nil
}

// AnimationHandle references a running animation. The ID is the only
// externally valid reference: operations with a stale or unknown id are
// no-ops, never errors.
type AnimationHandle struct {
	ID   string
	Kind RendererKind
}

// Renderer is the common animation contract, polymorphic over the compositor
// and frame-loop backends. Every id-addressed operation silently ignores
// unknown ids, which keeps UI teardown code order-independent.
type Renderer interface {
	// Kind tags the execution strategy; switch on this instead of on the
	// concrete type.
	Kind() RendererKind

	// Animate starts a keyframe animation against target. The animation is
	// created idle and begins running on the backend's next tick. Creation
	// failures (invalid spec or options, a panicking target) are logged and
	// returned as errors with a nil handle; they never propagate a panic.
	Animate(target Target, spec KeyframeSpec, opts AnimationOptions) (*AnimationHandle, error)

	Play(id string)
	Pause(id string)
	// Cancel halts the animation immediately. Idempotent: canceling twice is
	// the same as canceling once.
	Cancel(id string)
	// Reverse flips the playback direction at the current time and resumes.
	Reverse(id string)
	SetPlaybackRate(id string, rate float64)

	// State reports the animation's play state; ok is false for unknown ids.
	State(id string) (PlayState, bool)
	// CurrentTime reports the animation's active time; ok is false for
	// unknown ids.
	CurrentTime(id string) (time.Duration, bool)
	SetCurrentTime(id string, t time.Duration)

	// OnFinish registers fn to run exactly once when the animation finishes
	// naturally. Canceling removes the registration without firing it.
	OnFinish(id string, fn func(id string)) CallbackHandle
	// OnCancel registers fn to run exactly once if the animation is
	// canceled.
	OnCancel(id string, fn func(id string)) CallbackHandle

	// ActiveCount reports how many handles are outstanding (not finished or
	// canceled).
	ActiveCount() int

	// Dispose cancels and releases every outstanding handle and stops all
	// scheduling. Idempotent.
	Dispose()
}

// callback event kinds.
const (
	eventFinish uint8 = iota
	eventCancel
)

type callbackRemover interface {
	removeCallback(animID string, event uint8, cbID uint32)
}

// CallbackHandle allows removing a registered completion callback.
type CallbackHandle struct {
	anim  string
	event uint8
	id    uint32
	owner callbackRemover
}

// Remove unregisters this callback so it never fires. Safe on the zero value
// and after the animation is gone.
func (h CallbackHandle) Remove() {
	if h.owner != nil {
		h.owner.removeCallback(h.anim, h.event, h.id)
	}
}

type callbackEntry struct {
	id uint32
	fn func(id string)
}

func removeCallbackEntry(s []callbackEntry, id uint32) []callbackEntry {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = callbackEntry{}
			return s[:len(s)-1]
		}
	}
	return s
}

// animation is the per-handle state shared by both backends.
type animation struct {
	id     string
	target Target
	tracks []propertyTrack
	opts   AnimationOptions

	state PlayState
	rate  float64

	// Timeline: acc is the active time accumulated up to the last boundary
	// (pause, seek, rate change); startWall is the wall time of that
	// boundary while running.
	acc       time.Duration
	startWall time.Time

	finishCbs []callbackEntry
	cancelCbs []callbackEntry
}

func (a *animation) currentTime(now time.Time) time.Duration {
	if a.state != StateRunning {
		return a.acc
	}
	return a.acc + time.Duration(float64(now.Sub(a.startWall))*a.rate)
}

// rebase folds elapsed wall time into acc so rate/state changes take effect
// from `now`.
func (a *animation) rebase(now time.Time) {
	a.acc = a.currentTime(now)
	if a.acc < 0 {
		a.acc = 0
	}
	a.startWall = now
}

// total returns the full active duration (delay + all iterations), and
// whether it is finite.
func (a *animation) total() (time.Duration, bool) {
	if a.opts.Iterations == InfiniteIterations {
		return 0, false
	}
	return a.opts.Delay + a.opts.Duration*time.Duration(a.opts.Iterations), true
}

// easeProgress maps linear progress through one iteration onto the eased
// curve. gween's easing functions take (t, begin, change, duration).
func easeProgress(fn ease.TweenFunc, p float64) float64 {
	return float64(fn(float32(p), 0, 1, 1))
}

func (a *animation) directedProgress(iteration int, p float64) float64 {
	switch a.opts.Direction {
	case DirectionReverse:
		return 1 - p
	case DirectionAlternate:
		if iteration%2 == 1 {
			return 1 - p
		}
		return p
	case DirectionAlternateReverse:
		if iteration%2 == 0 {
			return 1 - p
		}
		return p
	default:
		return p
	}
}

func (a *animation) writeTracks(eased float64) {
	for i := range a.tracks {
		t := &a.tracks[i]
		a.target.SetProperty(t.property, t.valueAt(eased))
	}
}

func (a *animation) restoreBase() {
	for i := range a.tracks {
		t := &a.tracks[i]
		a.target.SetProperty(t.property, t.base)
	}
}

// sample writes the target values for active time t and reports whether the
// animation has run to completion (in either playback direction).
func (a *animation) sample(t time.Duration) bool {
	// Reverse playback completes at time zero.
	if a.rate < 0 && t <= 0 {
		a.finishAt(0)
		return true
	}

	active := t - a.opts.Delay
	if active < 0 {
		if a.opts.Fill == FillBackwards || a.opts.Fill == FillBoth {
			a.writeTracks(easeProgress(a.opts.Easing, a.directedProgress(0, 0)))
		}
		return false
	}

	if total, finite := a.total(); finite && t >= total {
		a.finishAt(total)
		return true
	}

	if a.opts.Duration <= 0 {
		a.writeTracks(easeProgress(a.opts.Easing, a.directedProgress(0, 1)))
		return true
	}

	iteration := int(active / a.opts.Duration)
	local := float64(active%a.opts.Duration) / float64(a.opts.Duration)
	a.writeTracks(easeProgress(a.opts.Easing, a.directedProgress(iteration, local)))
	return false
}

// finishAt writes the terminal values for completion at active time t
// (0 when reversed, the full total otherwise) honoring the fill mode.
func (a *animation) finishAt(t time.Duration) {
	switch a.opts.Fill {
	case FillNone, FillBackwards:
		if t > 0 {
			a.restoreBase()
			return
		}
	}
	var eased float64
	if t <= 0 {
		eased = easeProgress(a.opts.Easing, a.directedProgress(0, 0))
	} else {
		lastIter := a.opts.Iterations - 1
		if lastIter < 0 {
			lastIter = 0
		}
		eased = easeProgress(a.opts.Easing, a.directedProgress(lastIter, 1))
	}
	a.writeTracks(eased)
}

// handleTable is the id-addressed animation registry shared by both
// backends. It is not safe for concurrent use; the frame-loop renderer
// serializes access with its own mutex.
type handleTable struct {
	kind   RendererKind
	anims  map[string]*animation
	order  []string
	nextID uint64
	nextCb uint32
}

func newHandleTable(kind RendererKind) *handleTable {
	return &handleTable{kind: kind, anims: make(map[string]*animation)}
}

// create validates and registers a new animation. A panicking target is
// recovered here: the renderer boundary logs and reports a failed creation
// instead of propagating.
func (ht *handleTable) create(target Target, spec KeyframeSpec, opts AnimationOptions) (a *animation, err error) {
	defer func() {
		if r := recover(); r != nil {
			warnf("animation creation panicked: %v", r)
			a = nil
			err = fmt.Errorf("motion: animation creation failed: %v", r)
		}
	}()

	if target == nil {
		return nil, fmt.Errorf("%w: nil target", ErrInvalidConfig)
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	tracks, err := spec.normalize(target)
	if err != nil {
		return nil, err
	}

	ht.nextID++
	a = &animation{
		id:     fmt.Sprintf("anim-%d", ht.nextID),
		target: target,
		tracks: tracks,
		opts:   opts,
		state:  StateIdle,
		rate:   opts.PlaybackRate,
	}
	ht.anims[a.id] = a
	ht.order = append(ht.order, a.id)
	return a, nil
}

// advanceAll starts idle animations, samples running ones, and returns the
// callbacks to fire for animations that finished this tick, plus the number
// of animations still running.
func (ht *handleTable) advanceAll(now time.Time) (fired []func(), running int) {
	for _, id := range ht.order {
		a, ok := ht.anims[id]
		if !ok {
			continue
		}
		switch a.state {
		case StateIdle:
			// acc is zero at creation unless a pre-start seek set it, so
			// only the wall anchor moves here.
			a.state = StateRunning
			a.startWall = now
		case StateRunning:
		default:
			continue
		}
		if a.sample(a.currentTime(now)) {
			a.rebase(now)
			a.state = StateFinished
			fired = append(fired, ht.takeCallbacks(a, eventFinish)...)
			continue
		}
		running++
	}
	return fired, running
}

// takeCallbacks detaches an animation's callbacks for one event so each fires
// exactly once.
func (ht *handleTable) takeCallbacks(a *animation, event uint8) []func() {
	var entries []callbackEntry
	if event == eventFinish {
		entries, a.finishCbs = a.finishCbs, nil
	} else {
		entries, a.cancelCbs = a.cancelCbs, nil
	}
	if len(entries) == 0 {
		return nil
	}
	fired := make([]func(), 0, len(entries))
	id := a.id
	for _, e := range entries {
		fn := e.fn
		fired = append(fired, func() { fn(id) })
	}
	return fired
}

func (ht *handleTable) play(id string, now time.Time) {
	a, ok := ht.anims[id]
	if !ok {
		return
	}
	switch a.state {
	case StateIdle, StatePaused:
		a.state = StateRunning
		a.startWall = now
	case StateFinished, StateCanceled:
		// Restart from the beginning, WAAPI-style.
		a.acc = 0
		a.startWall = now
		a.state = StateRunning
	}
}

func (ht *handleTable) pause(id string, now time.Time) {
	a, ok := ht.anims[id]
	if !ok || a.state != StateRunning {
		return
	}
	a.rebase(now)
	a.state = StatePaused
}

// cancel marks the animation canceled and returns its cancel callbacks.
// Finish callbacks are dropped without firing. Idempotent.
func (ht *handleTable) cancel(id string) []func() {
	a, ok := ht.anims[id]
	if !ok || a.state == StateCanceled || a.state == StateFinished {
		return nil
	}
	a.state = StateCanceled
	a.finishCbs = nil
	return ht.takeCallbacks(a, eventCancel)
}

func (ht *handleTable) reverse(id string, now time.Time) {
	a, ok := ht.anims[id]
	if !ok || a.state == StateCanceled {
		return
	}
	a.rebase(now)
	if total, finite := a.total(); finite && a.acc > total {
		a.acc = total
	}
	a.rate = -a.rate
	a.state = StateRunning
}

func (ht *handleTable) setPlaybackRate(id string, rate float64, now time.Time) {
	a, ok := ht.anims[id]
	if !ok || !isFinite(rate) {
		return
	}
	a.rebase(now)
	a.rate = rate
}

func (ht *handleTable) state(id string) (PlayState, bool) {
	a, ok := ht.anims[id]
	if !ok {
		return StateIdle, false
	}
	return a.state, true
}

func (ht *handleTable) currentTime(id string, now time.Time) (time.Duration, bool) {
	a, ok := ht.anims[id]
	if !ok {
		return 0, false
	}
	t := a.currentTime(now)
	if t < 0 {
		t = 0
	}
	if total, finite := a.total(); finite && t > total {
		t = total
	}
	return t, true
}

func (ht *handleTable) setCurrentTime(id string, t time.Duration, now time.Time) {
	a, ok := ht.anims[id]
	if !ok || t < 0 || a.state == StateCanceled {
		return
	}
	a.acc = t
	a.startWall = now
	// Seeking a finished animation reactivates it.
	if a.state == StateFinished {
		a.state = StateRunning
	}
}

func (ht *handleTable) addCallback(id string, event uint8, fn func(string), owner callbackRemover) CallbackHandle {
	a, ok := ht.anims[id]
	if !ok || fn == nil {
		return CallbackHandle{}
	}
	// Terminal animations never fire; registering on them is a no-op.
	if a.state == StateFinished || a.state == StateCanceled {
		return CallbackHandle{}
	}
	ht.nextCb++
	e := callbackEntry{id: ht.nextCb, fn: fn}
	if event == eventFinish {
		a.finishCbs = append(a.finishCbs, e)
	} else {
		a.cancelCbs = append(a.cancelCbs, e)
	}
	return CallbackHandle{anim: id, event: event, id: ht.nextCb, owner: owner}
}

func (ht *handleTable) removeCallback(id string, event uint8, cbID uint32) {
	a, ok := ht.anims[id]
	if !ok {
		return
	}
	if event == eventFinish {
		a.finishCbs = removeCallbackEntry(a.finishCbs, cbID)
	} else {
		a.cancelCbs = removeCallbackEntry(a.cancelCbs, cbID)
	}
}

func (ht *handleTable) activeCount() int {
	n := 0
	for _, a := range ht.anims {
		if a.state != StateFinished && a.state != StateCanceled {
			n++
		}
	}
	return n
}

// dispose cancels everything and empties the table, returning the cancel
// callbacks to fire.
func (ht *handleTable) dispose() []func() {
	var fired []func()
	for _, id := range ht.order {
		fired = append(fired, ht.cancel(id)...)
	}
	ht.anims = make(map[string]*animation)
	ht.order = nil
	return fired
}
