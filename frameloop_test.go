package motion

import (
	"testing"
	"time"

	"github.com/tanema/gween/ease"
)

// newManualFrameLoop builds a frame-loop renderer with scheduling disabled so
// tests drive advance with synthetic times.
func newManualFrameLoop(opts FrameLoopOptions) *FrameLoopRenderer {
	r := NewFrameLoopRenderer(opts)
	r.noSchedule = true
	return r
}

func TestFrameLoopIntervalSelection(t *testing.T) {
	cases := []struct {
		opts FrameLoopOptions
		want time.Duration
	}{
		{FrameLoopOptions{}, time.Second / 60},
		{FrameLoopOptions{TargetFPS: 30}, time.Second / 30},
		{FrameLoopOptions{TargetFPS: 120}, time.Second / 120},
		{FrameLoopOptions{TargetFPS: 60, Throttle: 50 * time.Millisecond}, 50 * time.Millisecond},
		{FrameLoopOptions{TargetFPS: 10, Throttle: 10 * time.Millisecond}, time.Second / 10},
	}
	for _, c := range cases {
		if got := c.opts.interval(); got != c.want {
			t.Errorf("interval(%+v) = %v, want %v", c.opts, got, c.want)
		}
	}
}

func TestFrameLoopLifecycleDeterministic(t *testing.T) {
	r := newManualFrameLoop(FrameLoopOptions{})
	target := NewValueTarget(map[string]float64{"x": 0})

	start := time.Unix(0, 0)
	h, err := r.Animate(target, slideSpec(), AnimationOptions{Duration: 100 * time.Millisecond, Easing: ease.Linear})
	if err != nil {
		t.Fatal(err)
	}
	if st, _ := r.State(h.ID); st != StateIdle {
		t.Fatalf("state = %s, want idle before first advance", st)
	}

	r.advance(start)
	if st, _ := r.State(h.ID); st != StateRunning {
		t.Fatalf("state = %s, want running", st)
	}

	r.advance(start.Add(50 * time.Millisecond))
	if x, _ := target.Property("x"); x < 45 || x > 55 {
		t.Errorf("x = %f, want ~50", x)
	}

	r.advance(start.Add(120 * time.Millisecond))
	if st, _ := r.State(h.ID); st != StateFinished {
		t.Fatalf("state = %s, want finished", st)
	}
	if x, _ := target.Property("x"); x != 100 {
		t.Errorf("final x = %f, want 100", x)
	}
}

func TestFrameLoopThrottleKeepsWallClockSpeed(t *testing.T) {
	// A heavily throttled loop ticks rarely, but each tick interpolates from
	// wall-clock elapsed time, so the animation position is the same as an
	// unthrottled loop observed at the same instant.
	throttled := newManualFrameLoop(FrameLoopOptions{Throttle: 250 * time.Millisecond})
	smooth := newManualFrameLoop(FrameLoopOptions{})

	ta := NewValueTarget(map[string]float64{"x": 0})
	tb := NewValueTarget(map[string]float64{"x": 0})
	opts := AnimationOptions{Duration: time.Second, Easing: ease.Linear}

	start := time.Unix(0, 0)
	if _, err := throttled.Animate(ta, slideSpec(), opts); err != nil {
		t.Fatal(err)
	}
	if _, err := smooth.Animate(tb, slideSpec(), opts); err != nil {
		t.Fatal(err)
	}
	throttled.advance(start)
	smooth.advance(start)

	// The smooth loop ticks every 16ms; the throttled loop once at 512ms.
	for ms := 16; ms <= 512; ms += 16 {
		smooth.advance(start.Add(time.Duration(ms) * time.Millisecond))
	}
	throttled.advance(start.Add(512 * time.Millisecond))

	xa, _ := ta.Property("x")
	xb, _ := tb.Property("x")
	if xa != xb {
		t.Errorf("throttled x = %f, smooth x = %f; throttling changed visual speed", xa, xb)
	}
	if xa < 50 || xa > 52 {
		t.Errorf("x = %f, want ~51.2 at 512ms of a 1s animation", xa)
	}
}

func TestFrameLoopStatesMatchCompositor(t *testing.T) {
	// Both backends must produce the identical observable state sequence for
	// the same animation driven through the same synthetic timestamps.
	fl := newManualFrameLoop(FrameLoopOptions{})
	cr, comp := newTestCompositorRenderer(t)

	ta := NewValueTarget(map[string]float64{"x": 0})
	tb := NewValueTarget(map[string]float64{"x": 0})
	opts := AnimationOptions{Duration: 80 * time.Millisecond, Easing: ease.Linear}

	ha, err := fl.Animate(ta, slideSpec(), opts)
	if err != nil {
		t.Fatal(err)
	}
	hb, err := cr.Animate(tb, slideSpec(), opts)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Unix(0, 0)
	times := []int{0, 16, 32, 48, 64, 96, 112}

	var flStates, crStates []PlayState
	sa, _ := fl.State(ha.ID)
	sb, _ := cr.State(hb.ID)
	flStates, crStates = append(flStates, sa), append(crStates, sb)

	for _, d := range times {
		now := start.Add(time.Duration(d) * time.Millisecond)
		fl.advance(now)
		comp.tick(now)

		sa, _ = fl.State(ha.ID)
		sb, _ = cr.State(hb.ID)
		flStates = append(flStates, sa)
		crStates = append(crStates, sb)

		xa, _ := ta.Property("x")
		xb, _ := tb.Property("x")
		if xa != xb {
			t.Errorf("at %v: frameloop x = %f, compositor x = %f", d, xa, xb)
		}
	}

	for i := range flStates {
		if flStates[i] != crStates[i] {
			t.Errorf("state %d: frameloop %s, compositor %s", i, flStates[i], crStates[i])
		}
	}
	// The observed sequence passes through idle, running, finished in order.
	if flStates[0] != StateIdle || flStates[1] != StateRunning || flStates[len(flStates)-1] != StateFinished {
		t.Errorf("state sequence %v, want idle -> running -> finished", flStates)
	}
}

func TestFrameLoopCallbacksRunOutsideLock(t *testing.T) {
	r := newManualFrameLoop(FrameLoopOptions{})
	target := NewValueTarget(map[string]float64{"x": 0})

	h, _ := r.Animate(target, slideSpec(), AnimationOptions{Duration: 10 * time.Millisecond})
	reentered := false
	r.OnFinish(h.ID, func(string) {
		// Re-entering the renderer from a callback must not deadlock.
		r.ActiveCount()
		reentered = true
	})

	start := time.Unix(0, 0)
	r.advance(start)
	r.advance(start.Add(50 * time.Millisecond))
	if !reentered {
		t.Error("finish callback never ran")
	}
}

func TestFrameLoopCancelIdempotent(t *testing.T) {
	r := newManualFrameLoop(FrameLoopOptions{})
	target := NewValueTarget(map[string]float64{"x": 0})

	h, _ := r.Animate(target, slideSpec(), AnimationOptions{Duration: time.Second})
	cancels := 0
	r.OnCancel(h.ID, func(string) { cancels++ })

	r.Cancel(h.ID)
	r.Cancel(h.ID)
	if cancels != 1 {
		t.Errorf("cancel callbacks = %d, want 1", cancels)
	}
	if r.ActiveCount() != 0 {
		t.Errorf("ActiveCount = %d, want 0", r.ActiveCount())
	}
}

func TestFrameLoopDisposeStopsEverything(t *testing.T) {
	r := newManualFrameLoop(FrameLoopOptions{})
	target := NewValueTarget(map[string]float64{"x": 0})

	h, _ := r.Animate(target, slideSpec(), AnimationOptions{Duration: time.Hour})
	canceled := false
	r.OnCancel(h.ID, func(string) { canceled = true })

	r.Dispose()
	r.Dispose()

	if !canceled {
		t.Error("dispose must fire cancel callbacks")
	}
	if _, err := r.Animate(target, slideSpec(), AnimationOptions{}); err == nil {
		t.Error("Animate after dispose must fail")
	}
}

func TestFrameLoopRealTickerFinishesAnimation(t *testing.T) {
	// One integration test with the real ticker goroutine; everything else
	// drives advance manually.
	r := NewFrameLoopRenderer(FrameLoopOptions{TargetFPS: 120})
	defer r.Dispose()
	target := NewValueTarget(map[string]float64{"x": 0})

	done := make(chan struct{})
	h, err := r.Animate(target, slideSpec(), AnimationOptions{Duration: 40 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	r.OnFinish(h.ID, func(string) { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("animation did not finish under the real ticker")
	}
	if x, _ := target.Property("x"); x != 100 {
		t.Errorf("final x = %f, want 100", x)
	}
	if st, _ := r.State(h.ID); st != StateFinished {
		t.Errorf("state = %s, want finished", st)
	}
}

func TestFrameLoopRearmsOnNewWork(t *testing.T) {
	r := NewFrameLoopRenderer(FrameLoopOptions{TargetFPS: 120})
	defer r.Dispose()
	target := NewValueTarget(map[string]float64{"x": 0})

	run := func() {
		done := make(chan struct{})
		h, err := r.Animate(target, slideSpec(), AnimationOptions{Duration: 20 * time.Millisecond})
		if err != nil {
			t.Fatal(err)
		}
		r.OnFinish(h.ID, func(string) { close(done) })
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("animation did not finish")
		}
	}

	run()
	// The loop goroutine has drained and parked; the next Animate re-arms it.
	time.Sleep(50 * time.Millisecond)
	run()
}

func TestFrameLoopPauseAndResume(t *testing.T) {
	r := newManualFrameLoop(FrameLoopOptions{})
	target := NewValueTarget(map[string]float64{"x": 0})

	start := time.Unix(0, 0)
	r.now = func() time.Time { return start.Add(30 * time.Millisecond) }

	h, _ := r.Animate(target, slideSpec(), AnimationOptions{Duration: 100 * time.Millisecond, Easing: ease.Linear})
	r.advance(start)
	r.Pause(h.ID)

	if ct, _ := r.CurrentTime(h.ID); ct != 30*time.Millisecond {
		t.Fatalf("paused time = %v, want 30ms", ct)
	}
	r.advance(start.Add(time.Second))
	if ct, _ := r.CurrentTime(h.ID); ct != 30*time.Millisecond {
		t.Errorf("time advanced while paused: %v", ct)
	}
}
