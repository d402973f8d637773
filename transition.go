package motion

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TransitionGroup animates up to 4 properties on a Target simultaneously
// with one duration and easing curve — the lightweight path for one-shot
// eased transitions (modal entrances, hover emphasis) that do not need a
// renderer handle. Call Update(dt) each frame.
//
// There is no global transition manager — users call Update themselves.
type TransitionGroup struct {
	tweens [4]*gween.Tween
	props  [4]string
	count  int
	target Target
	Done   bool
}

// NewTransitionGroup creates an empty group for the target. Add properties
// with Add; the group reports Done immediately until something is added.
func NewTransitionGroup(target Target) *TransitionGroup {
	return &TransitionGroup{target: target, Done: true}
}

// Add animates one property from its current value to `to` over duration
// seconds. Adding more than 4 properties or an unknown property is ignored.
func (g *TransitionGroup) Add(prop string, to float64, duration float32, fn ease.TweenFunc) {
	if g.count >= len(g.tweens) || g.target == nil {
		return
	}
	from, ok := g.target.Property(prop)
	if !ok {
		return
	}
	g.tweens[g.count] = gween.New(float32(from), float32(to), duration, fn)
	g.props[g.count] = prop
	g.count++
	g.Done = false
}

// Update advances all tweens by dt seconds and writes values to the target.
func (g *TransitionGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.target.SetProperty(g.props[i], float64(val))
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}
