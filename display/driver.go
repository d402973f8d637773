// Package display adapts the motion core to Ebitengine: a compositor driver
// fed from the game's Update, a pointer source that normalizes mouse and
// touch input into motion.PointerEvent values, and a sprite target that maps
// animated properties onto draw transforms.
package display

import (
	"time"

	"github.com/glassui/motion"
)

// frameCallback is one registered compositor callback.
type frameCallback struct {
	id uint32
	fn func(now time.Time)
}

// Driver is the Ebitengine-backed motion.Compositor: the game loop calls
// Tick once per Update and every registered renderer callback runs on that
// frame. All calls must happen on the game's update goroutine.
type Driver struct {
	callbacks []frameCallback
	nextID    uint32
	now       func() time.Time
}

// NewDriver creates a compositor driver.
func NewDriver() *Driver {
	return &Driver{now: time.Now}
}

// Supported always reports true: when a game loop exists, it ticks.
func (d *Driver) Supported() bool { return true }

// Register adds a per-frame callback and returns its removal function.
func (d *Driver) Register(fn func(now time.Time)) (remove func()) {
	d.nextID++
	id := d.nextID
	d.callbacks = append(d.callbacks, frameCallback{id: id, fn: fn})
	return func() {
		for i := range d.callbacks {
			if d.callbacks[i].id == id {
				copy(d.callbacks[i:], d.callbacks[i+1:])
				d.callbacks[len(d.callbacks)-1] = frameCallback{}
				d.callbacks = d.callbacks[:len(d.callbacks)-1]
				return
			}
		}
	}
}

// Tick runs all registered callbacks for this frame. Call once from the
// game's Update.
func (d *Driver) Tick() {
	d.TickAt(d.now())
}

// TickAt runs the callbacks with an explicit frame time. Callbacks that
// unregister themselves mid-tick are tolerated.
func (d *Driver) TickAt(now time.Time) {
	// Snapshot ids, not indexes: a callback may remove itself or others.
	for _, cb := range append([]frameCallback(nil), d.callbacks...) {
		if d.has(cb.id) {
			cb.fn(now)
		}
	}
}

func (d *Driver) has(id uint32) bool {
	for i := range d.callbacks {
		if d.callbacks[i].id == id {
			return true
		}
	}
	return false
}

// Len reports the number of registered callbacks.
func (d *Driver) Len() int { return len(d.callbacks) }
