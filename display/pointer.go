package display

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/glassui/motion"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// PointerSource polls Ebitengine mouse and touch state each frame and emits
// normalized motion.PointerEvent values to a sink (usually a Carousel or a
// GestureTracker's Handle). Poll once per Update, after Driver.Tick.
type PointerSource struct {
	Sink func(motion.PointerEvent)

	start time.Time

	mouseDown bool
	mouseX    float64
	mouseY    float64

	prevTouchIDs []ebiten.TouchID
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	touchDown    [maxPointers]bool
	touchX       [maxPointers]float64
	touchY       [maxPointers]float64
}

// NewPointerSource creates a source delivering events to sink.
func NewPointerSource(sink func(motion.PointerEvent)) *PointerSource {
	return &PointerSource{Sink: sink, start: time.Now()}
}

func (s *PointerSource) nowMs() float64 {
	return float64(time.Since(s.start)) / float64(time.Millisecond)
}

// Poll reads the current input state and emits the events it implies.
func (s *PointerSource) Poll() {
	if s.Sink == nil {
		return
	}
	ts := s.nowMs()
	s.pollMouse(ts)
	s.pollTouches(ts)
}

func (s *PointerSource) pollMouse(ts float64) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case pressed && !s.mouseDown:
		s.mouseDown = true
		s.emit(motion.PointerDown, 0, x, y, ts)
	case pressed && s.mouseDown:
		if x != s.mouseX || y != s.mouseY {
			s.emit(motion.PointerMove, 0, x, y, ts)
		}
	case !pressed && s.mouseDown:
		s.mouseDown = false
		s.emit(motion.PointerUp, 0, x, y, ts)
	}
	s.mouseX, s.mouseY = x, y
}

func (s *PointerSource) pollTouches(ts float64) {
	s.prevTouchIDs = ebiten.AppendTouchIDs(s.prevTouchIDs[:0])

	var active [maxPointers]bool
	for _, tid := range s.prevTouchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		x, y := float64(tx), float64(ty)
		if !s.touchDown[slot] {
			s.touchDown[slot] = true
			s.emit(motion.PointerDown, slot, x, y, ts)
		} else if x != s.touchX[slot] || y != s.touchY[slot] {
			s.emit(motion.PointerMove, slot, x, y, ts)
		}
		s.touchX[slot], s.touchY[slot] = x, y
	}

	// Lifted touches release their slots.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !active[i] {
			if s.touchDown[i] {
				s.touchDown[i] = false
				s.emit(motion.PointerUp, i, s.touchX[i], s.touchY[i], ts)
			}
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a stable pointer slot (1-9) for the
// touch's lifetime. Returns -1 when all slots are taken.
func (s *PointerSource) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func (s *PointerSource) emit(phase motion.PointerPhase, id int, x, y, ts float64) {
	s.Sink(motion.PointerEvent{Phase: phase, PointerID: id, X: x, Y: y, TimestampMs: ts})
}
