package display

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/glassui/motion"
)

// Sprite is a drawable motion.Target: animated x/y/scale/rotation/opacity
// properties land directly on its draw transform. The image is optional so
// the property plumbing stays testable without a GPU.
type Sprite struct {
	Image *ebiten.Image

	X, Y     float64
	Scale    float64 // uniform; 1 = natural size
	Rotation float64 // radians, around the pivot
	Opacity  float64 // [0, 1]

	// Pivot is the local rotation/scale origin in image pixels. Zero value
	// means the top-left corner.
	PivotX, PivotY float64
}

// NewSprite creates a sprite at the origin with identity transform.
func NewSprite(img *ebiten.Image) *Sprite {
	return &Sprite{Image: img, Scale: 1, Opacity: 1}
}

// Property implements motion.Target.
func (s *Sprite) Property(name string) (float64, bool) {
	switch name {
	case motion.PropertyX:
		return s.X, true
	case motion.PropertyY:
		return s.Y, true
	case motion.PropertyScale:
		return s.Scale, true
	case motion.PropertyRotation:
		return s.Rotation, true
	case motion.PropertyOpacity:
		return s.Opacity, true
	}
	return 0, false
}

// SetProperty implements motion.Target. Unknown properties are ignored.
func (s *Sprite) SetProperty(name string, value float64) {
	switch name {
	case motion.PropertyX:
		s.X = value
	case motion.PropertyY:
		s.Y = value
	case motion.PropertyScale:
		s.Scale = value
	case motion.PropertyRotation:
		s.Rotation = value
	case motion.PropertyOpacity:
		s.Opacity = value
	}
}

// Draw renders the sprite. Composition order: translate to the pivot, scale,
// rotate, translate to position. Opacity at or below zero skips the draw.
func (s *Sprite) Draw(dst *ebiten.Image) {
	if s.Image == nil || s.Opacity <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-s.PivotX, -s.PivotY)
	op.GeoM.Scale(s.Scale, s.Scale)
	op.GeoM.Rotate(s.Rotation)
	op.GeoM.Translate(s.X, s.Y)

	alpha := s.Opacity
	if alpha > 1 {
		alpha = 1
	}
	op.ColorScale.ScaleAlpha(float32(alpha))
	dst.DrawImage(s.Image, op)
}
