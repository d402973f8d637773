package display

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game is the application hook pair Run drives: Update receives the elapsed
// frame time in seconds after the compositor and pointer plumbing have run,
// Draw renders the frame.
type Game interface {
	Update(dt float64) error
	Draw(screen *ebiten.Image)
}

// RunConfig configures the window and the shared per-frame plumbing.
type RunConfig struct {
	Title         string
	Width, Height int

	// Driver, when set, is ticked at the start of every Update so
	// compositor-backed renderers advance before game logic runs.
	Driver *Driver

	// Pointers, when set, is polled every Update after the driver tick.
	Pointers *PointerSource
}

// Run opens the window and drives the game loop until the game returns an
// error (ebiten.Termination for a clean quit).
func Run(cfg RunConfig, game Game) error {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	return ebiten.RunGame(&shell{cfg: cfg, game: game})
}

// shell adapts Game to ebiten.Game and owns the frame clock.
type shell struct {
	cfg  RunConfig
	game Game
	last time.Time
}

func (s *shell) Update() error {
	now := time.Now()
	dt := 0.0
	if !s.last.IsZero() {
		dt = now.Sub(s.last).Seconds()
	}
	s.last = now

	if s.cfg.Driver != nil {
		s.cfg.Driver.TickAt(now)
	}
	if s.cfg.Pointers != nil {
		s.cfg.Pointers.Poll()
	}
	return s.game.Update(dt)
}

func (s *shell) Draw(screen *ebiten.Image) {
	s.game.Draw(screen)
}

func (s *shell) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.cfg.Width, s.cfg.Height
}
