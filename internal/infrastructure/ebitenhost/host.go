// Package ebitenhost drives the runtime from an ebiten window: ebiten's
// update loop is the tick source and its input state is the host frame.
package ebitenhost

import (
	"context"
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/bnema/flurx/internal/bootstrap"
	"github.com/bnema/flurx/internal/domain/entity"
	"github.com/bnema/flurx/internal/domain/geometry"
	"github.com/bnema/flurx/internal/domain/world"
	"github.com/bnema/flurx/internal/logging"
)

const defaultTPS = 60

// Options configures the host window.
type Options struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// TPS is the tick rate. Zero uses 60.
	TPS        int
	Background color.Color
}

// Game adapts a runtime to ebiten.Game.
type Game struct {
	ctx    context.Context
	rt     *bootstrap.Runtime
	window world.Entity
	bg     color.Color
	shape  ebiten.CursorShapeType
	log    zerolog.Logger
}

// New returns a game that ticks rt for window.
func New(ctx context.Context, rt *bootstrap.Runtime, window world.Entity, bg color.Color) *Game {
	if bg == nil {
		bg = color.Black
	}
	return &Game{
		ctx:    ctx,
		rt:     rt,
		window: window,
		bg:     bg,
		shape:  ebiten.CursorShapeDefault,
		log:    logging.FromContext(ctx).With().Str("component", "ebitenhost").Logger(),
	}
}

// Update samples the window and runs one runtime tick.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || g.rt.ExitRequested() {
		return ebiten.Termination
	}

	closing := ebiten.IsWindowBeingClosed()
	icons := g.rt.Tick(g.ctx, g.frame(closing))
	if closing || !g.rt.World.Alive(g.window) {
		g.log.Debug().Msg("host window closed")
		return ebiten.Termination
	}

	if shape := CursorShape(icons[g.window]); shape != g.shape {
		ebiten.SetCursorShape(shape)
		g.shape = shape
	}
	return nil
}

func (g *Game) frame(closing bool) bootstrap.Frame {
	w, h := ebiten.WindowSize()
	x, y := ebiten.WindowPosition()
	f := bootstrap.Frame{
		Window:           g.window,
		Size:             geometry.V(float32(w), float32(h)),
		Position:         geometry.V(float32(x), float32(y)),
		LeftPressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		LeftJustReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		CloseRequested:   closing,
	}
	if cx, cy := ebiten.CursorPosition(); cx >= 0 && cy >= 0 && cx < w && cy < h {
		cur := geometry.V(float32(cx), float32(cy))
		f.Cursor = &cur
	}
	return f
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// CursorShape maps a resize cursor to the ebiten shape.
func CursorShape(icon geometry.CursorIcon) ebiten.CursorShapeType {
	switch icon {
	case geometry.CursorColResize:
		return ebiten.CursorShapeEWResize
	case geometry.CursorRowResize:
		return ebiten.CursorShapeNSResize
	case geometry.CursorNwResize, geometry.CursorSeResize:
		return ebiten.CursorShapeNWSEResize
	case geometry.CursorNeResize, geometry.CursorSwResize:
		return ebiten.CursorShapeNESWResize
	default:
		return ebiten.CursorShapeDefault
	}
}

// Run opens the host window and blocks until it closes, a page calls
// app::exit or ctx is cancelled. It must be called from the main goroutine.
func Run(ctx context.Context, rt *bootstrap.Runtime, window world.Entity, opts Options) error {
	win, _ := world.Get[entity.Window](rt.World, window)
	if opts.Title == "" {
		opts.Title = win.Title
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = int(win.Size.X), int(win.Size.Y)
	}
	if opts.TPS <= 0 {
		opts.TPS = defaultTPS
	}

	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(opts.TPS)
	if opts.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	err := ebiten.RunGame(New(ctx, rt, window, opts.Background))
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
