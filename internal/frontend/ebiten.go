//go:build !headless

package frontend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/display"
	"github.com/retroenv/retrogolib/log"
)

// maxDeltaMs limits the emulated time per update, a stalled window would
// otherwise cause a burst of instructions.
const maxDeltaMs = 250

const (
	quitKey  = ebiten.KeyEscape
	resetKey = ebiten.KeyF5
)

// keyMap maps the CHIP-8 keys 0-F to host keys. The 4x4 keypad
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// is laid out on the keys 1234, QWER, ASDF and ZXCV.
var keyMap = [chip8.KeyCount]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.Key1,
	0x2: ebiten.Key2,
	0x3: ebiten.Key3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.Key4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

// Options controls the window.
type Options struct {
	Scale   int
	Palette config.Palette
	Title   string
}

type game struct {
	ctx     context.Context
	logger  *log.Logger
	machine *chip8.Machine
	palette config.Palette

	frame []byte
	image *ebiten.Image
	last  time.Time
	err   error // fault that halted the machine
}

// Run opens a window and runs the machine until the window is closed, the
// quit key is pressed or the context is cancelled. A machine fault keeps
// the last frame visible and is returned after the window was closed.
func Run(ctx context.Context, logger *log.Logger, machine *chip8.Machine, opts Options) error {
	ebiten.SetWindowSize(display.Width*opts.Scale, display.Height*opts.Scale)
	ebiten.SetWindowTitle(opts.Title)

	g := &game{
		ctx:     ctx,
		logger:  logger,
		machine: machine,
		palette: opts.Palette,
		frame:   make([]byte, FrameSize),
		last:    time.Now(),
	}

	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("running window: %w", err)
	}
	return g.err
}

func (g *game) Update() error {
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}

	if inpututil.IsKeyJustPressed(quitKey) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(resetKey) {
		if err := g.machine.Reset(); err != nil {
			return fmt.Errorf("resetting machine: %w", err)
		}
		g.err = nil
		g.logger.Info("Machine reset")
	}

	g.machine.SetKeyState(keyState(ebiten.IsKeyPressed))

	now := time.Now()
	deltaMs := now.Sub(g.last).Milliseconds()
	if deltaMs > maxDeltaMs {
		deltaMs = maxDeltaMs
		g.last = now
	} else {
		// keep the sub millisecond remainder for the next update
		g.last = g.last.Add(time.Duration(deltaMs) * time.Millisecond)
	}

	if g.err != nil {
		return nil
	}

	if err := g.machine.Step(uint32(deltaMs)); err != nil {
		g.err = err
		var fault *chip8.Fault
		if errors.As(err, &fault) {
			g.logger.Error("Machine fault",
				log.Hex("pc", fault.PC),
				log.Hex("opcode", fault.Word),
				log.Err(fault.Err))
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(display.Width, display.Height)
	}

	RenderFrame(g.frame, g.machine.Display(), g.palette)
	g.image.WritePixels(g.frame)
	screen.DrawImage(g.image, nil)
}

func (g *game) Layout(_, _ int) (int, int) {
	return display.Width, display.Height
}

// keyState returns the CHIP-8 key state bitmask for the pressed host keys.
func keyState(pressed func(ebiten.Key) bool) uint16 {
	var mask uint16
	for key, hostKey := range keyMap {
		if pressed(hostKey) {
			mask |= 1 << key
		}
	}
	return mask
}
