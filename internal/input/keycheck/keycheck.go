// Package keycheck shows the key names voxcmd uses for keys pressed in a
// terminal, so users can find the right spelling for binding overrides.
package keycheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"

	"github.com/dshills/voxcmd/internal/input/key"
)

// ErrNotTerminal is returned when key check mode is started without a tty.
var ErrNotTerminal = errors.New("key check needs an interactive terminal")

// RequireTerminal fails unless fd is a terminal.
func RequireTerminal(fd int) error {
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	return nil
}

// Press is one captured key or mouse button.
type Press struct {
	Name  string
	Ctrl  bool
	Alt   bool
	Shift bool
}

// String renders modifiers first, e.g. "ctrl+alt+a".
func (p Press) String() string {
	var b strings.Builder
	if p.Ctrl {
		b.WriteString("ctrl+")
	}
	if p.Alt {
		b.WriteString("alt+")
	}
	if p.Shift {
		b.WriteString("shift+")
	}
	b.WriteString(p.Name)
	return b.String()
}

var namedKeys = map[tcell.Key]string{
	tcell.KeyEscape:     "esc",
	tcell.KeyEnter:      "enter",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "tab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "page up",
	tcell.KeyPgDn:       "page down",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPrint:      "print screen",
	tcell.KeyPause:      "pause",
}

// FromEvent converts a tcell event into a Press. Events that carry no key
// or button (resize, focus, mouse motion) return false.
func FromEvent(ev tcell.Event) (Press, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return fromKey(e)
	case *tcell.EventMouse:
		return fromMouse(e)
	default:
		return Press{}, false
	}
}

func fromKey(e *tcell.EventKey) (Press, bool) {
	mod := e.Modifiers()
	p := Press{
		Ctrl:  mod&tcell.ModCtrl != 0,
		Alt:   mod&tcell.ModAlt != 0,
		Shift: mod&tcell.ModShift != 0,
	}

	k := e.Key()
	if name, ok := namedKeys[k]; ok {
		p.Name = name
		if k == tcell.KeyBacktab {
			p.Shift = true
		}
		return p, true
	}

	switch {
	case k == tcell.KeyRune:
		r := e.Rune()
		if r == ' ' {
			p.Name = "space"
			return p, true
		}
		if unicode.IsUpper(r) {
			p.Shift = true
		}
		name := string(unicode.ToLower(r))
		if !key.IsKnown(name) {
			return Press{}, false
		}
		p.Name = name
		return p, true

	case k >= tcell.KeyF1 && k <= tcell.KeyF24:
		p.Name = fmt.Sprintf("f%d", int(k-tcell.KeyF1)+1)
		return p, true

	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		p.Name = string(rune('a' + int(k-tcell.KeyCtrlA)))
		p.Ctrl = true
		return p, true
	}
	return Press{}, false
}

var mouseButtons = []struct {
	mask tcell.ButtonMask
	name string
}{
	{tcell.ButtonPrimary, "left"},
	{tcell.ButtonSecondary, "right"},
	{tcell.ButtonMiddle, "middle"},
	{tcell.Button4, "x"},
	{tcell.Button5, "x2"},
}

func fromMouse(e *tcell.EventMouse) (Press, bool) {
	buttons := e.Buttons()
	for _, b := range mouseButtons {
		if buttons&b.mask != 0 {
			mod := e.Modifiers()
			return Press{
				Name:  key.Mouse(b.name).String(),
				Ctrl:  mod&tcell.ModCtrl != 0,
				Alt:   mod&tcell.ModAlt != 0,
				Shift: mod&tcell.ModShift != 0,
			}, true
		}
	}
	return Press{}, false
}

// Checker draws the names of captured keys on a screen.
type Checker struct {
	screen  tcell.Screen
	history []Press
	max     int
	lastBtn tcell.ButtonMask
}

// New creates a checker on screen. It keeps the last max presses.
func New(screen tcell.Screen, max int) *Checker {
	if max < 1 {
		max = 1
	}
	return &Checker{screen: screen, max: max}
}

// Start initializes the screen.
func (c *Checker) Start() error {
	if err := c.screen.Init(); err != nil {
		return err
	}
	c.screen.EnableMouse()
	c.draw()
	return nil
}

// Loop handles events until Ctrl+C, the screen closes, or ctx is done.
// The screen is finalized on return.
func (c *Checker) Loop(ctx context.Context) error {
	defer c.screen.Fini()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		ev := c.screen.PollEvent()
		switch e := ev.(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			return ctx.Err()
		case *tcell.EventResize:
			c.screen.Sync()
			c.draw()
			continue
		case *tcell.EventKey:
			if isInterrupt(e) {
				return nil
			}
		case *tcell.EventMouse:
			// Report a button once per press, not on every motion event.
			btn := e.Buttons()
			pressed := btn &^ c.lastBtn
			c.lastBtn = btn
			if pressed == 0 {
				continue
			}
			ev = tcell.NewEventMouse(0, 0, pressed, e.Modifiers())
		}

		if p, ok := FromEvent(ev); ok {
			c.add(p)
			c.draw()
		}
	}
}

func isInterrupt(e *tcell.EventKey) bool {
	if e.Key() == tcell.KeyCtrlC {
		return true
	}
	return e.Key() == tcell.KeyRune && e.Modifiers()&tcell.ModCtrl != 0 && unicode.ToLower(e.Rune()) == 'c'
}

// Run starts the checker and loops until it ends.
func (c *Checker) Run(ctx context.Context) error {
	if err := c.Start(); err != nil {
		return err
	}
	return c.Loop(ctx)
}

// History returns the captured presses, oldest first.
func (c *Checker) History() []Press {
	return append([]Press(nil), c.history...)
}

func (c *Checker) add(p Press) {
	c.history = append(c.history, p)
	if len(c.history) > c.max {
		c.history = c.history[len(c.history)-c.max:]
	}
}

func (c *Checker) draw() {
	c.screen.Clear()
	drawText(c.screen, 0, 0, "Press keys to see their voxcmd names. Ctrl+C quits.", tcell.StyleDefault.Bold(true))
	for i, p := range c.history {
		drawText(c.screen, 2, i+2, p.String(), tcell.StyleDefault)
	}
	c.screen.Show()
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
