package terminal

import (
	"context"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/wricardo/wandrian/game/engine"
	"github.com/wricardo/wandrian/game/session"
)

// Controls is the part of a game the keyboard can drive
type Controls interface {
	TogglePause() (session.State, error)
	Step() (engine.TickReport, error)
	EndGame(reason string)
	Redraw()
	Done() <-chan struct{}
}

// Steerer receives player directions
type Steerer interface {
	Set(d engine.Direction)
}

// QuitReason is the game over reason used when the player quits
const QuitReason = "quit"

// Console reads keys from a screen and applies them to a game
type Console struct {
	screen   tcell.Screen
	game     Controls
	steering Steerer
	renderer *Renderer
	log      *logrus.Entry
}

// NewConsole wires a screen to a game. The renderer is optional and only
// used for status messages.
func NewConsole(screen tcell.Screen, game Controls, steering Steerer, renderer *Renderer, log *logrus.Entry) *Console {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Console{
		screen:   screen,
		game:     game,
		steering: steering,
		renderer: renderer,
		log:      log.WithField("component", "terminal"),
	}
}

// Run handles events until the player quits, the game ends or ctx is done
func (c *Console) Run(ctx context.Context) error {
	quit := make(chan struct{})
	defer close(quit)

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.game.Done():
			return nil
		case ev := <-events:
			if !c.HandleEvent(ev) {
				return nil
			}
		}
	}
}

// HandleEvent applies one event. It returns false once the player has quit.
func (c *Console) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.handleKey(ev)
	case *tcell.EventResize:
		c.screen.Sync()
		c.game.Redraw()
	}
	return true
}

func (c *Console) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.game.EndGame(QuitReason)
		return false
	case tcell.KeyUp:
		c.steer(engine.Up)
	case tcell.KeyDown:
		c.steer(engine.Down)
	case tcell.KeyLeft:
		c.steer(engine.Left)
	case tcell.KeyRight:
		c.steer(engine.Right)
	case tcell.KeyRune:
		ch := unicode.ToLower(ev.Rune())
		if ev.Modifiers()&tcell.ModCtrl != 0 && ch == 'c' {
			c.game.EndGame(QuitReason)
			return false
		}
		return c.handleRune(ch)
	}
	return true
}

func (c *Console) handleRune(ch rune) bool {
	switch ch {
	case 'q':
		c.game.EndGame(QuitReason)
		return false
	case 'k', 'w':
		c.steer(engine.Up)
	case 'j', 's':
		c.steer(engine.Down)
	case 'h', 'a':
		c.steer(engine.Left)
	case 'l', 'd':
		c.steer(engine.Right)
	case 'p':
		state, err := c.game.TogglePause()
		if err != nil {
			c.show(err.Error())
			return true
		}
		if state == session.Paused {
			c.show("paused, space to step")
		} else {
			c.show("")
		}
	case ' ', 'n':
		if _, err := c.game.Step(); err != nil {
			c.log.WithError(err).Debug("Step refused")
			c.show(err.Error())
		}
	case 'r':
		c.screen.Sync()
		c.game.Redraw()
	}
	return true
}

func (c *Console) steer(d engine.Direction) {
	if c.steering != nil {
		c.steering.Set(d)
	}
}

func (c *Console) show(msg string) {
	if c.renderer == nil {
		return
	}
	c.renderer.SetMessage(msg)
	c.game.Redraw()
}
