package client

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sprint/input"
	"sprint/tetris"

	"github.com/eiannone/keyboard"
)

type clientState int

const (
	lobby clientState = iota
	waiting
	playing
)

type state struct {
	current clientState
	mu      sync.Mutex
}

func (s *state) get() clientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *state) set(c clientState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
}

type renderer interface {
	game(*tetris.Snapshot)
	lobby([]string)
}

// refresh is how often the running clock is redrawn between events.
const refresh = 47 * time.Millisecond

type Client struct {
	newLocal  func() (player, error)
	newRemote func() (player, error)
	render    renderer
	logger    *slog.Logger
	kbCh      <-chan keyboard.KeyEvent
	state     *state

	player   player
	current  tetris.State
	softDrop bool
	mu       sync.Mutex
}

type Options struct {
	NoGhost bool
	Address string
	Config  tetris.Config
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	if err := o.Config.Validate(); err != nil {
		return nil, err
	}
	if o.Config.Rows != boardRows || o.Config.Columns != boardColumns {
		return nil, fmt.Errorf("the terminal draws a %dx%d board, got %dx%d: %w",
			boardRows, boardColumns, o.Config.Rows, o.Config.Columns, tetris.ErrInvalidConfig)
	}
	r, err := newRender(l, o.NoGhost)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	r.start()
	return &Client{
		newLocal:  func() (player, error) { return newLocalPlayer(o.Config) },
		newRemote: func() (player, error) { return dialRemote(o.Address, l) },
		render:    r,
		logger:    l,
		kbCh:      kb,
		state:     &state{current: lobby},
	}, nil
}

// Close gives the terminal back.
func (c *Client) Close() {
	if r, ok := c.render.(*render); ok {
		r.close()
	}
	if err := keyboard.Close(); err != nil {
		c.logger.Error("unable to close keyboard", slog.String("error", err.Error()))
	}
}

// Start shows the lobby and blocks until the player quits.
func (c *Client) Start() {
	c.render.lobby(defaultLobby())
	var wg sync.WaitGroup
	wg.Add(1)
	go c.listenKB(&wg)
	wg.Wait()
	c.stopPlayer()
}

func (c *Client) listenKB(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("Keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			return
		}
		switch c.state.get() {
		case lobby:
			switch event.Rune {
			case 'p':
				c.play(c.newLocal)
			case 'o':
				c.state.set(waiting)
				c.render.lobby(connecting())
				go c.play(c.newRemote)
			case 'q':
				return
			}
		case waiting:
			continue
		case playing:
			c.playingKey(event)
		}
	}
}

// playingKey turns a key into an action. The terminal has no key release
// events, so soft drop toggles and the OS key repeat repeats moves.
func (c *Client) playingKey(event keyboard.KeyEvent) {
	c.mu.Lock()
	p := c.player
	if p == nil {
		c.mu.Unlock()
		return
	}
	var a tetris.Action
	switch {
	case event.Key == keyboard.KeyEsc:
		c.mu.Unlock()
		c.stopPlayer()
		c.state.set(lobby)
		c.render.lobby(defaultLobby())
		return
	case event.Rune == 'p':
		a = tetris.Pause
		if c.current == tetris.Paused {
			a = tetris.Resume
		}
	case event.Rune == 'r':
		c.softDrop = false
		c.mu.Unlock()
		p.Action(tetris.Reset)
		p.Action(tetris.Start)
		return
	default:
		control, ok := input.Decode(event)
		if !ok {
			c.mu.Unlock()
			return
		}
		a = control.Action()
		if control == input.Down {
			c.softDrop = !c.softDrop
			if !c.softDrop {
				a = tetris.SoftDropOff
			}
		}
	}
	c.mu.Unlock()
	p.Action(a)
}

func (c *Client) play(newPlayer func() (player, error)) {
	p, err := newPlayer()
	if err != nil {
		c.logger.Error("unable to start a game", slog.String("error", err.Error()))
		c.state.set(lobby)
		c.render.lobby(errorMessage())
		return
	}
	c.mu.Lock()
	c.player = p
	c.current = tetris.Idle
	c.softDrop = false
	c.mu.Unlock()
	c.state.set(playing)

	go c.listenTetris(p)
	p.Action(tetris.Start)
}

func (c *Client) stopPlayer() {
	c.mu.Lock()
	p := c.player
	c.player = nil
	c.mu.Unlock()
	if p != nil {
		p.Stop()
	}
}

// listenTetris renders every update until the game ends. Between updates the
// running clock is extrapolated from the last snapshot.
func (c *Client) listenTetris(p player) {
	ticker := time.NewTicker(refresh)
	defer ticker.Stop()

	var last *tetris.Snapshot
	var at time.Time
	for {
		select {
		case u, ok := <-p.Updates():
			if !ok {
				c.endGame(p, errorMessage())
				return
			}
			last, at = u.snapshot, time.Now()
			c.mu.Lock()
			c.current = last.State
			c.mu.Unlock()

			c.render.game(last)
			if last.State.IsTerminal() {
				if last.State == tetris.Won {
					c.endGame(p, youWon(tetris.GameOver{Won: true, Lines: last.LinesClear, Elapsed: last.Elapsed}))
				} else {
					c.endGame(p, gameOver())
				}
				return
			}
		case <-ticker.C:
			if last == nil || last.State != tetris.Running {
				continue
			}
			s := *last
			s.Elapsed += time.Since(at)
			c.render.game(&s)
		}
	}
}

// endGame goes back to the lobby unless the player already left the game.
func (c *Client) endGame(p player, msg []string) {
	c.mu.Lock()
	current := c.player == p
	if current {
		c.player = nil
	}
	c.mu.Unlock()
	p.Stop()
	if current {
		c.state.set(lobby)
		c.render.lobby(msg)
	}
}
