package client

import (
	"sync"

	"sprint/tetris"
)

// update is an engine event and the snapshot taken right after it.
type update struct {
	event    tetris.Event
	snapshot *tetris.Snapshot
}

// player is a game the client drives, running locally or on a server.
type player interface {
	Action(tetris.Action)
	Updates() <-chan *update
	Stop()
}

type localPlayer struct {
	game    *tetris.Game
	updates chan *update
	doneCh  chan struct{}
	once    sync.Once
}

func newLocalPlayer(cfg tetris.Config) (*localPlayer, error) {
	g, err := tetris.NewGame(cfg)
	if err != nil {
		return nil, err
	}
	p := &localPlayer{
		game:    g,
		updates: make(chan *update),
		doneCh:  make(chan struct{}),
	}
	g.Start()
	go p.forward()
	return p, nil
}

func (p *localPlayer) forward() {
	defer close(p.updates)
	for ev := range p.game.Updates() {
		select {
		case p.updates <- &update{event: ev, snapshot: p.game.Read()}:
		case <-p.doneCh:
			return
		}
	}
}

func (p *localPlayer) Action(a tetris.Action)  { p.game.Action(a) }
func (p *localPlayer) Updates() <-chan *update { return p.updates }

func (p *localPlayer) Stop() {
	p.once.Do(func() {
		close(p.doneCh)
		p.game.Stop()
	})
}
