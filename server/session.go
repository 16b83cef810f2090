package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"sprint/input"
	"sprint/proto"
	"sprint/tetris"
)

// Session is one remote player's game.
type Session struct {
	ID string

	game     *tetris.Game
	repeater *input.Repeater
	clock    tetris.Clock
	logger   *slog.Logger
	errCh    chan *proto.Update
	active   atomic.Int64
}

func newSession(id string, game *tetris.Game, o Options) *Session {
	s := &Session{
		ID:       id,
		game:     game,
		repeater: input.NewRepeater(game, o.Config.MoveDelay, o.Config.MoveRepeat),
		clock:    o.Clock,
		logger:   o.Logger.With(slog.String("session", id)),
		errCh:    make(chan *proto.Update, 8),
	}
	s.touch()
	return s
}

func (s *Session) touch() {
	s.active.Store(s.clock.Now().UnixNano())
}

func (s *Session) isExpired(now time.Time, timeout time.Duration) bool {
	return now.Sub(time.Unix(0, s.active.Load())) > timeout
}

func (s *Session) Read() *tetris.Snapshot {
	return s.game.Read()
}

// Handle applies a player message to the game.
func (s *Session) Handle(m *proto.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	s.touch()
	switch m.Type {
	case proto.TypeAction:
		s.game.Action(m.Action)
	case proto.TypePress:
		s.repeater.Press(m.Control)
	case proto.TypeRelease:
		s.repeater.Release(m.Control)
	}
	return nil
}

// report queues an error update for the player. Errors are dropped when the player is too slow.
func (s *Session) report(err error) {
	select {
	case s.errCh <- &proto.Update{SessionID: s.ID, Event: proto.EventError, Error: err.Error()}:
	default:
		s.logger.Warn("dropping error update", slog.String("error", err.Error()))
	}
}

// Run sends the session update and then an update for every game event until
// the session is closed, ctx is done or send fails.
func (s *Session) Run(ctx context.Context, send func(*proto.Update) error) error {
	if err := send(&proto.Update{SessionID: s.ID, Event: proto.EventSession, Snapshot: s.game.Read()}); err != nil {
		return fmt.Errorf("unable to send session update: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-s.errCh:
			if err := send(u); err != nil {
				return fmt.Errorf("unable to send error update: %w", err)
			}
		case ev, ok := <-s.game.Updates():
			if !ok {
				return nil
			}
			u, err := proto.NewUpdate(s.ID, ev, s.game.Read())
			if err != nil {
				return err
			}
			if err := send(u); err != nil {
				return fmt.Errorf("unable to send %s update: %w", ev.Name(), err)
			}
		}
	}
}

// Close stops the game first so actions blocked on its loop return, then the repeater.
func (s *Session) Close() {
	s.game.Stop()
	s.repeater.Stop()
}

var errSessionClosed = errors.New("session closed")

// serve binds a transport to a new session until either side is done.
// recv returns io.EOF when the player leaves and errors wrapping
// proto.ErrInvalidMessage for messages that can be skipped.
func serve(ctx context.Context, h *Hub, send func(*proto.Update) error, recv func() (*proto.Message, error)) error {
	sess, err := h.Create()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	runDone := make(chan struct{})
	recvErr := make(chan error, 1)
	var runErr error
	defer func() {
		cancel()
		h.Remove(sess.ID)
		<-runDone
	}()

	go func() {
		defer close(runDone)
		runErr = sess.Run(ctx, send)
		if runErr == nil {
			runErr = errSessionClosed
		}
	}()
	go func() {
		for {
			m, err := recv()
			switch {
			case errors.Is(err, proto.ErrInvalidMessage):
				sess.report(err)
				continue
			case err != nil:
				recvErr <- err
				return
			}
			if err := sess.Handle(m); err != nil {
				sess.report(err)
			}
		}
	}()

	select {
	case <-runDone:
		return runErr
	case err := <-recvErr:
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}
