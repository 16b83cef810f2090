package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"sprint/proto"
	"sprint/tetris"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// remotePlayer plays a session hosted by the server.
type remotePlayer struct {
	logger    *slog.Logger
	conn      *grpc.ClientConn
	stream    proto.TetrisService_PlayClient
	cancel    context.CancelFunc
	updates   chan *update
	sessionID string
	mu        sync.Mutex
}

func dialRemote(addr string, l *slog.Logger, opts ...grpc.DialOption) (*remotePlayer, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create gRPC client: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	stream, err := proto.NewTetrisServiceClient(conn).Play(ctx)
	if err != nil {
		cancel()
		conn.Close() //nolint: errcheck
		return nil, fmt.Errorf("unable to create gRPC Play stream: %w", err)
	}

	r := &remotePlayer{
		logger:  l,
		conn:    conn,
		stream:  stream,
		cancel:  cancel,
		updates: make(chan *update),
	}
	// the server greets every stream with its session.
	hello, err := r.recv()
	if err != nil {
		r.Stop()
		return nil, fmt.Errorf("unable to join a session: %w", err)
	}
	r.sessionID = hello.SessionID
	r.logger.Debug("joined session", slog.String("session", r.sessionID))

	go r.receive(ctx)
	return r, nil
}

func (r *remotePlayer) recv() (*proto.Update, error) {
	st, err := r.stream.Recv()
	if err != nil {
		return nil, err
	}
	u := &proto.Update{}
	if err := proto.Decode(st, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *remotePlayer) receive(ctx context.Context) {
	defer close(r.updates)
	for {
		u, err := r.recv()
		if err != nil {
			r.logRecvError(err)
			return
		}
		if u.Event == proto.EventError {
			r.logger.Warn("server refused a message", slog.String("error", u.Error))
			continue
		}
		ev, err := u.DecodeEvent()
		if err != nil {
			r.logger.Error("unable to decode update", slog.String("error", err.Error()))
			continue
		}
		if ev == nil || u.Snapshot == nil {
			continue
		}
		select {
		case r.updates <- &update{event: ev, snapshot: u.Snapshot}:
		case <-ctx.Done():
			return
		}
	}
}

func (r *remotePlayer) logRecvError(err error) {
	if errors.Is(err, io.EOF) {
		r.logger.Debug("stream.Recv() closed with EOF", slog.String("msg", err.Error()))
		return
	}
	st, ok := status.FromError(err)
	switch {
	case ok && st.Code() == codes.Canceled:
		r.logger.Debug("stream.Recv() closed with Cancel", slog.String("msg", st.Message()))
	case ok && st.Code() == codes.Aborted:
		r.logger.Debug("stream.Recv() session closed by the server", slog.String("msg", st.Message()))
	default:
		r.logger.Error("stream.Recv() unable to receive message", slog.String("error", err.Error()))
	}
}

func (r *remotePlayer) Action(a tetris.Action) {
	st, err := proto.Encode(&proto.Message{Type: proto.TypeAction, Action: a})
	if err != nil {
		r.logger.Error("unable to encode action", slog.String("error", err.Error()))
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.stream.Send(st); err != nil {
		r.logger.Debug("send() unable to send action", slog.String("msg", err.Error()))
	}
}

func (r *remotePlayer) Updates() <-chan *update { return r.updates }

func (r *remotePlayer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.stream.CloseSend(); err != nil {
		r.logger.Debug("unable to close stream", slog.String("msg", err.Error()))
	}
	r.cancel()
	if err := r.conn.Close(); err != nil {
		r.logger.Debug("unable to close gRPC client", slog.String("msg", err.Error()))
	}
}
