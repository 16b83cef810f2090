package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sprint/proto"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service is the gRPC front of the hub.
type Service struct {
	proto.UnimplementedTetrisServiceServer
	hub    *Hub
	logger *slog.Logger
}

func NewService(h *Hub, l *slog.Logger) *Service {
	if l == nil {
		l = slog.Default()
	}
	return &Service{hub: h, logger: l}
}

func (s *Service) Play(stream proto.TetrisService_PlayServer) error {
	send := func(u *proto.Update) error {
		st, err := proto.Encode(u)
		if err != nil {
			return err
		}
		return stream.Send(st)
	}
	recv := func() (*proto.Message, error) {
		st, err := stream.Recv()
		if err != nil {
			return nil, err
		}
		return decodeMessage(st)
	}

	err := serve(stream.Context(), s.hub, send, recv)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrHubFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, errSessionClosed):
		return status.Error(codes.Aborted, err.Error())
	}
	if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
		s.logger.Debug("Play stream canceled", slog.String("msg", err.Error()))
		return nil
	}
	s.logger.Error("Play stream failed", slog.String("error", err.Error()))
	return err
}

func decodeMessage(st *structpb.Struct) (*proto.Message, error) {
	m := &proto.Message{}
	if err := proto.Decode(st, m); err != nil {
		return nil, fmt.Errorf("%w: %w", proto.ErrInvalidMessage, err)
	}
	return m, nil
}
