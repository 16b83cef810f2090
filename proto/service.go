// Package proto holds the wire contract of the sprint server. Messages travel
// as google.protobuf.Struct so the same JSON shapes serve gRPC and WebSocket peers.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "tetris.TetrisService"

	TetrisService_Play_FullMethodName = "/tetris.TetrisService/Play"
)

// TetrisService_PlayServer is the server side of the Play stream.
type TetrisService_PlayServer = grpc.BidiStreamingServer[structpb.Struct, structpb.Struct]

// TetrisService_PlayClient is the client side of the Play stream.
type TetrisService_PlayClient = grpc.BidiStreamingClient[structpb.Struct, structpb.Struct]

type TetrisServiceServer interface {
	// Play binds the stream to a new session. The client sends Messages and
	// receives an Update for every event of the session.
	Play(TetrisService_PlayServer) error
}

// UnimplementedTetrisServiceServer can be embedded to stay forward compatible.
type UnimplementedTetrisServiceServer struct{}

func (UnimplementedTetrisServiceServer) Play(TetrisService_PlayServer) error {
	return status.Errorf(codes.Unimplemented, "method Play not implemented")
}

func RegisterTetrisServiceServer(s grpc.ServiceRegistrar, srv TetrisServiceServer) {
	s.RegisterService(&TetrisService_ServiceDesc, srv)
}

func _TetrisService_Play_Handler(srv any, stream grpc.ServerStream) error {
	return srv.(TetrisServiceServer).Play(&grpc.GenericServerStream[structpb.Struct, structpb.Struct]{ServerStream: stream})
}

var TetrisService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TetrisServiceServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Play",
			Handler:       _TetrisService_Play_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "tetris.proto",
}

type TetrisServiceClient interface {
	Play(ctx context.Context, opts ...grpc.CallOption) (TetrisService_PlayClient, error)
}

type tetrisServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTetrisServiceClient(cc grpc.ClientConnInterface) TetrisServiceClient {
	return &tetrisServiceClient{cc}
}

func (c *tetrisServiceClient) Play(ctx context.Context, opts ...grpc.CallOption) (TetrisService_PlayClient, error) {
	stream, err := c.cc.NewStream(ctx, &TetrisService_ServiceDesc.Streams[0], TetrisService_Play_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[structpb.Struct, structpb.Struct]{ClientStream: stream}, nil
}
