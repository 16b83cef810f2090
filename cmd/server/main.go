package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sprint/proto"
	"sprint/server"

	"google.golang.org/grpc"
)

func main() {
	grpcAddr := flag.String("grpc", ":9000", "gRPC listen address")
	httpAddr := flag.String("http", ":8080", "WebSocket listen address, empty to disable")
	maxSessions := flag.Int("max-sessions", 100, "maximum concurrent sessions")
	idle := flag.Duration("idle", 5*time.Minute, "idle session timeout")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	o := server.DefaultOptions()
	o.MaxSessions = *maxSessions
	o.IdleTimeout = *idle
	o.Logger = logger
	hub, err := server.NewHub(o)
	if err != nil {
		logger.Error("invalid options", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer hub.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Maintain(ctx, 30*time.Second)

	lis, err := net.Listen("tcp", *grpcAddr)
	if err != nil {
		logger.Error("failed to listen", slog.String("error", err.Error()))
		os.Exit(1)
	}
	s := grpc.NewServer()
	proto.RegisterTetrisServiceServer(s, server.NewService(hub, logger))
	go func() {
		logger.Info("starting gRPC server", slog.String("addr", lis.Addr().String()))
		if err := s.Serve(lis); err != nil {
			logger.Error("failed to serve gRPC", slog.String("error", err.Error()))
			stop()
		}
	}()

	var hs *http.Server
	if *httpAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/ws", server.NewWebSocketHandler(hub, logger))
		hs = &http.Server{
			Addr:              *httpAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       30 * time.Second,
		}
		go func() {
			logger.Info("starting WebSocket server", slog.String("addr", hs.Addr))
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to serve WebSocket", slog.String("error", err.Error()))
				stop()
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if hs != nil {
		if err := hs.Shutdown(shutdownCtx); err != nil {
			logger.Error("WebSocket server shutdown", slog.String("error", err.Error()))
		}
	}
	hub.Stop()
	s.GracefulStop()
}
