package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"sprint/proto"

	"github.com/gorilla/websocket"
)

// WebSocketHandler plays one session per connection, exchanging the same JSON
// messages the gRPC service carries.
type WebSocketHandler struct {
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(h *Hub, l *slog.Logger) *WebSocketHandler {
	if l == nil {
		l = slog.Default()
	}
	return &WebSocketHandler{
		hub:    h,
		logger: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close() //nolint: errcheck

	send := func(u *proto.Update) error {
		return conn.WriteJSON(u)
	}
	recv := func() (*proto.Message, error) {
		_, b, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		m := &proto.Message{}
		if err := json.Unmarshal(b, m); err != nil {
			return nil, fmt.Errorf("%w: %w", proto.ErrInvalidMessage, err)
		}
		return m, nil
	}

	err = serve(r.Context(), h.hub, send, recv)
	switch {
	case err == nil:
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure):
		h.logger.Debug("websocket closed", slog.String("msg", err.Error()))
	default:
		h.logger.Error("websocket session failed", slog.String("error", err.Error()))
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		if errors.Is(err, ErrHubFull) {
			msg = websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error())
		}
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
	}
}
