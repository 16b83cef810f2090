package proto

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"sprint/input"
	"sprint/tetris"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrInvalidMessage = errors.New("invalid message")

type MessageType string

const (
	TypeAction  MessageType = "action"  // Action is handed to the game as is.
	TypePress   MessageType = "press"   // Control went down, the server repeats it.
	TypeRelease MessageType = "release" // Control went up.
)

// Message is sent by the player.
type Message struct {
	Type    MessageType   `json:"type"`
	Action  tetris.Action `json:"action,omitempty"`
	Control input.Control `json:"control,omitempty"`
}

func (m *Message) Validate() error {
	switch m.Type {
	case TypeAction:
		if !slices.Contains(tetris.Actions, m.Action) {
			return fmt.Errorf("unknown action %q: %w", m.Action, ErrInvalidMessage)
		}
	case TypePress, TypeRelease:
		if !m.Control.IsValid() {
			return fmt.Errorf("unknown control %q: %w", m.Control, ErrInvalidMessage)
		}
	default:
		return fmt.Errorf("unknown type %q: %w", m.Type, ErrInvalidMessage)
	}
	return nil
}

const (
	EventSession = "session" // first update of a stream, carries the session ID.
	EventError   = "error"
)

// Update is sent by the server for every event of the session.
type Update struct {
	SessionID string           `json:"sessionId,omitempty"`
	Event     string           `json:"event"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
	Snapshot  *tetris.Snapshot `json:"snapshot,omitempty"`
	Error     string           `json:"error,omitempty"`
}

func NewUpdate(id string, ev tetris.Event, s *tetris.Snapshot) (*Update, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal %s: %w", ev.Name(), err)
	}
	return &Update{SessionID: id, Event: ev.Name(), Payload: payload, Snapshot: s}, nil
}

// DecodeEvent returns the engine event carried by the update.
// Updates that don't carry one return nil.
func (u *Update) DecodeEvent() (tetris.Event, error) {
	var ev tetris.Event
	switch u.Event {
	case tetris.PieceMoved{}.Name():
		ev = &tetris.PieceMoved{}
	case tetris.PieceLocked{}.Name():
		ev = &tetris.PieceLocked{}
	case tetris.LinesCleared{}.Name():
		ev = &tetris.LinesCleared{}
	case tetris.GameOver{}.Name():
		ev = &tetris.GameOver{}
	case tetris.CountdownTick{}.Name():
		ev = &tetris.CountdownTick{}
	case tetris.HoldChanged{}.Name():
		ev = &tetris.HoldChanged{}
	case tetris.StateChanged{}.Name():
		ev = &tetris.StateChanged{}
	default:
		return nil, nil
	}
	if err := json.Unmarshal(u.Payload, ev); err != nil {
		return nil, fmt.Errorf("unable to unmarshal %s: %w", u.Event, err)
	}
	return deref(ev), nil
}

func deref(ev tetris.Event) tetris.Event {
	switch e := ev.(type) {
	case *tetris.PieceMoved:
		return *e
	case *tetris.PieceLocked:
		return *e
	case *tetris.LinesCleared:
		return *e
	case *tetris.GameOver:
		return *e
	case *tetris.CountdownTick:
		return *e
	case *tetris.HoldChanged:
		return *e
	case *tetris.StateChanged:
		return *e
	}
	return ev
}

// Encode converts a JSON encodable value into the struct sent on the wire.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal %T: %w", v, err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("unable to convert %T: %w", v, err)
	}
	return s, nil
}

// Decode fills v with the content of the struct.
func Decode(s *structpb.Struct, v any) error {
	b, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("unable to convert struct: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unable to unmarshal into %T: %w", v, err)
	}
	return nil
}
