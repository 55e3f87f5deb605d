// Package wire defines the peer-to-peer message framing for network play:
// length-prefixed JSON envelopes, the typed payloads both peers exchange, and
// room-code handling for matchmaking.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"
)

// Message type identifiers. Both peers must agree on these strings exactly.
const (
	TypeGameStart   = "GAME_START"
	TypeMove        = "MOVE"
	TypePlacement   = "PLACEMENT"
	TypePromotion   = "PROMOTION"
	TypeStateHash   = "STATE_HASH"
	TypeAck         = "ACK"
	TypePing        = "PING"
	TypePong        = "PONG"
	TypeResign      = "RESIGN"
	TypeDrawOffer   = "DRAW_OFFER"
	TypeDrawAccept  = "DRAW_ACCEPT"
	TypeDrawDecline = "DRAW_DECLINE"
)

// maxFrameSize caps a single frame; anything larger is a protocol violation,
// not a legitimate message.
const maxFrameSize = 1 << 20

// Message is the envelope every frame carries. Data holds the type-specific
// payload, left raw so routers can dispatch on Type without decoding it.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	Ts   int64           `json:"ts"`
}

// NewMessage builds an envelope around a payload, stamping the current time
// in milliseconds. A nil payload produces an envelope with no data field.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	m := Message{Type: msgType, Ts: time.Now().UnixMilli()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Message{}, errors.Wrapf(err, "marshal %s payload", msgType)
		}
		m.Data = data
	}
	return m, nil
}

// DecodePayload unmarshals the envelope's data into the given payload struct.
func (m Message) DecodePayload(v interface{}) error {
	if len(m.Data) == 0 {
		return errors.Errorf("%s message has no payload", m.Type)
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return errors.Wrapf(err, "unmarshal %s payload", m.Type)
	}
	return nil
}

// Encode writes the message as one frame: a 4-byte big-endian length prefix
// followed by the JSON envelope.
func Encode(w io.Writer, m Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal envelope")
	}
	if len(body) > maxFrameSize {
		return errors.Errorf("frame of %d bytes exceeds limit", len(body))
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	if _, err := w.Write(prefix[:]); err != nil {
		return errors.Wrap(err, "write length prefix")
	}
	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "write frame body")
	}
	return nil
}

// Decode reads one frame and unmarshals its envelope. io.EOF passes through
// untouched so callers can detect a cleanly closed connection.
func Decode(r io.Reader) (Message, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return Message{}, io.EOF
		}
		return Message{}, errors.Wrap(err, "read length prefix")
	}
	size := binary.BigEndian.Uint32(prefix[:])
	if size == 0 || size > maxFrameSize {
		return Message{}, errors.Errorf("frame length %d out of range", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return Message{}, errors.Wrap(err, "read frame body")
	}
	m, ok := DecodeMessage(body)
	if !ok {
		return Message{}, errors.New("frame body is not a message object")
	}
	return m, nil
}

// DecodeMessage parses a raw frame body. ok is false when the bytes are not a
// JSON object carrying a type; malformed input from a peer is a normal
// condition, not a panic.
func DecodeMessage(data []byte) (Message, bool) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, false
	}
	if m.Type == "" {
		return Message{}, false
	}
	return m, true
}

// GameStart is sent by the host when both peers are in the room. The shared
// seed makes both sides generate identical arrival queues.
type GameStart struct {
	Seed             int64  `json:"seed"`
	ArrivalFrequency int    `json:"arrival_frequency"`
	HostSide         string `json:"host_side"`
	TimeBudgetMillis int64  `json:"time_budget_ms,omitempty"`
}

// MovePayload carries one committed move. Seq numbers every action so peers
// can detect loss or reordering.
type MovePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
	Seq  int    `json:"seq"`
}

// PlacementPayload carries one committed placement.
type PlacementPayload struct {
	Column int `json:"column"`
	Seq    int `json:"seq"`
}

// PromotionPayload resolves a promotion the peer is waiting on.
type PromotionPayload struct {
	PieceType string `json:"piece_type"`
	Seq       int    `json:"seq"`
}

// StateHash is the periodic determinism checkpoint: if the hashes diverge at
// the same move count, the peers have desynced.
type StateHash struct {
	Hash      string `json:"hash"`
	MoveCount int    `json:"move_count"`
}

// Ack confirms receipt of the action numbered Seq.
type Ack struct {
	Seq int `json:"seq"`
}
