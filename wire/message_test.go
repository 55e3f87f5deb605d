package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	msg, err := NewMessage(TypeMove, MovePayload{From: "e2", To: "e4", Seq: 7})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, msg))

	// The prefix states the body length exactly.
	frame := buf.Bytes()
	require.Equal(t, uint32(len(frame)-4), binary.BigEndian.Uint32(frame[:4]))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, TypeMove, got.Type)
	require.Equal(t, msg.Ts, got.Ts)

	var mv MovePayload
	require.NoError(t, got.DecodePayload(&mv))
	require.Equal(t, MovePayload{From: "e2", To: "e4", Seq: 7}, mv)
}

func TestDecodeSeveralFramesFromOneStream(t *testing.T) {
	var buf bytes.Buffer
	for _, typ := range []string{TypePing, TypePong, TypeResign} {
		m, err := NewMessage(typ, nil)
		require.NoError(t, err)
		require.NoError(t, Encode(&buf, m))
	}

	for _, want := range []string{TypePing, TypePong, TypeResign} {
		got, err := Decode(&buf)
		require.NoError(t, err)
		require.Equal(t, want, got.Type)
		require.Empty(t, got.Data)
	}
	_, err := Decode(&buf)
	require.Equal(t, io.EOF, err, "drained stream reports EOF")
}

func TestDecodeRejectsBadFrames(t *testing.T) {
	// Oversized length prefix.
	var buf bytes.Buffer
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], maxFrameSize+1)
	buf.Write(prefix[:])
	_, err := Decode(&buf)
	require.Error(t, err)

	// Truncated body.
	buf.Reset()
	binary.BigEndian.PutUint32(prefix[:], 100)
	buf.Write(prefix[:])
	buf.WriteString(`{"type":"PING"`)
	_, err = Decode(&buf)
	require.Error(t, err)

	// Valid frame whose body is not a message object.
	buf.Reset()
	body := []byte(`[1,2,3]`)
	binary.BigEndian.PutUint32(prefix[:], uint32(len(body)))
	buf.Write(prefix[:])
	buf.Write(body)
	_, err = Decode(&buf)
	require.Error(t, err)
}

func TestDecodeMessageToleratesGarbage(t *testing.T) {
	for _, raw := range []string{"", "not json", `"just a string"`, `[]`, `{}`, `{"data":{}}`} {
		_, ok := DecodeMessage([]byte(raw))
		require.False(t, ok, "input %q", raw)
	}

	m, ok := DecodeMessage([]byte(`{"type":"ACK","data":{"seq":3},"ts":1}`))
	require.True(t, ok)
	var ack Ack
	require.NoError(t, m.DecodePayload(&ack))
	require.Equal(t, 3, ack.Seq)
}

func TestGameStartPayload(t *testing.T) {
	msg, err := NewMessage(TypeGameStart, GameStart{Seed: 42, ArrivalFrequency: 2, HostSide: "w"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, msg))
	got, err := Decode(&buf)
	require.NoError(t, err)

	var gs GameStart
	require.NoError(t, got.DecodePayload(&gs))
	require.Equal(t, int64(42), gs.Seed)
	require.Equal(t, 2, gs.ArrivalFrequency)
	require.Equal(t, "w", gs.HostSide)
}

func TestDecodePayloadRequiresData(t *testing.T) {
	m, err := NewMessage(TypePing, nil)
	require.NoError(t, err)
	var ack Ack
	require.Error(t, m.DecodePayload(&ack))
}
