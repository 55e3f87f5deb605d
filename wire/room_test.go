package wire

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRoomCode(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewRoomCode(rnd)
		require.Len(t, code, 6)
		require.True(t, ValidRoomCode(code), "generated code %q must validate", code)
		seen[code] = true
	}
	require.Greater(t, len(seen), 90, "codes should rarely collide")
}

func TestRoomCodeDeterministicPerSeed(t *testing.T) {
	a := NewRoomCode(rand.New(rand.NewSource(7)))
	b := NewRoomCode(rand.New(rand.NewSource(7)))
	require.Equal(t, a, b)
}

func TestValidRoomCode(t *testing.T) {
	require.True(t, ValidRoomCode("ABC234"))
	require.True(t, ValidRoomCode("abc234"), "validation is case-insensitive")
	require.True(t, ValidRoomCode("  XYZWVU \n"))

	require.False(t, ValidRoomCode(""))
	require.False(t, ValidRoomCode("ABC23"))
	require.False(t, ValidRoomCode("ABC2345"))
	require.False(t, ValidRoomCode("ABC10Z"), "0 and 1 are not in the alphabet")
	require.False(t, ValidRoomCode("ABCIOZ"), "I and O are not in the alphabet")
	require.False(t, ValidRoomCode("AB C34"))
}
