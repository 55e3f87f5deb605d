package wire

import (
	"math/rand"
	"strings"
)

// Room codes are short join tokens typed by hand, so the alphabet drops the
// characters that read ambiguously: I, O, 0 and 1.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
)

// NewRoomCode generates a random room code from the given source.
func NewRoomCode(rnd *rand.Rand) string {
	var sb strings.Builder
	sb.Grow(roomCodeLength)
	for i := 0; i < roomCodeLength; i++ {
		sb.WriteByte(roomCodeAlphabet[rnd.Intn(len(roomCodeAlphabet))])
	}
	return sb.String()
}

// NormalizeRoomCode upper-cases a hand-typed code and strips surrounding
// whitespace. It does not validate.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidRoomCode reports whether a code is well-formed after normalization.
func ValidRoomCode(code string) bool {
	code = NormalizeRoomCode(code)
	if len(code) != roomCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(roomCodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
