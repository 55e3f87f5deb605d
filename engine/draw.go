package engine

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/tomgun/saktris-game-sub001/board"
)

const fiftyMoveLimit = 100 // half-moves without capture or pawn move

// DrawReason identifies which rule ended the game in a draw, in the priority
// order CheckAllDraws evaluates them.
type DrawReason uint8

const (
	DrawNone DrawReason = iota
	DrawFiftyMoveRule
	DrawThreefoldRepetition
	DrawInsufficientMaterial
)

func (r DrawReason) String() string {
	switch r {
	case DrawFiftyMoveRule:
		return "fifty_move_rule"
	case DrawThreefoldRepetition:
		return "threefold_repetition"
	case DrawInsufficientMaterial:
		return "insufficient_material"
	default:
		return "none"
	}
}

// DrawDetector accumulates game-history state: the halfmove clock for the
// 50-move rule and a position-hash occurrence table for threefold repetition.
// Both reflect committed moves only — search must never feed it speculative
// lines. The table is cleared only at game reset; game length is bounded by
// the 50-move rule so it stays small.
type DrawDetector struct {
	halfmoveClock int
	repetition    map[uint64]int
}

// NewDrawDetector returns an empty detector.
func NewDrawDetector() *DrawDetector {
	return &DrawDetector{repetition: make(map[uint64]int)}
}

// Reset clears all history for a new game.
func (d *DrawDetector) Reset() {
	d.halfmoveClock = 0
	d.repetition = make(map[uint64]int)
}

// HalfmoveClock returns half-moves since the last capture or pawn move.
func (d *DrawDetector) HalfmoveClock() int { return d.halfmoveClock }

// OnMoveMade updates the halfmove clock for one committed move: captures and
// pawn moves reset it, everything else increments it.
func (d *DrawDetector) OnMoveMade(wasCapture, wasPawnMove bool) {
	if wasCapture || wasPawnMove {
		d.halfmoveClock = 0
	} else {
		d.halfmoveClock++
	}
}

// RecordPosition counts an occurrence of the current (position, side to move)
// hash. Call exactly once per committed move.
func (d *DrawDetector) RecordPosition(b *board.Board) {
	d.repetition[b.Hash()]++
}

// IsFiftyMoveRule reports the 50-move rule (100 half-moves).
func (d *DrawDetector) IsFiftyMoveRule() bool {
	return d.halfmoveClock >= fiftyMoveLimit
}

// IsThreefoldRepetition reports whether the current position has occurred
// three times.
func (d *DrawDetector) IsThreefoldRepetition(b *board.Board) bool {
	return d.repetition[b.Hash()] >= 3
}

// IsInsufficientMaterial reports whether neither side retains mating force on
// the board: K vs K, K+minor vs K, or K+B vs K+B with both bishops on the
// same square color. Any pawn, rook or queen is always sufficient. A board
// missing a king (that side's king has not arrived) is never classified as
// insufficient; callers gate on the arrival queues.
func (d *DrawDetector) IsInsufficientMaterial(b *board.Board) bool {
	var minors [2]int
	var bishopSquares [2]board.Square

	for ci := 0; ci < 2; ci++ {
		side := board.Color(ci)
		if b.KingSquare(side) == board.NoSquare {
			return false
		}
		bishopSquares[ci] = board.NoSquare
		occ := b.ColorOccupancy(side)
		for occ != 0 {
			sq := board.Square(bits.TrailingZeros64(occ))
			occ &= occ - 1
			switch b.PieceAt(sq).Type() {
			case board.PieceTypePawn, board.PieceTypeRook, board.PieceTypeQueen:
				return false
			case board.PieceTypeKnight:
				minors[ci]++
			case board.PieceTypeBishop:
				minors[ci]++
				bishopSquares[ci] = sq
			}
		}
	}

	total := minors[0] + minors[1]
	switch {
	case total == 0: // K vs K
		return true
	case total == 1: // K+minor vs K
		return true
	case minors[0] == 1 && minors[1] == 1 &&
		bishopSquares[0] != board.NoSquare && bishopSquares[1] != board.NoSquare:
		// K+B vs K+B draws only when both bishops live on squares of the
		// same color parity: (file+rank) mod 2 equal.
		p0 := (bishopSquares[0].File() + bishopSquares[0].Rank()) % 2
		p1 := (bishopSquares[1].File() + bishopSquares[1].Rank()) % 2
		return p0 == p1
	default:
		return false
	}
}

// CheckAllDraws returns the authoritative draw status, checked in priority
// order: fifty-move rule, threefold repetition, insufficient material.
func (d *DrawDetector) CheckAllDraws(b *board.Board) DrawReason {
	if d.IsFiftyMoveRule() {
		return DrawFiftyMoveRule
	}
	if d.IsThreefoldRepetition(b) {
		return DrawThreefoldRepetition
	}
	if d.IsInsufficientMaterial(b) {
		return DrawInsufficientMaterial
	}
	return DrawNone
}

// DrawSnapshot is the serializable form of a DrawDetector. Repetition keys
// are hex-encoded position hashes.
type DrawSnapshot struct {
	HalfmoveClock int            `json:"halfmove_clock"`
	Repetition    map[string]int `json:"repetition"`
}

// Snapshot captures the clock and the repetition table.
func (d *DrawDetector) Snapshot() DrawSnapshot {
	rep := make(map[string]int, len(d.repetition))
	for hash, count := range d.repetition {
		rep[strconv.FormatUint(hash, 16)] = count
	}
	return DrawSnapshot{HalfmoveClock: d.halfmoveClock, Repetition: rep}
}

// RestoreSnapshot rebuilds the detector. On error the receiver is untouched.
func (d *DrawDetector) RestoreSnapshot(s DrawSnapshot) error {
	if s.HalfmoveClock < 0 {
		return fmt.Errorf("halfmove clock must not be negative, got %d", s.HalfmoveClock)
	}
	rep := make(map[uint64]int, len(s.Repetition))
	for key, count := range s.Repetition {
		hash, err := strconv.ParseUint(key, 16, 64)
		if err != nil {
			return fmt.Errorf("repetition: key %q is not a hex hash", key)
		}
		if count < 1 {
			return fmt.Errorf("repetition: count for %q must be >= 1", key)
		}
		rep[hash] = count
	}
	d.halfmoveClock = s.HalfmoveClock
	d.repetition = rep
	return nil
}
