// Package engine drives the saktris variant on top of the board primitives:
// piece arrival cadence, the place-or-move turn state machine, draw
// accounting and the search AI.
package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/tomgun/saktris-game-sub001/board"
)

// DefaultArrivalFrequency is the number of moves a side makes between
// consecutive piece arrivals.
const DefaultArrivalFrequency = 2

// ArrivalManager tracks, per side, the ordered queue of pieces still to
// arrive and the counters the cadence policy is evaluated against. Arrival is
// lazy: a piece "is available" whenever movesMade >= piecesGiven*frequency,
// re-checkable at any point without drift. The first piece (piecesGiven=0)
// arrives unconditionally.
type ArrivalManager struct {
	frequency int
	queues    [2][]board.PieceType
	given     [2]int
	moves     [2]int
}

// standardArrivalSet returns the full complement each side receives over a
// game: 8 pawns, 2 knights, 2 bishops, 2 rooks, 1 queen, 1 king.
func standardArrivalSet() []board.PieceType {
	set := make([]board.PieceType, 0, 16)
	for i := 0; i < 8; i++ {
		set = append(set, board.PieceTypePawn)
	}
	set = append(set,
		board.PieceTypeKnight, board.PieceTypeKnight,
		board.PieceTypeBishop, board.PieceTypeBishop,
		board.PieceTypeRook, board.PieceTypeRook,
		board.PieceTypeQueen,
		board.PieceTypeKing,
	)
	return set
}

// NewArrivalManager builds both queues as seeded shuffles of the standard
// set, so two peers sharing a GAME_START seed generate identical queues.
func NewArrivalManager(frequency int, seed int64) *ArrivalManager {
	if frequency < 1 {
		frequency = DefaultArrivalFrequency
	}
	rnd := rand.New(rand.NewSource(seed))
	am := &ArrivalManager{frequency: frequency}
	for side := 0; side < 2; side++ {
		q := standardArrivalSet()
		rnd.Shuffle(len(q), func(i, j int) { q[i], q[j] = q[j], q[i] })
		am.queues[side] = q
	}
	return am
}

// NewArrivalManagerWithQueues injects explicit queues, for tests and for
// snapshot restore.
func NewArrivalManagerWithQueues(frequency int, white, black []board.PieceType) *ArrivalManager {
	if frequency < 1 {
		frequency = DefaultArrivalFrequency
	}
	am := &ArrivalManager{frequency: frequency}
	am.queues[board.White] = append([]board.PieceType(nil), white...)
	am.queues[board.Black] = append([]board.PieceType(nil), black...)
	return am
}

// Frequency returns the arrival cadence in moves per piece.
func (am *ArrivalManager) Frequency() int { return am.frequency }

// MovesMade returns how many moves the side has committed.
func (am *ArrivalManager) MovesMade(side board.Color) int { return am.moves[side] }

// PiecesGiven returns how many pieces the side has placed so far.
func (am *ArrivalManager) PiecesGiven(side board.Color) int { return am.given[side] }

// Exhausted reports whether the side's queue has run out.
func (am *ArrivalManager) Exhausted(side board.Color) bool {
	return am.given[side] >= len(am.queues[side])
}

// ShouldPieceArrive reports whether the cadence threshold for the side's next
// queued piece has been reached.
func (am *ArrivalManager) ShouldPieceArrive(side board.Color) bool {
	if am.Exhausted(side) {
		return false
	}
	return am.moves[side] >= am.given[side]*am.frequency
}

// CurrentPiece returns the side's arriving piece: the front of the queue when
// the threshold is met, otherwise ok=false.
func (am *ArrivalManager) CurrentPiece(side board.Color) (board.PieceType, bool) {
	if !am.ShouldPieceArrive(side) {
		return board.PieceTypeNone, false
	}
	return am.queues[side][am.given[side]], true
}

// PiecePlaced advances the queue after the current piece lands on the board.
func (am *ArrivalManager) PiecePlaced(side board.Color) { am.given[side]++ }

// UndoPlacement reverses PiecePlaced; search uses it to rewind hypothetical
// placements.
func (am *ArrivalManager) UndoPlacement(side board.Color) {
	if am.given[side] > 0 {
		am.given[side]--
	}
}

// RecordMove counts a committed (or, during search, hypothetical) move for
// the side. Placing never counts as a move.
func (am *ArrivalManager) RecordMove(side board.Color) { am.moves[side]++ }

// UnrecordMove reverses RecordMove.
func (am *ArrivalManager) UnrecordMove(side board.Color) {
	if am.moves[side] > 0 {
		am.moves[side]--
	}
}

// Pending returns the side's not-yet-placed queue tail, front first.
func (am *ArrivalManager) Pending(side board.Color) []board.PieceType {
	return append([]board.PieceType(nil), am.queues[side][am.given[side]:]...)
}

// StateKey folds the four counters into a value search can mix into a
// transposition key: two nodes with identical boards but different arrival
// counters are different search states.
func (am *ArrivalManager) StateKey() uint64 {
	k := uint64(am.given[0])
	k = k*37 + uint64(am.given[1])
	k = k*37 + uint64(am.moves[0])
	k = k*37 + uint64(am.moves[1])
	// splitmix64 finalizer
	k ^= k >> 30
	k *= 0xbf58476d1ce4e5b9
	k ^= k >> 27
	k *= 0x94d049bb133111eb
	k ^= k >> 31
	return k
}

// ArrivalSnapshot is the serializable form of an ArrivalManager.
type ArrivalSnapshot struct {
	Frequency  int    `json:"frequency"`
	WhiteQueue string `json:"white_queue"`
	BlackQueue string `json:"black_queue"`
	WhiteGiven int    `json:"white_given"`
	BlackGiven int    `json:"black_given"`
	WhiteMoves int    `json:"white_moves"`
	BlackMoves int    `json:"black_moves"`
}

func queueString(q []board.PieceType) string {
	var sb strings.Builder
	for _, pt := range q {
		sb.WriteString(pt.String())
	}
	return sb.String()
}

func parseQueue(s string) ([]board.PieceType, error) {
	q := make([]board.PieceType, 0, len(s))
	for i := 0; i < len(s); i++ {
		pt, ok := board.PieceTypeFromLetter(s[i])
		if !ok {
			return nil, fmt.Errorf("queue: invalid piece letter %q", s[i])
		}
		q = append(q, pt)
	}
	return q, nil
}

// Snapshot captures queues and counters.
func (am *ArrivalManager) Snapshot() ArrivalSnapshot {
	return ArrivalSnapshot{
		Frequency:  am.frequency,
		WhiteQueue: queueString(am.queues[board.White]),
		BlackQueue: queueString(am.queues[board.Black]),
		WhiteGiven: am.given[board.White],
		BlackGiven: am.given[board.Black],
		WhiteMoves: am.moves[board.White],
		BlackMoves: am.moves[board.Black],
	}
}

// RestoreSnapshot rebuilds the manager from a snapshot. On error the receiver
// is left untouched.
func (am *ArrivalManager) RestoreSnapshot(s ArrivalSnapshot) error {
	if s.Frequency < 1 {
		return fmt.Errorf("frequency must be >= 1, got %d", s.Frequency)
	}
	white, err := parseQueue(s.WhiteQueue)
	if err != nil {
		return err
	}
	black, err := parseQueue(s.BlackQueue)
	if err != nil {
		return err
	}
	if s.WhiteGiven < 0 || s.WhiteGiven > len(white) || s.BlackGiven < 0 || s.BlackGiven > len(black) {
		return fmt.Errorf("given counters out of range")
	}
	if s.WhiteMoves < 0 || s.BlackMoves < 0 {
		return fmt.Errorf("move counters must not be negative")
	}
	am.frequency = s.Frequency
	am.queues[board.White] = white
	am.queues[board.Black] = black
	am.given[board.White] = s.WhiteGiven
	am.given[board.Black] = s.BlackGiven
	am.moves[board.White] = s.WhiteMoves
	am.moves[board.Black] = s.BlackMoves
	return nil
}
