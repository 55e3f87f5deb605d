package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomgun/saktris-game-sub001/board"
)

func TestArrivalCadence(t *testing.T) {
	queue := []board.PieceType{board.PieceTypePawn, board.PieceTypeKnight, board.PieceTypeRook}
	am := NewArrivalManagerWithQueues(2, queue, queue)

	// The first piece arrives before any move is made.
	pt, ok := am.CurrentPiece(board.White)
	require.True(t, ok)
	require.Equal(t, board.PieceTypePawn, pt)

	// Placing advances the queue but never counts as a move.
	am.PiecePlaced(board.White)
	require.Equal(t, 0, am.MovesMade(board.White))
	_, ok = am.CurrentPiece(board.White)
	require.False(t, ok, "second piece needs 2 moves first")

	am.RecordMove(board.White)
	_, ok = am.CurrentPiece(board.White)
	require.False(t, ok)

	am.RecordMove(board.White)
	pt, ok = am.CurrentPiece(board.White)
	require.True(t, ok)
	require.Equal(t, board.PieceTypeKnight, pt)

	// The threshold holds while the piece waits: extra moves don't lose it.
	am.RecordMove(board.White)
	pt, ok = am.CurrentPiece(board.White)
	require.True(t, ok)
	require.Equal(t, board.PieceTypeKnight, pt)

	// Sides are independent.
	_, ok = am.CurrentPiece(board.Black)
	require.True(t, ok, "black's first piece is also unconditional")
}

func TestArrivalExhaustion(t *testing.T) {
	queue := []board.PieceType{board.PieceTypeQueen}
	am := NewArrivalManagerWithQueues(1, queue, queue)

	require.False(t, am.Exhausted(board.White))
	am.PiecePlaced(board.White)
	require.True(t, am.Exhausted(board.White))
	require.False(t, am.ShouldPieceArrive(board.White))

	am.UndoPlacement(board.White)
	require.False(t, am.Exhausted(board.White))
}

func TestArrivalSeedDeterminism(t *testing.T) {
	a := NewArrivalManager(2, 12345)
	b := NewArrivalManager(2, 12345)
	c := NewArrivalManager(2, 54321)

	require.Equal(t, a.Pending(board.White), b.Pending(board.White))
	require.Equal(t, a.Pending(board.Black), b.Pending(board.Black))
	require.NotEqual(t, a.Pending(board.White), c.Pending(board.White),
		"different seeds should shuffle differently")

	// Every queue is a permutation of the standard 16-piece set.
	require.Len(t, a.Pending(board.White), 16)
	counts := map[board.PieceType]int{}
	for _, pt := range a.Pending(board.White) {
		counts[pt]++
	}
	require.Equal(t, 8, counts[board.PieceTypePawn])
	require.Equal(t, 2, counts[board.PieceTypeKnight])
	require.Equal(t, 2, counts[board.PieceTypeBishop])
	require.Equal(t, 2, counts[board.PieceTypeRook])
	require.Equal(t, 1, counts[board.PieceTypeQueen])
	require.Equal(t, 1, counts[board.PieceTypeKing])
}

func TestArrivalStateKeyDistinguishesCounters(t *testing.T) {
	queue := []board.PieceType{board.PieceTypePawn, board.PieceTypePawn}
	a := NewArrivalManagerWithQueues(2, queue, queue)
	b := NewArrivalManagerWithQueues(2, queue, queue)

	require.Equal(t, a.StateKey(), b.StateKey())
	b.RecordMove(board.White)
	require.NotEqual(t, a.StateKey(), b.StateKey())
	b.UnrecordMove(board.White)
	require.Equal(t, a.StateKey(), b.StateKey())
}

func TestArrivalSnapshotRoundTrip(t *testing.T) {
	am := NewArrivalManager(3, 99)
	am.PiecePlaced(board.White)
	am.RecordMove(board.White)
	am.RecordMove(board.Black)

	restored := &ArrivalManager{}
	require.NoError(t, restored.RestoreSnapshot(am.Snapshot()))
	require.Equal(t, am.Frequency(), restored.Frequency())
	require.Equal(t, am.Pending(board.White), restored.Pending(board.White))
	require.Equal(t, am.Pending(board.Black), restored.Pending(board.Black))
	require.Equal(t, am.MovesMade(board.White), restored.MovesMade(board.White))
	require.Equal(t, am.MovesMade(board.Black), restored.MovesMade(board.Black))
	require.Equal(t, am.StateKey(), restored.StateKey())
}

func TestArrivalSnapshotRejectsBadQueues(t *testing.T) {
	am := &ArrivalManager{}
	err := am.RestoreSnapshot(ArrivalSnapshot{Frequency: 2, WhiteQueue: "px", BlackQueue: "p"})
	require.Error(t, err)

	err = am.RestoreSnapshot(ArrivalSnapshot{Frequency: 2, WhiteQueue: "p", BlackQueue: "p", WhiteGiven: 2})
	require.Error(t, err, "given beyond queue length")
}
