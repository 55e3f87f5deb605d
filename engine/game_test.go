package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomgun/saktris-game-sub001/board"
)

func mustSq(t *testing.T, name string) board.Square {
	t.Helper()
	sq, ok := board.ParseSquare(name)
	require.True(t, ok, "square %q", name)
	return sq
}

// restoreGame rebuilds a mid-game state from its parts: board placement,
// whose turn it is, and the sides' remaining arrival queues.
func restoreGame(t *testing.T, placement, turn, whiteQueue, blackQueue string) *Game {
	t.Helper()
	g := NewGame(Config{})
	err := g.RestoreSnapshot(GameSnapshot{
		Board:    board.Snapshot{Placement: placement, Moved: "0", EnPassant: "-", Turn: turn},
		Arrivals: ArrivalSnapshot{Frequency: 2, WhiteQueue: whiteQueue, BlackQueue: blackQueue},
		Draws:    DrawSnapshot{},
		Clock:    ClockSnapshot{Active: "w"},
		Current:  turn,
		AISide:   "b",
		Winner:   "w",
	})
	require.NoError(t, err)
	return g
}

func TestPlaceThenMoveAlternation(t *testing.T) {
	queue := []board.PieceType{board.PieceTypePawn, board.PieceTypeKnight}
	g := NewGame(Config{ArrivalFrequency: 2, WhiteQueue: queue, BlackQueue: queue})

	// Both sides owe their first placement before anything can move.
	require.True(t, g.MustPlacePiece())
	require.False(t, g.TryMove(mustSq(t, "e1"), mustSq(t, "e2")), "moving while a placement is owed")
	require.True(t, g.TryPlacePiece(4)) // white pawn to e1
	require.Equal(t, board.WhitePawn, g.Board().PieceAt(mustSq(t, "e1")))
	require.Equal(t, board.Black, g.CurrentPlayer())

	require.True(t, g.MustPlacePiece())
	require.True(t, g.TryPlacePiece(4)) // black pawn to e8

	// No piece is owed now; both sides move.
	require.False(t, g.MustPlacePiece())
	require.False(t, g.TryPlacePiece(3), "placing with nothing owed")
	require.True(t, g.TryMove(mustSq(t, "e1"), mustSq(t, "e2")))
	require.True(t, g.TryMove(mustSq(t, "e8"), mustSq(t, "e7")))

	// White's second move reaches the cadence threshold for its knight.
	require.True(t, g.TryMove(mustSq(t, "e2"), mustSq(t, "e3")))
	require.False(t, g.MustPlacePiece(), "black has made only one move")
	require.True(t, g.TryMove(mustSq(t, "e7"), mustSq(t, "e6")))

	require.True(t, g.MustPlacePiece())
	pt, ok := g.Arrivals().CurrentPiece(board.White)
	require.True(t, ok)
	require.Equal(t, board.PieceTypeKnight, pt)

	// Placements never feed the move counters.
	require.Equal(t, 2, g.Arrivals().MovesMade(board.White))
	require.Equal(t, 2, g.Arrivals().MovesMade(board.Black))
	require.Equal(t, 4, g.MoveCount())
}

func TestPlacementColumnRules(t *testing.T) {
	queue := []board.PieceType{board.PieceTypeRook, board.PieceTypeRook}
	g := NewGame(Config{ArrivalFrequency: 1, WhiteQueue: queue, BlackQueue: queue})

	require.True(t, g.TryPlacePiece(0))
	require.True(t, g.TryPlacePiece(0)) // black's a8 is its own rank
	require.False(t, g.TryPlacePiece(-1))
	require.False(t, g.TryPlacePiece(8))

	// White moved once; frequency 1 means another rook is owed. The first
	// rook slid to b1, so column 1 is taken and column 0 is free again.
	require.True(t, g.TryMove(mustSq(t, "a1"), mustSq(t, "b1")))
	require.True(t, g.TryMove(mustSq(t, "a8"), mustSq(t, "a7")))
	require.True(t, g.MustPlacePiece())
	require.NotContains(t, g.PlacementColumns(), 1)
	require.Contains(t, g.PlacementColumns(), 0)
	require.False(t, g.TryPlacePiece(1))
	require.True(t, g.TryPlacePiece(0))
}

func TestCheckmateEndsGame(t *testing.T) {
	g := restoreGame(t, "4k3/R7/8/8/8/8/8/KR6", "w", "", "")
	require.True(t, g.TryMove(mustSq(t, "b1"), mustSq(t, "b8")))
	require.Equal(t, OutcomeCheckmate, g.Outcome())
	require.Equal(t, board.White, g.Winner())
	require.False(t, g.TryMove(mustSq(t, "e8"), mustSq(t, "e7")), "game over")
	require.Empty(t, g.GetLegalMovesForCurrentPlayer())
}

func TestStalemateEndsGame(t *testing.T) {
	g := restoreGame(t, "k7/8/8/8/8/2Q5/8/7K", "w", "", "")
	require.True(t, g.TryMove(mustSq(t, "c3"), mustSq(t, "c7")))
	require.Equal(t, OutcomeStalemate, g.Outcome())
}

func TestInsufficientMaterialWaitsForQueues(t *testing.T) {
	// Black captures white's last knight, leaving bare kings.
	g := restoreGame(t, "8/8/8/8/2k5/1N6/8/K7", "b", "", "")
	require.True(t, g.TryMove(mustSq(t, "c4"), mustSq(t, "b3")))
	require.Equal(t, OutcomeDraw, g.Outcome())
	require.Equal(t, DrawInsufficientMaterial, g.DrawReason())

	// Same capture, but white still has a queen in reserve: not a draw.
	g = restoreGame(t, "8/8/8/8/2k5/1N6/8/K7", "b", "Q", "")
	require.True(t, g.TryMove(mustSq(t, "c4"), mustSq(t, "b3")))
	require.Equal(t, OutcomeOngoing, g.Outcome())
	require.True(t, g.MustPlacePiece(), "white's reserve queen is due")
}

func TestPromotionFlow(t *testing.T) {
	g := restoreGame(t, "4k3/P7/8/8/8/8/8/7K", "w", "", "")
	res := g.ExecuteMove(mustSq(t, "a7"), mustSq(t, "a8"))
	require.True(t, res.Valid)
	require.True(t, res.NeedsPromotion)
	require.Equal(t, mustSq(t, "a8"), g.PendingPromotion())

	// The game is frozen until the choice resolves.
	require.False(t, g.TryMove(mustSq(t, "e8"), mustSq(t, "e7")))
	require.False(t, g.SetPromotion(board.PieceTypeKing))
	require.False(t, g.SetPromotion(board.PieceTypePawn))

	require.True(t, g.SetPromotion(board.PieceTypeKnight))
	require.Equal(t, board.WhiteKnight, g.Board().PieceAt(mustSq(t, "a8")))
	require.Equal(t, board.NoSquare, g.PendingPromotion())
	require.True(t, g.TryMove(mustSq(t, "e8"), mustSq(t, "e7")))
}

func TestResignAndForfeit(t *testing.T) {
	g := NewGame(Config{})
	g.Resign(board.White)
	require.Equal(t, OutcomeResigned, g.Outcome())
	require.Equal(t, board.Black, g.Winner())

	g = NewGame(Config{})
	g.ForfeitOnTime(board.Black)
	require.Equal(t, OutcomeTimeForfeit, g.Outcome())
	require.Equal(t, board.White, g.Winner())

	// Terminal outcomes are sticky.
	g.Resign(board.White)
	require.Equal(t, OutcomeTimeForfeit, g.Outcome())
}

func TestIsAITurn(t *testing.T) {
	queue := []board.PieceType{board.PieceTypePawn}
	g := NewGame(Config{Mode: ModeVsAI, AISide: board.Black, ArrivalFrequency: 2,
		WhiteQueue: queue, BlackQueue: queue})
	require.False(t, g.IsAITurn())
	require.True(t, g.TryPlacePiece(4))
	require.True(t, g.IsAITurn())
}

func TestGameSnapshotRoundTrip(t *testing.T) {
	queue := []board.PieceType{board.PieceTypePawn, board.PieceTypeKnight}
	g := NewGame(Config{ArrivalFrequency: 2, WhiteQueue: queue, BlackQueue: queue})
	require.True(t, g.TryPlacePiece(4))
	require.True(t, g.TryPlacePiece(3))
	require.True(t, g.TryMove(mustSq(t, "e1"), mustSq(t, "e2")))

	restored := NewGame(Config{})
	require.NoError(t, restored.RestoreSnapshot(g.Snapshot()))
	require.Equal(t, g.PositionHash(), restored.PositionHash())
	require.Equal(t, g.CurrentPlayer(), restored.CurrentPlayer())
	require.Equal(t, g.MoveCount(), restored.MoveCount())
	require.Equal(t, g.Arrivals().StateKey(), restored.Arrivals().StateKey())
	require.Equal(t, g.Outcome(), restored.Outcome())

	// The restored game keeps playing identically.
	require.True(t, restored.TryMove(mustSq(t, "d8"), mustSq(t, "d7")))
}

func TestWinnerSurvivesSnapshot(t *testing.T) {
	g := NewGame(Config{})
	g.Resign(board.White)

	restored := NewGame(Config{})
	require.NoError(t, restored.RestoreSnapshot(g.Snapshot()))
	require.Equal(t, OutcomeResigned, restored.Outcome())
	require.Equal(t, board.Black, restored.Winner())

	g = NewGame(Config{})
	g.ForfeitOnTime(board.Black)
	require.NoError(t, restored.RestoreSnapshot(g.Snapshot()))
	require.Equal(t, OutcomeTimeForfeit, restored.Outcome())
	require.Equal(t, board.White, restored.Winner())
}

func TestGameSnapshotRejectsBadFields(t *testing.T) {
	g := NewGame(Config{})
	snap := g.Snapshot()
	snap.Current = "purple"
	require.Error(t, g.RestoreSnapshot(snap))

	snap = g.Snapshot()
	snap.Outcome = 99
	require.Error(t, g.RestoreSnapshot(snap))
}
