package engine

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tomgun/saktris-game-sub001/board"
)

// Mode selects who plays each side.
type Mode uint8

const (
	ModeTwoPlayer Mode = iota
	ModeVsAI
)

// Outcome is the terminal classification of a game.
type Outcome uint8

const (
	OutcomeOngoing Outcome = iota
	OutcomeCheckmate
	OutcomeStalemate
	OutcomeDraw
	OutcomeResigned
	OutcomeTimeForfeit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCheckmate:
		return "checkmate"
	case OutcomeStalemate:
		return "stalemate"
	case OutcomeDraw:
		return "draw"
	case OutcomeResigned:
		return "resigned"
	case OutcomeTimeForfeit:
		return "time_forfeit"
	default:
		return "ongoing"
	}
}

// Config parameterizes a new game.
type Config struct {
	Mode             Mode
	AISide           board.Color
	ArrivalFrequency int
	Seed             int64
	// TimeBudget of zero means an untimed game.
	TimeBudget time.Duration
	// Explicit queues override the seeded shuffle (tests, resync).
	WhiteQueue []board.PieceType
	BlackQueue []board.PieceType
}

// Game orchestrates one match: it owns the board, the arrival queues, the
// draw detector and the clock, sequences place-or-move turns, and exposes the
// public API the presentation and network layers drive. Plain mutable state,
// single-threaded; a host that searches on a background goroutine must keep
// exclusive access for the search's duration.
type Game struct {
	board    *board.Board
	arrivals *ArrivalManager
	draws    *DrawDetector
	clock    *ChessClock

	mode    Mode
	aiSide  board.Color
	current board.Color

	outcome    Outcome
	winner     board.Color
	drawReason DrawReason

	// Square owed a human promotion choice, or NoSquare.
	pendingPromotion board.Square

	moveCount int
}

// NewGame starts a fresh game from the config.
func NewGame(cfg Config) *Game {
	g := &Game{}
	g.StartNewGame(cfg)
	return g
}

// StartNewGame resets all state for a new match with the given config.
func (g *Game) StartNewGame(cfg Config) {
	g.board = board.New()
	if cfg.WhiteQueue != nil || cfg.BlackQueue != nil {
		g.arrivals = NewArrivalManagerWithQueues(cfg.ArrivalFrequency, cfg.WhiteQueue, cfg.BlackQueue)
	} else {
		g.arrivals = NewArrivalManager(cfg.ArrivalFrequency, cfg.Seed)
	}
	g.draws = NewDrawDetector()
	g.clock = NewChessClock(cfg.TimeBudget)
	g.mode = cfg.Mode
	g.aiSide = cfg.AISide
	g.current = board.White
	g.outcome = OutcomeOngoing
	g.winner = board.White
	g.drawReason = DrawNone
	g.pendingPromotion = board.NoSquare
	g.moveCount = 0
}

// Board exposes the live board for rendering and hashing. Callers must not
// mutate it behind the Game's back.
func (g *Game) Board() *board.Board { return g.board }

// Arrivals exposes the arrival bookkeeping.
func (g *Game) Arrivals() *ArrivalManager { return g.arrivals }

// Draws exposes the draw detector.
func (g *Game) Draws() *DrawDetector { return g.draws }

// Clock exposes the advisory clock.
func (g *Game) Clock() *ChessClock { return g.clock }

// CurrentPlayer returns whose turn it is.
func (g *Game) CurrentPlayer() board.Color { return g.current }

// Outcome returns the terminal classification, OutcomeOngoing while playing.
func (g *Game) Outcome() Outcome { return g.outcome }

// Winner returns the winning side; meaningful only for decisive outcomes.
func (g *Game) Winner() board.Color { return g.winner }

// DrawReason returns which rule drew the game, DrawNone otherwise.
func (g *Game) DrawReason() DrawReason { return g.drawReason }

// MoveCount returns the number of committed half-moves (placements excluded),
// the counter peers compare in STATE_HASH checkpoints.
func (g *Game) MoveCount() int { return g.moveCount }

// PositionHash returns the determinism-checkpoint hash peers exchange.
func (g *Game) PositionHash() uint64 { return g.board.Hash() }

// IsAITurn reports whether the AI owns the current turn.
func (g *Game) IsAITurn() bool {
	return g.mode == ModeVsAI && g.current == g.aiSide && g.outcome == OutcomeOngoing
}

// PendingPromotion returns the square owed a promotion choice, or NoSquare.
func (g *Game) PendingPromotion() board.Square { return g.pendingPromotion }

// MustPlacePiece reports whether the current side is in the placement state:
// an arrived piece is waiting and its home rank has room. Placement and
// movement are mutually exclusive; whichever applies ends the turn.
func (g *Game) MustPlacePiece() bool {
	if g.outcome != OutcomeOngoing || g.pendingPromotion != board.NoSquare {
		return false
	}
	if _, ok := g.arrivals.CurrentPiece(g.current); !ok {
		return false
	}
	return len(g.PlacementColumns()) > 0
}

// PlacementColumns lists the empty home-rank columns the current side could
// receive a piece on.
func (g *Game) PlacementColumns() []int {
	rank := board.HomeRank(g.current)
	cols := make([]int, 0, 8)
	for file := 0; file < 8; file++ {
		if g.board.PieceAt(board.SquareAt(rank, file)) == board.NoPiece {
			cols = append(cols, file)
		}
	}
	return cols
}

// TryPlacePiece places the current side's arrived piece on the given column
// of its home rank. Valid only in the placement state; on success the turn
// flips. Invalid attempts mutate nothing and report false.
func (g *Game) TryPlacePiece(column int) bool {
	if !g.MustPlacePiece() || column < 0 || column > 7 {
		return false
	}
	pt, ok := g.arrivals.CurrentPiece(g.current)
	if !ok {
		return false
	}
	sq := board.SquareAt(board.HomeRank(g.current), column)
	if _, ok := g.board.PlacePiece(sq, pt, g.current); !ok {
		return false
	}
	g.arrivals.PiecePlaced(g.current)
	g.current = g.current.Opposite()
	g.checkGameOver()
	return true
}

// TryMove applies a legal move for the current side. Valid only when no
// placement is owed; on success the draw detector observes the move, the
// arrival counters advance and the turn flips. Invalid attempts mutate
// nothing and report false.
func (g *Game) TryMove(from, to board.Square) bool {
	res := g.ExecuteMove(from, to)
	return res.Valid
}

// ExecuteMove is the richer entry point for human and network callers: it
// validates, applies, and reports whether a promotion choice is still owed.
// The engine auto-queens internally; when NeedsPromotion is set the caller
// must follow up with SetPromotion before the game continues.
func (g *Game) ExecuteMove(from, to board.Square) board.MoveResult {
	if g.outcome != OutcomeOngoing || g.pendingPromotion != board.NoSquare || g.MustPlacePiece() {
		return board.MoveResult{}
	}
	p := g.board.PieceAt(from)
	if p == board.NoPiece || p.Color() != g.current {
		return board.MoveResult{}
	}

	res := g.board.ExecuteMove(from, to)
	if !res.Valid {
		return res
	}

	m := res.State.Move()
	g.draws.OnMoveMade(m.IsCapture(), m.MovedPiece().Type() == board.PieceTypePawn)
	g.arrivals.RecordMove(g.current)
	g.moveCount++

	mover := g.current
	g.current = g.current.Opposite()

	if res.NeedsPromotion && !g.isAISide(mover) {
		// Hold the committed-position hash until the choice resolves; the
		// auto-queen standing on the board may still change.
		g.pendingPromotion = to
		return res
	}

	res.NeedsPromotion = false
	g.draws.RecordPosition(g.board)
	g.checkGameOver()
	return res
}

func (g *Game) isAISide(side board.Color) bool {
	return g.mode == ModeVsAI && side == g.aiSide
}

// SetPromotion resolves a pending promotion with the player's chosen type.
// Pawn and king are rejected.
func (g *Game) SetPromotion(pt board.PieceType) bool {
	if g.pendingPromotion == board.NoSquare {
		return false
	}
	if !g.board.PromotePawn(g.pendingPromotion, pt) {
		return false
	}
	g.pendingPromotion = board.NoSquare
	g.draws.RecordPosition(g.board)
	g.checkGameOver()
	return true
}

// GetLegalMovesForCurrentPlayer returns every legal move for the side to act,
// empty while a placement is owed.
func (g *Game) GetLegalMovesForCurrentPlayer() []board.Move {
	if g.outcome != OutcomeOngoing || g.MustPlacePiece() {
		return nil
	}
	return g.board.LegalMoves(g.current)
}

// LegalDestinations returns the current player's legal destinations from one
// square, for presentation-layer highlighting.
func (g *Game) LegalDestinations(from board.Square) []board.Square {
	p := g.board.PieceAt(from)
	if g.outcome != OutcomeOngoing || p == board.NoPiece || p.Color() != g.current {
		return nil
	}
	return g.board.LegalDestinations(from)
}

// Resign ends the game in the opponent's favor.
func (g *Game) Resign(side board.Color) {
	if g.outcome != OutcomeOngoing {
		return
	}
	g.outcome = OutcomeResigned
	g.winner = side.Opposite()
}

// ForfeitOnTime records the advisory clock's verdict as a terminal outcome.
func (g *Game) ForfeitOnTime(side board.Color) {
	if g.outcome != OutcomeOngoing {
		return
	}
	g.outcome = OutcomeTimeForfeit
	g.winner = side.Opposite()
}

// AgreeDraw ends the game as a draw by agreement.
func (g *Game) AgreeDraw() {
	if g.outcome != OutcomeOngoing {
		return
	}
	g.outcome = OutcomeDraw
}

// checkGameOver evaluates the authoritative status for the side now to act:
// rule draws first, then checkmate/stalemate when no action exists.
func (g *Game) checkGameOver() {
	if g.outcome != OutcomeOngoing {
		return
	}

	reason := g.draws.CheckAllDraws(g.board)
	// Insufficient material cannot end the game while either side still has
	// pieces in reserve.
	if reason == DrawInsufficientMaterial &&
		(!g.arrivals.Exhausted(board.White) || !g.arrivals.Exhausted(board.Black)) {
		reason = DrawNone
	}
	if reason != DrawNone {
		g.outcome = OutcomeDraw
		g.drawReason = reason
		return
	}

	if g.MustPlacePiece() {
		return // placing is always an available action
	}
	if g.board.HasLegalMoves(g.current) {
		return
	}
	if g.board.InCheck(g.current) {
		g.outcome = OutcomeCheckmate
		g.winner = g.current.Opposite()
	} else {
		g.outcome = OutcomeStalemate
	}
}

// GameSnapshot composes every component's serializable state; enough for
// save/resume and network resync.
type GameSnapshot struct {
	Board            board.Snapshot  `json:"board"`
	Arrivals         ArrivalSnapshot `json:"arrivals"`
	Draws            DrawSnapshot    `json:"draws"`
	Clock            ClockSnapshot   `json:"clock"`
	Current          string          `json:"current"`
	Mode             uint8           `json:"mode"`
	AISide           string          `json:"ai_side"`
	Outcome          uint8           `json:"outcome"`
	Winner           string          `json:"winner"`
	DrawReason       uint8           `json:"draw_reason"`
	PendingPromotion string          `json:"pending_promotion"`
	MoveCount        int             `json:"move_count"`
}

func colorLetter(c board.Color) string {
	if c == board.Black {
		return "b"
	}
	return "w"
}

func parseColorLetter(s string) (board.Color, bool) {
	switch s {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return board.White, false
	}
}

// Snapshot captures the whole game.
func (g *Game) Snapshot() GameSnapshot {
	return GameSnapshot{
		Board:            g.board.Snapshot(),
		Arrivals:         g.arrivals.Snapshot(),
		Draws:            g.draws.Snapshot(),
		Clock:            g.clock.Snapshot(),
		Current:          colorLetter(g.current),
		Mode:             uint8(g.mode),
		AISide:           colorLetter(g.aiSide),
		Outcome:          uint8(g.outcome),
		Winner:           colorLetter(g.winner),
		DrawReason:       uint8(g.drawReason),
		PendingPromotion: g.pendingPromotion.String(),
		MoveCount:        g.moveCount,
	}
}

// RestoreSnapshot rebuilds the game from a snapshot. On error the receiver is
// left untouched.
func (g *Game) RestoreSnapshot(s GameSnapshot) error {
	nb := board.New()
	if err := nb.RestoreSnapshot(s.Board); err != nil {
		return errors.Wrap(err, "board")
	}
	arrivals := &ArrivalManager{}
	if err := arrivals.RestoreSnapshot(s.Arrivals); err != nil {
		return errors.Wrap(err, "arrivals")
	}
	draws := NewDrawDetector()
	if err := draws.RestoreSnapshot(s.Draws); err != nil {
		return errors.Wrap(err, "draws")
	}
	clock := NewChessClock(0)
	if err := clock.RestoreSnapshot(s.Clock); err != nil {
		return errors.Wrap(err, "clock")
	}
	current, ok := parseColorLetter(s.Current)
	if !ok {
		return errors.Errorf("current: want \"w\" or \"b\", got %q", s.Current)
	}
	aiSide, ok := parseColorLetter(s.AISide)
	if !ok {
		return errors.Errorf("ai_side: want \"w\" or \"b\", got %q", s.AISide)
	}
	winner, ok := parseColorLetter(s.Winner)
	if !ok {
		return errors.Errorf("winner: want \"w\" or \"b\", got %q", s.Winner)
	}
	pending := board.NoSquare
	if s.PendingPromotion != "" && s.PendingPromotion != "-" {
		sq, ok := board.ParseSquare(s.PendingPromotion)
		if !ok {
			return errors.Errorf("pending_promotion: invalid square %q", s.PendingPromotion)
		}
		pending = sq
	}
	if s.Outcome > uint8(OutcomeTimeForfeit) {
		return errors.Errorf("outcome: unknown value %d", s.Outcome)
	}
	if s.DrawReason > uint8(DrawInsufficientMaterial) {
		return errors.Errorf("draw_reason: unknown value %d", s.DrawReason)
	}
	if s.MoveCount < 0 {
		return errors.New("move_count must not be negative")
	}

	g.board = nb
	g.arrivals = arrivals
	g.draws = draws
	g.clock = clock
	g.mode = Mode(s.Mode)
	g.aiSide = aiSide
	g.current = current
	g.outcome = Outcome(s.Outcome)
	g.winner = winner
	g.drawReason = DrawReason(s.DrawReason)
	g.pendingPromotion = pending
	g.moveCount = s.MoveCount
	return nil
}
