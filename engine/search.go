package engine

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/tomgun/saktris-game-sub001/board"
)

const (
	maxPly = 64

	// Deadline is polled every nodeCheckMask+1 nodes.
	nodeCheckMask = 2047
)

// Action is one thing a side can do on its turn: place the arrived piece on a
// home-rank column, or move a piece. Placement and movement are exclusive, so
// a node's action list is all placements or all moves, never a mix.
type Action struct {
	Place  bool
	Column int
	From   board.Square
	To     board.Square
}

func (a Action) String() string {
	if a.Place {
		return "place " + string(rune('a'+a.Column))
	}
	return a.From.String() + a.To.String()
}

// SearchResult reports the chosen action and the stats behind it.
type SearchResult struct {
	Action Action
	Score  int32
	Depth  int8
	Nodes  uint64
}

// Searcher runs fixed-depth or time-budgeted iterative-deepening alpha-beta
// over the variant's action space. It makes and unmakes hypothetical actions
// on the game's live board and arrival counters and restores them exactly;
// it never touches the draw detector, whose history is committed-moves-only.
type Searcher struct {
	tt      transTable
	killers [maxPly][2]board.Move

	nodes       uint64
	deadline    time.Time
	useDeadline bool
	stopped     bool
}

// NewSearcher returns a searcher with an initialized transposition table.
func NewSearcher() *Searcher {
	s := &Searcher{}
	s.tt.init()
	return s
}

// Reset clears the transposition table and killer slots between games.
func (s *Searcher) Reset() {
	s.tt.clear()
	s.tt.init()
	s.killers = [maxPly][2]board.Move{}
}

// BestAction searches the current player's action space. depth caps the
// iterative deepening; a positive budget sets a soft deadline, after which
// the best action of the deepest completed iteration is returned. ok is false
// only when the side to act has no action at all.
func (s *Searcher) BestAction(g *Game, depth int8, budget time.Duration) (SearchResult, bool) {
	if !s.tt.isInitialized {
		s.tt.init()
	}
	s.nodes = 0
	s.stopped = false
	s.useDeadline = budget > 0
	if s.useDeadline {
		s.deadline = time.Now().Add(budget)
	}
	if depth < 1 {
		depth = 1
	}
	if depth > maxPly-1 {
		depth = maxPly - 1
	}

	b := g.Board()
	arrivals := g.Arrivals()
	side := g.CurrentPlayer()

	actions := s.actionsFor(b, arrivals, side)
	if len(actions) == 0 {
		return SearchResult{}, false
	}

	var result SearchResult
	haveResult := false

	for d := int8(1); d <= depth; d++ {
		if s.useDeadline && haveResult && time.Now().After(s.deadline) {
			break
		}

		best := -MaxScore
		bestAction := actions[0]
		alpha, beta := -MaxScore, MaxScore
		aborted := false

		s.orderActions(b, actions, 0, b.Hash()^arrivals.StateKey())
		for _, a := range actions {
			st, pst, ok := s.apply(b, arrivals, side, a)
			if !ok {
				continue
			}
			score := -s.negamax(b, arrivals, side.Opposite(), d-1, 1, -beta, -alpha)
			s.undo(b, arrivals, side, a, st, pst)

			if s.stopped {
				aborted = true
				break
			}
			if score > best {
				best = score
				bestAction = a
			}
			if score > alpha {
				alpha = score
			}
		}

		if aborted {
			break
		}
		result = SearchResult{Action: bestAction, Score: best, Depth: d, Nodes: s.nodes}
		haveResult = true
		if best > Checkmate {
			break // shortest mate found, deeper search cannot improve it
		}
	}

	if !haveResult {
		// Deadline hit inside the first iteration: fall back to the first
		// ordered action, which is still a legal one.
		result = SearchResult{Action: actions[0], Score: 0, Depth: 0, Nodes: s.nodes}
	}
	return result, true
}

// actionsFor builds the node's action list: placements when the side owes one
// and its home rank has room, otherwise its legal moves.
func (s *Searcher) actionsFor(b *board.Board, arrivals *ArrivalManager, side board.Color) []Action {
	if arrivals.ShouldPieceArrive(side) {
		rank := board.HomeRank(side)
		actions := make([]Action, 0, 8)
		for file := 0; file < 8; file++ {
			if b.PieceAt(board.SquareAt(rank, file)) == board.NoPiece {
				actions = append(actions, Action{Place: true, Column: file})
			}
		}
		if len(actions) > 0 {
			return actions
		}
		// Home rank full: the arrived piece waits and the side moves instead.
	}
	moves := b.LegalMoves(side)
	actions := make([]Action, len(moves))
	for i, m := range moves {
		actions[i] = Action{From: m.From(), To: m.To()}
	}
	return actions
}

func (s *Searcher) apply(b *board.Board, arrivals *ArrivalManager, side board.Color, a Action) (board.MoveState, board.PlaceState, bool) {
	if a.Place {
		pt, ok := arrivals.CurrentPiece(side)
		if !ok {
			return board.MoveState{}, board.PlaceState{}, false
		}
		pst, ok := b.PlacePiece(board.SquareAt(board.HomeRank(side), a.Column), pt, side)
		if !ok {
			return board.MoveState{}, board.PlaceState{}, false
		}
		arrivals.PiecePlaced(side)
		return board.MoveState{}, pst, true
	}
	st := b.MakeMove(a.From, a.To)
	if st.Empty() {
		return board.MoveState{}, board.PlaceState{}, false
	}
	arrivals.RecordMove(side)
	return st, board.PlaceState{}, true
}

func (s *Searcher) undo(b *board.Board, arrivals *ArrivalManager, side board.Color, a Action, st board.MoveState, pst board.PlaceState) {
	if a.Place {
		arrivals.UndoPlacement(side)
		b.UnplacePiece(pst)
		return
	}
	arrivals.UnrecordMove(side)
	b.UnmakeMove(st)
}

func (s *Searcher) negamax(b *board.Board, arrivals *ArrivalManager, side board.Color, depth, ply int8, alpha, beta int32) int32 {
	s.nodes++
	if s.useDeadline && s.nodes&nodeCheckMask == 0 && time.Now().After(s.deadline) {
		s.stopped = true
	}
	if s.stopped {
		return alpha
	}

	key := b.Hash() ^ arrivals.StateKey()
	if entry, found := s.tt.getEntry(key); found {
		if usable, score := s.tt.useEntry(entry, key, depth, alpha, beta, ply); usable {
			return score
		}
	}

	if depth <= 0 || ply >= maxPly-1 {
		return s.quiescence(b, arrivals, side, ply, alpha, beta)
	}

	actions := s.actionsFor(b, arrivals, side)
	if len(actions) == 0 {
		if b.InCheck(side) {
			return -MaxScore + int32(ply)
		}
		return DrawScore
	}
	s.orderActions(b, actions, ply, key)

	flag := int8(alphaFlag)
	var bestMove board.Move
	best := -MaxScore

	for _, a := range actions {
		st, pst, ok := s.apply(b, arrivals, side, a)
		if !ok {
			continue
		}
		score := -s.negamax(b, arrivals, side.Opposite(), depth-1, ply+1, -beta, -alpha)
		s.undo(b, arrivals, side, a, st, pst)

		if s.stopped {
			return alpha
		}
		if score > best {
			best = score
			if !a.Place {
				bestMove = st.Move()
			}
		}
		if score > alpha {
			alpha = score
			flag = exactFlag
		}
		if alpha >= beta {
			if !a.Place && !st.Move().IsCapture() {
				s.storeKiller(ply, st.Move())
			}
			s.tt.storeEntry(key, depth, ply, bestMove, beta, betaFlag)
			return beta
		}
	}

	s.tt.storeEntry(key, depth, ply, bestMove, best, flag)
	return best
}

// quiescence resolves hanging captures so the horizon doesn't land mid
// exchange. Placements are quiet by construction and never searched here.
func (s *Searcher) quiescence(b *board.Board, arrivals *ArrivalManager, side board.Color, ply int8, alpha, beta int32) int32 {
	s.nodes++
	if s.useDeadline && s.nodes&nodeCheckMask == 0 && time.Now().After(s.deadline) {
		s.stopped = true
	}
	if s.stopped || ply >= maxPly-1 {
		return alpha
	}

	standPat := Evaluate(b, arrivals, side)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := b.LegalMoves(side)
	captures := moves[:0]
	for _, m := range moves {
		if m.IsCapture() {
			captures = append(captures, m)
		}
	}
	slices.SortFunc(captures, func(x, y board.Move) bool {
		return mvvLvaScore(x) > mvvLvaScore(y)
	})

	for _, m := range captures {
		st := b.MakeMove(m.From(), m.To())
		if st.Empty() {
			continue
		}
		arrivals.RecordMove(side)
		score := -s.quiescence(b, arrivals, side.Opposite(), ply+1, -beta, -alpha)
		arrivals.UnrecordMove(side)
		b.UnmakeMove(st)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}

// Most Valuable Victim, Least Valuable Aggressor; scores captures for
// ordering.
var mvvLva = [7][7]int32{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 14, 13, 12, 11, 10, 9},  // victim pawn
	{0, 24, 23, 22, 21, 20, 19}, // victim knight
	{0, 34, 33, 32, 31, 30, 29}, // victim bishop
	{0, 44, 43, 42, 41, 40, 39}, // victim rook
	{0, 54, 53, 52, 51, 50, 49}, // victim queen
	{0, 0, 0, 0, 0, 0, 0},
}

func mvvLvaScore(m board.Move) int32 {
	return mvvLva[m.CapturedPiece().Type()][m.MovedPiece().Type()]
}

// Ordering offsets; captures outrank killers, killers outrank the rest.
const (
	ttMoveOffset    int32 = 25000
	promotionOffset int32 = 20000
	captureOffset   int32 = 15000
	killerOffset    int32 = 2000
	placementOffset int32 = 1000
)

func (s *Searcher) storeKiller(ply int8, m board.Move) {
	if s.killers[ply][0] != m {
		s.killers[ply][1] = s.killers[ply][0]
		s.killers[ply][0] = m
	}
}

// orderActions scores and sorts the action list in place, best first.
// Placements are ordered center-out; everything else follows the usual
// TT-move / promotion / MVV-LVA / killer ladder.
func (s *Searcher) orderActions(b *board.Board, actions []Action, ply int8, key uint64) {
	var ttMove board.Move
	if entry, found := s.tt.getEntry(key); found {
		ttMove = entry.move
	}

	score := func(a Action) int32 {
		if a.Place {
			// 3 at the center files down to 0 at the edges.
			centrality := int32(3 - max(a.Column-4, 3-a.Column))
			return placementOffset + centrality
		}
		p := b.PieceAt(a.From)
		victim := b.PieceAt(a.To)
		var sc int32
		if ttMove != 0 && a.From == ttMove.From() && a.To == ttMove.To() {
			sc += ttMoveOffset
		}
		if p.Type() == board.PieceTypePawn && a.To.Rank() == board.PromotionRank(p.Color()) {
			sc += promotionOffset
		}
		if victim != board.NoPiece {
			sc += captureOffset + mvvLva[victim.Type()][p.Type()]
		} else if ply < maxPly {
			k := s.killers[ply]
			if (k[0] != 0 && a.From == k[0].From() && a.To == k[0].To()) ||
				(k[1] != 0 && a.From == k[1].From() && a.To == k[1].To()) {
				sc += killerOffset
			}
		}
		return sc
	}

	slices.SortFunc(actions, func(x, y Action) bool {
		return score(x) > score(y)
	})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
