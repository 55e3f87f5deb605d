package board

// MoveState holds everything needed to exactly undo a move: the packed move
// (piece, capture, promotion, special flag), the prior moved flags of every
// square the move touched, and the prior en passant window.
type MoveState struct {
	move          Move
	prevMovedFrom bool
	prevCapMoved  bool
	prevEnPassant Square
	prevZobrist   uint64
	rookFrom      Square
	rookTo        Square
	prevRookMoved bool
}

// Move returns the packed move this state undoes.
func (st MoveState) Move() Move { return st.move }

// Special returns the special-move classification recorded at make time.
func (st MoveState) Special() Special { return st.move.Special() }

// Empty reports whether the state records no mutation. MakeMove returns an
// empty state when the source square holds no piece; UnmakeMove on an empty
// state is a no-op.
func (st MoveState) Empty() bool { return st.move.MovedPiece() == NoPiece }

// MakeMove applies the move from->to, detecting castling, en passant and
// promotion from the board state. Promotions auto-queen; PromotePawn swaps in
// another piece afterwards when a caller offers a choice. MakeMove performs no
// legality filtering: callers that need legal moves go through
// LegalDestinations, which probes with MakeMove/UnmakeMove and InCheck.
//
// If from is empty, no mutation happens and the returned state is empty.
func (b *Board) MakeMove(from, to Square) MoveState {
	p := b.pieces[int(from)]
	if p == NoPiece || from == to {
		return MoveState{}
	}

	st := MoveState{
		prevEnPassant: b.enPassantSquare,
		prevZobrist:   b.zobristKey,
		prevMovedFrom: b.HasMoved(from),
		rookFrom:      NoSquare,
		rookTo:        NoSquare,
	}
	side := colorOf(p)

	// Special-move detection, in order: castling (king moving two files),
	// en passant (pawn landing on the open window), promotion (pawn reaching
	// its farthest rank).
	flag := uint8(FlagNone)
	captured := NoPiece
	capSq := NoSquare
	promo := NoPiece

	// The rook must be located before the king leaves its square: the scan
	// starts from the king's origin and walks outward.
	castleRook := NoSquare
	castleDir := 0

	fileDelta := to.File() - from.File()
	if typeOf(p) == 6 && from.Rank() == to.Rank() && (fileDelta == 2 || fileDelta == -2) {
		if fileDelta > 0 {
			flag = FlagCastleKingside
			castleDir = 1
		} else {
			flag = FlagCastleQueenside
			castleDir = -1
		}
		castleRook = b.castlingRook(side, from, castleDir)
	} else if typeOf(p) == 1 && to == b.enPassantSquare && fileDelta != 0 {
		flag = FlagEnPassant
		// The captured pawn sits one rank behind the destination.
		if side == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
		captured = b.pieces[int(capSq)]
	}

	if flag != FlagEnPassant && b.pieces[int(to)] != NoPiece {
		captured = b.pieces[int(to)]
		capSq = to
	}
	if typeOf(p) == 1 && to.Rank() == PromotionRank(side) {
		promo = PieceFromType(side, PieceTypeQueen)
	}

	st.move = NewMove(from, to, p, captured, promo, flag)

	// The window closes on every move; a double push below reopens it.
	b.clearEnPassant()

	if captured != NoPiece {
		st.prevCapMoved = b.HasMoved(capSq)
		b.removePiece(capSq)
	}

	b.removePiece(from)
	if promo != NoPiece {
		b.addPiece(to, promo)
	} else {
		b.addPiece(to, p)
	}
	b.setMoved(to)

	// Castling moves the rook to the file the king crossed.
	if castleRook != NoSquare {
		st.rookFrom = castleRook
		st.rookTo = to - Square(castleDir)
		st.prevRookMoved = b.HasMoved(castleRook)
		rook := b.removePiece(castleRook)
		b.addPiece(st.rookTo, rook)
		b.setMoved(st.rookTo)
	}

	// Double pawn push opens a new en passant window on the skipped square.
	if typeOf(p) == 1 && from.File() == to.File() {
		rankDelta := to.Rank() - from.Rank()
		if rankDelta == 2 || rankDelta == -2 {
			b.setEnPassant((from + to) / 2)
		}
	}

	b.sideToMove = b.sideToMove.Opposite()
	b.zobristKey ^= zobristSide

	return st
}

// castlingRook locates the rook a castling king pairs with: the first friendly
// unmoved rook on the king's rank strictly beyond the king in the travel
// direction. NoSquare when the position admits none (MakeMove is unchecked;
// movegen only emits castles when one exists).
func (b *Board) castlingRook(side Color, kingSq Square, dir int) Square {
	rank := kingSq.Rank()
	for f := kingSq.File() + dir; f >= 0 && f < 8; f += dir {
		sq := SquareAt(rank, f)
		p := b.pieces[int(sq)]
		if p == NoPiece {
			continue
		}
		if typeOf(p) == 4 && colorOf(p) == side && !b.HasMoved(sq) {
			return sq
		}
		return NoSquare
	}
	return NoSquare
}

// UnmakeMove undoes a previously made move, restoring board state bit for bit:
// piece placement, moved flags, the en passant window and the zobrist key.
// Undoing an empty state is a no-op.
func (b *Board) UnmakeMove(st MoveState) {
	if st.Empty() {
		return
	}

	b.sideToMove = b.sideToMove.Opposite()
	b.zobristKey ^= zobristSide

	m := st.move
	from := m.From()
	to := m.To()
	moved := m.MovedPiece()
	captured := m.CapturedPiece()
	flag := m.Flags()

	// Rook back first so the king's path is restored in one pass.
	if st.rookFrom != NoSquare {
		rook := b.removePiece(st.rookTo)
		b.addPiece(st.rookFrom, rook)
		if st.prevRookMoved {
			b.setMoved(st.rookFrom)
		}
	}

	// Piece back to its origin; a promotion reverts to the pawn that moved.
	b.removePiece(to)
	b.addPiece(from, moved)
	if st.prevMovedFrom {
		b.setMoved(from)
	}

	if captured != NoPiece {
		capSq := to
		if flag == FlagEnPassant {
			if colorOf(moved) == White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		b.addPiece(capSq, captured)
		if st.prevCapMoved {
			b.setMoved(capSq)
		}
	}

	b.setEnPassant(st.prevEnPassant)

	// Exact zobrist restoration
	b.zobristKey = st.prevZobrist
}

// PlaceState records a placement so search can reverse it exactly.
type PlaceState struct {
	piece         Piece
	sq            Square
	prevEnPassant Square
	prevZobrist   uint64
}

// Square returns where the piece was placed.
func (st PlaceState) Square() Square { return st.sq }

// PlacePiece puts an arriving piece on an empty square with its moved flag
// clear, closes any en passant window (a placement completes a half-turn) and
// passes the turn. Returns ok=false with no mutation if the square is occupied
// or the piece type invalid.
func (b *Board) PlacePiece(sq Square, pt PieceType, side Color) (PlaceState, bool) {
	p := PieceFromType(side, pt)
	if sq == NoSquare || p == NoPiece || b.pieces[int(sq)] != NoPiece {
		return PlaceState{}, false
	}
	// One king per side, ever.
	if pt == PieceTypeKing && b.kings[int(side)] != 0 {
		return PlaceState{}, false
	}

	st := PlaceState{
		piece:         p,
		sq:            sq,
		prevEnPassant: b.enPassantSquare,
		prevZobrist:   b.zobristKey,
	}
	b.clearEnPassant()
	b.addPiece(sq, p)
	b.sideToMove = b.sideToMove.Opposite()
	b.zobristKey ^= zobristSide
	return st, true
}

// UnplacePiece reverses a placement made with PlacePiece.
func (b *Board) UnplacePiece(st PlaceState) {
	if st.piece == NoPiece {
		return
	}
	b.sideToMove = b.sideToMove.Opposite()
	b.zobristKey ^= zobristSide
	b.removePiece(st.sq)
	b.setEnPassant(st.prevEnPassant)
	b.zobristKey = st.prevZobrist
}

// PromotePawn replaces the auto-queened piece on sq with the caller's chosen
// type. Pawn and king are rejected as targets, as is an empty square or any
// occupant that is neither a pawn nor a queen.
func (b *Board) PromotePawn(sq Square, pt PieceType) bool {
	switch pt {
	case PieceTypeKnight, PieceTypeBishop, PieceTypeRook, PieceTypeQueen:
	default:
		return false
	}
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return false
	}
	// Only a pawn or the queen it auto-promoted to may be converted; any
	// other piece on the far rank got there by moving, not promoting.
	switch typeOf(p) {
	case 1, 5:
	default:
		return false
	}
	side := colorOf(p)
	if sq.Rank() != PromotionRank(side) {
		return false
	}
	b.removePiece(sq)
	b.addPiece(sq, PieceFromType(side, pt))
	b.setMoved(sq)
	return true
}

// MoveResult is what ExecuteMove reports to a human or network caller.
type MoveResult struct {
	Valid          bool
	Special        Special
	NeedsPromotion bool
	State          MoveState
}

// ExecuteMove is the checked entry point for untrusted input: it validates the
// move against the legal set before applying it, and reports whether a
// promotion choice is still owed (the engine auto-queens; a live player must
// be offered the pick).
func (b *Board) ExecuteMove(from, to Square) MoveResult {
	if !b.isLegalDestination(from, to) {
		return MoveResult{}
	}
	st := b.MakeMove(from, to)
	if st.Empty() {
		return MoveResult{}
	}
	sp := st.Special()
	return MoveResult{
		Valid:          true,
		Special:        sp,
		NeedsPromotion: sp == SpecialPromotion,
		State:          st,
	}
}
