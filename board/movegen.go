package board

import (
	"math/bits"

	"github.com/dylhunn/dragontoothmg"
)

// Precomputed attack masks for knights and kings from each square.
var knightMoves [64]uint64
var kingMoves [64]uint64

// Pawn attack masks: pawnAttacks[color][sq] gives the squares a pawn of
// 'color' attacks from 'sq'.
var pawnAttacks [2][64]uint64

func init() {
	initAttackTables()
}

// initAttackTables precomputes attack bitboards for knights, kings, and pawn captures.
func initAttackTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file := sq % 8
		rank := sq / 8
		var nMask, kMask uint64
		for _, off := range knightOffsets {
			if t := SquareAt(rank+off[0], file+off[1]); t != NoSquare {
				nMask |= bb(t)
			}
		}
		for _, off := range kingOffsets {
			if t := SquareAt(rank+off[0], file+off[1]); t != NoSquare {
				kMask |= bb(t)
			}
		}
		knightMoves[sq] = nMask
		kingMoves[sq] = kMask

		// White pawns attack upward, black pawns downward.
		if rank < 7 {
			if file > 0 {
				pawnAttacks[White][sq] |= uint64(1) << ((rank+1)*8 + file - 1)
			}
			if file < 7 {
				pawnAttacks[White][sq] |= uint64(1) << ((rank+1)*8 + file + 1)
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnAttacks[Black][sq] |= uint64(1) << ((rank-1)*8 + file - 1)
			}
			if file < 7 {
				pawnAttacks[Black][sq] |= uint64(1) << ((rank-1)*8 + file + 1)
			}
		}
	}
}

// rookAttacks returns the rook attack bitboard from sq given occupancy,
// delegating to dragontooth's magic bitboards.
func rookAttacks(sq int, occ uint64) uint64 {
	return dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ)
}

// bishopAttacks returns the bishop attack bitboard from sq given occupancy.
func bishopAttacks(sq int, occ uint64) uint64 {
	return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ)
}

// ==========================
// Attack queries
// ==========================

// IsSquareAttacked reports whether the given square is attacked by the given color.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.isSquareAttackedWithOcc(int(sq), by, b.AllOccupancy())
}

func (b *Board) isSquareAttackedWithOcc(s int, by Color, occ uint64) bool {
	byIdx := int(by)

	// Pawn attacks via the reverse mask: a white pawn attacks s iff a white
	// pawn sits on a square that a black pawn on s would attack.
	if by == White {
		if pawnAttacks[Black][s]&b.pawns[byIdx] != 0 {
			return true
		}
	} else {
		if pawnAttacks[White][s]&b.pawns[byIdx] != 0 {
			return true
		}
	}

	if knightMoves[s]&b.knights[byIdx] != 0 {
		return true
	}
	if kingMoves[s]&b.kings[byIdx] != 0 {
		return true
	}

	if rq := b.rooks[byIdx] | b.queens[byIdx]; rq != 0 {
		if rookAttacks(s, occ)&rq != 0 {
			return true
		}
	}
	if bq := b.bishops[byIdx] | b.queens[byIdx]; bq != 0 {
		if bishopAttacks(s, occ)&bq != 0 {
			return true
		}
	}
	return false
}

// InCheck reports whether the specified color's king is currently attacked.
// A side whose king has not arrived yet cannot be in check.
func (b *Board) InCheck(color Color) bool {
	kingBB := b.kings[int(color)]
	if kingBB == 0 {
		return false
	}
	ks := bits.TrailingZeros64(kingBB)
	return b.IsSquareAttacked(Square(ks), color.Opposite())
}

// ==========================
// Pseudo-legal generation
// ==========================

// pseudoDestinations returns the destination bitboard for the piece on sq,
// before king-safety filtering. Dispatch is a closed switch over the piece
// type so the hot loop stays allocation-free.
func (b *Board) pseudoDestinations(sq Square) uint64 {
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return 0
	}
	side := colorOf(p)
	us := int(side)
	them := 1 - us
	occ := b.AllOccupancy()
	ownOcc := b.occupancy[us]

	var dests uint64
	switch typeOf(p) {
	case 1: // pawn
		dir := 8
		if side == Black {
			dir = -8
		}
		fwd := int(sq) + dir
		if fwd >= 0 && fwd < 64 && occ&(uint64(1)<<uint(fwd)) == 0 {
			dests |= uint64(1) << uint(fwd)
			// Double step only while the pawn has never moved.
			if !b.HasMoved(sq) {
				fwd2 := fwd + dir
				if fwd2 >= 0 && fwd2 < 64 && occ&(uint64(1)<<uint(fwd2)) == 0 {
					dests |= uint64(1) << uint(fwd2)
				}
			}
		}
		caps := pawnAttacks[us][int(sq)] & b.occupancy[them]
		if b.enPassantSquare != NoSquare {
			caps |= pawnAttacks[us][int(sq)] & bb(b.enPassantSquare)
		}
		dests |= caps
	case 2: // knight
		dests = knightMoves[int(sq)] &^ ownOcc
	case 3: // bishop
		dests = bishopAttacks(int(sq), occ) &^ ownOcc
	case 4: // rook
		dests = rookAttacks(int(sq), occ) &^ ownOcc
	case 5: // queen
		dests = (rookAttacks(int(sq), occ) | bishopAttacks(int(sq), occ)) &^ ownOcc
	case 6: // king
		dests = kingMoves[int(sq)] &^ ownOcc
		for _, dir := range [2]int{1, -1} {
			if to := b.castlingDestination(side, sq, dir); to != NoSquare {
				dests |= bb(to)
			}
		}
	}
	return dests
}

// castlingDestination returns the king's castling destination in the given
// file direction, or NoSquare when castling that way is not available.
// Requirements: king unmoved and not in check; an unmoved friendly rook on
// the same rank beyond the king with only empty squares between them; the two
// squares the king crosses empty, clear of the rook, and unattacked.
func (b *Board) castlingDestination(side Color, kingSq Square, dir int) Square {
	if b.HasMoved(kingSq) {
		return NoSquare
	}
	mid := SquareAt(kingSq.Rank(), kingSq.File()+dir)
	dest := SquareAt(kingSq.Rank(), kingSq.File()+2*dir)
	if mid == NoSquare || dest == NoSquare {
		return NoSquare
	}
	rookSq := b.castlingRook(side, kingSq, dir)
	if rookSq == NoSquare || rookSq == mid || rookSq == dest {
		return NoSquare
	}
	// Squares strictly between king and rook must be empty.
	for f := kingSq.File() + dir; f != rookSq.File(); f += dir {
		if b.pieces[kingSq.Rank()*8+f] != NoPiece {
			return NoSquare
		}
	}
	enemy := side.Opposite()
	if b.IsSquareAttacked(kingSq, enemy) ||
		b.IsSquareAttacked(mid, enemy) ||
		b.IsSquareAttacked(dest, enemy) {
		return NoSquare
	}
	return dest
}

// ==========================
// Legal generation
// ==========================

// LegalDestinations returns the squares the piece on sq may legally move to.
// Pseudo-legal destinations are filtered by probing MakeMove/UnmakeMove and
// discarding anything that leaves the mover's own king in check.
func (b *Board) LegalDestinations(sq Square) []Square {
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return nil
	}
	side := colorOf(p)
	dests := b.pseudoDestinations(sq)
	out := make([]Square, 0, bits.OnesCount64(dests))
	for dests != 0 {
		to := Square(popLSB(&dests))
		st := b.MakeMove(sq, to)
		if !b.InCheck(side) {
			out = append(out, to)
		}
		b.UnmakeMove(st)
	}
	return out
}

// isLegalDestination reports whether from->to is in the legal move set.
func (b *Board) isLegalDestination(from, to Square) bool {
	p := b.pieces[int(from)]
	if p == NoPiece || to == NoSquare {
		return false
	}
	if b.pseudoDestinations(from)&bb(to) == 0 {
		return false
	}
	side := colorOf(p)
	st := b.MakeMove(from, to)
	ok := !b.InCheck(side)
	b.UnmakeMove(st)
	return ok
}

// LegalMoves generates every legal move for the given side. The packed Move
// values come back from the MakeMove probe, so captures, promotions and
// special flags are already classified for ordering.
func (b *Board) LegalMoves(side Color) []Move {
	moves := make([]Move, 0, 64)
	pieces := b.occupancy[int(side)]
	for pieces != 0 {
		from := Square(popLSB(&pieces))
		dests := b.pseudoDestinations(from)
		for dests != 0 {
			to := Square(popLSB(&dests))
			st := b.MakeMove(from, to)
			if !b.InCheck(side) {
				moves = append(moves, st.move)
			}
			b.UnmakeMove(st)
		}
	}
	return moves
}

// HasLegalMoves reports whether the side has at least one legal move,
// early-exiting on the first.
func (b *Board) HasLegalMoves(side Color) bool {
	pieces := b.occupancy[int(side)]
	for pieces != 0 {
		from := Square(popLSB(&pieces))
		dests := b.pseudoDestinations(from)
		for dests != 0 {
			to := Square(popLSB(&dests))
			st := b.MakeMove(from, to)
			ok := !b.InCheck(side)
			b.UnmakeMove(st)
			if ok {
				return true
			}
		}
	}
	return false
}

// InCheckmate reports whether the given side, being to move, is checkmated.
func (b *Board) InCheckmate(side Color) bool {
	return b.InCheck(side) && !b.HasLegalMoves(side)
}

// InStalemate reports whether the given side, being to move, is stalemated.
func (b *Board) InStalemate(side Color) bool {
	return !b.InCheck(side) && !b.HasLegalMoves(side)
}
