package board

import "math/bits"

// Square represents a board position (0-63, a1=0, h8=63).
type Square int

const NoSquare Square = -1

// Rank returns the rank (0-7) of the square.
func (s Square) Rank() int { return int(s) >> 3 }

// File returns the file (0-7) of the square.
func (s Square) File() int { return int(s) & 7 }

// SquareAt builds a square from rank and file; NoSquare if out of range.
func SquareAt(rank, file int) Square {
	if rank < 0 || rank > 7 || file < 0 || file > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// HomeRank is the rank on which a side's arriving pieces are placed.
func HomeRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

// PromotionRank is the farthest rank for a side's pawns.
func PromotionRank(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

// Board represents the variant board state: piece placement, per-piece moved
// flags, en passant window and side to move. Pieces are absent until placed,
// so either side may legally have no king on the board.
type Board struct {
	// Piece bitboards for each piece type and color (index 0 = white, 1 = black)
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	// Occupancy bitboards for each side
	occupancy [2]uint64

	// Piece placement array for each square (0 = NoPiece, otherwise a Piece constant)
	pieces [64]Piece

	// Squares whose occupant has moved since being placed. The bit travels with
	// the piece: it gates castling eligibility and pawn double-step.
	moved uint64

	// Side to move
	sideToMove Color

	// En passant target square (set for exactly one half-move after a double
	// pawn push, otherwise NoSquare)
	enPassantSquare Square

	// Zobrist hash key for the current position
	zobristKey uint64
}

// New returns an empty board with White to move.
func New() *Board {
	return &Board{enPassantSquare: NoSquare}
}

// Clone returns a deep copy, for search trees that want a private board.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// EnPassantSquare returns the current en-passant target square or NoSquare.
func (b *Board) EnPassantSquare() Square { return b.enPassantSquare }

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// SetSideToMove updates the side to play. Normal move making and placement
// toggle it automatically.
func (b *Board) SetSideToMove(c Color) {
	if b.sideToMove == c {
		return
	}
	b.sideToMove = c
	b.zobristKey ^= zobristSide
}

// Hash returns the current Zobrist hash key for (position, side to move).
func (b *Board) Hash() uint64 { return b.zobristKey }

// PieceAt returns the piece on a square.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// HasMoved reports whether the piece on sq has moved since it was placed.
// False for empty squares.
func (b *Board) HasMoved(sq Square) bool { return b.moved&bb(sq) != 0 }

// AllOccupancy returns a bitboard of all occupied squares.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard for the given color.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// KingSquare returns the king's square for a side, or NoSquare if that side's
// king has not arrived yet.
func (b *Board) KingSquare(c Color) Square {
	kingBB := b.kings[int(c)]
	if kingBB == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(kingBB))
}

// PieceCount returns the number of pieces a side has on the board.
func (b *Board) PieceCount(c Color) int {
	return bits.OnesCount64(b.occupancy[int(c)])
}

// ==========================
// Bitboard helpers
// ==========================

// bb returns a bitboard with the given square bit set.
func bb(sq Square) uint64 { return 1 << uint64(sq) }

// popLSB removes and returns the least significant set bit from the mask.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// ==========================
// Piece placement helpers
// ==========================

// addPiece places a piece on an empty square and updates bitboards, occupancy
// and zobrist. The piece arrives with its moved flag clear.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	idx := int(sq)
	b.pieces[idx] = p
	ci := int(colorOf(p))
	b.occupancy[ci] |= bb(sq)
	switch typeOf(p) {
	case 1:
		b.pawns[ci] |= bb(sq)
	case 2:
		b.knights[ci] |= bb(sq)
	case 3:
		b.bishops[ci] |= bb(sq)
	case 4:
		b.rooks[ci] |= bb(sq)
	case 5:
		b.queens[ci] |= bb(sq)
	case 6:
		b.kings[ci] |= bb(sq)
	}
	b.zobristKey ^= zobristPiece[p][idx]
}

// removePiece removes a piece from a square and updates bitboards, occupancy,
// the moved flag and zobrist.
func (b *Board) removePiece(sq Square) Piece {
	idx := int(sq)
	p := b.pieces[idx]
	if p == NoPiece {
		return NoPiece
	}
	ci := int(colorOf(p))
	mask := ^bb(sq)
	b.pieces[idx] = NoPiece
	b.occupancy[ci] &= mask
	switch typeOf(p) {
	case 1:
		b.pawns[ci] &= mask
	case 2:
		b.knights[ci] &= mask
	case 3:
		b.bishops[ci] &= mask
	case 4:
		b.rooks[ci] &= mask
	case 5:
		b.queens[ci] &= mask
	case 6:
		b.kings[ci] &= mask
	}
	b.zobristKey ^= zobristPiece[p][idx]
	b.clearMoved(sq)
	return p
}

// setMoved marks the occupant of sq as having moved, keeping zobrist in sync.
func (b *Board) setMoved(sq Square) {
	if b.moved&bb(sq) == 0 {
		b.moved |= bb(sq)
		b.zobristKey ^= zobristMoved[int(sq)]
	}
}

// clearMoved clears the moved flag for sq, keeping zobrist in sync.
func (b *Board) clearMoved(sq Square) {
	if b.moved&bb(sq) != 0 {
		b.moved &^= bb(sq)
		b.zobristKey ^= zobristMoved[int(sq)]
	}
}

// clearEnPassant drops the en passant window, keeping zobrist in sync.
func (b *Board) clearEnPassant() {
	if b.enPassantSquare != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantSquare.File()]
		b.enPassantSquare = NoSquare
	}
}

// setEnPassant opens an en passant window on sq, keeping zobrist in sync.
func (b *Board) setEnPassant(sq Square) {
	b.clearEnPassant()
	if sq != NoSquare {
		b.enPassantSquare = sq
		b.zobristKey ^= zobristEnPassant[sq.File()]
	}
}

// Validate checks internal consistency between pieces[], per-piece bitboards,
// occupancy, moved flags and the incremental zobrist key.
func (b *Board) Validate() bool {
	var occ [2]uint64
	var pawns, knights, bishops, rooks, queens, kings [2]uint64
	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		ci := int(colorOf(p))
		bit := uint64(1) << uint(sq)
		occ[ci] |= bit
		switch typeOf(p) {
		case 1:
			pawns[ci] |= bit
		case 2:
			knights[ci] |= bit
		case 3:
			bishops[ci] |= bit
		case 4:
			rooks[ci] |= bit
		case 5:
			queens[ci] |= bit
		case 6:
			kings[ci] |= bit
		}
	}
	if occ != b.occupancy {
		return false
	}
	if pawns != b.pawns || knights != b.knights || bishops != b.bishops || rooks != b.rooks || queens != b.queens || kings != b.kings {
		return false
	}
	// At most one king per side; moved flags only on occupied squares.
	if bits.OnesCount64(b.kings[0]) > 1 || bits.OnesCount64(b.kings[1]) > 1 {
		return false
	}
	if b.moved&^b.AllOccupancy() != 0 {
		return false
	}
	return b.zobristKey == b.ComputeZobrist()
}

// Equal reports bit-identical board state: placement, moved flags, en passant
// window and side to move. This is the reversibility contract's equality.
func (b *Board) Equal(o *Board) bool {
	return b.pieces == o.pieces &&
		b.moved == o.moved &&
		b.enPassantSquare == o.enPassantSquare &&
		b.sideToMove == o.sideToMove
}
