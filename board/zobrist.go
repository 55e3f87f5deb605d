package board

import "math/rand"

// Zobrist hashing tables for pieces, moved flags, en passant, and side to move.
// The moved flags are hashed because they gate castling and pawn double-steps:
// two placements with different moved flags are not the same position for
// repetition purposes.
var zobristPiece [15][64]uint64
var zobristMoved [64]uint64
var zobristEnPassant [8]uint64
var zobristSide uint64

func init() {
	initZobrist()
}

func initZobrist() {
	// Fixed seed so peers and tests agree on hashes
	rnd := rand.New(rand.NewSource(0x5A4B))

	for p := 0; p < 15; p++ {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for sq := 0; sq < 64; sq++ {
		zobristMoved[sq] = rnd.Uint64()
	}
	for f := 0; f < 8; f++ {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// ComputeZobrist calculates the Zobrist hash for the current board state from
// scratch. Normal mutation keeps the key incrementally; this is the reference.
func (b *Board) ComputeZobrist() uint64 {
	var key uint64

	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}

	m := b.moved
	for m != 0 {
		key ^= zobristMoved[popLSB(&m)]
	}

	if b.sideToMove == Black {
		key ^= zobristSide
	}

	if b.enPassantSquare != NoSquare {
		key ^= zobristEnPassant[b.enPassantSquare.File()]
	}

	return key
}
