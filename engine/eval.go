package engine

import (
	"math/bits"

	"github.com/tomgun/saktris-game-sub001/board"
)

// Score constants, centipawns.
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
	DrawScore int32 = 0
)

var pieceValue = [7]int32{
	board.PieceTypePawn:   100,
	board.PieceTypeKnight: 300,
	board.PieceTypeBishop: 300,
	board.PieceTypeRook:   500,
	board.PieceTypeQueen:  900,
	board.PieceTypeKing:   0,
}

// Small square bonuses per type, white's perspective; black mirrors by rank.
// Flat tables: pieces enter the board mid-game on the home rank, so opening
// development shapes matter less here than central control.
var pawnSquareBonus = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	2, 2, 2, -4, -4, 2, 2, 2,
	2, 2, 4, 6, 6, 4, 2, 2,
	4, 4, 8, 14, 14, 8, 4, 4,
	6, 6, 10, 16, 16, 10, 6, 6,
	10, 10, 14, 18, 18, 14, 10, 10,
	22, 22, 24, 26, 26, 24, 22, 22,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightSquareBonus = [64]int32{
	-18, -12, -8, -8, -8, -8, -12, -18,
	-12, -4, 0, 2, 2, 0, -4, -12,
	-8, 0, 6, 8, 8, 6, 0, -8,
	-8, 2, 8, 12, 12, 8, 2, -8,
	-8, 2, 8, 12, 12, 8, 2, -8,
	-8, 0, 6, 8, 8, 6, 0, -8,
	-12, -4, 0, 2, 2, 0, -4, -12,
	-18, -12, -8, -8, -8, -8, -12, -18,
}

var centerBonus = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 2, 2, 2, 2, 2, 2, 0,
	0, 2, 4, 4, 4, 4, 2, 0,
	0, 2, 4, 6, 6, 4, 2, 0,
	0, 2, 4, 6, 6, 4, 2, 0,
	0, 2, 4, 4, 4, 4, 2, 0,
	0, 2, 2, 2, 2, 2, 2, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

func squareBonus(pt board.PieceType, sq board.Square, side board.Color) int32 {
	idx := int(sq)
	if side == board.Black {
		idx = idx ^ 56 // mirror rank
	}
	switch pt {
	case board.PieceTypePawn:
		return pawnSquareBonus[idx]
	case board.PieceTypeKnight:
		return knightSquareBonus[idx]
	case board.PieceTypeBishop, board.PieceTypeQueen:
		return centerBonus[idx]
	default:
		return 0
	}
}

// reserveDiscount shrinks the value of queued material slightly: a piece in
// hand is worth less than the same piece developed on the board, which nudges
// the search toward placing rather than hoarding tempo.
const reserveDiscountNum, reserveDiscountDen = 9, 10

func reserveValue(queue []board.PieceType) int32 {
	var v int32
	for _, pt := range queue {
		v += pieceValue[pt]
	}
	return v * reserveDiscountNum / reserveDiscountDen
}

// Evaluate scores the position from the side-to-act's perspective: on-board
// material plus square bonuses, plus discounted reserve material so that
// placing a piece is never scored as conjuring material from nothing.
func Evaluate(b *board.Board, arrivals *ArrivalManager, sideToAct board.Color) int32 {
	var score [2]int32

	for ci := 0; ci < 2; ci++ {
		side := board.Color(ci)
		occ := b.ColorOccupancy(side)
		for occ != 0 {
			sq := board.Square(bits.TrailingZeros64(occ))
			occ &= occ - 1
			pt := b.PieceAt(sq).Type()
			score[ci] += pieceValue[pt] + squareBonus(pt, sq, side)
		}
		score[ci] += reserveValue(arrivals.Pending(side))
	}

	diff := score[sideToAct] - score[sideToAct.Opposite()]
	return diff
}
