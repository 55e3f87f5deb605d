package board

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Snapshot is the plain serializable form of a board, sufficient to exactly
// reconstruct it for save games and network resync. Placement uses the FEN
// board field; Moved is the has-moved bitmask in hex.
type Snapshot struct {
	Placement string `json:"placement"`
	Moved     string `json:"moved"`
	EnPassant string `json:"en_passant"`
	Turn      string `json:"turn"`
}

// Snapshot captures the current board state.
func (b *Board) Snapshot() Snapshot {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteRune(charFromPiece(p))
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	turn := "w"
	if b.sideToMove == Black {
		turn = "b"
	}
	return Snapshot{
		Placement: sb.String(),
		Moved:     strconv.FormatUint(b.moved, 16),
		EnPassant: b.enPassantSquare.String(),
		Turn:      turn,
	}
}

// RestoreSnapshot rebuilds the board from a snapshot. All fields are
// validated; errors are aggregated so a caller sees every problem at once.
// On error the receiver is left untouched.
func (b *Board) RestoreSnapshot(s Snapshot) error {
	nb := New()
	var result error

	ranks := strings.Split(s.Placement, "/")
	if len(ranks) != 8 {
		result = multierror.Append(result, fmt.Errorf("placement: want 8 ranks, got %d", len(ranks)))
	} else {
		for i, rankStr := range ranks {
			rank := 7 - i
			file := 0
			for _, ch := range rankStr {
				if ch >= '1' && ch <= '8' {
					file += int(ch - '0')
					continue
				}
				p := pieceFromChar(ch)
				if p == NoPiece || file > 7 {
					result = multierror.Append(result, fmt.Errorf("placement: bad rank %q", rankStr))
					break
				}
				nb.addPiece(SquareAt(rank, file), p)
				file++
			}
			if file > 8 {
				result = multierror.Append(result, fmt.Errorf("placement: rank %q too long", rankStr))
			}
		}
		if bits.OnesCount64(nb.kings[White]) > 1 || bits.OnesCount64(nb.kings[Black]) > 1 {
			result = multierror.Append(result, fmt.Errorf("placement: more than one king per side"))
		}
	}

	moved, err := strconv.ParseUint(s.Moved, 16, 64)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("moved: %q is not a hex bitmask", s.Moved))
	}

	ep := NoSquare
	if s.EnPassant != "" && s.EnPassant != "-" {
		sq, ok := ParseSquare(s.EnPassant)
		if !ok {
			result = multierror.Append(result, fmt.Errorf("en_passant: invalid square %q", s.EnPassant))
		}
		ep = sq
	}

	switch s.Turn {
	case "w":
	case "b":
		nb.SetSideToMove(Black)
	default:
		result = multierror.Append(result, fmt.Errorf("turn: want \"w\" or \"b\", got %q", s.Turn))
	}

	if result != nil {
		return result
	}

	// Moved bits only make sense on occupied squares.
	if moved&^nb.AllOccupancy() != 0 {
		return fmt.Errorf("moved: bitmask %s marks empty squares", s.Moved)
	}
	m := moved
	for m != 0 {
		nb.setMoved(Square(popLSB(&m)))
	}
	nb.setEnPassant(ep)

	*b = *nb
	return nil
}
