package board

// Move encodes a move in a 32-bit value.
type Move uint32

// Bitfield layout within Move (from LSB to MSB)
const (
	moveFromShift    = 0  // 6 bits
	moveToShift      = 6  // 6 bits
	movePieceShift   = 12 // 4 bits
	moveCaptureShift = 16 // 4 bits
	movePromoteShift = 20 // 4 bits
	moveFlagShift    = 24 // 2 bits
)

// Move flags
const (
	FlagNone            = 0
	FlagCastleKingside  = 1
	FlagCastleQueenside = 2
	FlagEnPassant       = 3
	// (Promotion is indicated by a non-zero promotion piece)
)

// NewMove constructs a Move value from components.
func NewMove(from, to Square, piece, captured, promotion Piece, flag uint8) Move {
	m := uint32(from&0x3F) |
		(uint32(to&0x3F) << moveToShift) |
		(uint32(piece&0xF) << movePieceShift) |
		(uint32(captured&0xF) << moveCaptureShift) |
		(uint32(promotion&0xF) << movePromoteShift) |
		(uint32(flag&0x3) << moveFlagShift)
	return Move(m)
}

// From returns the source square of the move.
func (m Move) From() Square { return Square((uint32(m) >> moveFromShift) & 0x3F) }

// To returns the destination square of the move.
func (m Move) To() Square { return Square((uint32(m) >> moveToShift) & 0x3F) }

// MovedPiece returns the piece code that is moved.
func (m Move) MovedPiece() Piece { return Piece((uint32(m) >> movePieceShift) & 0xF) }

// CapturedPiece returns the piece code that was captured (or NoPiece if none).
func (m Move) CapturedPiece() Piece { return Piece((uint32(m) >> moveCaptureShift) & 0xF) }

// PromotionPiece returns the promotion piece code (or NoPiece if not a promotion).
func (m Move) PromotionPiece() Piece { return Piece((uint32(m) >> movePromoteShift) & 0xF) }

// Flags returns the special move flags.
func (m Move) Flags() uint8 { return uint8((uint32(m) >> moveFlagShift) & 0x3) }

// IsCapture reports whether the move takes a piece (including en passant).
func (m Move) IsCapture() bool { return m.CapturedPiece() != NoPiece }

// Special classifies a move the way callers outside the board care about it.
type Special uint8

const (
	SpecialNone Special = iota
	SpecialCastleKingside
	SpecialCastleQueenside
	SpecialEnPassant
	SpecialPromotion
)

func (s Special) String() string {
	switch s {
	case SpecialCastleKingside:
		return "castle_kingside"
	case SpecialCastleQueenside:
		return "castle_queenside"
	case SpecialEnPassant:
		return "en_passant"
	case SpecialPromotion:
		return "promotion"
	default:
		return "none"
	}
}

// Special returns the special-move classification of the move. Promotion wins
// over the flag field since a promotion is never also a castle or en passant.
func (m Move) Special() Special {
	if m.PromotionPiece() != NoPiece {
		return SpecialPromotion
	}
	switch m.Flags() {
	case FlagCastleKingside:
		return SpecialCastleKingside
	case FlagCastleQueenside:
		return SpecialCastleQueenside
	case FlagEnPassant:
		return SpecialEnPassant
	default:
		return SpecialNone
	}
}

// String produces a coordinate string representation of the move
// (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m == 0 {
		return "0000"
	}
	str := m.From().String() + m.To().String()
	if promo := m.PromotionPiece(); promo != NoPiece {
		str += string(promoLetter(promo))
	}
	return str
}

func promoLetter(p Piece) byte {
	switch typeOf(p) {
	case 2:
		return 'n'
	case 3:
		return 'b'
	case 4:
		return 'r'
	case 5:
		return 'q'
	default:
		return '?'
	}
}
