package bots

import "chessbot/rules"

// Score is a reward in pawn units from the point of view of the bot.
type Score int

const (
	// MateScore is added for delivering checkmate and subtracted for
	// receiving it.
	MateScore Score = 1000
	// Infinity bounds the root alpha-beta window.
	Infinity Score = 1_000_000_000
)

// PieceValue returns the material value of a piece kind. The king is worth
// nothing since it is never captured.
func PieceValue(k rules.PieceKind) Score {
	switch k {
	case rules.Pawn:
		return 1
	case rules.Knight:
		return 3
	case rules.Bishop:
		return 3
	case rules.Rook:
		return 5
	case rules.Queen:
		return 9
	default:
		return 0
	}
}

// CapturedValue is the value of the piece removed by m. An en passant
// capture takes the pawn one rank behind the destination.
func CapturedValue(b rules.Board, m rules.Move) Score {
	if b.IsEnPassant(m) {
		step := -8
		if b.Turn() == rules.Black {
			step = 8
		}
		if p, ok := b.PieceAt(rules.Square(int(m.To) + step)); ok {
			return PieceValue(p.Kind)
		}
		return PieceValue(rules.Pawn)
	}
	if p, ok := b.PieceAt(m.To); ok {
		return PieceValue(p.Kind)
	}
	return 0
}

// PromotionBonus is the net gain of promoting over keeping the pawn.
func PromotionBonus(m rules.Move) Score {
	if !m.IsPromotion() {
		return 0
	}
	return PieceValue(m.Promotion) - PieceValue(rules.Pawn)
}

// ImmediateReward scores the material and mate consequences of playing m,
// positive when they favor botColor. The board is unchanged on return.
func ImmediateReward(b rules.Board, m rules.Move, botColor rules.Color) Score {
	return reward(b, m, botColor, true)
}

func reward(b rules.Board, m rules.Move, botColor rules.Color, withMate bool) Score {
	sign := Score(1)
	if b.Turn() != botColor {
		sign = -1
	}

	var score Score
	if b.IsCapture(m) {
		score += sign * CapturedValue(b, m)
	}
	score += sign * PromotionBonus(m)
	if withMate && deliversMate(b, m) {
		score += sign * MateScore
	}
	return score
}

func deliversMate(b rules.Board, m rules.Move) bool {
	undo := b.Apply(m)
	defer undo()
	return b.Outcome() == rules.Checkmate
}

// Material is white's material minus black's. Only used for reporting.
func Material(b rules.Board) Score {
	var score Score
	for sq := rules.Square(0); sq < rules.NoSquare; sq++ {
		p, ok := b.PieceAt(sq)
		if !ok {
			continue
		}
		if p.Color == rules.White {
			score += PieceValue(p.Kind)
		} else {
			score -= PieceValue(p.Kind)
		}
	}
	return score
}
