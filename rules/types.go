package rules

import (
	"strings"

	"github.com/pkg/errors"
)

// Color is the side to move or the owner of a piece.
type Color uint8

const (
	NoColor Color = iota
	White
	Black
)

// Other returns the opposing side.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// ParseColor accepts "w", "white", "b" and "black" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "white":
		return White, nil
	case "b", "black":
		return Black, nil
	}
	return NoColor, errors.Errorf("rules: unknown color %q", s)
}

// PieceKind numbering follows dragontoothmg, so conversion is a plain cast.
type PieceKind uint8

const (
	NoKind PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [...]byte{'-', 'p', 'n', 'b', 'r', 'q', 'k'}

// Letter returns the lower case FEN letter of the kind.
func (k PieceKind) Letter() byte {
	if int(k) < len(kindLetters) {
		return kindLetters[k]
	}
	return '?'
}

// Piece is a colored piece standing on a square.
type Piece struct {
	Kind  PieceKind
	Color Color
}

// Letter returns the FEN letter, upper case for white.
func (p Piece) Letter() byte {
	l := p.Kind.Letter()
	if p.Color == White {
		return l - 'a' + 'A'
	}
	return l
}

// Square indexes the board from a1=0, b1=1 ... h8=63.
type Square uint8

const NoSquare Square = 64

func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (s Square) File() int { return int(s) % 8 }
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) String() string {
	if s >= NoSquare {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare reads algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, errors.Errorf("rules: invalid square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// Move is compared by value: two moves are equal when source, destination
// and promotion kind are equal.
type Move struct {
	From      Square
	To        Square
	Promotion PieceKind
}

// IsPromotion reports whether the move carries a promotion kind.
func (m Move) IsPromotion() bool { return m.Promotion != NoKind }

// String encodes the move as UCI text, e.g. "e2e4" or "a7a8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Letter())
	}
	return s
}

// ParseMove checks the syntax of UCI move text. Legality is not checked,
// see LegalMove.
func ParseMove(text string) (Move, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 4 && len(text) != 5 {
		return Move{}, errors.Wrapf(ErrIllegalMove, "malformed move %q", text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return Move{}, errors.Wrapf(ErrIllegalMove, "malformed move %q", text)
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return Move{}, errors.Wrapf(ErrIllegalMove, "malformed move %q", text)
	}
	m := Move{From: from, To: to}
	if len(text) == 5 {
		switch text[4] {
		case 'q':
			m.Promotion = Queen
		case 'r':
			m.Promotion = Rook
		case 'b':
			m.Promotion = Bishop
		case 'n':
			m.Promotion = Knight
		default:
			return Move{}, errors.Wrapf(ErrIllegalMove, "bad promotion letter in %q", text)
		}
	}
	return m, nil
}

// Outcome classifies a position. The non-negative values are the report
// codes used by match results.
type Outcome int

const (
	Ongoing Outcome = iota - 1
	GameOver
	Checkmate
	Stalemate
	InsufficientMaterial
	SeventyFiveMoveRule
	FivefoldRepetition
)

// Terminal reports whether no further moves are searched from the position.
func (o Outcome) Terminal() bool { return o != Ongoing }

// Code is the ordinal reported for finished games.
func (o Outcome) Code() int { return int(o) }

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case GameOver:
		return "game_over"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient_material"
	case SeventyFiveMoveRule:
		return "seventyfive_move_rule"
	case FivefoldRepetition:
		return "fivefold_repetition"
	}
	return "unknown"
}
