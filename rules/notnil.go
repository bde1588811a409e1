package rules

import (
	"fmt"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// NotnilBoard runs the rules on notnil/chess positions. Positions there are
// immutable, so apply pushes the successor and undo pops it.
type NotnilBoard struct {
	stack []*chess.Position
	hist  history
}

// NewNotnilBoard sets up a position from FEN text.
func NewNotnilBoard(fen string) (*NotnilBoard, error) {
	if err := ValidateFEN(fen); err != nil {
		return nil, err
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFEN, "%q: %v", fen, err)
	}
	pos := chess.NewGame(opt).Position()
	n := &NotnilBoard{stack: []*chess.Position{pos}}
	n.hist.push(pos.String())
	return n, nil
}

// Clone shares the immutable positions and copies the history.
func (n *NotnilBoard) Clone() Board {
	return &NotnilBoard{
		stack: append([]*chess.Position(nil), n.stack...),
		hist:  n.hist.clone(),
	}
}

func (n *NotnilBoard) pos() *chess.Position {
	return n.stack[len(n.stack)-1]
}

func (n *NotnilBoard) Turn() Color {
	return fromNotnilColor(n.pos().Turn())
}

func (n *NotnilBoard) LegalMoves() []Move {
	valid := n.pos().ValidMoves()
	out := make([]Move, 0, len(valid))
	for _, m := range valid {
		out = append(out, Move{
			From:      Square(m.S1()),
			To:        Square(m.S2()),
			Promotion: fromNotnilKind(m.Promo()),
		})
	}
	return out
}

// find returns the tagged notnil move matching m, nil when m is not legal.
func (n *NotnilBoard) find(m Move) *chess.Move {
	for _, v := range n.pos().ValidMoves() {
		if Square(v.S1()) == m.From && Square(v.S2()) == m.To && fromNotnilKind(v.Promo()) == m.Promotion {
			return v
		}
	}
	return nil
}

func (n *NotnilBoard) mustFind(m Move) *chess.Move {
	v := n.find(m)
	if v == nil {
		panic(fmt.Sprintf("rules: move %s is not legal in %s", m, n.FEN()))
	}
	return v
}

func (n *NotnilBoard) IsCapture(m Move) bool {
	v := n.mustFind(m)
	return v.HasTag(chess.Capture) || v.HasTag(chess.EnPassant)
}

func (n *NotnilBoard) IsEnPassant(m Move) bool {
	return n.mustFind(m).HasTag(chess.EnPassant)
}

func (n *NotnilBoard) GivesCheck(m Move) bool {
	return n.mustFind(m).HasTag(chess.Check)
}

func (n *NotnilBoard) PieceAt(sq Square) (Piece, bool) {
	p := n.pos().Board().Piece(chess.Square(sq))
	if p == chess.NoPiece {
		return Piece{}, false
	}
	return Piece{Kind: fromNotnilKind(p.Type()), Color: fromNotnilColor(p.Color())}, true
}

func (n *NotnilBoard) Apply(m Move) func() {
	next := n.pos().Update(n.mustFind(m))
	n.stack = append(n.stack, next)
	n.hist.push(next.String())
	return undoOnce(func() {
		n.hist.pop()
		n.stack = n.stack[:len(n.stack)-1]
	})
}

func (n *NotnilBoard) Outcome() Outcome {
	pos := n.pos()
	noMoves := len(pos.ValidMoves()) == 0
	mated := noMoves && pos.Status() == chess.Checkmate
	var pieces [64]Piece
	for sq := Square(0); sq < NoSquare; sq++ {
		if p, ok := n.PieceAt(sq); ok {
			pieces[sq] = p
		}
	}
	return classify(noMoves, mated, &pieces, n.hist.rule50(), n.hist.occurrences())
}

func (n *NotnilBoard) FEN() string {
	return n.pos().String()
}

func fromNotnilColor(c chess.Color) Color {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	}
	return NoColor
}

func fromNotnilKind(t chess.PieceType) PieceKind {
	switch t {
	case chess.Pawn:
		return Pawn
	case chess.Knight:
		return Knight
	case chess.Bishop:
		return Bishop
	case chess.Rook:
		return Rook
	case chess.Queen:
		return Queen
	case chess.King:
		return King
	}
	return NoKind
}
