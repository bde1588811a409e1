package rules

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

// DragonBoard is the primary rules engine, built on dragontoothmg's bitboard
// move generator. Moves are made and unmade in place through the undo
// closure returned by dragontoothmg's Apply.
type DragonBoard struct {
	b    dragontoothmg.Board
	hist history
}

// NewDragonBoard sets up a position from FEN text.
func NewDragonBoard(fen string) (*DragonBoard, error) {
	if err := ValidateFEN(fen); err != nil {
		return nil, err
	}
	d := &DragonBoard{b: dragontoothmg.ParseFen(fen)}
	d.hist.push(d.b.ToFen())
	return d, nil
}

// Clone copies the position and its repetition history.
func (d *DragonBoard) Clone() Board {
	return &DragonBoard{b: d.b, hist: d.hist.clone()}
}

func (d *DragonBoard) Turn() Color {
	if d.b.Wtomove {
		return White
	}
	return Black
}

func (d *DragonBoard) LegalMoves() []Move {
	moves := d.b.GenerateLegalMoves()
	out := make([]Move, 0, len(moves))
	for _, m := range moves {
		out = append(out, fromDragon(m))
	}
	return out
}

func (d *DragonBoard) PieceAt(sq Square) (Piece, bool) {
	if kind, ok := kindAt(&d.b.White, sq); ok {
		return Piece{Kind: kind, Color: White}, true
	}
	if kind, ok := kindAt(&d.b.Black, sq); ok {
		return Piece{Kind: kind, Color: Black}, true
	}
	return Piece{}, false
}

// IsEnPassant reports a pawn moving diagonally onto an empty square.
func (d *DragonBoard) IsEnPassant(m Move) bool {
	p, ok := d.PieceAt(m.From)
	if !ok || p.Kind != Pawn || m.From.File() == m.To.File() {
		return false
	}
	_, occupied := d.PieceAt(m.To)
	return !occupied
}

func (d *DragonBoard) IsCapture(m Move) bool {
	if p, ok := d.PieceAt(m.To); ok && p.Color != d.Turn() {
		return true
	}
	return d.IsEnPassant(m)
}

func (d *DragonBoard) GivesCheck(m Move) bool {
	undo := d.Apply(m)
	defer undo()
	return d.b.OurKingInCheck()
}

// Apply plays a legal move. Illegal input is a programming error.
func (d *DragonBoard) Apply(m Move) func() {
	dm, err := dragontoothmg.ParseMove(m.String())
	if err != nil {
		panic(fmt.Sprintf("rules: cannot encode move %s: %v", m, err))
	}
	unapply := d.b.Apply(dm)
	d.hist.push(d.b.ToFen())
	return undoOnce(func() {
		d.hist.pop()
		unapply()
	})
}

func (d *DragonBoard) Outcome() Outcome {
	noMoves := len(d.b.GenerateLegalMoves()) == 0
	pieces := d.placement()
	return classify(noMoves, d.b.OurKingInCheck(), &pieces, d.hist.rule50(), d.hist.occurrences())
}

func (d *DragonBoard) FEN() string {
	return d.b.ToFen()
}

func (d *DragonBoard) placement() (pieces [64]Piece) {
	for sq := Square(0); sq < NoSquare; sq++ {
		if p, ok := d.PieceAt(sq); ok {
			pieces[sq] = p
		}
	}
	return pieces
}

func fromDragon(m dragontoothmg.Move) Move {
	return Move{
		From:      Square(m.From()),
		To:        Square(m.To()),
		Promotion: PieceKind(m.Promote()),
	}
}

// kindAt finds which bitboard of one side holds the square.
func kindAt(bb *dragontoothmg.Bitboards, sq Square) (PieceKind, bool) {
	mask := uint64(1) << sq
	switch {
	case bb.Pawns&mask != 0:
		return Pawn, true
	case bb.Knights&mask != 0:
		return Knight, true
	case bb.Bishops&mask != 0:
		return Bishop, true
	case bb.Rooks&mask != 0:
		return Rook, true
	case bb.Queens&mask != 0:
		return Queen, true
	case bb.Kings&mask != 0:
		return King, true
	}
	return NoKind, false
}

// opponentInCheck hands the move to the other side and asks dragontoothmg
// whether its king is attacked. The FEN must already hold both kings.
func opponentInCheck(fen string) bool {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return false
	}
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-"
	b := dragontoothmg.ParseFen(strings.Join(fields, " "))
	return b.OurKingInCheck()
}
