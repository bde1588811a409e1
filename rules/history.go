package rules

import (
	"strconv"
	"strings"
)

const (
	seventyFiveMoveLimit = 150 // half moves
	fivefoldLimit        = 5
)

// entry is one position on the path from the root of the game to the
// current node.
type entry struct {
	key    string
	rule50 int
}

// history tracks the positions reached so far so repetitions can be
// counted. It is pushed on apply and popped on undo.
type history struct {
	entries []entry
}

func (h *history) push(fen string) {
	h.entries = append(h.entries, entry{
		key:    positionKey(fen),
		rule50: halfmoveClock(fen),
	})
}

func (h *history) pop() {
	if len(h.entries) == 0 {
		return
	}
	h.entries = h.entries[:len(h.entries)-1]
}

func (h *history) clone() history {
	return history{entries: append([]entry(nil), h.entries...)}
}

func (h *history) rule50() int {
	if len(h.entries) == 0 {
		return 0
	}
	return h.entries[len(h.entries)-1].rule50
}

// occurrences counts how often the current position has been seen,
// itself included. Only positions since the last irreversible move can
// match.
func (h *history) occurrences() int {
	if len(h.entries) == 0 {
		return 0
	}
	curr := h.entries[len(h.entries)-1]
	start := len(h.entries) - 1 - curr.rule50
	if start < 0 {
		start = 0
	}
	count := 0
	for i := start; i < len(h.entries); i++ {
		if h.entries[i].key == curr.key {
			count++
		}
	}
	return count
}

// positionKey keeps placement, side to move, castling rights and the en
// passant target; the move counters do not take part in repetition.
func positionKey(fen string) string {
	fields := strings.Fields(fen)
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

func halfmoveClock(fen string) int {
	n, err := strconv.Atoi(fenField(fen, 4))
	if err != nil {
		return 0
	}
	return n
}

// classify maps the facts of a position to its outcome, checking the
// conditions in report-code order.
func classify(noMoves, inCheck bool, pieces *[64]Piece, rule50, seen int) Outcome {
	switch {
	case noMoves && inCheck:
		return Checkmate
	case noMoves:
		return Stalemate
	case insufficientMaterial(pieces):
		return InsufficientMaterial
	case rule50 >= seventyFiveMoveLimit:
		return SeventyFiveMoveRule
	case seen >= fivefoldLimit:
		return FivefoldRepetition
	}
	return Ongoing
}

// insufficientMaterial reports whether neither side can possibly mate.
func insufficientMaterial(pieces *[64]Piece) bool {
	return lacksMaterial(pieces, White) && lacksMaterial(pieces, Black)
}

func lacksMaterial(pieces *[64]Piece, c Color) bool {
	var own, knights, opponentOthers int
	var pawnsOrKnights bool
	var lightBishops, darkBishops int
	for sq, p := range pieces {
		if p.Kind == NoKind {
			continue
		}
		if p.Kind == Pawn || p.Kind == Knight {
			pawnsOrKnights = true
		}
		if p.Kind == Bishop {
			if (Square(sq).File()+Square(sq).Rank())%2 == 0 {
				darkBishops++
			} else {
				lightBishops++
			}
		}
		if p.Color != c {
			if p.Kind != King && p.Kind != Queen {
				opponentOthers++
			}
			continue
		}
		own++
		switch p.Kind {
		case Pawn, Rook, Queen:
			return false
		case Knight:
			knights++
		}
	}
	if knights > 0 {
		return own <= 2 && opponentOthers == 0
	}
	if lightBishops+darkBishops > 0 && ownHasBishop(pieces, c) {
		sameColor := lightBishops == 0 || darkBishops == 0
		return sameColor && !pawnsOrKnights
	}
	return true
}

func ownHasBishop(pieces *[64]Piece, c Color) bool {
	for _, p := range pieces {
		if p.Kind == Bishop && p.Color == c {
			return true
		}
	}
	return false
}
