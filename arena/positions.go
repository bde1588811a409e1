package arena

import (
	"strings"

	"chessbot/rules"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// Position is a named start position.
type Position struct {
	Name string
	FEN  string
}

var Positions = []Position{
	{Name: "standard", FEN: rules.StartFEN},
	{Name: "queens_gambit", FEN: "rnbqkbnr/ppp1pppp/8/3p4/2PP4/8/PP2PPPP/RNBQKBNR b KQkq - 0 2"},
	{Name: "sicilian_dragon", FEN: "rnbqkb1r/pp2pp1p/3p1np1/8/3NP3/2N5/PPP2PPP/R1BQKB1R w KQkq - 0 6"},
	{Name: "polish_sokolsky", FEN: "rnbq1rk1/ppp1ppbp/3p1np1/8/1PPP4/4PN2/PB3PPP/RN1QKB1R b KQ - 0 6"},
}

// FirstMoves are the white openings forced before the bots take over.
var FirstMoves = []string{
	"e2e4", "d2d4", "c2c4", "g1f3", "f2f4", "b2b3",
	"g2g3", "b1c3", "c2c3", "b2b4", "g2g4", "h2h4",
}

// ResolvePosition accepts a position name or a FEN. The empty string is the
// standard start.
func ResolvePosition(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return rules.StartFEN, nil
	}
	i := slices.IndexFunc(Positions, func(p Position) bool { return p.Name == strings.ToLower(s) })
	if i >= 0 {
		return Positions[i].FEN, nil
	}
	if err := rules.ValidateFEN(s); err != nil {
		return "", errors.Wrap(err, "arena: unknown position")
	}
	return s, nil
}
