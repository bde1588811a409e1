package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcome(t *testing.T) {
	cases := []struct {
		name string
		fen  string
		want Outcome
	}{
		{"start", StartFEN, Ongoing},
		{"checkmate", foolsMate, Checkmate},
		{"stalemate", stalemate, Stalemate},
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", InsufficientMaterial},
		{"lone bishop", "8/8/8/4k3/8/8/8/2B1K3 w - - 0 1", InsufficientMaterial},
		{"lone knight", "8/8/8/4k3/8/8/8/1N2K3 b - - 0 1", InsufficientMaterial},
		{"same colored bishops", "8/8/8/2b1k3/8/8/8/2B1K3 w - - 0 1", InsufficientMaterial},
		{"opposite colored bishops", "8/8/8/3bk3/8/8/8/2B1K3 w - - 0 1", Ongoing},
		{"rook", rookEnding, Ongoing},
		{"pawn", "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", Ongoing},
		{"seventy five moves", seventyFive, SeventyFiveMoveRule},
		{"seventy four and a half", "8/8/8/4k3/8/8/8/R3K3 w - - 149 120", Ongoing},
	}
	for name, f := range engines(t) {
		t.Run(name, func(t *testing.T) {
			for _, tc := range cases {
				t.Run(tc.name, func(t *testing.T) {
					b := mustBoard(t, f, tc.fen)
					require.Equal(t, tc.want, b.Outcome())
					require.Equal(t, tc.want != Ongoing, b.Outcome().Terminal())
				})
			}
		})
	}
}

func TestFivefoldRepetition(t *testing.T) {
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for name, f := range engines(t) {
		t.Run(name, func(t *testing.T) {
			b := mustBoard(t, f, StartFEN)
			var undos []func()
			for round := 0; round < 4; round++ {
				require.Equal(t, Ongoing, b.Outcome(), "round %d", round)
				for _, text := range shuffle {
					m, err := LegalMove(b, text)
					require.NoError(t, err)
					undos = append(undos, b.Apply(m))
				}
			}
			require.Equal(t, FivefoldRepetition, b.Outcome())
			require.Equal(t, 5, FivefoldRepetition.Code())

			// Taking the last move back leaves four occurrences.
			undos[len(undos)-1]()
			require.Equal(t, Ongoing, b.Outcome())
		})
	}
}

func TestSeventyFiveMoveRuleAfterMove(t *testing.T) {
	for name, f := range engines(t) {
		t.Run(name, func(t *testing.T) {
			b := mustBoard(t, f, "8/8/8/4k3/8/8/8/R3K3 w - - 149 120")
			m, err := LegalMove(b, "a1a2")
			require.NoError(t, err)
			undo := b.Apply(m)
			require.Equal(t, SeventyFiveMoveRule, b.Outcome())
			undo()
			require.Equal(t, Ongoing, b.Outcome())
		})
	}
}

func TestOutcomeLabels(t *testing.T) {
	labels := map[Outcome]string{
		GameOver:             "game_over",
		Checkmate:            "checkmate",
		Stalemate:            "stalemate",
		InsufficientMaterial: "insufficient_material",
		SeventyFiveMoveRule:  "seventyfive_move_rule",
		FivefoldRepetition:   "fivefold_repetition",
	}
	for o, label := range labels {
		require.Equal(t, label, o.String())
	}
	require.Equal(t, 0, GameOver.Code())
	require.Equal(t, 2, Stalemate.Code())
	require.False(t, Ongoing.Terminal())
}

func TestPositionKey(t *testing.T) {
	require.Equal(t, "8/8/8/8/8/8/8/8 w - -", positionKey("8/8/8/8/8/8/8/8 w - - 12 40"))
	require.Equal(t, 12, halfmoveClock("8/8/8/8/8/8/8/8 w - - 12 40"))
	require.Equal(t, 0, halfmoveClock("8/8/8/8/8/8/8/8 w - -"))
}
