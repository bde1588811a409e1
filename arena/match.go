package arena

import (
	"context"

	"chessbot/bots"
	"chessbot/rules"

	"github.com/pkg/errors"
)

// Match describes one game between two bots.
type Match struct {
	White, Black bots.ChessBot
	StartFEN     string
	// Opening moves are played as given before the bots take over.
	Opening []string
	// MaxPlies stops the game early; zero means no limit.
	MaxPlies int
	Rules    rules.Factory
}

// Result is the final state of a played game.
type Result struct {
	Outcome rules.Outcome
	// Winner is nil for draws and unfinished games.
	Winner    *rules.Color
	Plies     int
	Moves     []string
	FinalFEN  string
	Material  bots.Score
	Truncated bool
}

// Label is the report label of the outcome.
func (r Result) Label() string {
	return r.Outcome.String()
}

// Play runs a match to the end. Moves are applied permanently to a board
// owned by this call.
func Play(ctx context.Context, m Match) (Result, error) {
	factory := m.Rules
	if factory == nil {
		factory = func(fen string) (rules.Board, error) { return rules.NewDragonBoard(fen) }
	}
	fen := m.StartFEN
	if fen == "" {
		fen = rules.StartFEN
	}
	b, err := factory(fen)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, text := range m.Opening {
		mv, err := rules.LegalMove(b, text)
		if err != nil {
			return Result{}, errors.Wrap(err, "arena: opening")
		}
		b.Apply(mv)
		res.Moves = append(res.Moves, mv.String())
	}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if b.Outcome().Terminal() {
			break
		}
		if m.MaxPlies > 0 && len(res.Moves) >= m.MaxPlies {
			res.Truncated = true
			break
		}

		player := m.White
		if b.Turn() == rules.Black {
			player = m.Black
		}
		mv, err := player.BestMove(b)
		if err != nil {
			return Result{}, errors.Wrapf(err, "arena: %s to move", player.Name())
		}
		b.Apply(mv)
		res.Moves = append(res.Moves, mv.String())
	}

	res.Outcome = b.Outcome()
	if res.Truncated {
		res.Outcome = rules.GameOver
	}
	if res.Outcome == rules.Checkmate {
		winner := b.Turn().Other()
		res.Winner = &winner
	}
	res.Plies = len(res.Moves)
	res.FinalFEN = b.FEN()
	res.Material = bots.Material(b)
	return res, nil
}
