package arena

import (
	"context"
	"math/rand"
	"testing"

	"chessbot/bots"
	"chessbot/rules"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func quietRunner(workers int, seed int64) *Runner {
	r := NewRunner(workers, seed)
	r.Logger = zerolog.Nop()
	return r
}

func TestResolvePosition(t *testing.T) {
	fen, err := ResolvePosition("")
	require.NoError(t, err)
	require.Equal(t, rules.StartFEN, fen)

	fen, err = ResolvePosition("Queens_Gambit")
	require.NoError(t, err)
	require.Equal(t, Positions[1].FEN, fen)

	custom := "7k/8/8/n7/8/8/8/R6K w - - 0 1"
	fen, err = ResolvePosition(custom)
	require.NoError(t, err)
	require.Equal(t, custom, fen)

	_, err = ResolvePosition("kings_gambit")
	require.True(t, errors.Is(err, rules.ErrInvalidFEN))
}

func TestPositionsAreValid(t *testing.T) {
	for _, p := range Positions {
		b, err := rules.NewDragonBoard(p.FEN)
		require.NoError(t, err, p.Name)
		require.Equal(t, rules.Ongoing, b.Outcome(), p.Name)
	}
	start, err := rules.NewDragonBoard(rules.StartFEN)
	require.NoError(t, err)
	for _, text := range FirstMoves {
		_, err := rules.LegalMove(start, text)
		require.NoError(t, err, text)
	}
}

func TestPlay(t *testing.T) {
	t.Run("mate ends the game", func(t *testing.T) {
		res, err := Play(context.Background(), Match{
			White:    bots.NewNewbornBot(),
			Black:    bots.NewSearchBot(bots.AlphaBeta, 1, bots.WithLogger(zerolog.Nop()), bots.WithSeed(1)),
			StartFEN: "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2",
		})
		require.NoError(t, err)
		require.Equal(t, rules.Checkmate, res.Outcome)
		require.NotNil(t, res.Winner)
		require.Equal(t, rules.Black, *res.Winner)
		require.Equal(t, []string{"d8h4"}, res.Moves)
		require.Equal(t, 1, res.Plies)
		require.False(t, res.Truncated)
	})

	t.Run("terminal start", func(t *testing.T) {
		res, err := Play(context.Background(), Match{
			White:    bots.NewNewbornBot(),
			Black:    bots.NewNewbornBot(),
			StartFEN: "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		})
		require.NoError(t, err)
		require.Equal(t, rules.Stalemate, res.Outcome)
		require.Nil(t, res.Winner)
		require.Zero(t, res.Plies)
		require.Equal(t, bots.Score(9), res.Material)
	})

	t.Run("truncated", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		res, err := Play(context.Background(), Match{
			White:    bots.NewRandomBot(rng),
			Black:    bots.NewRandomBot(rng),
			Opening:  []string{"e2e4"},
			MaxPlies: 6,
		})
		require.NoError(t, err)
		require.True(t, res.Truncated)
		require.Equal(t, rules.GameOver, res.Outcome)
		require.Equal(t, 6, res.Plies)
		require.Equal(t, "e2e4", res.Moves[0])
	})

	t.Run("illegal opening", func(t *testing.T) {
		_, err := Play(context.Background(), Match{
			White:   bots.NewNewbornBot(),
			Black:   bots.NewNewbornBot(),
			Opening: []string{"e2e5"},
		})
		require.True(t, errors.Is(err, rules.ErrIllegalMove))
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Play(ctx, Match{White: bots.NewNewbornBot(), Black: bots.NewNewbornBot()})
		require.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("notnil rules", func(t *testing.T) {
		factory, err := rules.FactoryFor(rules.EngineNotnil)
		require.NoError(t, err)
		rng := rand.New(rand.NewSource(4))
		res, err := Play(context.Background(), Match{
			White:    bots.NewGreedyBot(rng),
			Black:    bots.NewRandomBot(rng),
			MaxPlies: 20,
			Rules:    factory,
		})
		require.NoError(t, err)
		require.LessOrEqual(t, res.Plies, 20)
	})
}

func TestRunnerReproducible(t *testing.T) {
	jobs := append(GreedyVsRandom(rules.White, rules.StartFEN, 3),
		MinimaxVsAlphaBeta(rules.Black, 1, 1, Positions[1].FEN, 2)...)

	run := func(workers int) []Result {
		r := quietRunner(workers, 42)
		r.MaxPlies = 30
		results, err := r.Run(context.Background(), jobs)
		require.NoError(t, err)
		require.Len(t, results, len(jobs))
		return results
	}

	first := run(4)
	second := run(1)
	for i := range jobs {
		require.Equal(t, first[i].Moves, second[i].Moves, jobs[i].Name)
		require.Equal(t, first[i].FinalFEN, second[i].FinalFEN, jobs[i].Name)
	}
}

func TestRunnerCollectsErrors(t *testing.T) {
	jobs := []Job{
		{Name: "ok", White: BotSpec{Kind: bots.KindNewborn}, Black: BotSpec{Kind: bots.KindNewborn}, StartFEN: "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"},
		{Name: "bad bot", White: BotSpec{Kind: "stockfish"}, Black: BotSpec{Kind: bots.KindNewborn}},
		{Name: "bad fen", White: BotSpec{Kind: bots.KindNewborn}, Black: BotSpec{Kind: bots.KindNewborn}, StartFEN: "nope"},
	}
	results, err := quietRunner(2, 1).Run(context.Background(), jobs)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad bot")
	require.Contains(t, err.Error(), "bad fen")
	require.Equal(t, rules.Stalemate, results[0].Outcome)

	s := Summarize(results)
	require.Equal(t, 1, s.Games)
	require.Equal(t, 1, s.Outcomes["stalemate"])
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quietRunner(2, 1).Run(ctx, GreedyVsRandom(rules.White, "", 3))
	require.True(t, errors.Is(err, context.Canceled))
}

func TestGrid(t *testing.T) {
	jobs := Grid(rules.StartFEN, 2)
	require.Len(t, jobs, 12)
	require.Equal(t, BotSpec{Kind: bots.KindMinimax, Depth: 3}, jobs[0].White)
	require.Equal(t, BotSpec{Kind: bots.KindAlphaBeta, Depth: 3}, jobs[0].Black)
	require.Equal(t, BotSpec{Kind: bots.KindMinimax, Depth: 3}, jobs[2].Black)

	opened := WithOpening(jobs[:1], "c2c4")
	require.Equal(t, []string{"c2c4"}, opened[0].Opening)
	require.Empty(t, jobs[0].Opening)
}

func TestSummarize(t *testing.T) {
	white := rules.White
	s := Summarize([]Result{
		{Outcome: rules.Checkmate, Winner: &white, Plies: 30, FinalFEN: "x"},
		{Outcome: rules.GameOver, Truncated: true, Plies: 200, FinalFEN: "y"},
		{Outcome: rules.FivefoldRepetition, Plies: 50, FinalFEN: "z"},
	})
	require.Equal(t, 3, s.Games)
	require.Equal(t, 1, s.WhiteWins)
	require.Equal(t, 0, s.BlackWins)
	require.Equal(t, 1, s.Truncated)
	require.Equal(t, 1, s.Outcomes["fivefold_repetition"])
}
