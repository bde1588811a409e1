package config

import (
	"testing"

	"chessbot/arena"
	"chessbot/bots"
	"chessbot/rules"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, rules.EngineDragon, c.Engine)
	require.Equal(t, zerolog.InfoLevel, c.Level())

	jobs, err := c.ArenaJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 14)
	require.Equal(t, "minimax white d3 vs alphabeta d3", jobs[0].Name)
	require.Equal(t, arena.BotSpec{Kind: bots.KindMinimax, Depth: 3}, jobs[0].White)
	require.Equal(t, arena.BotSpec{Kind: bots.KindAlphaBeta, Depth: 3}, jobs[2].White)
	require.Equal(t, arena.BotSpec{Kind: bots.KindGreedy}, jobs[12].White)
	require.Equal(t, rules.StartFEN, jobs[0].StartFEN)
}

func TestLoad(t *testing.T) {
	c, err := Load("testdata/arena.yaml")
	require.NoError(t, err)

	require.Equal(t, int64(42), c.Seed)
	require.Equal(t, 2, c.Workers)
	require.Equal(t, rules.EngineNotnil, c.Engine)
	require.Equal(t, 120, c.MaxPlies)
	require.Equal(t, zerolog.DebugLevel, c.Level())
	require.Equal(t, ":8080", c.Server.Addr)
	require.Len(t, c.Search.Options(), 1)
	require.Equal(t, arena.BotSpec{Kind: bots.KindAlphaBeta, Depth: 2}, c.Jobs[0].White)

	jobs, err := c.ArenaJobs()
	require.NoError(t, err)
	require.Len(t, jobs, 3+len(arena.FirstMoves))
	require.Equal(t, "gambit", jobs[0].Name)
	require.Equal(t, arena.Positions[1].FEN, jobs[0].StartFEN)
	require.Equal(t, []string{arena.FirstMoves[0]}, jobs[3].Opening)

	factory, err := c.Rules()
	require.NoError(t, err)
	b, err := factory(rules.StartFEN)
	require.NoError(t, err)
	require.IsType(t, &rules.NotnilBoard{}, b)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load("testdata/broken.yaml")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidConfig))

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidConfig))
}

func TestSearchOptions(t *testing.T) {
	require.Len(t, Search{}.Options(), 1)
	require.Len(t, Search{MateAccounting: "single", SharedWindow: true}.Options(), 2)
}

func TestAllFirstMovesNeedsStart(t *testing.T) {
	c := Default()
	c.Jobs = []JobConfig{{
		White:         arena.BotSpec{Kind: bots.KindGreedy},
		Black:         arena.BotSpec{Kind: bots.KindRandom},
		Position:      "queens_gambit",
		AllFirstMoves: true,
		Count:         1,
	}}
	require.True(t, errors.Is(c.Validate(), ErrInvalidConfig))
}

func TestParseKeepsExplicitZeros(t *testing.T) {
	base := Default()
	base.Search.SharedWindow = true

	c, err := Parse([]byte("seed: 0\nsearch:\n  shared_window: false\n"), base)
	require.NoError(t, err)
	require.Zero(t, c.Seed)
	require.False(t, c.Search.SharedWindow)
	require.Equal(t, "double", c.Search.MateAccounting)
	require.Equal(t, base.Jobs, c.Jobs)

	c, err = Parse([]byte("workers: 3\n"), base)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.Seed)
	require.True(t, c.Search.SharedWindow)
	require.Equal(t, 3, c.Workers)
}

func TestParseRejectsImpossiblePosition(t *testing.T) {
	data := []byte(`
jobs:
  - white: {kind: greedy}
    black: {kind: random}
    position: "k7/8/8/8/8/8/8/8 w - - 0 1"
    count: 1
`)
	_, err := Parse(data, Default())
	require.True(t, errors.Is(err, ErrInvalidConfig))
}
