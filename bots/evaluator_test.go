package bots

import (
	"testing"

	"chessbot/rules"

	"github.com/stretchr/testify/require"
)

const (
	italian    = "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	kiwipete   = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	enPassant  = "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3"
	foolsMate  = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	beforeMate = "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2"
	stalemate  = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	freeKnight = "7k/8/8/n7/8/8/8/R6K w - - 0 1"
	backRank   = "3r2k1/5ppp/8/8/8/8/5PPP/4R1K1 w - - 0 1"
	promotion  = "8/P7/8/8/8/8/8/k6K w - - 0 1"
)

func board(t *testing.T, fen string) rules.Board {
	t.Helper()
	b, err := rules.NewDragonBoard(fen)
	require.NoError(t, err)
	return b
}

func move(t *testing.T, b rules.Board, text string) rules.Move {
	t.Helper()
	m, err := rules.LegalMove(b, text)
	require.NoError(t, err)
	return m
}

func TestPieceValue(t *testing.T) {
	want := map[rules.PieceKind]Score{
		rules.Pawn:   1,
		rules.Knight: 3,
		rules.Bishop: 3,
		rules.Rook:   5,
		rules.Queen:  9,
		rules.King:   0,
		rules.NoKind: 0,
	}
	for k, v := range want {
		require.Equal(t, v, PieceValue(k), string(k.Letter()))
	}
}

func TestPromotionBonus(t *testing.T) {
	for _, k := range []rules.PieceKind{rules.Knight, rules.Bishop, rules.Rook, rules.Queen} {
		m := rules.Move{From: rules.NewSquare(0, 6), To: rules.NewSquare(0, 7), Promotion: k}
		require.Equal(t, PieceValue(k)-PieceValue(rules.Pawn), PromotionBonus(m))
	}
	require.Equal(t, Score(8), PromotionBonus(rules.Move{Promotion: rules.Queen}))
	require.Equal(t, Score(2), PromotionBonus(rules.Move{Promotion: rules.Knight}))
	require.Equal(t, Score(0), PromotionBonus(rules.Move{From: 12, To: 28}))
}

func TestCapturedValue(t *testing.T) {
	t.Run("en passant", func(t *testing.T) {
		b := board(t, enPassant)
		require.Equal(t, Score(1), CapturedValue(b, move(t, b, "e5f6")))
	})
	t.Run("rook takes knight", func(t *testing.T) {
		b := board(t, freeKnight)
		require.Equal(t, Score(3), CapturedValue(b, move(t, b, "a1a5")))
		require.Equal(t, Score(0), CapturedValue(b, move(t, b, "a1a2")))
	})
}

func TestImmediateReward(t *testing.T) {
	t.Run("mate", func(t *testing.T) {
		b := board(t, beforeMate)
		before := b.FEN()
		m := move(t, b, "d8h4")
		require.Equal(t, MateScore, ImmediateReward(b, m, rules.Black))
		require.Equal(t, -MateScore, ImmediateReward(b, m, rules.White))
		require.Equal(t, before, b.FEN())
	})
	t.Run("capture", func(t *testing.T) {
		b := board(t, freeKnight)
		m := move(t, b, "a1a5")
		require.Equal(t, Score(3), ImmediateReward(b, m, rules.White))
		require.Equal(t, Score(-3), ImmediateReward(b, m, rules.Black))
	})
	t.Run("promotion", func(t *testing.T) {
		b := board(t, promotion)
		require.Equal(t, Score(8), ImmediateReward(b, move(t, b, "a7a8q"), rules.White))
		require.Equal(t, Score(-4), ImmediateReward(b, move(t, b, "a7a8r"), rules.Black))
	})
	t.Run("quiet", func(t *testing.T) {
		b := board(t, rules.StartFEN)
		require.Equal(t, Score(0), ImmediateReward(b, move(t, b, "e2e4"), rules.White))
	})
}

func TestMaterial(t *testing.T) {
	require.Equal(t, Score(0), Material(board(t, rules.StartFEN)))
	require.Equal(t, Score(2), Material(board(t, freeKnight)))
	require.Equal(t, Score(9), Material(board(t, stalemate)))
}
