package bots

import (
	"math/rand"
	"time"

	"chessbot/rules"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MateAccounting controls how a mate delivered by the last move of a line
// is counted.
type MateAccounting int

const (
	// MateDoubleCount adds the mate bonus both in the reward of the mating
	// move and in the terminal score of the position it reaches.
	MateDoubleCount MateAccounting = iota
	// MateSingleCount leaves the mate to the terminal score only.
	MateSingleCount
)

// SearchResult is the best accumulated reward found and the root move that
// leads to it. HasMove is false at terminal positions and at depth zero.
type SearchResult struct {
	Score   Score
	Move    rules.Move
	HasMove bool
}

type Option func(s *Searcher)

// Searcher runs depth-bounded minimax over delta rewards. A Searcher is not
// safe for concurrent use; give every goroutine its own.
type Searcher struct {
	variant  Variant
	rng      *rand.Rand
	tieBreak TieBreak
	mate     MateAccounting
	shared   bool
	logger   zerolog.Logger
	metrics  MetricsCollector
	last     SearchMetrics
}

func WithRand(rng *rand.Rand) Option {
	return func(s *Searcher) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed is WithRand over a fresh source.
func WithSeed(seed int64) Option {
	return func(s *Searcher) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithTieBreak(tb TieBreak) Option {
	return func(s *Searcher) {
		if tb != nil {
			s.tieBreak = tb
		}
	}
}

func WithMateAccounting(mode MateAccounting) Option {
	return func(s *Searcher) {
		s.mate = mode
	}
}

// WithSharedWindow passes the parent's alpha-beta window to children
// unchanged, without moving it by the reward of the move in between. This
// reproduces older results but can prune lines that would change the score.
func WithSharedWindow() Option {
	return func(s *Searcher) {
		s.shared = true
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Searcher) {
		s.logger = logger
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = NewMetricsCollector()
	}
}

// NewSearcher builds a searcher for the variant. Unless overridden,
// alpha-beta breaks ties with a coin flip and minimax keeps the first move.
func NewSearcher(variant Variant, options ...Option) *Searcher {
	s := &Searcher{ // Default values
		variant: variant,
		mate:    MateDoubleCount,
		logger:  log.Logger,
		metrics: NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.tieBreak == nil {
		if variant == AlphaBeta {
			s.tieBreak = CoinFlip(s.rng)
		} else {
			s.tieBreak = KeepFirst
		}
	}
	return s
}

func (s *Searcher) Variant() Variant { return s.variant }

// Metrics returns the statistics of the last root search. They are zero
// unless the searcher was built WithMetrics.
func (s *Searcher) Metrics() SearchMetrics { return s.last }

// Search explores depth plies from b and returns the best reward for
// botColor. Minimax ignores the window; alpha-beta prunes on it, and the
// root call normally passes -Infinity and Infinity.
func (s *Searcher) Search(b rules.Board, depth int, alpha, beta Score, botColor rules.Color) SearchResult {
	s.metrics.Start()
	res := s.search(b, depth, alpha, beta, botColor)
	s.last = s.metrics.Complete()

	ev := s.logger.Debug().
		Stringer("variant", s.variant).
		Int("depth", depth).
		Int("score", int(res.Score)).
		Int64("nodes", s.last.Nodes).
		Int64("cutoffs", s.last.Cutoffs)
	if res.HasMove {
		ev = ev.Stringer("move", res.Move)
	}
	ev.Msg("search done")
	return res
}

func (s *Searcher) search(b rules.Board, depth int, alpha, beta Score, botColor rules.Color) SearchResult {
	s.metrics.AddNode()

	outcome := b.Outcome()
	if depth <= 0 || outcome.Terminal() {
		if outcome == rules.Checkmate {
			if b.Turn() == botColor {
				return SearchResult{Score: -MateScore}
			}
			return SearchResult{Score: MateScore}
		}
		return SearchResult{}
	}

	maximizing := b.Turn() == botColor
	best := SearchResult{Score: Infinity}
	if maximizing {
		best.Score = -Infinity
	}
	pruning := s.variant == AlphaBeta

	for _, m := range OrderMoves(b) {
		imm := reward(b, m, botColor, s.mate == MateDoubleCount)
		// Child scores exclude imm, so the window moves with it.
		lo, hi := alpha-imm, beta-imm
		if s.shared {
			lo, hi = alpha, beta
		}
		child := withMove(b, m, func() SearchResult {
			return s.search(b, depth-1, lo, hi, botColor)
		})
		total := imm + child.Score

		if improves(total, best.Score, maximizing) || (total == best.Score && s.tieBreak.Replace()) {
			best = SearchResult{Score: total, Move: m, HasMove: true}
		}
		if !pruning {
			continue
		}
		if maximizing {
			alpha = max(alpha, best.Score)
		} else {
			beta = min(beta, best.Score)
		}
		if beta <= alpha {
			s.metrics.AddCutoff()
			break
		}
	}
	return best
}

func improves(total, best Score, maximizing bool) bool {
	if maximizing {
		return total > best
	}
	return total < best
}

// withMove plays m, runs fn and takes m back on every way out of fn.
func withMove[T any](b rules.Board, m rules.Move, fn func() T) T {
	undo := b.Apply(m)
	defer undo()
	return fn()
}

// Search is a one-off search with a time seeded searcher.
func Search(b rules.Board, depth int, alpha, beta Score, botColor rules.Color, variant Variant) SearchResult {
	return NewSearcher(variant).Search(b, depth, alpha, beta, botColor)
}
