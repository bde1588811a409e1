package arena

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"chessbot/bots"
	"chessbot/rules"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// BotSpec names a bot kind and, for search bots, its depth.
type BotSpec struct {
	Kind  string `yaml:"kind"`
	Depth int    `yaml:"depth"`
}

func (s BotSpec) String() string {
	switch s.Kind {
	case bots.KindMinimax, bots.KindAlphaBeta:
		return fmt.Sprintf("%s(%d)", s.Kind, s.Depth)
	}
	return s.Kind
}

// Job is one game to be played by a Runner.
type Job struct {
	Name     string
	White    BotSpec
	Black    BotSpec
	StartFEN string
	Opening  []string
}

// Runner plays jobs concurrently. Job i draws all its randomness from a
// source seeded with Seed+i, so a fixed seed replays every game.
type Runner struct {
	Workers  int
	Seed     int64
	MaxPlies int
	Rules    rules.Factory
	Logger   zerolog.Logger
	// SearchOptions are applied to every search bot.
	SearchOptions []bots.Option
}

func NewRunner(workers int, seed int64) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		Workers: workers,
		Seed:    seed,
		Logger:  log.Logger,
	}
}

// Run plays every job and returns the results in job order. Games that fail
// leave a zero Result; their errors are returned together.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	var (
		mu   sync.Mutex
		errs error
	)
	fail := func(err error) {
		mu.Lock()
		errs = multierror.Append(errs, err)
		mu.Unlock()
	}

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}
	g := errgroup.Group{}
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		if ctx.Err() != nil {
			fail(errors.Wrapf(ctx.Err(), "arena: job %d (%s) not started", i, job.Name))
			continue
		}
		g.Go(func() error {
			res, err := r.play(ctx, i, job)
			if err != nil {
				fail(errors.Wrapf(err, "arena: job %d (%s)", i, job.Name))
				return nil
			}
			results[i] = res
			ev := r.Logger.Info().
				Int("job", i).
				Str("name", job.Name).
				Stringer("white", job.White).
				Stringer("black", job.Black).
				Str("outcome", res.Label()).
				Int("plies", res.Plies).
				Int("material", int(res.Material))
			if res.Winner != nil {
				ev = ev.Stringer("winner", *res.Winner)
			}
			ev.Msg("game over")
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}

func (r *Runner) play(ctx context.Context, i int, job Job) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	rng := rand.New(rand.NewSource(r.Seed + int64(i)))
	options := append([]bots.Option{bots.WithLogger(r.Logger)}, r.SearchOptions...)
	white, err := bots.New(job.White.Kind, job.White.Depth, rng, options...)
	if err != nil {
		return Result{}, err
	}
	black, err := bots.New(job.Black.Kind, job.Black.Depth, rng, options...)
	if err != nil {
		return Result{}, err
	}
	return Play(ctx, Match{
		White:    white,
		Black:    black,
		StartFEN: job.StartFEN,
		Opening:  job.Opening,
		MaxPlies: r.MaxPlies,
		Rules:    r.Rules,
	})
}

// MinimaxVsAlphaBeta returns count games between an exhaustive searcher of
// depth mmDepth playing side and an alpha-beta searcher of depth abDepth.
func MinimaxVsAlphaBeta(side rules.Color, mmDepth, abDepth int, fen string, count int) []Job {
	mm := BotSpec{Kind: bots.KindMinimax, Depth: mmDepth}
	ab := BotSpec{Kind: bots.KindAlphaBeta, Depth: abDepth}
	job := Job{
		Name:     fmt.Sprintf("minimax %s d%d vs alphabeta d%d", side, mmDepth, abDepth),
		White:    mm,
		Black:    ab,
		StartFEN: fen,
	}
	if side == rules.Black {
		job.White, job.Black = ab, mm
	}
	return repeat(job, count)
}

// GreedyVsRandom returns count games of the capture-preferring bot, playing
// side, against a uniformly random one.
func GreedyVsRandom(side rules.Color, fen string, count int) []Job {
	job := Job{
		Name:     fmt.Sprintf("greedy %s vs random", side),
		White:    BotSpec{Kind: bots.KindGreedy},
		Black:    BotSpec{Kind: bots.KindRandom},
		StartFEN: fen,
	}
	if side == rules.Black {
		job.White, job.Black = job.Black, job.White
	}
	return repeat(job, count)
}

// Grid is the standard comparison of the two search variants: equal depths,
// then each variant given two extra plies, from both sides.
func Grid(fen string, count int) []Job {
	var jobs []Job
	for _, d := range [][2]int{{3, 3}, {2, 4}, {4, 2}} {
		for _, side := range []rules.Color{rules.White, rules.Black} {
			jobs = append(jobs, MinimaxVsAlphaBeta(side, d[0], d[1], fen, count)...)
		}
	}
	return jobs
}

// WithOpening forces the first white move of every job.
func WithOpening(jobs []Job, first string) []Job {
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		j.Opening = append([]string{first}, j.Opening...)
		j.Name = fmt.Sprintf("%s after %s", j.Name, first)
		out[i] = j
	}
	return out
}

func repeat(job Job, count int) []Job {
	jobs := make([]Job, 0, count)
	for n := 0; n < count; n++ {
		jobs = append(jobs, job)
	}
	return jobs
}

// Summary counts outcomes and wins over a batch.
type Summary struct {
	Games     int
	Outcomes  map[string]int
	WhiteWins int
	BlackWins int
	Truncated int
}

func Summarize(results []Result) Summary {
	s := Summary{Outcomes: map[string]int{}}
	for _, r := range results {
		if r.Plies == 0 && r.FinalFEN == "" {
			continue
		}
		s.Games++
		s.Outcomes[r.Label()]++
		if r.Truncated {
			s.Truncated++
		}
		if r.Winner == nil {
			continue
		}
		if *r.Winner == rules.White {
			s.WhiteWins++
		} else {
			s.BlackWins++
		}
	}
	return s
}
