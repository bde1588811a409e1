package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chessbot/arena"
	"chessbot/bots"
	"chessbot/config"
	"chessbot/rules"
	"chessbot/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: chessbot <command> [flags]

commands:
  move    choose a move for a position
  arena   play a batch of bot games
  serve   start the HTTP move service
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "move":
		runMove(args)
	case "arena":
		runArena(ctx, args)
	case "serve":
		runServe(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func setupLogging(verbose bool, level zerolog.Level) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func runMove(args []string) {
	fs := flag.NewFlagSet("move", flag.ExitOnError)
	fenFlag := fs.String("fen", "", "FEN of the position (empty = startpos)")
	colorFlag := fs.String("color", "", "side the bot plays, w or b (empty = side to move)")
	depthFlag := fs.Int("depth", 2, "search depth in plies; 0 picks a random capture")
	variantFlag := fs.String("variant", "alphabeta", "minimax or alphabeta")
	seedFlag := fs.Int64("seed", time.Now().UnixNano(), "random seed")
	engineFlag := fs.String("engine", rules.EngineDragon, "rules engine: dragon or notnil")
	single := fs.Bool("single-mate", false, "count a mate once instead of twice")
	verbose := fs.Bool("v", false, "debug logging")
	_ = fs.Parse(args)
	setupLogging(*verbose, zerolog.InfoLevel)

	variant, err := bots.ParseVariant(*variantFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("bad variant")
	}
	factory, err := rules.FactoryFor(*engineFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("bad engine")
	}
	fen := *fenFlag
	if fen == "" {
		fen = rules.StartFEN
	}
	b, err := factory(fen)
	if err != nil {
		log.Fatal().Err(err).Msg("bad position")
	}
	color := b.Turn()
	if *colorFlag != "" {
		if color, err = rules.ParseColor(*colorFlag); err != nil {
			log.Fatal().Err(err).Msg("bad color")
		}
	}

	options := []bots.Option{bots.WithSeed(*seedFlag), bots.WithMetrics()}
	if *single {
		options = append(options, bots.WithMateAccounting(bots.MateSingleCount))
	}
	s := bots.NewSearcher(variant, options...)

	if *depthFlag > 0 {
		res := s.Search(b, *depthFlag, -bots.Infinity, bots.Infinity, color)
		if res.HasMove {
			m := s.Metrics()
			fmt.Printf("%s %d\n", res.Move, res.Score)
			log.Info().Int64("nodes", m.Nodes).Int64("cutoffs", m.Cutoffs).Dur("took", m.Duration).Msg("searched")
			return
		}
	}
	mv, err := s.ChooseMove(b, color, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("no move")
	}
	fmt.Println(mv)
}

func runArena(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("arena", flag.ExitOnError)
	configFlag := fs.String("config", "", "YAML config file (empty = defaults)")
	seedFlag := fs.Int64("seed", 0, "override the configured seed")
	workersFlag := fs.Int("workers", 0, "override the configured worker count")
	verbose := fs.Bool("v", false, "debug logging")
	_ = fs.Parse(args)

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			setupLogging(false, zerolog.InfoLevel)
			log.Fatal().Err(err).Str("path", *configFlag).Msg("cannot load config")
		}
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if *workersFlag > 0 {
		cfg.Workers = *workersFlag
	}
	setupLogging(*verbose, cfg.Level())

	jobs, err := cfg.ArenaJobs()
	if err != nil {
		log.Fatal().Err(err).Msg("bad jobs")
	}
	factory, err := cfg.Rules()
	if err != nil {
		log.Fatal().Err(err).Msg("bad engine")
	}

	runner := arena.NewRunner(cfg.Workers, cfg.Seed)
	runner.MaxPlies = cfg.MaxPlies
	runner.Rules = factory
	runner.SearchOptions = cfg.Search.Options()

	log.Info().Int("games", len(jobs)).Int("workers", runner.Workers).Int64("seed", cfg.Seed).Msg("starting arena")
	start := time.Now()
	results, err := runner.Run(ctx, jobs)
	if err != nil {
		log.Error().Err(err).Msg("some games failed")
	}

	sum := arena.Summarize(results)
	ev := log.Info().
		Int("games", sum.Games).
		Int("white_wins", sum.WhiteWins).
		Int("black_wins", sum.BlackWins).
		Int("truncated", sum.Truncated).
		Dur("took", time.Since(start))
	for label, n := range sum.Outcomes {
		ev = ev.Int(label, n)
	}
	ev.Msg("arena done")
	if err != nil {
		os.Exit(1)
	}
}

func runServe(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFlag := fs.String("config", "", "YAML config file (empty = defaults)")
	addrFlag := fs.String("addr", "", "listen address (overrides the config)")
	verbose := fs.Bool("v", false, "debug logging")
	_ = fs.Parse(args)

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			setupLogging(false, zerolog.InfoLevel)
			log.Fatal().Err(err).Str("path", *configFlag).Msg("cannot load config")
		}
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}
	setupLogging(*verbose, cfg.Level())

	srv := server.New(log.Logger,
		server.WithMaxDepth(cfg.Server.MaxDepth),
		server.WithEngine(cfg.Engine),
		server.WithSearchOptions(cfg.Search.Options()...),
	)
	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
