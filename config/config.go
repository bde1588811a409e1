package config

import (
	"os"
	"runtime"
	"strings"

	"chessbot/arena"
	"chessbot/bots"
	"chessbot/rules"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Config is the YAML file read by the arena and serve commands.
type Config struct {
	Seed     int64  `yaml:"seed"`
	Workers  int    `yaml:"workers"`
	Engine   string `yaml:"engine"`
	MaxPlies int    `yaml:"max_plies"`
	LogLevel string `yaml:"log_level"`

	Search Search      `yaml:"search"`
	Server Server      `yaml:"server"`
	Jobs   []JobConfig `yaml:"jobs"`
}

// Search holds settings shared by every search bot.
type Search struct {
	// MateAccounting is "double" or "single".
	MateAccounting string `yaml:"mate_accounting"`
	// SharedWindow keeps the alpha-beta window fixed across plies.
	SharedWindow bool `yaml:"shared_window"`
}

type Server struct {
	Addr     string `yaml:"addr"`
	MaxDepth int    `yaml:"max_depth"`
}

// JobConfig expands to Count identical games, or, with all_first_moves,
// to Count games after each forced first move.
type JobConfig struct {
	Name          string        `yaml:"name"`
	White         arena.BotSpec `yaml:"white"`
	Black         arena.BotSpec `yaml:"black"`
	Position      string        `yaml:"position"`
	Opening       []string      `yaml:"opening"`
	AllFirstMoves bool          `yaml:"all_first_moves"`
	Count         int           `yaml:"count"`
}

// Default mirrors the standard experiment: the two search variants against
// each other from both sides, and a greedy against random baseline.
func Default() Config {
	c := Config{
		Seed:     1,
		Workers:  runtime.NumCPU(),
		Engine:   rules.EngineDragon,
		MaxPlies: 300,
		LogLevel: "info",
		Search:   Search{MateAccounting: "double"},
		Server:   Server{Addr: ":8080", MaxDepth: 5},
	}
	grid := append(arena.Grid("", 1), arena.GreedyVsRandom(rules.White, "", 1)...)
	for _, j := range grid {
		c.Jobs = append(c.Jobs, JobConfig{Name: j.Name, White: j.White, Black: j.Black, Count: 2})
	}
	return c
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: read %s", path)
	}
	c, err := Parse(data, Default())
	if err != nil {
		return Config{}, errors.Wrap(err, path)
	}
	return c, nil
}

// Parse decodes YAML over base and validates the result. Keys present in
// the data win, zero values included; a jobs list replaces base's jobs.
func Parse(data []byte, base Config) (Config, error) {
	c := base
	c.Jobs = nil
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	if c.Jobs == nil {
		c.Jobs = base.Jobs
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every problem found, each wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	var errs error
	bad := func(format string, args ...interface{}) {
		errs = multierror.Append(errs, errors.Wrapf(ErrInvalidConfig, format, args...))
	}

	if c.Workers < 1 {
		bad("workers must be positive, got %d", c.Workers)
	}
	if _, err := rules.FactoryFor(c.Engine); err != nil {
		bad("engine %q", c.Engine)
	}
	if c.MaxPlies < 0 {
		bad("max_plies must not be negative, got %d", c.MaxPlies)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		bad("log_level %q", c.LogLevel)
	}
	if _, err := c.Search.mateAccounting(); err != nil {
		bad("search.mate_accounting %q", c.Search.MateAccounting)
	}
	if c.Server.MaxDepth < 1 {
		bad("server.max_depth must be positive, got %d", c.Server.MaxDepth)
	}
	for i, j := range c.Jobs {
		for _, side := range []arena.BotSpec{j.White, j.Black} {
			if _, err := bots.New(side.Kind, side.Depth, nil); err != nil {
				bad("jobs[%d]: bot kind %q", i, side.Kind)
			}
			if side.Depth < 0 {
				bad("jobs[%d]: negative depth %d", i, side.Depth)
			}
		}
		if j.Count < 1 {
			bad("jobs[%d]: count must be positive, got %d", i, j.Count)
		}
		if _, err := arena.ResolvePosition(j.Position); err != nil {
			bad("jobs[%d]: position %q", i, j.Position)
		}
		if j.AllFirstMoves && (j.Position != "" || len(j.Opening) > 0) {
			bad("jobs[%d]: all_first_moves needs the standard start and no opening", i)
		}
		for _, text := range j.Opening {
			if _, err := rules.ParseMove(text); err != nil {
				bad("jobs[%d]: opening move %q", i, text)
			}
		}
	}
	return errs
}

func (s Search) mateAccounting() (bots.MateAccounting, error) {
	switch strings.ToLower(s.MateAccounting) {
	case "", "double":
		return bots.MateDoubleCount, nil
	case "single":
		return bots.MateSingleCount, nil
	}
	return 0, errors.Errorf("config: unknown mate accounting %q", s.MateAccounting)
}

// Options turns the search section into searcher options.
func (s Search) Options() []bots.Option {
	mode, _ := s.mateAccounting()
	options := []bots.Option{bots.WithMateAccounting(mode)}
	if s.SharedWindow {
		options = append(options, bots.WithSharedWindow())
	}
	return options
}

// Level is the parsed log level, info when unset.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Rules returns the board factory of the configured engine.
func (c Config) Rules() (rules.Factory, error) {
	return rules.FactoryFor(c.Engine)
}

// ArenaJobs expands the job list.
func (c Config) ArenaJobs() ([]arena.Job, error) {
	var jobs []arena.Job
	for i, j := range c.Jobs {
		fen, err := arena.ResolvePosition(j.Position)
		if err != nil {
			return nil, errors.Wrapf(err, "jobs[%d]", i)
		}
		name := j.Name
		if name == "" {
			name = j.White.String() + " vs " + j.Black.String()
		}
		base := arena.Job{
			Name:     name,
			White:    j.White,
			Black:    j.Black,
			StartFEN: fen,
			Opening:  j.Opening,
		}
		batch := make([]arena.Job, 0, j.Count)
		for n := 0; n < j.Count; n++ {
			batch = append(batch, base)
		}
		if !j.AllFirstMoves {
			jobs = append(jobs, batch...)
			continue
		}
		for _, first := range arena.FirstMoves {
			jobs = append(jobs, arena.WithOpening(batch, first)...)
		}
	}
	return jobs, nil
}
