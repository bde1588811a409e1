package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"chessbot/bots"
	"chessbot/rules"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Server answers move and search requests. Every request gets its own board
// and random source.
type Server struct {
	logger        zerolog.Logger
	maxDepth      int
	engine        string
	searchOptions []bots.Option
}

type Option func(s *Server)

// WithMaxDepth caps the depth a request may ask for.
func WithMaxDepth(depth int) Option {
	return func(s *Server) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// WithEngine selects the default rules engine.
func WithEngine(name string) Option {
	return func(s *Server) {
		s.engine = name
	}
}

// WithSearchOptions are applied to every searcher.
func WithSearchOptions(options ...bots.Option) Option {
	return func(s *Server) {
		s.searchOptions = append(s.searchOptions, options...)
	}
}

func New(logger zerolog.Logger, options ...Option) *Server {
	s := &Server{
		logger:   logger,
		maxDepth: 5,
		engine:   rules.EngineDragon,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/move", s.handleMove)
		r.Post("/search", s.handleSearch)
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

type moveRequest struct {
	FEN     string `json:"fen"`
	Color   string `json:"color,omitempty"`
	Depth   int    `json:"depth"`
	Variant string `json:"variant"`
	Seed    *int64 `json:"seed,omitempty"`
	Engine  string `json:"engine,omitempty"`
}

type moveResponse struct {
	Move  string      `json:"move"`
	Score *bots.Score `json:"score,omitempty"`
}

type searchResponse struct {
	Score bots.Score `json:"score"`
	Move  string     `json:"move,omitempty"`
}

// request is a decoded and validated moveRequest.
type request struct {
	board    rules.Board
	color    rules.Color
	depth    int
	searcher *bots.Searcher
	rng      *rand.Rand
}

func (s *Server) decode(r *http.Request) (request, error) {
	var payload moveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return request{}, errors.Wrap(err, "invalid payload")
	}
	if payload.Depth > s.maxDepth {
		return request{}, errors.Errorf("depth %d exceeds the limit of %d", payload.Depth, s.maxDepth)
	}
	variant := bots.AlphaBeta
	if payload.Variant != "" {
		v, err := bots.ParseVariant(payload.Variant)
		if err != nil {
			return request{}, err
		}
		variant = v
	}
	engine := payload.Engine
	if engine == "" {
		engine = s.engine
	}
	factory, err := rules.FactoryFor(engine)
	if err != nil {
		return request{}, err
	}
	fen := payload.FEN
	if fen == "" {
		fen = rules.StartFEN
	}
	b, err := factory(fen)
	if err != nil {
		return request{}, err
	}
	color := b.Turn()
	if payload.Color != "" {
		if color, err = rules.ParseColor(payload.Color); err != nil {
			return request{}, err
		}
	}

	seed := time.Now().UnixNano()
	if payload.Seed != nil {
		seed = *payload.Seed
	}
	rng := rand.New(rand.NewSource(seed))
	options := append([]bots.Option{bots.WithRand(rng), bots.WithLogger(s.logger)}, s.searchOptions...)
	return request{
		board:    b,
		color:    color,
		depth:    payload.Depth,
		searcher: bots.NewSearcher(variant, options...),
		rng:      rng,
	}, nil
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var resp moveResponse
	if req.depth > 0 {
		res := req.searcher.Search(req.board, req.depth, -bots.Infinity, bots.Infinity, req.color)
		if res.HasMove {
			resp.Move = res.Move.String()
			resp.Score = &res.Score
		}
	}
	if resp.Move == "" {
		m, err := bots.CapturePreference(req.board, req.rng)
		if err != nil {
			writeError(w, statusOf(err), err)
			return
		}
		resp.Move = m.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := s.decode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	res := req.searcher.Search(req.board, req.depth, -bots.Infinity, bots.Infinity, req.color)
	resp := searchResponse{Score: res.Score}
	if res.HasMove {
		resp.Move = res.Move.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

func statusOf(err error) int {
	if errors.Is(err, bots.ErrEmptyMoveSet) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
