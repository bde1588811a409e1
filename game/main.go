package main

import (
	"flag"
	"fmt"
	"image/color"
	"math/rand"
	"sync"
	"time"

	"chessbot/bots"
	"chessbot/rules"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog/log"
)

const (
	squareSize   = 80
	statusHeight = 60
	screenWidth  = squareSize * 8
	screenHeight = squareSize*8 + statusHeight
)

var (
	lightSquare = color.RGBA{240, 217, 181, 255}
	darkSquare  = color.RGBA{181, 136, 99, 255}
	whitePiece  = color.RGBA{250, 250, 250, 255}
	blackPiece  = color.RGBA{30, 30, 30, 255}
)

// Game показывает партию двух ботов. Поиск идёт на копии доски в отдельной
// горутине, окно читает только отображаемую доску под мьютексом.
type Game struct {
	mu          sync.Mutex
	board       rules.Board
	white       bots.ChessBot
	black       bots.ChessBot
	factory     rules.Factory
	startFEN    string
	delay       time.Duration
	lastMove    string
	plies       int
	outcome     rules.Outcome
	err         error
	paused      bool
	botThinking bool
	generation  int

	squares [2]*ebiten.Image
	pieces  map[rules.Piece]*ebiten.Image
}

func NewGame(white, black bots.ChessBot, factory rules.Factory, fen string, delay time.Duration) (*Game, error) {
	g := &Game{
		white:    white,
		black:    black,
		factory:  factory,
		startFEN: fen,
		delay:    delay,
		pieces:   make(map[rules.Piece]*ebiten.Image),
	}
	if err := g.reset(); err != nil {
		return nil, err
	}
	g.loadImages()
	return g, nil
}

func (g *Game) loadImages() {
	for i, clr := range []color.Color{lightSquare, darkSquare} {
		img := ebiten.NewImage(squareSize, squareSize)
		img.Fill(clr)
		g.squares[i] = img
	}

	// Картинок нет, рисуем фишку с буквой фигуры.
	const tile = squareSize / 2
	for _, c := range []rules.Color{rules.White, rules.Black} {
		for k := rules.Pawn; k <= rules.King; k++ {
			p := rules.Piece{Kind: k, Color: c}
			img := ebiten.NewImage(tile, tile)
			if c == rules.White {
				img.Fill(whitePiece)
			} else {
				img.Fill(blackPiece)
			}
			ebitenutil.DebugPrintAt(img, string(p.Letter()), tile/2-3, tile/2-8)
			g.pieces[p] = img
		}
	}
}

// reset must be called with mu held or before the game loop starts.
func (g *Game) reset() error {
	b, err := g.factory(g.startFEN)
	if err != nil {
		return err
	}
	g.board = b
	g.lastMove = ""
	g.plies = 0
	g.outcome = b.Outcome()
	g.err = nil
	g.generation++
	return nil
}

func (g *Game) Update() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		if err := g.reset(); err != nil {
			return err
		}
	}

	if g.paused || g.botThinking || g.err != nil || g.outcome.Terminal() {
		return nil
	}
	player := g.white
	if g.board.Turn() == rules.Black {
		player = g.black
	}
	clone := g.board.(rules.Cloner).Clone()
	g.botThinking = true
	go g.think(player, clone, g.generation)
	return nil
}

// think runs outside the ebiten loop and publishes the move when done.
func (g *Game) think(player bots.ChessBot, b rules.Board, generation int) {
	start := time.Now()
	mv, err := player.BestMove(b)
	if wait := g.delay - time.Since(start); wait > 0 {
		time.Sleep(wait)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.botThinking = false
	if generation != g.generation {
		return // партия уже сброшена
	}
	if err != nil {
		g.err = err
		log.Error().Err(err).Str("bot", player.Name()).Msg("no move")
		return
	}
	g.board.Apply(mv)
	g.plies++
	g.lastMove = mv.String()
	g.outcome = g.board.Outcome()
	log.Debug().Str("bot", player.Name()).Str("move", g.lastMove).Msg("played")
	if g.outcome.Terminal() {
		log.Info().Str("outcome", g.outcome.String()).Int("plies", g.plies).Msg("game over")
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Рисуем доску
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*squareSize), float64(y*squareSize+statusHeight))
			screen.DrawImage(g.squares[(x+y)%2], op)

			p, ok := g.board.PieceAt(rules.NewSquare(x, 7-y))
			if !ok {
				continue
			}
			op = &ebiten.DrawImageOptions{}
			op.GeoM.Translate(
				float64(x*squareSize+squareSize/4),
				float64(y*squareSize+statusHeight+squareSize/4),
			)
			screen.DrawImage(g.pieces[p], op)
		}
	}

	// Статус игры
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s vs %s", g.white.Name(), g.black.Name()), 10, 8)
	status := fmt.Sprintf("ply %d  last %s  %s to move", g.plies, g.lastMove, g.board.Turn())
	switch {
	case g.err != nil:
		status = "error: " + g.err.Error()
	case g.outcome.Terminal():
		status = fmt.Sprintf("ply %d  result %s  (N for a new game)", g.plies, g.outcome)
	case g.paused:
		status += "  [paused]"
	case g.botThinking:
		status += "  thinking..."
	}
	ebitenutil.DebugPrintAt(screen, status, 10, 30)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	whiteKind := flag.String("white", bots.KindAlphaBeta, "white bot kind")
	whiteDepth := flag.Int("white-depth", 2, "white search depth")
	blackKind := flag.String("black", bots.KindMinimax, "black bot kind")
	blackDepth := flag.Int("black-depth", 2, "black search depth")
	fen := flag.String("fen", rules.StartFEN, "start position")
	engine := flag.String("engine", rules.EngineDragon, "rules engine: dragon or notnil")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	delay := flag.Duration("delay", 500*time.Millisecond, "minimum time per move")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	white, err := bots.New(*whiteKind, *whiteDepth, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("white bot")
	}
	black, err := bots.New(*blackKind, *blackDepth, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("black bot")
	}
	factory, err := rules.FactoryFor(*engine)
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}
	game, err := NewGame(white, black, factory, *fen, *delay)
	if err != nil {
		log.Fatal().Err(err).Msg("start position")
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("chessbot: " + white.Name() + " vs " + black.Name())
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("window")
	}
}
