package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deitrix/neon-tetris/arcade"
	"github.com/deitrix/neon-tetris/board"
	"github.com/deitrix/neon-tetris/cell"
	"github.com/deitrix/neon-tetris/config"
	"github.com/deitrix/neon-tetris/game"
	"github.com/deitrix/neon-tetris/sprite"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

const (
	// canvasWidth and canvasHeight are the logical screen size; ebiten scales it to the window
	// and letterboxes the rest
	canvasWidth  = 750
	canvasHeight = 800
	// cellSize is the size of each board cell in pixels
	cellSize = 32
	// previewSize is the size of each cell in the next-piece preview
	previewSize = 25
	boardX      = 30
	boardY      = (canvasHeight - board.Height*cellSize) / 2
	sidebarX    = boardX + board.Width*cellSize + 40
	sidebarW    = 250
	// repeatDelay is the number of ticks a key is held before it starts repeating
	repeatDelay = 12
	// repeatEvery is the number of ticks between repeats once a key is repeating
	repeatEvery = 3
)

var (
	boardFill = color.NRGBA{R: 10, G: 10, B: 20, A: 255}
	cellLine  = color.NRGBA{R: 20, G: 20, B: 40, A: 255}
	dim       = color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	silver    = color.NRGBA{R: 192, G: 192, B: 192, A: 255}
	bronze    = color.NRGBA{R: 205, G: 127, B: 50, A: 255}
)

// keyActions maps keys to arcade actions. Order matters when several keys land on one tick.
var keyActions = []struct {
	key    ebiten.Key
	action arcade.Action
	repeat bool
}{
	{ebiten.KeyEnter, arcade.Confirm, false},
	{ebiten.KeyNumpadEnter, arcade.Confirm, false},
	{ebiten.KeyBackspace, arcade.Backspace, true},
	{ebiten.KeyDelete, arcade.Forget, false},
	{ebiten.KeyP, arcade.Pause, false},
	{ebiten.KeyR, arcade.Restart, false},
	{ebiten.KeyQ, arcade.Quit, false},
	{ebiten.KeyLeft, arcade.Left, true},
	{ebiten.KeyRight, arcade.Right, true},
	{ebiten.KeyUp, arcade.Rotate, false},
	{ebiten.KeyDown, arcade.SoftDrop, true},
	{ebiten.KeySpace, arcade.HardDrop, false},
}

type Game struct {
	// Arcade owns the session and every screen transition
	Arcade *arcade.Arcade
	// Ticks counts updates and drives the pulsing text
	Ticks int
	// ShowDebug is a flag that indicates whether debug information should be shown
	ShowDebug bool

	chars []rune
}

func NewGame(a *arcade.Arcade) *Game {
	return &Game{Arcade: a}
}

func (g *Game) Update() error {
	g.Ticks++
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.ShowDebug = !g.ShowDebug
	}

	if g.Arcade.Screen() == arcade.Login {
		g.chars = ebiten.AppendInputChars(g.chars[:0])
		for _, r := range g.chars {
			g.Arcade.Type(r)
		}
	}
	for _, ka := range keyActions {
		if pressed(ka.key, ka.repeat) {
			g.Arcade.Handle(ka.action)
		}
	}
	g.Arcade.SetSoftDrop(ebiten.IsKeyPressed(ebiten.KeyDown))
	g.Arcade.Update(time.Now())
	return nil
}

// pressed reports a fresh press, or a held key's repeat when repeat is set.
func pressed(key ebiten.Key, repeat bool) bool {
	if inpututil.IsKeyJustPressed(key) {
		return true
	}
	return repeat && repeating(inpututil.KeyPressDuration(key))
}

func repeating(ticks int) bool {
	return ticks >= repeatDelay && (ticks-repeatDelay)%repeatEvery == 0
}

func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.Arcade.Snapshot()
	drawBackground(screen)
	g.drawBoard(screen, snap)
	g.drawSidebar(screen, snap)

	switch g.Arcade.Screen() {
	case arcade.Login:
		g.drawLogin(screen)
	case arcade.Controls:
		g.drawControls(screen)
	case arcade.Paused:
		g.drawMessage(screen, "PAUSED", fmt.Sprintf("SCORE: %d", snap.Score), "P RESUME   R RESTART   Q QUIT")
	case arcade.GameOver:
		g.drawMessage(screen, "GAME OVER", fmt.Sprintf("SCORE: %d", snap.Score), "R RESTART   Q QUIT")
	}
	g.drawDebug(screen)
}

func (g *Game) Layout(_, _ int) (screenWidth, screenHeight int) {
	return canvasWidth, canvasHeight
}

func drawBackground(screen *ebiten.Image) {
	screen.Fill(cell.Background)
	for x := 0; x < canvasWidth; x += 40 {
		vector.StrokeLine(screen, float32(x), 0, float32(x), canvasHeight, 1, cell.GridLine, false)
	}
	for y := 0; y < canvasHeight; y += 40 {
		vector.StrokeLine(screen, 0, float32(y), canvasWidth, float32(y), 1, cell.GridLine, false)
	}
}

func drawNeonBorder(screen *ebiten.Image, x, y, w, h float32) {
	glow := cell.Glow
	for i := float32(3); i >= 1; i-- {
		glow.A = uint8(60 / i)
		vector.StrokeRect(screen, x-i*2, y-i*2, w+i*4, h+i*4, 2, glow, true)
	}
	vector.StrokeRect(screen, x, y, w, h, 2, cell.Glow, true)
}

func drawPanel(screen *ebiten.Image, x, y, w, h int, title string) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), cell.Panel, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, cell.Glow, false)
	if title != "" {
		drawText(screen, sprite.Bold, title, 14, x+10, y+20, dim)
	}
}

func (g *Game) drawBoard(screen *ebiten.Image, snap game.Snapshot) {
	w, h := board.Width*cellSize, board.Height*cellSize
	drawNeonBorder(screen, boardX-5, boardY-5, float32(w+10), float32(h+10))
	vector.DrawFilledRect(screen, boardX, boardY, float32(w), float32(h), boardFill, false)

	for y, row := range snap.Board {
		for x, c := range row {
			px, py := boardX+x*cellSize, boardY+y*cellSize
			if tint, ok := cell.ForCell(c); ok {
				drawCell(screen, px, py, cellSize, tint, 255)
				continue
			}
			vector.StrokeRect(screen, float32(px), float32(py), cellSize, cellSize, 1, cellLine, false)
		}
	}

	if !livePiece(g.Arcade.Screen(), snap) {
		return
	}
	ghost := snap.Piece
	ghost.Row = snap.GhostRow
	renderGhost(screen, ghost, boardX, boardY)
	renderPiece(screen, snap.Piece, boardX, boardY, cellSize, 255)
}

// livePiece reports whether the falling piece and its ghost belong on screen. After game over the
// piece is the spawn that collided with the stack.
func livePiece(s arcade.Screen, snap game.Snapshot) bool {
	return (s == arcade.Playing || s == arcade.Paused) && !snap.Over
}

func (g *Game) drawSidebar(screen *ebiten.Image, snap game.Snapshot) {
	x, y := sidebarX, boardY

	drawPanel(screen, x, y, sidebarW, 50, "PILOT")
	name := g.Arcade.Player()
	if name == "" {
		name = "GUEST"
	}
	drawTextCentered(screen, sprite.Bold, name, 20, x+sidebarW/2, y+40, cell.Cyan.Base)
	y += 60

	drawPanel(screen, x, y, sidebarW, 80, "SCORE")
	drawTextCentered(screen, sprite.Bold, fmt.Sprint(snap.Score), 30, x+sidebarW/2, y+58, g.pulse(cell.Accent))
	drawText(screen, sprite.Regular, fmt.Sprintf("LINES %d", snap.Lines), 12, x+sidebarW-70, y+20, dim)
	y += 90

	drawPanel(screen, x, y, sidebarW, 120, "NEXT")
	next := game.Piece{Kind: snap.Next, Shape: snap.Next.Shape()}
	xoff := x + sidebarW/2 - next.Shape.Width*previewSize/2
	yoff := y + 70 - next.Shape.Height*previewSize/2
	renderPiece(screen, next, xoff, yoff, previewSize, 255)
	y += 130

	height := boardY + board.Height*cellSize - y
	drawPanel(screen, x, y, sidebarW, height, "TOP PILOTS")
	for i, e := range g.Arcade.Leaderboard() {
		rowY := y + 50 + i*30
		if i >= 10 || rowY > y+height-10 {
			break
		}
		c := rankColor(i)
		drawText(screen, sprite.Mono, fmt.Sprintf("%d.", i+1), 14, x+15, rowY, c)
		drawText(screen, sprite.Regular, truncate(e.Name, 12), 14, x+45, rowY, cell.Text)
		drawTextRight(screen, sprite.Mono, fmt.Sprint(e.Score), 14, x+sidebarW-15, rowY, c)
	}
}

// rankColor is gold, silver and bronze for the podium, grey below it.
func rankColor(i int) color.NRGBA {
	switch i {
	case 0:
		return cell.Accent
	case 1:
		return silver
	case 2:
		return bronze
	}
	return dim
}

// truncate shortens s to n runes, marking the cut with "..".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:max(0, n-2)]) + ".."
}

func drawOverlay(screen *ebiten.Image, alpha uint8) {
	vector.DrawFilledRect(screen, 0, 0, canvasWidth, canvasHeight, color.NRGBA{A: alpha}, false)
}

func (g *Game) drawLogin(screen *ebiten.Image) {
	drawOverlay(screen, 200)
	cx, cy := canvasWidth/2, canvasHeight/2
	drawNeonBorder(screen, float32(cx-200), float32(cy-100), 400, 220)
	vector.DrawFilledRect(screen, float32(cx-200), float32(cy-100), 400, 220, cell.Panel, false)

	drawTextCentered(screen, sprite.Bold, "WELCOME PLAYER", 32, cx, cy-45, g.pulse(cell.Cyan.Base))
	vector.DrawFilledRect(screen, float32(cx-150), float32(cy-10), 300, 50, color.White, false)
	cursor := ""
	if g.Ticks/30%2 == 0 {
		cursor = "_"
	}
	drawTextCentered(screen, sprite.Mono, g.Arcade.Input()+cursor, 28, cx, cy+25, color.Black)
	drawTextCentered(screen, sprite.Regular, "PRESS ENTER   DEL FORGET PILOT", 16, cx, cy+70, dim)
	if status := g.Arcade.Status(); status != "" {
		drawTextCentered(screen, sprite.Regular, status, 14, cx, cy+100, cell.Accent)
	}
}

func (g *Game) drawControls(screen *ebiten.Image) {
	drawOverlay(screen, 220)
	cx, cy := canvasWidth/2, canvasHeight/2
	drawNeonBorder(screen, float32(cx-300), float32(cy-200), 600, 400)
	vector.DrawFilledRect(screen, float32(cx-300), float32(cy-200), 600, 400, cell.Panel, false)

	drawTextCentered(screen, sprite.Bold, "HOW TO PLAY", 40, cx, cy-135, g.pulse(cell.Cyan.Base))
	if status := g.Arcade.Status(); status != "" {
		drawTextCentered(screen, sprite.Regular, status, 14, cx, cy-95, cell.Accent)
	}

	buttons := []struct {
		key, label string
		c          color.NRGBA
	}{
		{"UP", "Rotate", color.NRGBA{R: 100, G: 100, B: 255, A: 255}},
		{"< >", "Move", color.NRGBA{R: 100, G: 255, B: 100, A: 255}},
		{"SPC", "Drop", color.NRGBA{R: 255, G: 100, B: 100, A: 255}},
		{"P", "Pause", color.NRGBA{R: 255, G: 200, B: 50, A: 255}},
	}
	const gap = 130
	for i, b := range buttons {
		bx := float32(cx) + (float32(i)-1.5)*gap
		by := float32(cy - 30)
		vector.DrawFilledCircle(screen, bx, by, 35, b.c, true)
		vector.StrokeCircle(screen, bx, by, 35, 2, color.White, true)
		drawTextCentered(screen, sprite.Bold, b.key, 16, int(bx), int(by)+6, color.Black)
		drawTextCentered(screen, sprite.Regular, b.label, 18, int(bx), int(by)+65, cell.Text)
	}
	drawTextCentered(screen, sprite.Regular, "PRESS ENTER TO START GAME", 16, cx, cy+140, dim)
}

func (g *Game) drawMessage(screen *ebiten.Image, title, msg, sub string) {
	drawOverlay(screen, 180)
	cx, cy := canvasWidth/2, canvasHeight/2
	drawTextCentered(screen, sprite.Bold, title, 48, cx, cy-40, g.pulse(cell.Alert))
	drawTextCentered(screen, sprite.Regular, msg, 24, cx, cy+20, cell.Text)
	drawTextCentered(screen, sprite.Regular, sub, 16, cx, cy+60, silver)
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	if !g.ShowDebug {
		return
	}
	snap := g.Arcade.Snapshot()
	drawText(screen, sprite.Mono, strings.Join([]string{
		fmt.Sprintf("FPS: %0.2f", ebiten.ActualFPS()),
		fmt.Sprintf("TPS: %0.2f", ebiten.ActualTPS()),
		fmt.Sprintf("Screen: %s", g.Arcade.Screen()),
		fmt.Sprintf("Piece: %s at (%d,%d)", snap.Piece.Kind, snap.Piece.Col, snap.Piece.Row),
		fmt.Sprintf("Ghost Row: %d", snap.GhostRow),
		fmt.Sprintf("Over: %t", snap.Over),
	}, "\n"), 12, 8, 16, color.White)
}

// pulse fades c between 70% and 100% alpha.
func (g *Game) pulse(c color.NRGBA) color.NRGBA {
	c.A = uint8(255 * (0.85 + 0.15*math.Sin(float64(g.Ticks)/10)))
	return c
}

var fontFaceCache = make(map[*opentype.Font]map[float64]font.Face)

func face(f *opentype.Font, size float64) font.Face {
	if _, ok := fontFaceCache[f]; !ok {
		fontFaceCache[f] = make(map[float64]font.Face)
	}
	if _, ok := fontFaceCache[f][size]; !ok {
		var err error
		fontFaceCache[f][size], err = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create face")
		}
	}
	return fontFaceCache[f][size]
}

func drawText(img *ebiten.Image, f *opentype.Font, t string, size float64, x, y int, c color.Color) {
	text.Draw(img, t, face(f, size), x, y, c)
}

func drawTextCentered(img *ebiten.Image, f *opentype.Font, t string, size float64, cx, y int, c color.Color) {
	b := text.BoundString(face(f, size), t)
	text.Draw(img, t, face(f, size), cx-b.Dx()/2, y, c)
}

func drawTextRight(img *ebiten.Image, f *opentype.Font, t string, size float64, right, y int, c color.Color) {
	b := text.BoundString(face(f, size), t)
	text.Draw(img, t, face(f, size), right-b.Dx(), y, c)
}

func renderPiece(screen *ebiten.Image, p game.Piece, xoff, yoff, size int, opacity uint8) {
	tint := cell.Of(p.Kind)
	p.Each(func(col, row int) {
		drawCell(screen, col*size+xoff, row*size+yoff, size, tint, opacity)
	})
}

func renderGhost(screen *ebiten.Image, p game.Piece, xoff, yoff int) {
	tint := cell.Of(p.Kind)
	p.Each(func(col, row int) {
		drawSprite(screen, sprite.Ghost, col*cellSize+xoff, row*cellSize+yoff, cellSize, tint.Base, 120)
	})
}

// drawCell draws a bevelled block: the face in the base colour, then the lit and shaded edges.
func drawCell(screen *ebiten.Image, x, y, size int, tint cell.Tint, opacity uint8) {
	drawSprite(screen, sprite.Face, x, y, size, tint.Base, opacity)
	drawSprite(screen, sprite.Highlight, x, y, size, tint.Light, opacity)
	drawSprite(screen, sprite.Shadow, x, y, size, tint.Dark, opacity)
}

func drawSprite(screen, img *ebiten.Image, x, y, size int, c color.NRGBA, opacity uint8) {
	var op ebiten.DrawImageOptions
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(float32(opacity) / 255)
	op.GeoM.Scale(float64(size)/float64(img.Bounds().Dx()), float64(size)/float64(img.Bounds().Dy()))
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, &op)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.LoadGame()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := sprite.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load sprites")
	}

	a, release := arcade.FromConfig(cfg)
	defer release()

	ebiten.SetWindowTitle("Tetris: Neon Arcade")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(canvasWidth, canvasHeight)
	if err := ebiten.RunGame(NewGame(a)); err != nil {
		log.Error().Err(err).Msg("failed to run game")
	}
}
