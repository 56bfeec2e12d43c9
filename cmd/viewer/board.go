package main

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"digdug/server/game"
	"digdug/server/models"
)

var (
	styleStone   = tcell.StyleDefault.Background(tcell.ColorSaddleBrown)
	stylePassage = tcell.StyleDefault.Background(tcell.ColorBlack)
	styleDigger  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true)
	stylePooka   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlack)
	styleFygar   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack)
	styleGhost   = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorSaddleBrown)
	styleFire    = tcell.StyleDefault.Foreground(tcell.ColorOrange).Background(tcell.ColorBlack)
	styleRock    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack)
	styleRope    = tcell.StyleDefault.Foreground(tcell.ColorAqua).Background(tcell.ColorBlack)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// board draws the last info and state received from the server
type board struct {
	screen tcell.Screen

	mu     sync.Mutex
	info   *game.Info
	state  *game.State
	dug    map[models.Position]bool
	status string
}

func newBoard(screen tcell.Screen) *board {
	return &board{screen: screen}
}

func (b *board) setInfo(info *game.Info) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.info = info
	if len(info.Highscores) > 0 {
		// game over, keep the last frame on screen
		b.status = fmt.Sprintf("GAME OVER %s: %d", info.Player, info.Score)
		return
	}
	b.state = nil
	b.dug = make(map[models.Position]bool)
}

func (b *board) setState(state *game.State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
	b.status = ""
	// states do not carry tiles, the digger's trail is replayed locally
	if b.dug != nil {
		b.dug[state.Digdug] = true
	}
}

func (b *board) setStatus(status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

// disconnected keeps whatever status is shown, the final scores in particular
func (b *board) disconnected() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status == "" {
		b.status = "disconnected, press Esc to quit"
	} else {
		b.status += " (disconnected)"
	}
}

func (b *board) put(p models.Position, r rune, style tcell.Style) {
	b.screen.SetContent(p.X, p.Y+1, r, nil, style)
}

func (b *board) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		b.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (b *board) draw() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.screen.Clear()
	if b.info == nil {
		b.text(0, 0, "waiting for a match...", styleHUD)
		b.text(0, 1, b.status, styleHUD)
		b.screen.Show()
		return
	}

	for x, column := range b.info.Map {
		for y, tile := range column {
			if tile == models.TileStone {
				b.put(models.Pos(x, y), ' ', styleStone)
			} else {
				b.put(models.Pos(x, y), ' ', stylePassage)
			}
		}
	}

	hud := fmt.Sprintf("level %d  score %d  lives %d", b.info.Level, b.info.Score, b.info.Lives)
	if s := b.state; s != nil {
		for p := range b.dug {
			b.put(p, ' ', stylePassage)
		}
		for _, r := range s.Rocks {
			b.put(r.Pos, 'O', styleRock)
		}
		if s.Rope != nil {
			for _, p := range s.Rope.Pos {
				b.put(p, ropeRune(s.Rope.Dir), styleRope)
			}
		}
		for _, e := range s.Enemies {
			for _, p := range e.Fire {
				b.put(p, '*', styleFire)
			}
			switch {
			case e.Traverse:
				b.put(e.Pos, 'o', styleGhost)
			case e.Name == "Fygar":
				b.put(e.Pos, 'F', styleFygar)
			default:
				b.put(e.Pos, 'P', stylePooka)
			}
		}
		b.put(s.Digdug, diggerRune, styleDigger)
		hud = fmt.Sprintf("%s  level %d  score %d  lives %d  step %d/%d", s.Player, s.Level, s.Score, s.Lives, s.Step, s.Timeout)
	}
	b.text(0, 0, hud, styleHUD)

	if b.status != "" {
		b.text(0, b.info.Size[1]+1, b.status, styleHUD)
		for i, h := range b.info.Highscores {
			b.text(0, b.info.Size[1]+2+i, fmt.Sprintf("%2d. %-16s %6d", i+1, h.Player, h.Score), styleHUD)
		}
	}
	b.screen.Show()
}

const diggerRune = '@'

func ropeRune(d models.Direction) rune {
	if d.Horizontal() {
		return '-'
	}
	return '|'
}
