package snake

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-snake/internal/core"
)

// cellWidth is the number of terminal columns per board cell, which keeps
// cells roughly square in a typical terminal font.
const cellWidth = 2

// hudHeight is the number of rows above the board frame.
const hudHeight = 1

// ScreenSize returns the screen dimensions needed to render an n×n board.
func ScreenSize(n int) (w, h int) {
	return n*cellWidth + 2, n + 2 + hudHeight + 1
}

var foodGlyphs = map[FoodType]struct {
	text  string
	color core.Color
}{
	FoodRegular:     {"<>", core.ColorFoodRegular},
	FoodDoubleScore: {"x2", core.ColorFoodDoubleScore},
	FoodSpeedBoost:  {">>", core.ColorFoodSpeedBoost},
	FoodSpeedUp:     {"++", core.ColorFoodSpeedUp},
	FoodSlowDown:    {"--", core.ColorFoodSlowDown},
}

// Render draws the snapshot onto dst. dst should be at least ScreenSize(s.BoardSize).
func Render(dst *core.Screen, s Snapshot) {
	dst.Clear()
	renderHUD(dst, s)

	n := s.BoardSize
	dst.DrawBox(0, hudHeight, n*cellWidth+2, n+2, core.ColorBorder)

	for _, o := range s.Obstacles {
		drawCell(dst, o, "##", core.ColorObstacle)
	}
	if s.HasFood {
		g := foodGlyphs[s.Food.Type]
		drawCell(dst, s.Food.Pos, g.text, g.color)
	}
	renderSnake(dst, s)

	switch {
	case s.ShowInstructions:
		renderInstructions(dst, s)
	case s.State == StateGameOver && !s.DeathAnimationActive:
		renderOverlay(dst, s, "GAME OVER", fmt.Sprintf("Score: %d", s.Score))
	case s.State == StatePaused:
		renderOverlay(dst, s, "PAUSED", "Press P to play")
	}

	renderStatus(dst, s)
}

func drawCell(dst *core.Screen, p GridPosition, glyph string, c core.Color) {
	dst.DrawText(1+p.X*cellWidth, hudHeight+1+p.Y, glyph, c)
}

func renderSnake(dst *core.Screen, s Snapshot) {
	dead := s.State == StateGameOver
	// Draw tail to head so the head wins if segments ever overlap.
	for i := len(s.Snake) - 1; i >= 0; i-- {
		glyph, color := "▓▓", core.ColorSnakeBody
		if i == 0 {
			glyph, color = "██", core.ColorSnakeHead
		}
		if dead {
			color = core.ColorSnakeDead
			if s.DeathAnimationActive {
				glyph = "××"
			}
		}
		drawCell(dst, s.Snake[i], glyph, color)
	}
}

func scoreLabel(s Snapshot) string {
	return fmt.Sprintf(" Score: %d", s.Score)
}

func speedLabel(s Snapshot) string {
	return fmt.Sprintf("Speed: %.1fx ", s.SpeedFactor)
}

func badgeLabel(s Snapshot) string {
	var badges string
	if s.DoubleScoreActive {
		badges += " x2"
	}
	if s.PulsatingSpeedActive {
		badges += " >>"
	}
	return badges
}

// hudLayout decides what fits on the top row next to the score.
// Whatever does not fit moves to the status row below the board.
func hudLayout(dst *core.Screen, s Snapshot) (speedTop, badgesTop bool) {
	score, speed, badges := len(scoreLabel(s)), len(speedLabel(s)), len(badgeLabel(s))
	speedTop = score+1+speed <= dst.Width()

	right := dst.Width()
	if speedTop {
		right -= speed
	}
	x := (dst.Width() - badges) / 2
	badgesTop = badges == 0 || x >= score && x+badges <= right
	return speedTop, badgesTop
}

func renderHUD(dst *core.Screen, s Snapshot) {
	speedTop, badgesTop := hudLayout(dst, s)

	dst.DrawText(0, 0, scoreLabel(s), core.ColorHUD)
	if speedTop {
		speed := speedLabel(s)
		dst.DrawText(dst.Width()-len(speed), 0, speed, core.ColorHUD)
	}
	if badges := badgeLabel(s); badges != "" && badgesTop {
		dst.DrawTextCentered(0, badges, core.ColorHighlight)
	}
}

func renderStatus(dst *core.Screen, s Snapshot) {
	y := hudHeight + s.BoardSize + 2
	speedTop, badgesTop := hudLayout(dst, s)

	if !speedTop || !badgesTop {
		var badges string
		if !badgesTop {
			badges = badgeLabel(s)
		}
		line := badges
		if !speedTop {
			line = " " + strings.TrimSpace(speedLabel(s)) + badges
			if len(line) > dst.Width() {
				line = fmt.Sprintf(" %.1fx%s", s.SpeedFactor, badges)
			}
		}
		dst.DrawText(0, y, line, core.ColorHUD)
		return
	}

	var hint string
	switch s.State {
	case StateRunning:
		hint = "arrows/wasd move · p pause · esc back"
	case StatePaused:
		hint = "p play · r restart · ? help · esc back"
	case StateGameOver:
		if !s.DeathAnimationActive {
			hint = "enter save score · r restart · esc back"
		}
	}
	dst.DrawTextCentered(y, hint, core.ColorDim)
}

func renderOverlay(dst *core.Screen, s Snapshot, title, subtitle string) {
	boardH := s.BoardSize + 2
	mid := hudHeight + boardH/2
	dst.DrawTextCentered(mid-1, " "+title+" ", core.ColorHighlight)
	dst.DrawTextCentered(mid+1, " "+subtitle+" ", core.ColorHUD)
}

var instructionLines = []string{
	"HOW TO PLAY",
	"",
	"Steer with arrows or WASD",
	"Walls wrap; ## and tail kill",
	"",
	"<> +1 point",
	"x2 double score for a while",
	">> temporary speed boost",
	"++ faster for good",
	"-- slower for good",
	"",
	"Enter to continue",
}

func renderInstructions(dst *core.Screen, s Snapshot) {
	w := dst.Width() - 4
	h := len(instructionLines) + 2
	top := hudHeight + max((s.BoardSize+2-h)/2, 0)
	dst.FillRect(2, top, w, h, ' ', core.ColorDefault)
	dst.DrawBox(2, top, w, h, core.ColorBorder)
	for i, line := range instructionLines {
		c := core.ColorHUD
		if i == 0 {
			c = core.ColorHighlight
		}
		dst.DrawTextCentered(top+1+i, line, c)
	}
}
