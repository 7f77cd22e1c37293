package runner

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/core"
)

// Glyphs for rendering
const (
	PlayerHead  = 'o'
	PlayerChar  = '@'
	CoinChar    = '●'
	SpikeChar   = '▲'
	PitChar     = '▽'
	BlockChar   = '█'
	WallChar    = '▓'
	InertChar   = '░'
	GrassChar   = '▀'
	GroundChar  = '▒'
	BarFull     = '█'
	BarEmpty    = '░'
	barWidth    = 20
	hudRows     = 1
	footerRows  = 1
	entityDepth = 30 // World units between an entity's y and its drawn base row
)

// viewport maps world units onto the playfield rows of a screen.
type viewport struct {
	w, h   float64 // world size
	cols   int
	top    int
	rows   int
	floorY float64
}

func (v viewport) col(x float64) int {
	return int(x / v.w * float64(v.cols))
}

func (v viewport) row(y float64) int {
	return v.top + int(y/v.h*float64(v.rows))
}

func (v viewport) floorRow() int {
	return v.row(v.floorY)
}

// Render draws the last snapshot: HUD on the first row, the playfield, a
// hint line at the bottom and any overlay for the current phase.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	s := g.snap
	if dst.Width() < 20 || dst.Height() < 8 {
		dst.DrawText(0, 0, "window too small", core.ColorBad)
		return
	}

	v := viewport{
		w:      g.cfg.World.Width,
		h:      g.cfg.World.Height,
		cols:   dst.Width(),
		top:    hudRows,
		rows:   dst.Height() - hudRows - footerRows,
		floorY: g.cfg.World.FloorY,
	}

	drawGround(dst, v)
	for _, w := range s.Walls {
		drawWall(dst, v, w)
	}
	for _, o := range s.Obstacles {
		drawObstacle(dst, v, o)
	}
	for _, c := range s.Coins {
		if !c.Collected {
			dst.Set(v.col(c.X), v.row(c.Y+entityDepth), CoinChar, core.ColorCoin)
		}
	}
	px, py := v.col(s.Body.X), v.row(s.Body.Y+entityDepth)
	dst.Set(px, py-1, PlayerHead, core.ColorPlayer)
	dst.Set(px, py, PlayerChar, core.ColorPlayer)

	drawHUD(dst, s)
	dst.DrawText(1, dst.Height()-1, hint(s), core.ColorMuted)

	switch s.Phase {
	case PhaseNotStarted:
		title := fmt.Sprintf("Stage %d/%d: %s", s.Stage.ID, s.Stage.Count, s.Stage.Name)
		sub := "Enter to start"
		if s.Unlocked > 1 {
			sub += fmt.Sprintf(" | ←/→ stage (1-%d unlocked)", s.Unlocked)
		}
		drawCenteredMessage(dst, title, sub, core.ColorHighlight)
	case PhasePaused:
		drawCenteredMessage(dst, "PAUSED", "P or Enter to resume | R to restart", core.ColorHighlight)
	case PhaseQuizPending:
		if s.Quiz != nil {
			drawQuiz(dst, *s.Quiz)
		}
	case PhaseStopped:
		drawCenteredMessage(dst, "RUN OVER: "+strings.ToUpper(s.Reason.String()),
			fmt.Sprintf("Score: %d | R to restart", s.Progress.Score), core.ColorBad)
	case PhaseCompleted:
		sub := fmt.Sprintf("Score: %d | +%s tokens, %q badge", s.Progress.Score, s.Stage.Reward.Tokens, s.Stage.Reward.Badge)
		drawCenteredMessage(dst, fmt.Sprintf("STAGE %d COMPLETE", s.Stage.ID), sub, core.ColorGood)
	}
}

func drawGround(dst *core.Screen, v viewport) {
	fr := v.floorRow()
	dst.DrawHLine(0, fr, v.cols, GrassChar, core.ColorGrass)
	for y := fr + 1; y < v.top+v.rows; y++ {
		dst.DrawHLine(0, y, v.cols, GroundChar, core.ColorGround)
	}
}

func drawWall(dst *core.Screen, v viewport, w Wall) {
	ch, color := WallChar, core.ColorWall
	if w.Answered {
		ch, color = InertChar, core.ColorGood
	} else if w.Failed {
		ch, color = InertChar, core.ColorBad
	}
	x := v.col(w.X)
	top, bottom := v.row(w.Y), v.floorRow()
	for y := top; y < bottom; y++ {
		dst.Set(x, y, ch, color)
		dst.Set(x+1, y, ch, color)
	}
	if w.Open() {
		mid := (top + bottom) / 2
		dst.Set(x, mid, '?', core.ColorHighlight)
	}
}

func drawObstacle(dst *core.Screen, v viewport, o Obstacle) {
	x := v.col(o.X)
	y := v.row(o.Y + entityDepth)
	switch o.Kind {
	case catalog.KindSpike:
		dst.Set(x, y, SpikeChar, core.ColorSpike)
	case catalog.KindPit:
		dst.Set(x, v.floorRow(), PitChar, core.ColorPit)
		dst.Set(x+1, v.floorRow(), PitChar, core.ColorPit)
	default:
		dst.Set(x, y, BlockChar, core.ColorBlock)
		dst.Set(x, y-1, BlockChar, core.ColorBlock)
	}
}

func drawHUD(dst *core.Screen, s Snapshot) {
	filled := core.Clamp(int(s.Fraction()*barWidth), 0, barWidth)
	bar := strings.Repeat(string(BarFull), filled) + strings.Repeat(string(BarEmpty), barWidth-filled)
	left := fmt.Sprintf(" Stage %d | Score %d | Coins %d | Q %d ", s.Stage.ID, s.Progress.Score, s.Progress.Coins, s.Progress.QuestionsCorrect)
	dst.DrawText(0, 0, left, core.ColorHUD)
	x := len([]rune(left))
	dst.DrawText(x, 0, bar, core.ColorGood)
	dst.DrawText(x+barWidth+1, 0, fmt.Sprintf("%3.0f%%", s.Fraction()*100), core.ColorHUD)
}

func hint(s Snapshot) string {
	switch s.Phase {
	case PhaseRunning:
		return "Space jump | P pause | R restart | Q quit"
	case PhaseQuizPending:
		return "1-4 answer | Q quit"
	case PhaseCompleted:
		if s.Stage.ID < s.Stage.Count {
			return "N next stage | M claim rewards | R replay | Q quit"
		}
		return "M claim rewards | R replay | Q quit"
	default:
		return "Enter start | Q quit"
	}
}

func drawQuiz(dst *core.Screen, q QuizView) {
	lines := []string{q.Question.Prompt, ""}
	for i, opt := range q.Question.Options {
		lines = append(lines, fmt.Sprintf("%d) %s", i+1, opt))
	}

	title := " Knowledge Wall "
	timer := fmt.Sprintf("Time left: %ds", q.Remaining)

	w := 0
	for _, l := range append([]string{title, timer}, lines...) {
		if n := len([]rune(l)); n > w {
			w = n
		}
	}
	w += 4
	if w > dst.Width() {
		w = dst.Width()
	}
	h := len(lines) + 4
	box := dst.Bounds().Centered(w, h)

	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorHighlight)
	dst.DrawText(box.X+2, box.Y, title, core.ColorHighlight)
	for i, l := range lines {
		dst.DrawText(box.X+2, box.Y+1+i, l, core.ColorDefault)
	}

	color := core.ColorHUD
	if q.Remaining <= 5 {
		color = core.ColorBad
	}
	dst.DrawText(box.X+2, box.Bottom()-2, timer, color)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string, color core.Color) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	box := dst.Bounds().Centered(boxW, 5)

	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, color)
	dst.DrawTextCentered(box, box.Y+1, title, color)
	dst.DrawTextCentered(box, box.Y+3, subtitle, core.ColorDefault)
}
