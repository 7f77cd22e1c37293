package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/mindora-runner/internal/audio"
	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/config"
	"github.com/vovakirdan/mindora-runner/internal/core"
	"github.com/vovakirdan/mindora-runner/internal/games/runner"
	"github.com/vovakirdan/mindora-runner/internal/ledger"
)

// Options wires a Model to its collaborators. Everything except Runtime is
// optional; without a dispatcher the game runs offline.
type Options struct {
	Runtime core.RuntimeConfig
	Address string
	Catalog *catalog.Catalog
	Ledger  *ledger.Dispatcher
	Mixer   *audio.Mixer
	Logger  *log.Logger
}

// Model is the Bubble Tea model that schedules the runner. A tick chain is
// alive only while the game is Running; gen tells chains apart so a stale
// tick never advances the game.
type Model struct {
	game    *runner.Game
	screen  *core.Screen
	config  core.RuntimeConfig
	keys    KeyMap
	help    help.Model
	input   core.InputFrame
	address string
	cat     *catalog.Catalog
	ledger  *ledger.Dispatcher
	mixer   *audio.Mixer
	sound   audio.Emitter
	logger  *log.Logger

	gen       int
	ticking   bool
	quizGen   int
	quizClock bool

	status     ledger.Status
	statusNote string
	claimStage int // Last completed stage, 0 if none
	quitting   bool
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game *runner.Game, opts Options) Model {
	cfg := opts.Runtime
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	var sound audio.Emitter = audio.Nop{}
	if opts.Mixer != nil {
		sound = opts.Mixer
	}

	return Model{
		game:    game,
		screen:  core.NewScreen(cfg.ScreenW, cfg.ScreenH-1),
		config:  cfg,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		input:   core.NewInputFrame(),
		address: opts.Address,
		cat:     opts.Catalog,
		ledger:  opts.Ledger,
		mixer:   opts.Mixer,
		sound:   sound,
		logger:  logger,
	}
}

// Init loads the player record, if any, and starts listening for ledger
// results. No tick runs until the player starts a stage.
func (m Model) Init() tea.Cmd {
	if m.ledger == nil {
		return nil
	}
	if m.address != "" {
		m.ledger.LoadPlayer(m.address)
	}
	return waitForLedger(m.ledger.Results())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		m.resizeScreen()
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case QuizTickMsg:
		return m.handleQuizTick(msg)

	case LedgerMsg:
		return m.handleLedger(ledger.Result(msg))
	}

	return m, nil
}

// handleKey applies commands at once while no tick is scheduled and
// buffers them for the next tick otherwise.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		m.resizeScreen()
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionMute:
		if m.mixer != nil {
			muted := m.mixer.ToggleMute()
			m.logger.Debug("sound toggled", "muted", muted)
		}
		return m, nil
	case core.ActionMint:
		m.retryMint()
		return m, nil
	case core.ActionBack:
		if m.game.Phase() == runner.PhaseRunning {
			action = core.ActionPause
		} else {
			return m, nil
		}
	}

	if m.ticking {
		m.input.Set(action)
		return m, nil
	}

	res := m.game.Apply(action)
	m.handleEvents(res.Events)
	return m, m.schedule()
}

// handleTick runs one simulation step for the live chain.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || !m.ticking {
		return m, nil
	}

	res := m.game.Step(m.input)
	m.input.Clear()
	m.handleEvents(res.Events)

	if res.Snapshot.Phase == runner.PhaseRunning {
		return m, tea.Batch(m.schedule(), tickCmd(m.config.TickRate, m.gen))
	}
	return m, m.schedule()
}

// handleQuizTick counts down the open question.
func (m Model) handleQuizTick(msg QuizTickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.quizGen || !m.quizClock {
		return m, nil
	}

	res := m.game.QuizSecond()
	m.handleEvents(res.Events)

	if res.Snapshot.Phase == runner.PhaseQuizPending {
		return m, tea.Batch(m.schedule(), quizTickCmd(m.quizGen))
	}
	return m, m.schedule()
}

// schedule starts or stops the tick chain and quiz clock to match the phase.
func (m *Model) schedule() tea.Cmd {
	var cmds []tea.Cmd
	phase := m.game.Phase()

	if phase == runner.PhaseRunning {
		if !m.ticking {
			m.gen++
			m.ticking = true
			cmds = append(cmds, tickCmd(m.config.TickRate, m.gen))
		}
	} else {
		m.ticking = false
		// Commands buffered for a tick that will not come are dropped.
		m.input.Clear()
	}

	if phase == runner.PhaseQuizPending {
		if !m.quizClock {
			m.quizGen++
			m.quizClock = true
			cmds = append(cmds, quizTickCmd(m.quizGen))
		}
	} else {
		m.quizClock = false
	}

	return tea.Batch(cmds...)
}

var eventCues = map[runner.EventKind]audio.Cue{
	runner.EventStart:         audio.CueStart,
	runner.EventResume:        audio.CueButton,
	runner.EventPause:         audio.CueButton,
	runner.EventJump:          audio.CueJump,
	runner.EventCoin:          audio.CueCoin,
	runner.EventObstacle:      audio.CueObstacle,
	runner.EventQuizOpen:      audio.CueQuiz,
	runner.EventAnswerCorrect: audio.CueAnswerCorrect,
	runner.EventAnswerWrong:   audio.CueAnswerWrong,
	runner.EventQuizTimeout:   audio.CueAnswerWrong,
	runner.EventComplete:      audio.CueComplete,
	runner.EventRestart:       audio.CueButton,
	runner.EventStageSelect:   audio.CueButton,
}

func (m *Model) handleEvents(events []runner.Event) {
	for _, e := range events {
		if cue, ok := eventCues[e.Kind]; ok {
			m.sound.Play(cue)
		}
		switch e.Kind {
		case runner.EventRestart, runner.EventStageSelect, runner.EventStart:
			if !m.status.Pending() {
				m.status, m.statusNote = ledger.StatusIdle, ""
			}
		case runner.EventSessionEnd:
			if e.Session != nil {
				m.endSession(*e.Session)
			}
		}
	}
}

// endSession reports a finished run to the ledger. Local progress stands
// whatever the ledger answers.
func (m *Model) endSession(s runner.SessionSummary) {
	m.logger.Info("Run finished", "stage", s.Stage, "score", s.Score, "coins", s.Coins,
		"completed", s.Completed, "reason", s.Reason.String())
	if s.Completed {
		m.claimStage = s.Stage
	}
	if m.ledger == nil || m.address == "" {
		return
	}

	result := ledger.SessionResult{
		Address:          m.address,
		Stage:            s.Stage,
		Score:            s.Score,
		Coins:            s.Coins,
		QuestionsCorrect: s.QuestionsCorrect,
		StageCompleted:   s.Completed,
	}
	var mint *ledger.MintRequest
	if s.Completed && m.cat != nil {
		if req, err := ledger.NewMintRequest(m.cat, m.address, s.Stage); err == nil {
			mint = &req
		}
	}
	m.status = m.ledger.Save(result, mint)
	m.statusNote = ""
}

// retryMint claims the reward of the last completed stage again.
func (m *Model) retryMint() {
	if m.ledger == nil || m.address == "" || m.cat == nil || m.claimStage == 0 || m.status.Pending() {
		return
	}
	req, err := ledger.NewMintRequest(m.cat, m.address, m.claimStage)
	if err != nil {
		return
	}
	m.status = m.ledger.Mint(req)
	m.statusNote = ""
}

func (m Model) handleLedger(r ledger.Result) (tea.Model, tea.Cmd) {
	next := waitForLedger(m.ledger.Results())

	switch r.Status {
	case ledger.StatusPlayerLoaded:
		if r.Player != nil {
			m.game.Unlock(r.Player.HighestCompleted())
			m.logger.Info("Player loaded", "address", r.Player.Address,
				"current_stage", r.Player.CurrentStage, "tokens", r.Player.Tokens.String())
		}
		return m, next
	case ledger.StatusPlayerFailed, ledger.StatusLeaderboard, ledger.StatusLeaderboardFailed:
		return m, next
	}

	m.status = r.Status
	m.statusNote = ""
	switch {
	case errors.Is(r.Err, ledger.ErrAlreadyClaimed):
		m.statusNote = "already claimed"
	case errors.Is(r.Err, ledger.ErrStageNotCompleted):
		m.statusNote = "not completed"
	case r.Status == ledger.StatusSaved && r.Receipt.TransactionID != "":
		m.statusNote = shortTx(r.Receipt.TransactionID)
	}
	return m, next
}

func shortTx(id string) string {
	if len(id) > 8 {
		return "tx " + id[:8]
	}
	return "tx " + id
}

// resizeScreen keeps the game screen above the help line.
func (m *Model) resizeScreen() {
	h := m.config.ScreenH - lipgloss.Height(m.help.View(m.keys))
	m.screen.Resize(m.config.ScreenW, max(h, 1))
}

// statusLine is the ledger and sound state shown on the HUD row.
func (m Model) statusLine() (string, core.Color) {
	text := ""
	if m.status != ledger.StatusIdle {
		text = "ledger: " + m.status.String()
		if m.statusNote != "" {
			text += " (" + m.statusNote + ")"
		}
	} else if m.ledger == nil {
		text = "offline"
	}
	if m.mixer != nil && m.mixer.Muted() {
		if text != "" {
			text += " | "
		}
		text += "muted"
	}

	color := core.ColorMuted
	switch {
	case m.status.Failed():
		color = core.ColorBad
	case m.status == ledger.StatusSaved || m.status == ledger.StatusMinted:
		color = core.ColorGood
	case m.status.Pending():
		color = core.ColorHighlight
	}
	return text, color
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := config.UserPath("screenshots")
	if dir == "" {
		return
	}
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
	}
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if text, color := m.statusLine(); text != "" {
		drawStatus(m.screen, text, color)
	}
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program with the given model.
func Run(game *runner.Game, opts Options, programOpts ...tea.ProgramOption) error {
	model := NewModel(game, opts)

	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, programOpts...)...)
	_, err := p.Run()
	return err
}
