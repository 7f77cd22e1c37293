package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/mindora-runner/internal/catalog"
	"github.com/vovakirdan/mindora-runner/internal/ledger"
)

// Leaderboard layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the stage list sidebar
	sidebarWidth       = 24
	maxEntries         = 100
)

// LeaderboardKeyMap defines the key bindings for the leaderboard.
type LeaderboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextStage key.Binding
	PrevStage key.Binding
	Refresh   key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LeaderboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextStage, k.PrevStage, k.Refresh, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LeaderboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextStage, k.PrevStage},
		{k.Refresh, k.Quit},
	}
}

// DefaultLeaderboardKeyMap returns default key bindings.
func DefaultLeaderboardKeyMap() LeaderboardKeyMap {
	return LeaderboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextStage: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next stage"),
		),
		PrevStage: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev stage"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// boardMsg carries a loaded leaderboard.
type boardMsg struct {
	stage   int
	entries []ledger.LeaderboardEntry
	err     error
}

// LeaderboardModel is the Bubble Tea model for the leaderboard screen.
// Tab 0 aggregates every stage.
type LeaderboardModel struct {
	svc         ledger.PlayerService
	tabs        []string
	cursor      int
	entries     []ledger.LeaderboardEntry
	err         error
	loading     bool
	table       table.Model
	help        help.Model
	keys        LeaderboardKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewLeaderboardModel creates a new leaderboard model.
func NewLeaderboardModel(svc ledger.PlayerService, cat *catalog.Catalog, width, height int) LeaderboardModel {
	tabs := []string{"All stages"}
	for _, s := range cat.Stages() {
		tabs = append(tabs, fmt.Sprintf("%d. %s", s.ID, s.Name))
	}

	m := LeaderboardModel{
		svc:         svc,
		tabs:        tabs,
		keys:        DefaultLeaderboardKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
		loading:     true,
	}
	m.table = m.createTable()
	return m
}

// createTable creates a new table with columns sized to the window.
func (m *LeaderboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Player", Width: 16},
		{Title: "Best", Width: 7},
		{Title: "Coins", Width: 6},
		{Title: "Games", Width: 6},
		{Title: "Total", Width: 7},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	// Give spare width to the player column.
	if spare := tableWidth - 59; spare > 0 {
		columns[1].Width += min(spare, 16)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m LeaderboardModel) load() tea.Cmd {
	stage := m.cursor
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		entries, err := svc.LoadLeaderboard(ctx, stage, maxEntries)
		return boardMsg{stage: stage, entries: entries, err: err}
	}
}

// updateTableRows updates the table with current entries.
func (m *LeaderboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", e.Rank),
			e.DisplayName(),
			fmt.Sprintf("%d", e.Score),
			fmt.Sprintf("%d", e.Coins),
			fmt.Sprintf("%d", e.GamesPlayed),
			fmt.Sprintf("%d", e.TotalCoins),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init loads the first tab.
func (m LeaderboardModel) Init() tea.Cmd {
	return m.load()
}

// Update handles messages for the leaderboard.
func (m LeaderboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextStage):
			m.cursor = (m.cursor + 1) % len(m.tabs)
			m.loading = true
			return m, m.load()

		case key.Matches(msg, m.keys.PrevStage):
			m.cursor = (m.cursor + len(m.tabs) - 1) % len(m.tabs)
			m.loading = true
			return m, m.load()

		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, m.load()

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case boardMsg:
		// A reply for a tab the user already left is stale.
		if msg.stage != m.cursor {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.entries = msg.entries
		m.updateTableRows()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the leaderboard.
func (m LeaderboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("LEADERBOARD - %s", m.tabs[m.cursor])
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the leaderboard with a stage list sidebar.
func (m LeaderboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Stages\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, name := range m.tabs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + truncate(name, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the current stage name above the table.
func (m LeaderboardModel) renderNarrowLayout() string {
	var b strings.Builder

	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	b.WriteString(centerText("< "+activeTabStyle.Render(m.tabs[m.cursor])+" >", m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))
	return b.String()
}

// renderTableContent renders the table or a placeholder.
func (m LeaderboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.loading && len(m.entries) == 0:
		return emptyStyle.Render("Loading...")
	case m.err != nil:
		return emptyStyle.Foreground(lipgloss.Color("9")).Render("Could not load leaderboard:\n" + m.err.Error())
	case len(m.entries) == 0:
		return emptyStyle.Render("No runs recorded yet.\nFinish a run to get on the board!")
	}
	return m.table.View()
}

// centerText centers every line of text within the given width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}

// RunLeaderboard runs the leaderboard screen until the user quits.
func RunLeaderboard(svc ledger.PlayerService, cat *catalog.Catalog, width, height int) error {
	p := tea.NewProgram(NewLeaderboardModel(svc, cat, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
