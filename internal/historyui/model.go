// Package historyui provides the Bubble Tea playback history viewer.
package historyui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/asciiplay/internal/model"
	"github.com/verte-zerg/asciiplay/internal/stats"
	"github.com/verte-zerg/asciiplay/internal/store"
)

const (
	tabSessions = iota
	tabOverview
)

const trendWindow = 5

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

var modeCycle = []string{"", model.ModePlay, model.ModeRender}

// Loader fetches the sessions shown by the viewer.
type Loader func(ctx context.Context, cfg model.HistoryConfig) (stats.Report, error)

// StoreLoader reads reports from st.
func StoreLoader(st *store.Store) Loader {
	return func(ctx context.Context, cfg model.HistoryConfig) (stats.Report, error) {
		return stats.BuildReport(ctx, st, cfg)
	}
}

// Model implements the Bubble Tea history UI.
type Model struct {
	load Loader
	cfg  model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	sessions  table.Model
	overview  viewport.Model

	width  int
	height int
}

// NewModel constructs a history UI model and loads the first report.
func NewModel(load Loader, cfg model.HistoryConfig) *Model {
	m := &Model{
		load:     load,
		cfg:      cfg,
		tabs:     []string{"Sessions", "Overview"},
		sessions: newSessionTable(),
		overview: viewport.New(0, 0),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderOverview()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "m":
			m.cfg.Mode = nextMode(m.cfg.Mode)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		case "g", "home":
			if m.activeTab == tabSessions {
				m.sessions.GotoTop()
			} else {
				m.overview.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSessions {
				m.sessions.GotoBottom()
			} else {
				m.overview.GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabSessions {
				m.sessions, cmd = m.sessions.Update(msg)
			} else {
				m.overview, cmd = m.overview.Update(msg)
			}
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.sessions.SetWidth(m.width)
	m.sessions.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabSessions {
		m.sessions.Focus()
	} else {
		m.sessions.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := m.load(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		return
	}
	m.errMsg = ""
	m.report = report
	m.sessions.SetRows(sessionRows(report.Sessions))
	if len(report.Sessions) > 0 {
		m.sessions.GotoBottom()
	}
	m.renderOverview()
}

func (m *Model) renderOverview() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.overview.SetContent(renderOverview(m.report, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	return padLines(m.renderTabs(), m.width) + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	mode := m.cfg.Mode
	if mode == "" {
		mode = "any"
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = fmt.Sprintf("%d", m.cfg.Last)
	}
	summary := fmt.Sprintf("Filter: mode=%s  last=%s  sessions=%d", mode, last, len(m.report.Sessions))
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Mode: m  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	if m.activeTab == tabSessions {
		if len(m.report.Sessions) == 0 {
			return "No sessions found."
		}
		return tableMutedStyle.Render(m.sessions.View())
	}
	return m.overview.View()
}

func renderOverview(report stats.Report, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	fps, decodeUs, renderUs, _ := stats.SessionMetrics(report.Totals)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(report.Sessions))),
		metricCard("Frames", fmt.Sprintf("%d", report.Totals.Frames)),
		metricCard("Late", fmt.Sprintf("%d", report.Totals.LateFrames)),
		metricCard("Avg FPS", fmt.Sprintf("%.1f", fps)),
		metricCard("Avg decode", fmt.Sprintf("%.0fus", decodeUs)),
		metricCard("Avg render", fmt.Sprintf("%.0fus", renderUs)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	return summary + "\n\n" + renderTrend(report.Sessions, width)
}

func renderTrend(sessions []model.SessionAggregate, width int) string {
	values := make([]float64, 0, len(sessions))
	for _, s := range sessions {
		fps, _, _, _ := stats.SessionMetrics(s.SessionStats)
		values = append(values, fps)
	}
	label := "FPS trend: "
	cols := maxInt(10, width-len(label))
	smoothed := stats.MovingAverage(values, trendWindow)
	return cardTitleStyle.Render(label) + stats.Sparkline(stats.Downsample(smoothed, cols))
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func newSessionTable() table.Model {
	headers, _ := stats.HistoryRows(nil)
	widths := []int{5, 17, 7, 32, 9, 4, 7, 5, 8}
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: h, Width: maxInt(widths[i], lipgloss.Width(h))}
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	t.SetStyles(sessionTableStyles())
	return t
}

func sessionRows(sessions []model.SessionAggregate) []table.Row {
	_, cells := stats.HistoryRows(sessions)
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return rows
}

func sessionTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func nextMode(mode string) string {
	for i, m := range modeCycle {
		if m == mode {
			return modeCycle[(i+1)%len(modeCycle)]
		}
	}
	return modeCycle[0]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
