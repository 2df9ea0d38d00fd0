// Package tui renders the market pipeline as a terminal dashboard served
// over SSH.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketpulse/internal/domain"
	"marketpulse/internal/service"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Market is the read-only pipeline surface the dashboard needs.
type Market interface {
	Trending(ctx context.Context, forceRefresh bool) []domain.TickerSnapshot
	Summarize(ctx context.Context, forceRefresh bool) (domain.MarketSummary, error)
	Scan(ctx context.Context, forceRefresh bool) (domain.ScanResult, error)
}

type view int

const (
	viewTrending view = iota
	viewSummary
	viewScan
)

var viewNames = []string{"Trending", "Summary", "Scan"}

const defaultLoadTimeout = 30 * time.Second

type trendingMsg []domain.TickerSnapshot

type summaryMsg domain.MarketSummary

type scanMsg domain.ScanResult

type errMsg struct{ err error }

// Model is the bubbletea model for one SSH session.
type Model struct {
	market   Market
	username string
	timeout  time.Duration
	styles   styles

	active  view
	table   table.Model
	spinner spinner.Model
	loading bool
	header  string
	err     error
	updated time.Time
	width   int
	height  int
	now     func() time.Time
}

// NewModel returns a dashboard on the trending view. A nil renderer uses
// the lipgloss default.
func NewModel(market Market, username string, renderer *lipgloss.Renderer) *Model {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	st := newStyles(renderer)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.accent

	t := table.New(table.WithFocused(true), table.WithHeight(12))
	ts := table.DefaultStyles()
	ts.Header = st.tableHeader
	ts.Selected = st.selected
	t.SetStyles(ts)

	m := &Model{
		market:   market,
		username: username,
		timeout:  defaultLoadTimeout,
		styles:   st,
		table:    t,
		spinner:  sp,
		width:    80,
		height:   24,
		now:      time.Now,
	}
	m.table.SetColumns(columnsFor(viewTrending))
	m.SetSize(m.width, m.height)
	return m
}

// SetSize adapts the table to the terminal window.
func (m *Model) SetSize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(max(m.height-8, 3))
}

func (m *Model) Init() tea.Cmd {
	return m.reload(false)
}

func (m *Model) reload(force bool) tea.Cmd {
	m.loading = true
	m.err = nil
	return tea.Batch(m.spinner.Tick, m.load(m.active, force))
}

func (m *Model) load(v view, force bool) tea.Cmd {
	market, timeout := m.market, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		switch v {
		case viewSummary:
			s, err := market.Summarize(ctx, force)
			if err != nil {
				return errMsg{err}
			}
			return summaryMsg(s)
		case viewScan:
			r, err := market.Scan(ctx, force)
			if err != nil {
				return errMsg{err}
			}
			return scanMsg(r)
		default:
			return trendingMsg(market.Trending(ctx, force))
		}
	}
}

func (m *Model) switchTo(v view) tea.Cmd {
	if v == m.active && !m.loading {
		return nil
	}
	m.active = v
	m.header = ""
	m.table.SetRows(nil)
	m.table.SetColumns(columnsFor(v))
	m.table.SetCursor(0)
	return m.reload(false)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "right", "l":
			return m, m.switchTo((m.active + 1) % view(len(viewNames)))
		case "shift+tab", "left", "h":
			return m, m.switchTo((m.active + view(len(viewNames)) - 1) % view(len(viewNames)))
		case "1":
			return m, m.switchTo(viewTrending)
		case "2":
			return m, m.switchTo(viewSummary)
		case "3":
			return m, m.switchTo(viewScan)
		case "r":
			return m, m.reload(false)
		case "R":
			return m, m.reload(true)
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case trendingMsg:
		if m.active == viewTrending {
			m.table.SetRows(trendingRows(msg))
			m.header = fmt.Sprintf("%d tickers trending on Stocktwits", len(msg))
			m.loaded()
		}
		return m, nil

	case summaryMsg:
		if m.active == viewSummary {
			s := domain.MarketSummary(msg)
			m.table.SetRows(moverRows(s.TopMovers))
			m.header = fmt.Sprintf("Market sentiment %s  bullish %d  bearish %d  neutral %d",
				strings.ToUpper(string(s.MarketSentiment)), s.BullishCount, s.BearishCount, s.NeutralCount)
			m.loaded()
		}
		return m, nil

	case scanMsg:
		if m.active == viewScan {
			r := domain.ScanResult(msg)
			m.table.SetRows(scanRows(r))
			m.header = fmt.Sprintf("Scanned %d tickers  %d bullish  %d bearish setups",
				r.TotalScanned, len(r.Bullish), len(r.Bearish))
			m.loaded()
		}
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) loaded() {
	m.loading = false
	m.err = nil
	m.updated = m.now()
}

func (m *Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.title.Render("MarketPulse"))
	if m.username != "" {
		sb.WriteString(m.styles.muted.Render("  " + m.username))
	}
	sb.WriteString("\n")

	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if view(i) == m.active {
			tabs[i] = m.styles.activeTab.Render(label)
		} else {
			tabs[i] = m.styles.tab.Render(label)
		}
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	sb.WriteString("\n\n")

	switch {
	case m.loading:
		sb.WriteString(m.spinner.View() + " loading " + strings.ToLower(viewNames[m.active]) + "...")
	case m.err != nil:
		sb.WriteString(m.styles.err.Render(errorText(m.err)))
	default:
		sb.WriteString(m.styles.accent.Render(m.header))
	}
	sb.WriteString("\n")
	sb.WriteString(m.table.View())
	sb.WriteString("\n")

	footer := "tab/1-3 switch  r reload  R force refresh  q quit"
	if !m.updated.IsZero() {
		footer += "  updated " + m.updated.Format("15:04:05")
	}
	sb.WriteString(m.styles.muted.Render(footer))
	return sb.String()
}

func errorText(err error) string {
	if errors.Is(err, service.ErrNoTrendingData) {
		return "Unable to fetch trending data."
	}
	return "Error: " + err.Error()
}
