// Package tui is the terminal front-end: a bubbletea program that drives a
// game.Session and renders what the session pushes through Port.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"TickerGuess/internal/chart"
	"TickerGuess/internal/game"
	"TickerGuess/internal/model"
)

const chartHeight = 10

// Session is the part of game.Session the model drives.
type Session interface {
	Start(ctx context.Context, raw string) error
	Predict(guess model.Direction) (game.Outcome, error)
	End()
}

type doneMsg struct {
	action string
	err    error
}

// Model is the bubbletea model.
type Model struct {
	ctx     context.Context
	session Session
	input   textinput.Model

	labels   []string
	values   []float64
	status   string
	errText  string
	ticker   string
	date     string
	price    string
	score    int
	controls bool
	canStart bool
}

// New creates a model with the ticker input focused.
func New(ctx context.Context, session Session) Model {
	ti := textinput.New()
	ti.Placeholder = "AAPL"
	ti.Prompt = "Ticker: "
	ti.CharLimit = 12
	ti.Focus()
	return Model{
		ctx:      ctx,
		session:  session,
		input:    ti,
		ticker:   game.Placeholder,
		date:     game.Placeholder,
		price:    game.Placeholder,
		canStart: true,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) startCmd(raw string) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{action: "start", err: m.session.Start(m.ctx, raw)}
	}
}

func (m Model) predictCmd(d model.Direction) tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.Predict(d)
		return doneMsg{action: "predict", err: err}
	}
}

func (m Model) endCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.End()
		return doneMsg{action: "end"}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case windowMsg:
		m.labels, m.values = msg.labels, msg.values
	case statusMsg:
		m.status = string(msg)
	case errorMsg:
		m.errText = string(msg)
	case positionMsg:
		m.ticker, m.date, m.price, m.score = msg.ticker, msg.date, msg.price, msg.score
	case controlsMsg:
		m.controls = bool(msg)
		if m.controls {
			m.input.Blur()
		} else {
			return m, m.input.Focus()
		}
	case startMsg:
		m.canStart = bool(msg)
	case doneMsg:
		if msg.err != nil {
			log.Printf("[WARN] %s: %v", msg.action, msg.err)
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.input.Focused() {
		switch msg.String() {
		case "enter":
			if !m.canStart {
				return m, nil
			}
			raw := m.input.Value()
			m.input.SetValue("")
			return m, m.startCmd(raw)
		case "esc":
			if m.controls {
				m.input.Blur()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "u", "k":
		if m.controls {
			return m, m.predictCmd(model.Up)
		}
	case "down", "d", "j":
		if m.controls {
			return m, m.predictCmd(model.Down)
		}
	case "esc", "e":
		if m.controls {
			return m, m.endCmd()
		}
	case "s", "/", "tab":
		return m, m.input.Focus()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TickerGuess"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s  %s  %s  %s\n",
		tickerStyle.Render(m.ticker),
		dimStyle.Render(m.date),
		priceStyle.Render("$"+m.price),
		scoreStyle.Render(fmt.Sprintf("score %d", m.score)),
	))

	if len(m.values) > 0 {
		b.WriteString(chartStyle.Render(chart.Render(m.labels, m.values, chartHeight)))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}
	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText) + "\n")
	}

	b.WriteString("\n")
	if m.canStart || m.input.Focused() {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(dimStyle.Render("Loading..."))
	}
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render(m.help()))
	return b.String()
}

func (m Model) help() string {
	switch {
	case m.input.Focused():
		return "enter start · ctrl+c quit"
	case m.controls:
		return "↑/u higher · ↓/d lower · esc end · s new ticker · q quit"
	default:
		return "s new ticker · q quit"
	}
}
