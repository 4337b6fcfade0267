package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type windowMsg struct {
	labels []string
	values []float64
}

type statusMsg string

type errorMsg string

type positionMsg struct {
	ticker, date, price string
	score               int
}

type controlsMsg bool

type startMsg bool

// Port forwards game.Port calls into a running program as messages. It must
// only be driven from commands, never from inside Update, since Send blocks
// until the event loop receives the message.
type Port struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

// NewPort returns a detached port; calls are dropped until Attach.
func NewPort() *Port { return &Port{} }

// Attach routes subsequent calls to send, usually (*tea.Program).Send.
func (p *Port) Attach(send func(tea.Msg)) {
	p.mu.Lock()
	p.send = send
	p.mu.Unlock()
}

func (p *Port) emit(msg tea.Msg) {
	p.mu.Lock()
	send := p.send
	p.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (p *Port) ShowWindow(labels []string, values []float64) {
	p.emit(windowMsg{labels: labels, values: values})
}

func (p *Port) SetStatus(text string) { p.emit(statusMsg(text)) }

func (p *Port) SetError(text string) { p.emit(errorMsg(text)) }

func (p *Port) SetScoreAndPosition(ticker, date, price string, score int) {
	p.emit(positionMsg{ticker: ticker, date: date, price: price, score: score})
}

func (p *Port) SetControlsEnabled(enabled bool) { p.emit(controlsMsg(enabled)) }

func (p *Port) SetStartEnabled(enabled bool) { p.emit(startMsg(enabled)) }
