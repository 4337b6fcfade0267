package game

import "strings"

// fakePort records every call for assertions.
type fakePort struct {
	labels          []string
	values          []float64
	windows         int
	status          string
	statuses        []string
	err             string
	ticker          string
	date            string
	price           string
	score           int
	controlsEnabled bool
	startEnabled    bool
	startToggles    []bool
}

func (p *fakePort) ShowWindow(labels []string, values []float64) {
	p.labels, p.values = labels, values
	p.windows++
}

func (p *fakePort) SetStatus(text string) {
	p.status = text
	p.statuses = append(p.statuses, text)
}

func (p *fakePort) SetError(text string) { p.err = text }

func (p *fakePort) SetScoreAndPosition(ticker, date, price string, score int) {
	p.ticker, p.date, p.price, p.score = ticker, date, price, score
}

func (p *fakePort) SetControlsEnabled(enabled bool) { p.controlsEnabled = enabled }

func (p *fakePort) SetStartEnabled(enabled bool) {
	p.startEnabled = enabled
	p.startToggles = append(p.startToggles, enabled)
}

func (p *fakePort) statusContains(sub string) bool {
	for _, s := range p.statuses {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
