package game

// Port is the outward side of the game: chart, status lines and controls.
// Calls are fire-and-forget; the engine never reads UI state back.
type Port interface {
	ShowWindow(labels []string, values []float64)
	SetStatus(text string)
	SetError(text string)
	SetScoreAndPosition(ticker, date, price string, score int)
	SetControlsEnabled(enabled bool)
	SetStartEnabled(enabled bool)
}
