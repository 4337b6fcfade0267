package notifier

import (
	"fmt"
	"html"
	"strings"

	"TickerGuess/internal/chart"
	"TickerGuess/internal/game"
)

const boardChartHeight = 6

// FormatBoard formats a board snapshot into a Telegram HTML message.
func FormatBoard(s *Snapshot) string {
	var b strings.Builder

	if s.Ticker != "" && s.Ticker != game.Placeholder {
		b.WriteString(fmt.Sprintf("📈 <b>%s</b> | %s | $%s | score %d\n",
			html.EscapeString(s.Ticker), s.Date, s.Price, s.Score))
	}
	if len(s.Values) > 0 {
		b.WriteString(chart.Sparkline(s.Values) + "\n")
		b.WriteString("<pre>")
		b.WriteString(html.EscapeString(chart.Render(s.Labels, s.Values, boardChartHeight)))
		b.WriteString("</pre>\n")
	}
	if s.Status != "" {
		b.WriteString(html.EscapeString(s.Status) + "\n")
	}
	if s.Error != "" {
		b.WriteString(fmt.Sprintf("❌ %s\n", html.EscapeString(s.Error)))
	}
	if s.Controls {
		b.WriteString("\n/up · /down · /end")
	} else {
		b.WriteString("\n/start TICKER")
	}
	return b.String()
}
