// Package chart draws the visible price window as plain text.
package chart

import (
	"fmt"
	"math"
	"strings"
)

const (
	pointMark  = "●"
	columnStep = 4
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Rows maps each value to a row in [0, height), 0 being the bottom.
// A flat window sits in the middle row.
func Rows(values []float64, height int) []int {
	if height < 1 {
		height = 1
	}
	lo, hi := bounds(values)
	rows := make([]int, len(values))
	for i, v := range values {
		if hi == lo {
			rows[i] = (height - 1) / 2
			continue
		}
		rows[i] = int(math.Round((v - lo) / (hi - lo) * float64(height-1)))
	}
	return rows
}

func bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Render draws values as a dot plot with a price axis on the left and the
// first and last labels underneath.
func Render(labels []string, values []float64, height int) string {
	if len(values) == 0 {
		return ""
	}
	if height < 2 {
		height = 2
	}
	lo, hi := bounds(values)
	rows := Rows(values, height)
	axisWidth := len(fmt.Sprintf("%.2f", hi))
	if w := len(fmt.Sprintf("%.2f", lo)); w > axisWidth {
		axisWidth = w
	}

	var b strings.Builder
	for r := height - 1; r >= 0; r-- {
		axis := strings.Repeat(" ", axisWidth)
		switch r {
		case height - 1:
			axis = fmt.Sprintf("%*.2f", axisWidth, hi)
		case 0:
			axis = fmt.Sprintf("%*.2f", axisWidth, lo)
		}
		b.WriteString(axis)
		b.WriteString(" │")
		for _, row := range rows {
			cell := strings.Repeat(" ", columnStep)
			if row == r {
				cell = strings.Repeat(" ", columnStep-1) + pointMark
			}
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(" ", axisWidth))
	b.WriteString(" └")
	b.WriteString(strings.Repeat("─", columnStep*len(values)))
	b.WriteString("\n")

	if len(labels) > 0 {
		first, last := labels[0], labels[len(labels)-1]
		pad := columnStep*len(values) - len(first) - len(last)
		b.WriteString(strings.Repeat(" ", axisWidth+2))
		if len(labels) > 1 {
			b.WriteString(first + strings.Repeat(" ", max(pad, 2)) + last)
		} else {
			b.WriteString(last)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Sparkline renders values as a single line of block characters.
func Sparkline(values []float64) string {
	rows := Rows(values, len(sparkLevels))
	out := make([]rune, len(rows))
	for i, r := range rows {
		out[i] = sparkLevels[r]
	}
	return string(out)
}
