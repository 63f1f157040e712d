package render

import (
	"fmt"
	"strconv"
	"strings"

	sim "github.com/Hayser8/SistosSheduling"
)

const (
	CELL_BUSY = "█"
	CELL_IDLE = "·"
	MAX_WIDTH = 120 // cycles drawn per strip before it is cut
)

// Gantt draws one row per pid, in order of first appearance, with a cell per cycle.
func Gantt[T sim.Timed](p *Printer, events []T, maxCycle int) string {
	if len(events) == 0 {
		return p.muted.Render("  (empty timeline)")
	}
	width := min(maxCycle, MAX_WIDTH)

	order := make([]string, 0)
	rows := make(map[string][]bool)
	for _, e := range events {
		pid := e.Owner()
		if _, ok := rows[pid]; !ok {
			order = append(order, pid)
			rows[pid] = make([]bool, width)
		}
		start, end := e.Span()
		for c := start; c < end && c < width; c++ {
			rows[pid][c] = true
		}
	}

	labelWidth := 0
	for _, pid := range order {
		labelWidth = max(labelWidth, len(pid))
	}

	var sb strings.Builder
	for _, pid := range order {
		style := p.pidStyle(pid)
		sb.WriteString("  " + style.Render(fmt.Sprintf("%-*s", labelWidth, pid)) + " │")
		for _, busy := range rows[pid] {
			if busy {
				sb.WriteString(style.Render(CELL_BUSY))
			} else {
				sb.WriteString(p.muted.Render(CELL_IDLE))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("  " + strings.Repeat(" ", labelWidth) + " └" + axis(width))
	if maxCycle > width {
		sb.WriteString(p.muted.Render(fmt.Sprintf(" … %d", maxCycle)))
	}
	return sb.String()
}

// a tick every 5 cycles, labelled every 10
func axis(width int) string {
	var sb strings.Builder
	for c := 0; c < width; {
		if c%10 == 0 {
			label := strconv.Itoa(c)
			if c+len(label) <= width {
				sb.WriteString(label)
				c += len(label)
				continue
			}
		}
		if c%5 == 0 {
			sb.WriteString("┴")
		} else {
			sb.WriteString("─")
		}
		c++
	}
	return sb.String()
}
