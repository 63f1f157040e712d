// Package render prints simulation results to a terminal.
package render

import (
	"fmt"
	"hash/fnv"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	sim "github.com/Hayser8/SistosSheduling"
)

var (
	accent  = lipgloss.Color("#FF5F87")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	warning = lipgloss.Color("#FFAF00")
	white   = lipgloss.Color("#FFFFFF")

	// one color per pid, picked by hash so a pid keeps its color across runs
	palette = []lipgloss.Color{"#5FAFFF", "#AF87FF", "#5FD7AF", "#FFD75F", "#FF875F", "#87D7FF", "#D7AFFF", "#AFD75F"}
)

// Printer writes styled output to w. Styles are bound to w, so a non-terminal writer
// gets plain text.
type Printer struct {
	w io.Writer
	r *lipgloss.Renderer

	title    lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	accessed lipgloss.Style
	waiting  lipgloss.Style
}

func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:        w,
		r:        r,
		title:    r.NewStyle().Bold(true).Foreground(white),
		accent:   r.NewStyle().Foreground(accent).Bold(true),
		muted:    r.NewStyle().Foreground(muted),
		accessed: r.NewStyle().Foreground(success).Bold(true),
		waiting:  r.NewStyle().Foreground(warning),
	}
}

func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) pidStyle(pid string) lipgloss.Style {
	h := fnv.New32a()
	h.Write([]byte(pid))
	return p.r.NewStyle().Foreground(palette[h.Sum32()%uint32(len(palette))]).Bold(true)
}

func (p *Printer) Title(s string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.accent.Render("▸ "+strings.ToUpper(s)))
}

func (p *Printer) Note(s string) {
	fmt.Fprintln(p.w, p.muted.Render("  "+s))
}

// Field prints an aligned "label: value" line.
func (p *Printer) Field(label string, value any) {
	fmt.Fprintf(p.w, "  %s %s\n", p.muted.Render(fmt.Sprintf("%-22s", label+":")), p.title.Render(fmt.Sprint(value)))
}

func (p *Printer) Error(err error) {
	fmt.Fprintln(p.w, p.accent.Render("✗ "+err.Error()))
}

// label renders one timeline entry; sync outcomes are colored by status.
func (p *Printer) label(e sim.Timed) string {
	if ae, ok := e.(sim.ActionEvent); ok {
		style := p.accessed
		if ae.Status == sim.Waiting {
			style = p.waiting
		}
		return p.pidStyle(ae.PID).Render(ae.PID) +
			p.muted.Render(fmt.Sprintf("(%d→%d,%s,", ae.Start, ae.End, ae.Resource)) +
			style.Render(ae.Status.String()) + p.muted.Render(")")
	}
	start, end := e.Span()
	return p.pidStyle(e.Owner()).Render(e.Owner()) + p.muted.Render(fmt.Sprintf("(%d→%d)", start, end))
}

// CycleLine formats the events that start at cycle.
func CycleLine[T sim.Timed](p *Printer, cycle int, evs []T) string {
	head := p.title.Render(fmt.Sprintf("[ Cycle %3d ]", cycle))
	if len(evs) == 0 {
		return head + " " + p.muted.Render("(nothing starts)")
	}
	labels := make([]string, len(evs))
	for i, e := range evs {
		labels[i] = p.label(e)
	}
	return head + " ── " + strings.Join(labels, ", ")
}

// OnCycle returns an engine callback that prints one line per cycle.
func OnCycle[T sim.Timed](p *Printer) sim.CycleFunc[T] {
	return func(cycle int, evs []T) {
		fmt.Fprintln(p.w, CycleLine(p, cycle, evs))
	}
}
