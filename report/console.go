// File: report/console.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Console table in the layout of the google-benchmark console reporter.

package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorHeader = lipgloss.Color("#20B9B4")
	colorName   = lipgloss.Color("#2CD7C7")
	colorTime   = lipgloss.Color("#F4D03F")
	colorMuted  = lipgloss.Color("#2C4A54")
)

type palette struct {
	header, name, time, muted lipgloss.Style
}

func newPalette(color bool) palette {
	if !color {
		plain := lipgloss.NewStyle()
		return palette{plain, plain, plain, plain}
	}
	return palette{
		header: lipgloss.NewStyle().Bold(true).Foreground(colorHeader),
		name:   lipgloss.NewStyle().Foreground(colorName),
		time:   lipgloss.NewStyle().Foreground(colorTime),
		muted:  lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// ColorEnabled reports whether w is a terminal worth colouring.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteConsole prints the context line and one row per benchmark.
func WriteConsole(w io.Writer, doc Document, color bool) error {
	p := newPalette(color)
	ctx := doc.Context
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", p.muted.Render(ctx.Date))
	fmt.Fprintf(&b, "Running %s\n", ctx.Executable)
	fmt.Fprintf(&b, "Run on (%d X %.0f MHz CPU s)\n", ctx.NumCPUs, ctx.MHzPerCPU)
	if ctx.CPUScalingEnabled {
		fmt.Fprintf(&b, "%s\n", p.muted.Render("***WARNING*** CPU scaling is enabled, the benchmark real time measurements may be noisy."))
	}

	width := len("Benchmark")
	for _, bm := range doc.Benchmarks {
		width = max(width, len(bm.Name))
	}
	rule := strings.Repeat("-", width+48)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, p.header.Render(fmt.Sprintf("%-*s %15s %15s %12s", width, "Benchmark", "Time", "CPU", "Iterations")))
	fmt.Fprintln(&b, rule)
	for _, bm := range doc.Benchmarks {
		fmt.Fprintf(&b, "%s %s %s %12d\n",
			p.name.Render(fmt.Sprintf("%-*s", width, bm.Name)),
			p.time.Render(fmt.Sprintf("%12.4g %2s", bm.RealTime, bm.TimeUnit)),
			p.time.Render(fmt.Sprintf("%12.4g %2s", bm.CPUTime, bm.TimeUnit)),
			bm.Iterations)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
