// File: report/summary.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-label acceleration summary over discovered result files.

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/momentics/refbench/bench"
)

// Summary holds the series of two flavors of one label and their ratio.
type Summary struct {
	Label      string
	Base       string
	Candidate  string
	BaseSeries []bench.Point
	CandSeries []bench.Point
	Ratios     []bench.Ratio
}

// Series extracts the real time per thread count of flavor from doc.
func Series(doc Document, flavor string) []bench.Point {
	var out []bench.Point
	for _, bm := range doc.Benchmarks {
		if bm.Flavor() != flavor {
			continue
		}
		scale, ok := unitScale[bm.TimeUnit]
		if !ok {
			scale = time.Second
		}
		out = append(out, bench.Point{
			Threads: bm.Threads,
			Real:    time.Duration(bm.RealTime * float64(scale)),
		})
	}
	return out
}

// Summarize computes base/candidate acceleration for one labelled record.
func Summarize(label string, doc Document, base, candidate string) (Summary, error) {
	s := Summary{
		Label:      label,
		Base:       base,
		Candidate:  candidate,
		BaseSeries: Series(doc, base),
		CandSeries: Series(doc, candidate),
	}
	ratios, err := bench.Accelerate(s.BaseSeries, s.CandSeries, base, candidate)
	if err != nil {
		return s, fmt.Errorf("%s: %w", label, err)
	}
	s.Ratios = ratios
	return s, nil
}

// SummarizeDir loads every result file under dir. Files that cannot be read or
// lack one of the flavors are returned as errors alongside the good summaries.
func SummarizeDir(dir, base, candidate string) ([]Summary, []error, error) {
	files, err := Discover(dir)
	if err != nil {
		return nil, nil, err
	}
	var (
		out  []Summary
		errs []error
	)
	for _, f := range files {
		doc, err := LoadFile(f.Path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s, err := Summarize(f.Label, doc, base, candidate)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, s)
	}
	return out, errs, nil
}

// WriteSummary prints one table per label.
func WriteSummary(w io.Writer, sums []Summary, color bool) error {
	p := newPalette(color)
	title := lipgloss.NewStyle()
	if color {
		title = title.Bold(true).Foreground(colorName)
	}
	var b strings.Builder
	for i, s := range sums {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintln(&b, title.Render(fmt.Sprintf("%s: %s / %s", s.Label, s.Base, s.Candidate)))
		fmt.Fprintln(&b, p.header.Render(fmt.Sprintf("%8s %16s %16s %12s", "threads", s.Base, s.Candidate, "accel")))

		cand := make(map[int]time.Duration, len(s.CandSeries))
		for _, pt := range s.CandSeries {
			cand[pt.Threads] = pt.Real
		}
		base := make(map[int]time.Duration, len(s.BaseSeries))
		for _, pt := range s.BaseSeries {
			base[pt.Threads] = pt.Real
		}
		for _, r := range s.Ratios {
			fmt.Fprintf(&b, "%8d %16s %16s %s\n", r.Threads,
				base[r.Threads].Round(time.Microsecond),
				cand[r.Threads].Round(time.Microsecond),
				p.time.Render(fmt.Sprintf("%12.2fx", r.Value)))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
