// File: report/csv.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"name", "iterations", "real_time", "cpu_time", "time_unit", "threads"}

// WriteCSV emits the google-benchmark csv layout.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, bm := range doc.Benchmarks {
		rec := []string{
			bm.Name,
			strconv.Itoa(bm.Iterations),
			strconv.FormatFloat(bm.RealTime, 'g', -1, 64),
			strconv.FormatFloat(bm.CPUTime, 'g', -1, 64),
			bm.TimeUnit,
			strconv.Itoa(bm.Threads),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format: json, console or csv.
func Write(w io.Writer, format string, doc Document, color bool) error {
	switch format {
	case "json":
		return WriteJSON(w, doc)
	case "console":
		return WriteConsole(w, doc, color)
	case "csv":
		return WriteCSV(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
