package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/refbench/bench"
	"github.com/momentics/refbench/control"
)

func sampleReport() *bench.Report {
	rep := &bench.Report{Label: "laptop", Workload: control.WorkloadMixed, Seed: 9, OpsPerThread: 1000}
	for fi, flavor := range []string{control.FlavorRef, control.FlavorShared} {
		for ti, threads := range []int{1, 2} {
			d := time.Duration(threads) * time.Millisecond
			if flavor == control.FlavorShared {
				d *= 3
			}
			rep.Measurements = append(rep.Measurements, bench.Measurement{
				Case:         bench.Case{Flavor: flavor, Threads: threads, Family: fi, Instance: ti},
				Workload:     control.WorkloadMixed,
				OpsPerThread: 1000,
				Real:         []time.Duration{d, d},
				CPU:          []time.Duration{2 * d, 2 * d},
			})
		}
	}
	return rep
}

func sampleDocument(unit string) Document {
	return NewDocument(sampleReport(), Options{
		TimeUnit:   unit,
		Executable: "concurrency_bench",
		Now:        func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
}

func TestNewDocument(t *testing.T) {
	doc := sampleDocument("ms")
	require.Len(t, doc.Benchmarks, 4)

	ctx := doc.Context
	assert.Equal(t, "2026-01-02T03:04:05Z", ctx.Date)
	assert.Equal(t, "laptop", ctx.Label)
	assert.Equal(t, control.WorkloadMixed, ctx.Workload)
	assert.EqualValues(t, 9, ctx.Seed)
	assert.NotEmpty(t, ctx.RunID)
	assert.Positive(t, ctx.NumCPUs)

	bm := doc.Benchmarks[3]
	assert.Equal(t, "shared_ptr/2/manual_time", bm.Name)
	assert.Equal(t, bm.Name, bm.RunName)
	assert.Equal(t, 1, bm.FamilyIndex)
	assert.Equal(t, 1, bm.PerFamilyInstanceIndex)
	assert.Equal(t, 2, bm.Iterations)
	assert.InDelta(t, 6.0, bm.RealTime, 1e-9)
	assert.InDelta(t, 12.0, bm.CPUTime, 1e-9)
	assert.Equal(t, "ms", bm.TimeUnit)
	assert.Equal(t, control.FlavorShared, bm.Flavor())
}

func TestNewDocumentFallsBackToSeconds(t *testing.T) {
	doc := sampleDocument("fortnight")
	assert.Equal(t, "s", doc.Benchmarks[0].TimeUnit)
	assert.InDelta(t, 0.001, doc.Benchmarks[0].RealTime, 1e-12)
}

func TestJSONFileRoundTrip(t *testing.T) {
	doc := sampleDocument("us")
	path := control.ResultFileName(filepath.Join(t.TempDir(), "nested"), "laptop")
	require.NoError(t, WriteFile(path, doc))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"per_family_instance_index"`)
	assert.Contains(t, string(raw), "manual_time")

	back, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestReadJSONMalformed(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{not json"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestWriteConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteConsole(&buf, sampleDocument("ms"), false))
	out := buf.String()
	assert.Contains(t, out, "Running concurrency_bench")
	assert.Contains(t, out, "Benchmark")
	assert.Contains(t, out, "ref_ptr/1/manual_time")
	assert.NotContains(t, out, "\x1b[", "no escapes without colour")
	assert.False(t, ColorEnabled(&buf))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "csv", sampleDocument("ms"), false))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"ref_ptr/2/manual_time", "2", "2", "4", "ms", "2"}, rows[2])
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", Document{}, false)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_result.json", "sub/a_result.json", "notes.json", "_result.json"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0o644))
	}
	files, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].Label)
	assert.Equal(t, filepath.Join(dir, "sub", "a_result.json"), files[0].Path)
	assert.Equal(t, "b", files[1].Label)
}

func TestSummarizeDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteFile(control.ResultFileName(dir, "laptop"), sampleDocument("ms")))

	partial := sampleReport()
	partial.Measurements = partial.Measurements[:2]
	require.NoError(t, WriteFile(control.ResultFileName(dir, "refonly"), NewDocument(partial, Options{})))

	sums, errs, err := SummarizeDir(dir, control.FlavorShared, control.FlavorRef)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], bench.ErrNoMeasurement)

	require.Len(t, sums, 1)
	s := sums[0]
	assert.Equal(t, "laptop", s.Label)
	require.Len(t, s.Ratios, 2)
	for _, r := range s.Ratios {
		assert.InDelta(t, 3.0, r.Value, 1e-9)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sums, false))
	assert.Contains(t, buf.String(), "laptop: shared_ptr / ref_ptr")
	assert.Contains(t, buf.String(), "3.00x")
}
