// File: report/record.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package report

import (
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/momentics/refbench/bench"
	"github.com/momentics/refbench/control"
)

// Context describes the machine and the run a record was produced on.
type Context struct {
	Date              string  `json:"date"`
	HostName          string  `json:"host_name"`
	Executable        string  `json:"executable"`
	NumCPUs           int     `json:"num_cpus"`
	MHzPerCPU         float64 `json:"mhz_per_cpu"`
	CPUScalingEnabled bool    `json:"cpu_scaling_enabled"`
	LibraryBuildType  string  `json:"library_build_type"`

	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
	GOMAXPROCS int    `json:"gomaxprocs"`
	NUMANodes  int    `json:"numa_nodes"`
	RunID      string `json:"run_id"`
	Label      string `json:"label,omitempty"`
	Workload   string `json:"workload"`
	Seed       uint64 `json:"seed"`
	Ops        int    `json:"ops_per_thread"`
}

// Benchmark is one measured configuration.
type Benchmark struct {
	Name                   string  `json:"name"`
	FamilyIndex            int     `json:"family_index"`
	PerFamilyInstanceIndex int     `json:"per_family_instance_index"`
	RunName                string  `json:"run_name"`
	RunType                string  `json:"run_type"`
	Repetitions            int     `json:"repetitions"`
	RepetitionIndex        int     `json:"repetition_index"`
	Threads                int     `json:"threads"`
	Iterations             int     `json:"iterations"`
	RealTime               float64 `json:"real_time"`
	CPUTime                float64 `json:"cpu_time"`
	TimeUnit               string  `json:"time_unit"`
}

// Flavor returns the flavor prefix of the benchmark name.
func (b Benchmark) Flavor() string {
	flavor, _, _ := strings.Cut(b.Name, "/")
	return flavor
}

// Document is the complete output record.
type Document struct {
	Context    Context     `json:"context"`
	Benchmarks []Benchmark `json:"benchmarks"`
}

// Options controls how a report becomes a Document.
type Options struct {
	TimeUnit   string
	Probes     *control.DebugProbes
	Executable string
	Now        func() time.Time
}

var unitScale = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
}

// NewDocument converts rep. Failed configurations do not appear.
func NewDocument(rep *bench.Report, opts Options) Document {
	unit := opts.TimeUnit
	scale, ok := unitScale[unit]
	if !ok {
		unit, scale = "s", time.Second
	}
	probes := opts.Probes
	if probes == nil {
		probes = control.NewDebugProbes()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	exe := opts.Executable
	if exe == "" {
		exe, _ = os.Executable()
	}
	host, _ := os.Hostname()

	doc := Document{
		Context: Context{
			Date:              now().Format(time.RFC3339),
			HostName:          host,
			Executable:        exe,
			NumCPUs:           probes.Int(control.ProbeNumCPUs),
			MHzPerCPU:         probes.Float(control.ProbeMHz),
			CPUScalingEnabled: probes.Bool(control.ProbeCPUScaling),
			LibraryBuildType:  buildType(),
			GoVersion:         runtime.Version(),
			GOOS:              runtime.GOOS,
			GOARCH:            runtime.GOARCH,
			GOMAXPROCS:        probes.Int(control.ProbeGOMAXPROCS),
			NUMANodes:         probes.Int(control.ProbeNUMANodes),
			RunID:             uuid.NewString(),
			Label:             rep.Label,
			Workload:          rep.Workload,
			Seed:              rep.Seed,
			Ops:               rep.OpsPerThread,
		},
		Benchmarks: make([]Benchmark, 0, len(rep.Measurements)),
	}
	for _, m := range rep.Measurements {
		name := m.Name()
		doc.Benchmarks = append(doc.Benchmarks, Benchmark{
			Name:                   name,
			FamilyIndex:            m.Family,
			PerFamilyInstanceIndex: m.Instance,
			RunName:                name,
			RunType:                "iteration",
			Repetitions:            1,
			RepetitionIndex:        0,
			Threads:                m.Threads,
			Iterations:             m.Iterations(),
			RealTime:               float64(m.RealStats().Mean) / float64(scale),
			CPUTime:                float64(m.CPUStats().Mean) / float64(scale),
			TimeUnit:               unit,
		})
	}
	return doc
}

// buildType reports "debug" when the race detector is compiled in.
func buildType() string {
	if raceEnabled {
		return "debug"
	}
	return "release"
}
