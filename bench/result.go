// File: bench/result.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bench

import (
	"fmt"
	"sort"
	"time"
)

// Phase is a step of the per-case state machine.
type Phase int

const (
	PhaseSetup Phase = iota
	PhaseWarmup
	PhaseMeasure
	PhaseTeardown
	PhaseRecorded
)

var phaseNames = [...]string{"setup", "warmup", "measure", "teardown", "recorded"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Measurement is the recorded outcome of one successful case.
type Measurement struct {
	Case
	Workload     string
	OpsPerThread int
	Real         []time.Duration
	CPU          []time.Duration
}

// Iterations returns the number of measured passes.
func (m Measurement) Iterations() int { return len(m.Real) }

// RealStats summarises wall time per pass.
func (m Measurement) RealStats() Stats { return Summarize(m.Real) }

// CPUStats summarises process CPU time per pass.
func (m Measurement) CPUStats() Stats { return Summarize(m.CPU) }

// Failure records a case excluded from the results.
type Failure struct {
	Case
	Phase Phase
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s failed in %s: %v", f.Name(), f.Phase, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Point is one element of a timing series.
type Point struct {
	Threads int
	Real    time.Duration
}

// Ratio is the acceleration at one thread count.
type Ratio struct {
	Threads int
	Value   float64
}

// Report collects everything one run produced.
type Report struct {
	Label        string
	Workload     string
	Seed         uint64
	OpsPerThread int
	Started      time.Time
	Measurements []Measurement
	Failures     []Failure
}

// Series returns the mean real time per thread count of flavor, ascending by threads.
func (r *Report) Series(flavor string) []Point {
	var out []Point
	for _, m := range r.Measurements {
		if m.Flavor == flavor {
			out = append(out, Point{Threads: m.Threads, Real: m.RealStats().Mean})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Threads < out[j].Threads })
	return out
}

// Acceleration divides base time by candidate time at every thread count
// measured for both. Values above one mean the candidate is faster.
func (r *Report) Acceleration(base, candidate string) ([]Ratio, error) {
	return Accelerate(r.Series(base), r.Series(candidate), base, candidate)
}

// Accelerate pairs two series by thread count.
func Accelerate(base, candidate []Point, baseName, candName string) ([]Ratio, error) {
	if len(base) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoMeasurement, baseName)
	}
	if len(candidate) == 0 {
		return nil, fmt.Errorf("%w %q", ErrNoMeasurement, candName)
	}
	byThreads := make(map[int]time.Duration, len(candidate))
	for _, p := range candidate {
		byThreads[p.Threads] = p.Real
	}
	var out []Ratio
	for _, p := range base {
		c, ok := byThreads[p.Threads]
		if !ok || c <= 0 {
			continue
		}
		out = append(out, Ratio{Threads: p.Threads, Value: float64(p.Real) / float64(c)})
	}
	return out, nil
}
