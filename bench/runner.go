// File: bench/runner.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runner drives the per-case state machine over a Plan.

package bench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/momentics/refbench/affinity"
	"github.com/momentics/refbench/api"
	"github.com/momentics/refbench/control"
	"github.com/momentics/refbench/internal/concurrency"
)

// Runner executes the cases of one configuration, one at a time.
type Runner struct {
	cfg     *control.Config
	logger  *slog.Logger
	metrics *control.Metrics
	tracer  trace.Tracer
	pinner  api.Pinner
	seed    uint64
	seqs    [][]Op
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(r *Runner) { r.logger = l } }

// WithMetrics publishes progress to m.
func WithMetrics(m *control.Metrics) Option { return func(r *Runner) { r.metrics = m } }

// WithTracer records one span per case.
func WithTracer(t trace.Tracer) Option { return func(r *Runner) { r.tracer = t } }

// WithPinner replaces the CPU pinning backend.
func WithPinner(p api.Pinner) Option { return func(r *Runner) { r.pinner = p } }

// NewRunner validates cfg and pre-generates the mixed workload streams,
// which every flavor then replays identically. A zero seed is replaced by
// one derived from the clock.
func NewRunner(cfg *control.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{
		cfg:    cfg,
		logger: slog.Default(),
		tracer: otel.Tracer("github.com/momentics/refbench/bench"),
		pinner: affinity.Pinner{},
		seed:   cfg.Seed,
	}
	if r.seed == 0 {
		r.seed = uint64(time.Now().UnixNano())
	}
	for _, opt := range opts {
		opt(r)
	}
	if cfg.Workload == WorkloadMixed {
		r.seqs = GenerateOps(r.seed, cfg.MaxThreads, cfg.OpsPerThread)
	}
	return r, nil
}

// Run executes every case of the plan. Failed cases are collected in the
// report; cancellation stops the run between cases and returns the partial
// report together with the context error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	rep := &Report{
		Label:        r.cfg.Label,
		Workload:     r.cfg.Workload,
		Seed:         r.seed,
		OpsPerThread: r.cfg.OpsPerThread,
		Started:      time.Now(),
	}
	plan := NewPlan(r.cfg.Flavors, r.cfg.Threads())
	r.logger.Info("benchmark started",
		"cases", plan.Len(), "workload", r.cfg.Workload,
		"ops_per_thread", r.cfg.OpsPerThread, "iterations", r.cfg.Iterations)

	for {
		c, ok := plan.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		m, phase, err := r.RunCase(ctx, c)
		if err != nil {
			f := Failure{Case: c, Phase: phase, Err: err}
			rep.Failures = append(rep.Failures, f)
			r.logger.Warn("configuration failed",
				"name", c.Name(), "phase", phase.String(), "error", err)
			continue
		}
		rep.Measurements = append(rep.Measurements, m)
	}
	r.logger.Info("benchmark finished",
		"measured", len(rep.Measurements), "failed", len(rep.Failures))
	return rep, nil
}

// RunCase measures one configuration. On error it returns the phase that failed.
func (r *Runner) RunCase(ctx context.Context, c Case) (m Measurement, phase Phase, err error) {
	ctx, span := r.tracer.Start(ctx, "bench.case", trace.WithAttributes(
		attribute.String("flavor", c.Flavor),
		attribute.Int("threads", c.Threads),
		attribute.String("workload", r.cfg.Workload),
	))
	log := r.logger.With("name", c.Name())
	if r.cfg.Trace {
		log.Debug("case span", "trace_id", span.SpanContext().TraceID().String())
	}
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, phase.String())
		}
		if r.metrics != nil {
			r.metrics.RecordConfiguration(c.Flavor, outcome)
		}
		span.End()
	}()

	phase = PhaseSetup
	log.Debug("phase", "phase", phase.String())
	subj, cohort, ops, restore, err := r.setup(ctx, c)
	if err != nil {
		return m, phase, err
	}
	defer restore()

	torn := false
	defer func() {
		if !torn {
			_ = cohort.Close()
			_ = subj.Close()
		}
	}()

	if r.cfg.WarmupOps > 0 {
		phase = PhaseWarmup
		log.Debug("phase", "phase", phase.String())
		*ops = min(r.cfg.WarmupOps, r.cfg.OpsPerThread)
		t, err := cohort.Pass(ctx)
		if err != nil {
			return m, phase, err
		}
		r.observe(c, phase, t, *ops*c.Threads)
	}

	phase = PhaseMeasure
	log.Debug("phase", "phase", phase.String())
	*ops = r.cfg.OpsPerThread
	m = Measurement{
		Case:         c,
		Workload:     r.cfg.Workload,
		OpsPerThread: r.cfg.OpsPerThread,
		Real:         make([]time.Duration, 0, r.cfg.Iterations),
		CPU:          make([]time.Duration, 0, r.cfg.Iterations),
	}
	for i := 0; i < r.cfg.Iterations; i++ {
		runtime.GC()
		t, err := cohort.Pass(ctx)
		if err != nil {
			return Measurement{}, phase, err
		}
		m.Real = append(m.Real, t.Real)
		m.CPU = append(m.CPU, t.CPU)
		r.observe(c, phase, t, *ops*c.Threads)
	}

	phase = PhaseTeardown
	log.Debug("phase", "phase", phase.String())
	torn = true
	if err := cohort.Close(); err != nil {
		_ = subj.Close()
		return Measurement{}, phase, err
	}
	if n := subj.UseCount(); n != 1 {
		_ = subj.Close()
		return Measurement{}, phase, api.WrapError(api.ErrCodeInvariant, "teardown", ErrUseCountDrift).
			WithContext("use_count", n)
	}
	if err := subj.Close(); err != nil {
		return Measurement{}, phase, err
	}

	phase = PhaseRecorded
	st := m.RealStats()
	log.Info("configuration recorded",
		"threads", c.Threads, "real_mean", st.Mean, "real_stddev", st.StdDev,
		"cpu_mean", m.CPUStats().Mean)
	if r.metrics != nil {
		r.metrics.SetRealTime(c.Flavor, c.Threads, st.Mean)
	}
	span.SetAttributes(attribute.Int64("real_mean_ns", int64(st.Mean)))
	return m, phase, nil
}

// setup builds the subject and its cohort. ops is read by the workers at
// every pass; the cohort hands each pass over a channel, so writes made
// before Pass are visible to them.
func (r *Runner) setup(ctx context.Context, c Case) (Subject, *concurrency.Cohort, *int, func(), error) {
	if c.Threads > r.cfg.ThreadLimit {
		return nil, nil, nil, nil, api.WrapError(api.ErrCodeResourceExhausted, "setup", api.ErrTooManyThreads).
			WithContext("threads", c.Threads).
			WithContext("limit", r.cfg.ThreadLimit)
	}
	flavor, err := Lookup(c.Flavor)
	if err != nil {
		return nil, nil, nil, nil, api.WrapError(api.ErrCodeNotFound, "setup", err)
	}
	subj, err := flavor.Prepare(Setup{
		Threads:   c.Threads,
		Ops:       r.cfg.OpsPerThread,
		Slots:     r.cfg.Slots,
		Workload:  r.cfg.Workload,
		Sequences: r.seqs,
	})
	if err != nil {
		return nil, nil, nil, nil, api.WrapError(api.ErrCodeResourceExhausted, "setup", err)
	}

	prev := runtime.GOMAXPROCS(0)
	if prev < c.Threads+1 {
		runtime.GOMAXPROCS(c.Threads + 1)
	}
	restore := func() {
		if runtime.GOMAXPROCS(0) != prev {
			runtime.GOMAXPROCS(prev)
		}
	}

	ops := new(int)
	cc := concurrency.CohortConfig{
		Workers: c.Threads,
		Task:    func(w int) { subj.Pass(w, *ops) },
	}
	if r.cfg.Pin {
		cc.CPUs = r.pinner.CPUs()
		cc.Pin = r.pinner.Pin
	}
	cohort, err := concurrency.StartCohort(ctx, cc)
	if err != nil {
		restore()
		_ = subj.Close()
		code := api.ErrCodeResourceExhausted
		if errors.Is(err, affinity.ErrUnsupported) {
			code = api.ErrCodeNotSupported
		}
		return nil, nil, nil, nil, api.WrapError(code, "setup", fmt.Errorf("start workers: %w", err))
	}
	return subj, cohort, ops, restore, nil
}

func (r *Runner) observe(c Case, phase Phase, t concurrency.PassTiming, ops int) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObservePass(c.Flavor, phase.String(), t.Real)
	r.metrics.AddOperations(c.Flavor, ops)
}
