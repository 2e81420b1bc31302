// File: cmd/concurrency_bench/root.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/momentics/refbench/bench"
	"github.com/momentics/refbench/control"
	"github.com/momentics/refbench/report"
)

type rootOptions struct {
	configPath string
	flavors    string
	cfg        *control.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{cfg: control.DefaultConfig()}
	cmd := &cobra.Command{
		Use:           "concurrency_bench",
		Short:         "Compare ref_ptr and shared_ptr under multi-threaded contention",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := o.load(cmd); err != nil {
				return err
			}
			o.logger = newLogger(cmd.ErrOrStderr(), o.cfg.LogLevel, o.cfg.LogFormat)
			slog.SetDefault(o.logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	d := o.cfg
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "YAML configuration file")
	f.StringVar(&d.LogLevel, "log-level", d.LogLevel, "log level: debug, info, warn, error")
	f.StringVar(&d.LogFormat, "log-format", d.LogFormat, "log format: text or json")

	rf := cmd.Flags()
	rf.StringVar(&d.Out, "benchmark_out", d.Out, "write results to this file")
	rf.StringVar(&d.OutFormat, "benchmark_out_format", d.OutFormat, "format of --benchmark_out: json, console, csv")
	rf.StringVar(&d.TimeUnit, "benchmark_time_unit", d.TimeUnit, "time unit: ns, us, ms, s")
	rf.IntVar(&d.MinThreads, "threads-min", d.MinThreads, "smallest thread count")
	rf.IntVar(&d.MaxThreads, "threads-max", d.MaxThreads, "largest thread count")
	rf.IntVar(&d.ThreadLimit, "thread-limit", d.ThreadLimit, "refuse configurations above this many threads")
	rf.IntVar(&d.OpsPerThread, "ops", d.OpsPerThread, "operations per thread per pass")
	rf.IntVar(&d.Iterations, "iterations", d.Iterations, "measured passes per configuration")
	rf.IntVar(&d.WarmupOps, "warmup-ops", d.WarmupOps, "operations per thread in the warmup pass, 0 disables it")
	rf.StringVar(&d.Workload, "workload", d.Workload, "workload: copy or mixed")
	rf.StringVar(&o.flavors, "flavors", strings.Join(d.Flavors, ","), "comma separated flavors to run")
	rf.BoolVar(&d.Pin, "pin", d.Pin, "pin workers to CPUs")
	rf.IntVar(&d.Slots, "slots", d.Slots, "ref_ptr counter slots, 0 sizes them to the thread count")
	rf.Uint64Var(&d.Seed, "seed", d.Seed, "mixed workload seed, 0 picks one from the clock")
	rf.StringVar(&d.Label, "label", d.Label, "write <result-dir>/<label>_result.json")
	rf.StringVar(&d.ResultDir, "result-dir", d.ResultDir, "directory of labelled results")
	rf.StringVar(&d.MetricsAddr, "metrics-addr", d.MetricsAddr, "serve Prometheus metrics on host:port while running")
	rf.BoolVar(&d.Trace, "trace", d.Trace, "print one span per configuration to stderr")

	cmd.AddCommand(newSummaryCmd())
	return cmd
}

// load layers the YAML file over the defaults and the flags that were set
// explicitly over both.
func (o *rootOptions) load(cmd *cobra.Command) error {
	flagged := *o.cfg
	if o.configPath != "" {
		fileCfg, err := control.Load(o.configPath)
		if err != nil {
			return err
		}
		*o.cfg = *fileCfg
	}
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	c := o.cfg
	set("log-level", func() { c.LogLevel = flagged.LogLevel })
	set("log-format", func() { c.LogFormat = flagged.LogFormat })
	set("benchmark_out", func() { c.Out = flagged.Out })
	set("benchmark_out_format", func() { c.OutFormat = flagged.OutFormat })
	set("benchmark_time_unit", func() { c.TimeUnit = flagged.TimeUnit })
	set("threads-min", func() { c.MinThreads = flagged.MinThreads })
	set("threads-max", func() { c.MaxThreads = flagged.MaxThreads })
	set("thread-limit", func() { c.ThreadLimit = flagged.ThreadLimit })
	set("ops", func() { c.OpsPerThread = flagged.OpsPerThread })
	set("iterations", func() { c.Iterations = flagged.Iterations })
	set("warmup-ops", func() { c.WarmupOps = flagged.WarmupOps })
	set("workload", func() { c.Workload = flagged.Workload })
	set("flavors", func() { c.Flavors = splitList(o.flavors) })
	set("pin", func() { c.Pin = flagged.Pin })
	set("slots", func() { c.Slots = flagged.Slots })
	set("seed", func() { c.Seed = flagged.Seed })
	set("label", func() { c.Label = flagged.Label })
	set("result-dir", func() { c.ResultDir = flagged.ResultDir })
	set("metrics-addr", func() { c.MetricsAddr = flagged.MetricsAddr })
	set("trace", func() { c.Trace = flagged.Trace })
	return c.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (o *rootOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := o.cfg
	runID := uuid.NewString()

	shutdownTracing, err := initTracing(cfg.Trace, cmd.ErrOrStderr(), runID)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			o.logger.Warn("trace shutdown", "error", err)
		}
	}()

	metrics := control.NewMetrics()
	if cfg.MetricsAddr != "" {
		stopMetrics, err := serveMetrics(cfg.MetricsAddr, metrics.Handler(), o.logger)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	runner, err := bench.NewRunner(cfg,
		bench.WithLogger(o.logger),
		bench.WithMetrics(metrics),
		bench.WithTracer(otel.Tracer("github.com/momentics/refbench/bench")),
	)
	if err != nil {
		return err
	}
	rep, runErr := runner.Run(ctx)
	if rep == nil {
		return runErr
	}

	doc := report.NewDocument(rep, report.Options{TimeUnit: cfg.TimeUnit})
	doc.Context.RunID = runID
	out := cmd.OutOrStdout()
	if err := report.WriteConsole(out, doc, report.ColorEnabled(out)); err != nil {
		return err
	}
	if err := o.writeResults(doc); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if len(rep.Measurements) == 0 && len(rep.Failures) > 0 {
		return fmt.Errorf("all %d configurations failed: %w", len(rep.Failures), rep.Failures[0])
	}
	return nil
}

func (o *rootOptions) writeResults(doc report.Document) error {
	cfg := o.cfg
	if cfg.Out != "" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			return err
		}
		if err := report.Write(f, cfg.OutFormat, doc, false); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		o.logger.Info("results written", "path", cfg.Out, "format", cfg.OutFormat)
	}
	if cfg.Label != "" {
		path := cfg.ResultPath()
		if err := report.WriteFile(path, doc); err != nil {
			return err
		}
		o.logger.Info("results written", "path", path, "label", cfg.Label)
	}
	return nil
}

// serveMetrics listens on addr and returns a function stopping the server.
func serveMetrics(addr string, h http.Handler, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
