// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Benchmark run configuration: defaults, YAML loading and validation.

package control

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/momentics/refbench/api"
)

// Pointer flavors and workloads known to the harness.
const (
	FlavorRef    = "ref_ptr"
	FlavorShared = "shared_ptr"

	WorkloadCopy  = "copy"
	WorkloadMixed = "mixed"
)

// Config describes one benchmark run.
type Config struct {
	MinThreads   int      `yaml:"min_threads" validate:"min=1"`
	MaxThreads   int      `yaml:"max_threads" validate:"min=1,gtefield=MinThreads"`
	ThreadLimit  int      `yaml:"thread_limit" validate:"min=1"`
	OpsPerThread int      `yaml:"ops_per_thread" validate:"min=1"`
	Iterations   int      `yaml:"iterations" validate:"min=1"`
	WarmupOps    int      `yaml:"warmup_ops" validate:"min=0"`
	Workload     string   `yaml:"workload" validate:"oneof=copy mixed"`
	Flavors      []string `yaml:"flavors" validate:"min=1,unique,dive,oneof=ref_ptr shared_ptr"`
	Slots        int      `yaml:"slots" validate:"min=0,max=64"`
	Pin          bool     `yaml:"pin"`
	Seed         uint64   `yaml:"seed"`

	TimeUnit  string `yaml:"time_unit" validate:"oneof=ns us ms s"`
	Label     string `yaml:"label" validate:"omitempty,excludesall=/\\"`
	ResultDir string `yaml:"result_dir"`
	Out       string `yaml:"out"`
	OutFormat string `yaml:"out_format" validate:"oneof=json console csv"`

	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string `yaml:"log_format" validate:"oneof=text json"`
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Trace       bool   `yaml:"trace"`
}

// DefaultConfig returns the google-benchmark style DenseRange(1, 20) run
// over both flavors with the mixed workload.
func DefaultConfig() *Config {
	return &Config{
		MinThreads:   1,
		MaxThreads:   20,
		ThreadLimit:  256,
		OpsPerThread: 1_000_000,
		Iterations:   1,
		WarmupOps:    10_000,
		Workload:     WorkloadMixed,
		Flavors:      []string{FlavorRef, FlavorShared},
		TimeUnit:     "s",
		ResultDir:    "bench_result",
		OutFormat:    "json",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", api.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", api.ErrInvalidConfig, err)
	}
	return nil
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", api.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Threads lists the configured thread counts in ascending order.
func (c *Config) Threads() []int {
	out := make([]int, 0, c.MaxThreads-c.MinThreads+1)
	for n := c.MinThreads; n <= c.MaxThreads; n++ {
		out = append(out, n)
	}
	return out
}

// TimeScale returns the duration of one configured time unit.
func (c *Config) TimeScale() time.Duration {
	switch c.TimeUnit {
	case "ns":
		return time.Nanosecond
	case "us":
		return time.Microsecond
	case "ms":
		return time.Millisecond
	default:
		return time.Second
	}
}

// ResultPath returns <result_dir>/<label>_result.json, or Out when no label is set.
func (c *Config) ResultPath() string {
	if c.Label == "" {
		return c.Out
	}
	return ResultFileName(c.ResultDir, c.Label)
}

// ResultSuffix is the naming convention of per-label result files.
const ResultSuffix = "_result.json"

// ResultFileName joins dir and the label's result file name.
func ResultFileName(dir, label string) string {
	return filepath.Join(dir, label+ResultSuffix)
}
