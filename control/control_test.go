package control

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/refbench/api"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Threads(), 20)
	assert.Equal(t, 1, cfg.Threads()[0])
	assert.Equal(t, time.Second, cfg.TimeScale())
}

func TestConfigValidation(t *testing.T) {
	cases := map[string]func(*Config){
		"threads inverted": func(c *Config) { c.MinThreads, c.MaxThreads = 5, 2 },
		"zero ops":         func(c *Config) { c.OpsPerThread = 0 },
		"bad workload":     func(c *Config) { c.Workload = "sleepy" },
		"bad flavor":       func(c *Config) { c.Flavors = []string{"unique_ptr"} },
		"dup flavor":       func(c *Config) { c.Flavors = []string{FlavorRef, FlavorRef} },
		"no flavors":       func(c *Config) { c.Flavors = nil },
		"bad unit":         func(c *Config) { c.TimeUnit = "min" },
		"too many slots":   func(c *Config) { c.Slots = 128 },
		"label with slash": func(c *Config) { c.Label = "a/b" },
		"bad metrics addr": func(c *Config) { c.MetricsAddr = "nope" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, api.ErrInvalidConfig)
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
min_threads: 2
max_threads: 4
workload: copy
flavors: [shared_ptr]
time_unit: ms
label: laptop
metrics_addr: ":9108"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 4}, cfg.Threads())
	assert.Equal(t, WorkloadCopy, cfg.Workload)
	assert.Equal(t, []string{FlavorShared}, cfg.Flavors)
	assert.Equal(t, time.Millisecond, cfg.TimeScale())
	assert.Equal(t, 1_000_000, cfg.OpsPerThread, "unset fields keep defaults")
	assert.Equal(t, filepath.Join("bench_result", "laptop_result.json"), cfg.ResultPath())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_threads: [1, 2"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, api.ErrInvalidConfig)
}

func TestResultPathWithoutLabel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Out = "out.json"
	assert.Equal(t, "out.json", cfg.ResultPath())
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordConfiguration(FlavorRef, "ok")
	m.RecordConfiguration(FlavorRef, "ok")
	m.RecordConfiguration(FlavorShared, "failed")
	m.AddOperations(FlavorRef, 500)
	m.ObservePass(FlavorRef, "measure", 3*time.Millisecond)
	m.SetRealTime(FlavorRef, 4, 250*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.configurations.WithLabelValues(FlavorRef, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.configurations.WithLabelValues(FlavorShared, "failed")))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.operations.WithLabelValues(FlavorRef)))
	assert.Equal(t, 0.25, testutil.ToFloat64(m.realSeconds.WithLabelValues(FlavorRef, "4")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "refbench_pass_seconds"))
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	assert.GreaterOrEqual(t, dp.Int(ProbeNumCPUs), 1)
	assert.GreaterOrEqual(t, dp.Int(ProbeNUMANodes), 1)
	assert.NotEmpty(t, dp.String(ProbeGoVersion))
	assert.GreaterOrEqual(t, dp.Float(ProbeMHz), 0.0)
	assert.Contains(t, dp.Names(), ProbeCPUScaling)

	dp.RegisterProbe("custom", func() any { return true })
	assert.True(t, dp.Bool("custom"))
	assert.Equal(t, true, dp.DumpState()["custom"])
	assert.Zero(t, dp.Int("missing"))
}
