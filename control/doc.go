// Package control
// Author: momentics <momentics@gmail.com>
//
// Run configuration, metrics and debug introspection for the benchmark.
//
// Provides:
//   - Config loaded from YAML, validated by struct tags
//   - Prometheus metrics for configurations, passes and operations
//   - Debug probes that describe the host, used for the report context
package control
