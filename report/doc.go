// Package report
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package report turns a bench.Report into the google-benchmark output
// record (JSON), a console table or CSV, discovers per-label result files
// and summarises the acceleration of one flavor over another.
package report
