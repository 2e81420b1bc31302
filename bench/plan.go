// File: bench/plan.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bench

import (
	"fmt"

	"github.com/eapache/queue"
)

// Case is one (flavor, threads) configuration.
type Case struct {
	Flavor  string
	Threads int
	// Family and Instance index the case the way google-benchmark does.
	Family   int
	Instance int
}

// Name returns "<flavor>/<threads>/manual_time".
func (c Case) Name() string {
	return fmt.Sprintf("%s/%d/manual_time", c.Flavor, c.Threads)
}

// Plan is the FIFO of cases of one run: every thread count of the first
// flavor, then the next flavor.
type Plan struct {
	q *queue.Queue
}

// NewPlan orders cases flavor-major.
func NewPlan(flavors []string, threads []int) *Plan {
	q := queue.New()
	for fi, f := range flavors {
		for ti, n := range threads {
			q.Add(Case{Flavor: f, Threads: n, Family: fi, Instance: ti})
		}
	}
	return &Plan{q: q}
}

// Len returns the number of pending cases.
func (p *Plan) Len() int { return p.q.Length() }

// Next pops the next case.
func (p *Plan) Next() (Case, bool) {
	if p.q.Length() == 0 {
		return Case{}, false
	}
	return p.q.Remove().(Case), true
}
