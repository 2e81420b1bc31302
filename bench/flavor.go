// File: bench/flavor.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pointer flavors under test.

package bench

import (
	"fmt"
	"sort"
	"sync"

	"github.com/momentics/refbench/api"
	"github.com/momentics/refbench/control"
	"github.com/momentics/refbench/refcnt"
	"github.com/momentics/refbench/sharedptr"
)

// Workload names.
const (
	WorkloadCopy  = control.WorkloadCopy
	WorkloadMixed = control.WorkloadMixed
)

// Setup parameterises a subject for one case.
type Setup struct {
	Threads   int
	Ops       int
	Slots     int
	Workload  string
	Sequences [][]Op
}

// Flavor builds subjects for one pointer implementation.
type Flavor interface {
	Name() string
	Prepare(setup Setup) (Subject, error)
}

var (
	flavorsMu sync.RWMutex
	flavors   = map[string]Flavor{}
)

// Register adds or replaces a flavor.
func Register(f Flavor) {
	flavorsMu.Lock()
	defer flavorsMu.Unlock()
	flavors[f.Name()] = f
}

// Lookup returns the flavor registered under name.
func Lookup(name string) (Flavor, error) {
	flavorsMu.RLock()
	defer flavorsMu.RUnlock()
	f, ok := flavors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", api.ErrUnknownFlavor, name)
	}
	return f, nil
}

// Flavors lists registered flavor names in sorted order.
func Flavors() []string {
	flavorsMu.RLock()
	defer flavorsMu.RUnlock()
	names := make([]string, 0, len(flavors))
	for n := range flavors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(RefFlavor{})
	Register(SharedFlavor{})
}

// RefFlavor measures refcnt.Ref.
type RefFlavor struct{}

func (RefFlavor) Name() string { return control.FlavorRef }

func (RefFlavor) Prepare(setup Setup) (Subject, error) {
	s := newSubject[refcnt.Ref[Payload], refcnt.Observer[Payload]](setup)
	slots := setup.Slots
	if slots == 0 {
		slots = setup.Threads
	}
	var err error
	s.root, err = refcnt.Make(
		refcnt.WithAllocator[Payload](s.alloc),
		refcnt.WithSlots[Payload](slots),
		refcnt.WithDeleter[Payload](s.onDestroy),
		refcnt.WithInit(initPayload),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SharedFlavor measures sharedptr.Shared.
type SharedFlavor struct{}

func (SharedFlavor) Name() string { return control.FlavorShared }

func (SharedFlavor) Prepare(setup Setup) (Subject, error) {
	s := newSubject[sharedptr.Shared[Payload], sharedptr.Weak[Payload]](setup)
	var err error
	s.root, err = sharedptr.Make(
		sharedptr.WithAllocator[Payload](s.alloc),
		sharedptr.WithDeleter[Payload](s.onDestroy),
		sharedptr.WithInit(initPayload),
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
