package affinity

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedIsSortedAndNonEmpty(t *testing.T) {
	cpus := Allowed()
	require.NotEmpty(t, cpus)
	for i := 1; i < len(cpus); i++ {
		assert.Less(t, cpus[i-1], cpus[i])
	}
}

func TestSetAffinityRejectsNegative(t *testing.T) {
	assert.Error(t, SetAffinity(-1))
}

func TestPinToAllowedCPU(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("pinning is verified on linux only")
	}
	cpus := Pinner{}.CPUs()
	errc := make(chan error, 1)
	go func() {
		// Exiting while locked terminates the pinned thread.
		runtime.LockOSThread()
		errc <- Pinner{}.Pin(cpus[0])
	}()
	require.NoError(t, <-errc)
}
