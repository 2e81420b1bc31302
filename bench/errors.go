// File: bench/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bench

import "errors"

var (
	ErrUseCountDrift = errors.New("use count did not return to one")
	ErrNoMeasurement = errors.New("no measurement for flavor")
)
