// File: report/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package report

import "errors"

var (
	ErrMalformed     = errors.New("malformed result record")
	ErrUnknownFormat = errors.New("unknown output format")
)
