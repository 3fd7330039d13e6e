// Package checkzone verifies full zone file syntax. The primary
// implementation shells out to named-checkzone so results match what the
// name server will accept; an in-process fallback keeps commits covered
// on machines without bind-utils.
package checkzone

import (
	"context"
	"errors"
)

// Result is one syntax check's outcome. Output carries the checker's
// diagnostics, trimmed, whatever the verdict.
type Result struct {
	OK     bool
	Output string
}

// ErrUnavailable means the checker cannot run on this machine at all, as
// opposed to rejecting a particular zone file.
var ErrUnavailable = errors.New("zone checker unavailable")

// Checker validates one zone file identified by its zone name and path.
// A non-nil error means the check could not be performed; syntax problems
// come back as a Result with OK false.
type Checker interface {
	Name() string
	Check(ctx context.Context, zone, file string) (Result, error)
}
