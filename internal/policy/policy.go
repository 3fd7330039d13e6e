// Package policy holds the repository conventions enforced on zone files:
// fully qualified $ORIGIN arguments and YYYYMMDDNN serials that move
// strictly forward between revisions. Each check yields an independent
// verdict; no check gates another.
package policy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jroosing/zonegit/internal/zonefile"
)

// Outcome classifies a single check result.
type Outcome string

const (
	OutcomePass          Outcome = "pass"
	OutcomeFail          Outcome = "fail"
	OutcomeSkipped       Outcome = "skipped"
	OutcomeNotApplicable Outcome = "n/a"
	OutcomeError         Outcome = "error"
)

// Verdict is one check's outcome with an optional human-readable detail.
type Verdict struct {
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

func Pass() Verdict                 { return Verdict{Outcome: OutcomePass} }
func Fail(detail string) Verdict    { return Verdict{Outcome: OutcomeFail, Detail: detail} }
func Skip(reason string) Verdict    { return Verdict{Outcome: OutcomeSkipped, Detail: reason} }
func Errored(detail string) Verdict { return Verdict{Outcome: OutcomeError, Detail: detail} }

// NotApplicable marks a check that had nothing to examine.
func NotApplicable(reason string) Verdict {
	return Verdict{Outcome: OutcomeNotApplicable, Detail: reason}
}

// Bad reports whether the verdict should block a commit.
func (v Verdict) Bad() bool {
	return v.Outcome == OutcomeFail || v.Outcome == OutcomeError
}

// CheckOrigins verifies that every $ORIGIN argument in the file is fully
// qualified. Files without the directive are out of scope for this check.
func CheckOrigins(origins []zonefile.OriginDirective) Verdict {
	if len(origins) == 0 {
		return NotApplicable("no $ORIGIN directive")
	}
	var bad []string
	for _, d := range origins {
		if !strings.HasSuffix(d.Value, ".") {
			bad = append(bad, fmt.Sprintf("%q at line %d", d.Value, d.Line))
		}
	}
	if len(bad) > 0 {
		return Fail("missing trailing dot: " + strings.Join(bad, ", "))
	}
	return Pass()
}

// CheckSerialFormat enforces the ten digit YYYYMMDDNN shape. Only the shape
// is checked; a date like 20241399 passes here and is left to the author.
func CheckSerialFormat(serial string) Verdict {
	if len(serial) != 10 {
		return Fail(fmt.Sprintf("serial %q does not match YYYYMMDDNN (expected 10 digits, got %d)", serial, len(serial)))
	}
	for i := 0; i < len(serial); i++ {
		if serial[i] < '0' || serial[i] > '9' {
			return Fail(fmt.Sprintf("serial %q does not match YYYYMMDDNN (non-digit at position %d)", serial, i+1))
		}
	}
	return Pass()
}

// CheckSerialIncrement requires the current serial to be numerically greater
// than the prior one. Equal serials fail: an edited zone must carry a new
// serial or secondaries will never transfer it.
func CheckSerialIncrement(current, prior string) Verdict {
	cur, err := strconv.ParseUint(current, 10, 64)
	if err != nil {
		return Fail(fmt.Sprintf("cannot parse current serial %q", current))
	}
	prev, err := strconv.ParseUint(prior, 10, 64)
	if err != nil {
		return Errored(fmt.Sprintf("cannot parse prior serial %q", prior))
	}
	switch {
	case cur > prev:
		return Pass()
	case cur == prev:
		return Fail(fmt.Sprintf("serial unchanged at %s", current))
	default:
		return Fail(fmt.Sprintf("serial went backwards: %s after %s", current, prior))
	}
}
