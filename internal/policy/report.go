package policy

import (
	"fmt"
	"io"
	"time"
)

// Check names as they appear in reports, the run ledger, and the API.
const (
	CheckOriginDots     = "origin_trailing_dot"
	CheckSerialShape    = "serial_format"
	CheckSerialIncrease = "serial_increment"
	CheckExternalSyntax = "external_syntax"
)

// FileResult carries every check verdict for one zone file.
type FileResult struct {
	Path   string `json:"path"`
	Zone   string `json:"zone,omitempty"`
	Serial string `json:"serial,omitempty"`

	// Unsupported files cannot be validated at all (no SOA, or no
	// derivable zone name). They still block the commit; silence here
	// would wave through files the checks never saw.
	Unsupported bool   `json:"unsupported,omitempty"`
	Reason      string `json:"reason,omitempty"`

	Origin          Verdict `json:"origin_trailing_dot"`
	SerialFormat    Verdict `json:"serial_format"`
	SerialIncrement Verdict `json:"serial_increment"`
	Syntax          Verdict `json:"external_syntax"`
}

// NamedVerdict pairs a verdict with its check name for iteration.
type NamedVerdict struct {
	Name string
	Verdict
}

// Checks returns the verdicts in reporting order.
func (r FileResult) Checks() []NamedVerdict {
	return []NamedVerdict{
		{Name: CheckOriginDots, Verdict: r.Origin},
		{Name: CheckSerialShape, Verdict: r.SerialFormat},
		{Name: CheckSerialIncrease, Verdict: r.SerialIncrement},
		{Name: CheckExternalSyntax, Verdict: r.Syntax},
	}
}

// Failed reports whether this file should block the commit.
func (r FileResult) Failed() bool {
	if r.Unsupported {
		return true
	}
	for _, c := range r.Checks() {
		if c.Bad() {
			return true
		}
	}
	return false
}

// Report is the outcome of one validation run, files in enumeration order.
type Report struct {
	Mode     string       `json:"mode"`
	Files    []FileResult `json:"files"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
}

// OK reports whether every file passed or was validly skipped.
func (r *Report) OK() bool {
	return r.FailedCount() == 0
}

// FailedCount returns the number of files that block the commit.
func (r *Report) FailedCount() int {
	n := 0
	for _, f := range r.Files {
		if f.Failed() {
			n++
		}
	}
	return n
}

// WriteText renders the report for terminal consumption: one line per clean
// file, the failing verdicts spelled out for the rest, and a closing tally.
func (r *Report) WriteText(w io.Writer) {
	for _, f := range r.Files {
		switch {
		case f.Unsupported:
			fmt.Fprintf(w, "UNSUPPORTED %s: %s\n", f.Path, f.Reason)
			r.writeBadChecks(w, f)
		case f.Failed():
			if f.Zone != "" {
				fmt.Fprintf(w, "FAIL %s (%s)\n", f.Path, f.Zone)
			} else {
				fmt.Fprintf(w, "FAIL %s\n", f.Path)
			}
			r.writeBadChecks(w, f)
		default:
			if f.Serial != "" {
				fmt.Fprintf(w, "ok   %s (%s serial %s)\n", f.Path, f.Zone, f.Serial)
			} else {
				fmt.Fprintf(w, "ok   %s\n", f.Path)
			}
		}
	}
	fmt.Fprintf(w, "%d file(s) checked, %d failed\n", len(r.Files), r.FailedCount())
}

func (r *Report) writeBadChecks(w io.Writer, f FileResult) {
	for _, c := range f.Checks() {
		if c.Bad() {
			fmt.Fprintf(w, "  %s: %s\n", c.Name, c.Detail)
		}
	}
}
