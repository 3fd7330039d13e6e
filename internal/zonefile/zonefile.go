// Package zonefile extracts zone identity material from BIND master files:
// $ORIGIN and $TTL directives and the leading SOA record. It is not a full
// zone parser; record syntax beyond the SOA is left to the external checker.
package zonefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// OriginDirective is one $ORIGIN occurrence, with its argument exactly as
// written (no normalization, trailing dot preserved or absent as authored).
type OriginDirective struct {
	Value string
	Line  int
}

// SOA holds the textual fields of the first SOA record in a file.
// Fields are kept as written; numeric interpretation is a policy concern.
type SOA struct {
	Owner   string // "@" when elided or written as "@"
	MName   string
	RName   string
	Serial  string
	Refresh string
	Retry   string
	Expire  string
	Minimum string
	Line    int
}

// File is the identity-relevant content scanned out of a zone file.
type File struct {
	Origins []OriginDirective // every $ORIGIN, in file order
	TTL     string
	HasTTL  bool
	SOA     *SOA             // first SOA record, nil when the file has none
	SOAOrig *OriginDirective // $ORIGIN in effect when the SOA was read
}

const maxLineBytes = 1 << 20

// Parse scans a zone file. The returned File is always non-nil; on a syntax
// error it holds whatever was collected before the failure, so directive
// findings survive a malformed record further down.
func Parse(r io.Reader) (*File, error) {
	p := parser{file: &File{}}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		p.lineNo++
		if err := p.feed(scanner.Text()); err != nil {
			return p.file, err
		}
	}
	if err := scanner.Err(); err != nil {
		return p.file, fmt.Errorf("read zone file: %w", err)
	}
	if p.depth > 0 {
		return p.file, fmt.Errorf("line %d: unterminated parenthesized record group", p.groupLine)
	}
	return p.file, nil
}

// ParseBytes scans zone file content held in memory, e.g. a git blob.
func ParseBytes(b []byte) (*File, error) {
	return Parse(bytes.NewReader(b))
}

// ParseFile scans the zone file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return &File{}, err
	}
	defer f.Close()
	return Parse(f)
}

type parser struct {
	file      *File
	lineNo    int
	depth     int
	group     strings.Builder
	groupLine int
}

// feed consumes one physical line, accumulating parenthesized groups until
// they close. Owner elision depends on leading whitespace, so the first
// line of a group keeps its indentation.
func (p *parser) feed(raw string) error {
	if p.depth == 0 {
		p.groupLine = p.lineNo
		p.group.Reset()
	}
	clean, depth, err := stripLine(raw, p.depth)
	if err != nil {
		return fmt.Errorf("line %d: %w", p.lineNo, err)
	}
	if p.depth > 0 {
		p.group.WriteByte(' ')
	}
	p.group.WriteString(clean)
	p.depth = depth
	if p.depth > 0 {
		return nil
	}
	return p.interpret(p.group.String(), p.groupLine)
}

func (p *parser) interpret(text string, line int) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "$") {
		return p.directive(trimmed, line)
	}
	if p.file.SOA != nil {
		return nil
	}

	fields := splitFields(text)
	blankOwner := text[0] == ' ' || text[0] == '\t'

	// The type token sits after the owner and the optional TTL and class
	// fields, so it can be at most two tokens past the first data position.
	start := 1
	if blankOwner {
		start = 0
	}
	soaIdx := -1
	for i := start; i < len(fields) && i <= start+2; i++ {
		if strings.EqualFold(fields[i], "SOA") {
			soaIdx = i
			break
		}
		// Anything other than a TTL or class here is itself the type
		// field, so "SOA" further right is rdata, not a record type.
		if !isTTLOrClass(fields[i]) {
			break
		}
	}
	if soaIdx < 0 {
		return nil
	}

	rdata := fields[soaIdx+1:]
	if len(rdata) < 7 {
		return fmt.Errorf("line %d: malformed SOA record: %d of 7 rdata fields", line, len(rdata))
	}

	owner := "@"
	if !blankOwner {
		owner = fields[0]
	}
	p.file.SOA = &SOA{
		Owner:   owner,
		MName:   rdata[0],
		RName:   rdata[1],
		Serial:  rdata[2],
		Refresh: rdata[3],
		Retry:   rdata[4],
		Expire:  rdata[5],
		Minimum: rdata[6],
		Line:    line,
	}
	if n := len(p.file.Origins); n > 0 {
		d := p.file.Origins[n-1]
		p.file.SOAOrig = &d
	}
	return nil
}

func (p *parser) directive(trimmed string, line int) error {
	fields := splitFields(trimmed)
	switch strings.ToUpper(fields[0]) {
	case "$ORIGIN":
		if len(fields) < 2 {
			return fmt.Errorf("line %d: $ORIGIN requires a domain name", line)
		}
		p.file.Origins = append(p.file.Origins, OriginDirective{Value: fields[1], Line: line})
	case "$TTL":
		p.file.HasTTL = true
		if len(fields) > 1 {
			p.file.TTL = fields[1]
		}
	case "$INCLUDE", "$GENERATE":
		// Not expanded; identity material must live in the file itself.
	}
	return nil
}

// stripLine removes the comment and folds parentheses out of one physical
// line. Semicolons and parentheses inside quoted strings are literal.
// The returned depth is the parenthesis nesting after this line.
func stripLine(s string, depth int) (string, int, error) {
	var b strings.Builder
	b.Grow(len(s))
	inQuotes := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			b.WriteRune(r)
			escaped = true
		case r == '"':
			b.WriteRune(r)
			inQuotes = !inQuotes
		case inQuotes:
			b.WriteRune(r)
		case r == ';':
			return b.String(), depth, nil
		case r == '(':
			depth++
			b.WriteByte(' ')
		case r == ')':
			depth--
			if depth < 0 {
				return b.String(), 0, errors.New(`unbalanced ")"`)
			}
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	if inQuotes {
		return b.String(), depth, errors.New("unterminated quoted string")
	}
	return b.String(), depth, nil
}

// isTTLOrClass reports whether tok may legally sit between a record's
// owner and its type field: a class keyword or a TTL, which is digits
// optionally broken up by the s/m/h/d/w unit letters.
func isTTLOrClass(tok string) bool {
	switch strings.ToUpper(tok) {
	case "IN", "CH", "HS", "CS":
		return true
	}
	sawDigit := false
	needDigit := true
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			sawDigit = true
			needDigit = false
		case strings.ContainsRune("smhdwSMHDW", r):
			if needDigit {
				return false
			}
			needDigit = true
		default:
			return false
		}
	}
	return sawDigit
}

// splitFields splits on whitespace, keeping quoted strings as single fields.
func splitFields(s string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			inQuotes = !inQuotes
		case !inQuotes && (r == ' ' || r == '\t'):
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
