package checkzone

import (
	"context"
	"os"

	"github.com/miekg/dns"
)

// Builtin parses the zone in-process with the miekg/dns zone parser. It
// accepts strictly less than named-checkzone, since it does no semantic
// checks beyond record syntax, but it keeps the syntax gate closed on
// machines without bind-utils installed.
type Builtin struct{}

func (Builtin) Name() string { return "builtin" }

func (Builtin) Check(ctx context.Context, zone, file string) (Result, error) {
	f, err := os.Open(file)
	if err != nil {
		return Result{OK: false, Output: err.Error()}, nil
	}
	defer f.Close()

	zp := dns.NewZoneParser(f, zone, file)
	zp.SetIncludeAllowed(true)

	n := 0
	for _, ok := zp.Next(); ok; _, ok = zp.Next() {
		n++
		if n%256 == 0 && ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
	}
	if err := zp.Err(); err != nil {
		return Result{OK: false, Output: err.Error()}, nil
	}
	return Result{OK: true}, nil
}
