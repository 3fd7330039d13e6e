// zoneinfo prints what zonegit sees in a single zone file: every $ORIGIN
// directive, the default TTL, the SOA fields, the resolved zone name and
// the policy verdicts. It is the debugging companion to the hook; when a
// commit is rejected, zoneinfo shows why without staging anything.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jroosing/zonegit/internal/policy"
	"github.com/jroosing/zonegit/internal/zonefile"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: zoneinfo path/to/zonefile\n")
		os.Exit(2)
	}
	path := flag.Arg(0)

	zf, err := zonefile.ParseFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse failed: %v\n", err)
		if len(zf.Origins) == 0 && zf.SOA == nil {
			os.Exit(1)
		}
		// Fall through: directives collected before the failure still print.
	}

	if len(zf.Origins) == 0 {
		fmt.Println("ORIGIN: (none)")
	}
	for _, d := range zf.Origins {
		fmt.Printf("ORIGIN: %s (line %d)\n", d.Value, d.Line)
	}
	if zf.HasTTL {
		fmt.Printf("DEFAULT_TTL: %s\n", zf.TTL)
	} else {
		fmt.Println("DEFAULT_TTL: (none)")
	}

	if zf.SOA == nil {
		fmt.Println("SOA: (none)")
		os.Exit(1)
	}
	soa := zf.SOA
	fmt.Printf("SOA (line %d):\n", soa.Line)
	fmt.Printf("  owner:   %s\n", soa.Owner)
	fmt.Printf("  mname:   %s\n", soa.MName)
	fmt.Printf("  rname:   %s\n", soa.RName)
	fmt.Printf("  serial:  %s\n", soa.Serial)
	fmt.Printf("  refresh: %s\n", soa.Refresh)
	fmt.Printf("  retry:   %s\n", soa.Retry)
	fmt.Printf("  expire:  %s\n", soa.Expire)
	fmt.Printf("  minimum: %s\n", soa.Minimum)

	if zone, ok := zf.Name(); ok {
		fmt.Printf("ZONE: %s\n", zone)
	} else {
		fmt.Println("ZONE: (undefined; no fully qualified $ORIGIN or SOA owner)")
	}

	fmt.Println("CHECKS:")
	printVerdict("origin_trailing_dot", policy.CheckOrigins(zf.Origins))
	printVerdict("serial_format", policy.CheckSerialFormat(soa.Serial))
}

func printVerdict(name string, v policy.Verdict) {
	if v.Detail != "" {
		fmt.Printf("  %s: %s (%s)\n", name, v.Outcome, v.Detail)
		return
	}
	fmt.Printf("  %s: %s\n", name, v.Outcome)
}
