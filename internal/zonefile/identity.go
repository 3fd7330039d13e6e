package zonefile

import "strings"

// Name resolves the zone name a file declares, or reports that it cannot.
//
// A fully qualified $ORIGIN in effect at the SOA names the zone outright.
// The root origin "." is the one exception: it only anchors relative names,
// so the zone is whatever the SOA owner resolves to. Without a usable
// origin the SOA owner must itself be fully qualified; a relative owner or
// a relative origin leaves the zone name undefined.
func (f *File) Name() (string, bool) {
	if f.SOA == nil {
		return "", false
	}
	owner := f.SOA.Owner
	if d := f.SOAOrig; d != nil && strings.HasSuffix(d.Value, ".") {
		if d.Value != "." {
			return d.Value, true
		}
		switch {
		case owner == "@":
			return ".", true
		case strings.HasSuffix(owner, "."):
			return owner, true
		default:
			return owner + ".", true
		}
	}
	if owner != "@" && strings.HasSuffix(owner, ".") {
		return owner, true
	}
	return "", false
}
