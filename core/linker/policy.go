package linker

import (
	"strconv"
	"strings"
)

// PairingPolicy derives the structural spouse of an identifier. The
// convention is dataset-specific, so it is injected rather than hard-coded;
// the default AhnentafelPolicy silently produces wrong links on differently
// numbered datasets.
type PairingPolicy interface {
	// SpouseOf returns the paired identifier for id, if the numbering
	// scheme defines one
	SpouseOf(id string) (string, bool)
}

// AhnentafelPolicy implements the numbering convention of the source
// dataset: dotted ids ending in ".1"/".2" mark the two sides of a pairing,
// and bare top-level ids pair by odd/even adjacency (n with n+1 for odd n).
type AhnentafelPolicy struct{}

// SpouseOf applies the suffix-swap rule for dotted ids and the odd/even
// adjacency rule for top-level ids
func (AhnentafelPolicy) SpouseOf(id string) (string, bool) {
	if idx := strings.LastIndex(id, "."); idx >= 0 {
		prefix, suffix := id[:idx], id[idx+1:]
		switch suffix {
		case "1":
			return prefix + ".2", true
		case "2":
			return prefix + ".1", true
		}
		return "", false
	}

	n, err := strconv.Atoi(id)
	if err != nil {
		return "", false
	}
	if n%2 == 1 {
		return strconv.Itoa(n + 1), true
	}
	return strconv.Itoa(n - 1), true
}
