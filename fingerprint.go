package pidtool

import (
	"fmt"

	xxhash "github.com/cespare/xxhash/v2"
)

// fingerprint identifies asset content independent of where it lives.
// The same digest keys the asset table and the per-directory manifests.
func fingerprint(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// fingerprintString renders a fingerprint the way the asset table
// stores it, as 16 lowercase hex digits.
func fingerprintString(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}
