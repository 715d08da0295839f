package hash

import "github.com/cespare/xxhash/v2"

// Digest computes the xxHash64 of the concatenation of the given byte
// slices without materializing the concatenation.
func Digest(parts ...[]byte) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	return d.Sum64()
}

// Sum computes the xxHash64 of a single byte slice.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
