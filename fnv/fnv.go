// Package fnv implements the 32-bit FNV-1a name hash used by the
// soundbank container format, together with a reverse lookup table
// for recovering known names from hashes.
//
// The container identifies every object by a uint32 which is the
// FNV-1a hash of its lowercased name. The mapping is one-way: the
// only way back from a hash to a name is a table of known candidates.
package fnv

const (
	offsetBasis uint32 = 2166136261
	prime       uint32 = 16777619
)

// Hash returns the FNV-1a 32-bit hash of s, case-folded byte by byte.
// Hash("") is the FNV offset basis, 2166136261.
func Hash(s string) uint32 {
	h := offsetBasis
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		h *= prime
		h ^= uint32(c)
	}
	return h
}
