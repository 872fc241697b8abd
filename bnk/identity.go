package bnk

import (
	"strconv"

	"github.com/bnkworks/go-bnk/fnv"
)

// Identity is a node's identity: either a bare 32-bit hash, or a
// human-readable name together with its derived hash. The hash of a
// named identity is derived on first read and cached.
type Identity struct {
	name string
	hash uint32
}

// HashID returns a hash-only identity.
func HashID(h uint32) Identity {
	return Identity{hash: h}
}

// NameID returns a named identity; the hash is derived lazily.
func NameID(name string) Identity {
	return Identity{name: name}
}

// Hash returns the identity hash, deriving and caching it from the
// name when only a name is stored.
func (id *Identity) Hash() uint32 {
	if id.hash == 0 && id.name != "" {
		id.hash = fnv.Hash(id.name)
	}
	return id.hash
}

// Name returns the stored name, if any.
func (id *Identity) Name() (string, bool) {
	return id.name, id.name != ""
}

// SetName replaces the identity with name, recomputing the hash.
func (id *Identity) SetName(name string) {
	id.name = name
	id.hash = fnv.Hash(name)
}

// SetHash replaces the identity with a bare hash, clearing any name.
func (id *Identity) SetHash(h uint32) {
	id.hash = h
	id.name = ""
}

// cacheName records a name recovered from a lookup table without
// touching the hash.
func (id *Identity) cacheName(name string) {
	id.name = name
}

func (id Identity) String() string {
	if id.name != "" {
		return id.name
	}
	return strconv.FormatUint(uint64(id.hash), 10)
}
