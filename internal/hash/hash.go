// Package hash computes xxHash64 digests used to bucket decoded values.
package hash

import "github.com/cespare/xxhash/v2"

// String computes the xxHash64 of the given string.
func String(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Element computes the xxHash64 of a type tag followed by its raw payload.
//
// Two elements that are structurally equal (same tag, same payload bytes) always
// produce the same digest, which makes the digest usable as a set bucket key.
func Element(tag byte, payload []byte) uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{tag})
	_, _ = d.Write(payload)

	return d.Sum64()
}
