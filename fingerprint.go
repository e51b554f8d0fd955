package memo

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher reduces an argument to its fingerprint. Equal arguments must
// produce equal fingerprints.
type Hasher[A any] func(A) uint64

// StringHasher fingerprints string-like arguments with xxhash.
func StringHasher[S ~string](s S) uint64 {
	return xxhash.Sum64String(string(s))
}

// IntHasher fingerprints integer arguments with xxhash over their
// little-endian encoding.
func IntHasher[I ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr](i I) uint64 {
	return hashUint64(uint64(i))
}

func hashUint64(u uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], u)
	return xxhash.Sum64(buf[:])
}

// defaultHasher returns the hasher used when none is configured. Strings
// and integers go through xxhash; every other comparable value is hashed
// by maphash, which agrees with ==. maphash fingerprints are stable only
// for the lifetime of the returned function's seed.
func defaultHasher[A comparable]() Hasher[A] {
	seed := maphash.MakeSeed()
	return func(a A) uint64 {
		switch v := any(a).(type) {
		case string:
			return xxhash.Sum64String(v)
		case int:
			return hashUint64(uint64(v))
		case int8:
			return hashUint64(uint64(v))
		case int16:
			return hashUint64(uint64(v))
		case int32:
			return hashUint64(uint64(v))
		case int64:
			return hashUint64(uint64(v))
		case uint:
			return hashUint64(uint64(v))
		case uint8:
			return hashUint64(uint64(v))
		case uint16:
			return hashUint64(uint64(v))
		case uint32:
			return hashUint64(uint64(v))
		case uint64:
			return hashUint64(v)
		}
		return maphash.Comparable(seed, a)
	}
}
