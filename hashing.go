package hashbench

import (
	"encoding/binary"
	"unsafe"

	"github.com/dolthub/maphash"
)

// splitmix64 is a fast, high-quality 64-bit mixing function used to
// scramble input words. It is not cryptographic but provides good
// dispersion, and it is a bijection on uint64.
// see https://en.wikipedia.org/wiki/SplitMix64
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// hashBytesBlock hashes a byte slice using 64-bit block mixing.
// It consumes 8-byte words with LittleEndian decoding and mixes each
// block through splitmix64; the tail (0..7 bytes) is folded in and the
// length is incorporated to avoid collisions for different-length inputs.
func hashBytesBlock(seed uint64, b []byte) uint64 {
	h := seed ^ 0x9E3779B97F4A7C15
	i, n := 0, len(b)
	for i+8 <= n {
		v := binary.LittleEndian.Uint64(b[i:])
		h = splitmix64(h ^ v)
		i += 8
	}
	// Tail 0..7 Bytes
	var tail uint64
	switch n - i {
	case 7:
		tail |= uint64(b[i+6]) << 48
		fallthrough
	case 6:
		tail |= uint64(b[i+5]) << 40
		fallthrough
	case 5:
		tail |= uint64(b[i+4]) << 32
		fallthrough
	case 4:
		tail |= uint64(b[i+3]) << 24
		fallthrough
	case 3:
		tail |= uint64(b[i+2]) << 16
		fallthrough
	case 2:
		tail |= uint64(b[i+1]) << 8
		fallthrough
	case 1:
		tail |= uint64(b[i])
	}
	return splitmix64(h ^ tail ^ uint64(n))
}

// hashString hashes a Go string by obtaining a byte view of the string
// data (without allocations) and delegating to the byte-block hasher.
func hashString(seed uint64, s string) uint64 {
	b := unsafe.Slice(unsafe.StringData(s), len(s))
	return hashBytesBlock(seed, b)
}

// hashInt64 hashes an int64 by reinterpreting its bit pattern and mixing.
// Distinct inputs never collide for a fixed seed.
func hashInt64(seed uint64, v int64) uint64 {
	return splitmix64(seed ^ uint64(v))
}

// textHasher is the common shape of the process-local string hashers used by
// the Native and Simple baselines.
type textHasher interface {
	Hash(s string) uint64
}

// seededHasher is a reproducible text hasher: identical seeds give identical
// codes across process invocations.
type seededHasher struct {
	seed uint64
}

func (h seededHasher) Hash(s string) uint64 {
	return hashString(h.seed, s)
}

// newTextHasher returns the runtime's randomized string hasher when seed is 0,
// so codes differ between runs the way a per-process hash does. Any other seed
// pins the output.
func newTextHasher(seed uint64) textHasher {
	if seed == 0 {
		return maphash.NewHasher[string]()
	}
	return seededHasher{seed: seed}
}
