package hashbench

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"strings"

	onexxhash "github.com/OneOfOne/xxhash"
	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/twmb/murmur3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Code is a hash code produced by a HashFunction.
type Code uint64

// SentinelCode replaces the code of an element whose hashing failed.
//
// It is indistinguishable from a legitimate zero code, so a function that
// fails on many elements shows up as an artificial collision cluster at 0.
// TestResult.Failures counts the substitutions so reports can flag it.
const SentinelCode Code = 0

// HashFunction is a named, deterministic mapping from the canonical text of
// an element to a code. Implementations must be safe for concurrent use.
type HashFunction interface {
	Name() string
	Sum(text string) (Code, error)
}

// RowHasher is implemented by functions that hash row fields natively
// instead of hashing the row's canonical text.
type RowHasher interface {
	SumRow(fields []string) (Code, error)
}

// ShapeLimiter is implemented by functions that cannot process every element
// kind. Pairs with an unsupported dataset kind are skipped.
type ShapeLimiter interface {
	Supports(k Kind) bool
}

// Func adapts a plain function to HashFunction.
type Func struct {
	Label string
	Fn    func(text string) (Code, error)
}

func (f Func) Name() string                  { return f.Label }
func (f Func) Sum(text string) (Code, error) { return f.Fn(text) }

// digestCode keeps the 64 most significant bits of a digest.
func digestCode(sum []byte) Code {
	return Code(binary.BigEndian.Uint64(sum[:8]))
}

// signed32 sign-extends a 32-bit code the way mmh3-style signed hashes are
// reported, keeping distinct values distinct.
func signed32(v uint32) Code {
	return Code(uint64(int64(int32(v))))
}

func md5Sum(text string) (Code, error) {
	s := md5.Sum([]byte(text))
	return digestCode(s[:]), nil
}

func sha1Sum(text string) (Code, error) {
	s := sha1.Sum([]byte(text))
	return digestCode(s[:]), nil
}

func sha256Sum(text string) (Code, error) {
	s := sha256.Sum256([]byte(text))
	return digestCode(s[:]), nil
}

func blake2bSum(text string) (Code, error) {
	s := blake2b.Sum256([]byte(text))
	return digestCode(s[:]), nil
}

func murmur3Sum(text string) (Code, error) {
	return signed32(murmur3.Sum32([]byte(text))), nil
}

func xxhash32Sum(text string) (Code, error) {
	return Code(onexxhash.ChecksumString32(text)), nil
}

func xxhash64Sum(text string) (Code, error) {
	return Code(xxhash.Sum64String(text)), nil
}

func xxh3Sum(text string) (Code, error) {
	return Code(xxh3.HashString(text)), nil
}

func fnv1aSum(text string) (Code, error) {
	h := fnv.New64a()
	h.Write([]byte(text))
	return Code(h.Sum64()), nil
}

// sipHash is SipHash-2-4 under a fixed 128-bit key.
type sipHash struct {
	k0, k1 uint64
}

func (sipHash) Name() string { return "SipHash-2-4" }

func (s sipHash) Sum(text string) (Code, error) {
	return Code(siphash.Hash(s.k0, s.k1, []byte(text))), nil
}

// splitMix hashes integer scalars with splitmix64 directly, which is
// injective, and everything else with the 64-bit block hasher. Only the
// canonical decimal form of an integer takes the direct path, so "01", "+1"
// and "1" stay distinct inputs.
type splitMix struct {
	seed uint64
}

func (splitMix) Name() string { return "SplitMix" }

func (s splitMix) Sum(text string) (Code, error) {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil && strconv.FormatInt(v, 10) == text {
		return Code(hashInt64(s.seed, v)), nil
	}
	return Code(hashString(s.seed, text)), nil
}

// native is the runtime string hash. Unless seeded, its codes change from one
// process to the next.
type native struct {
	h textHasher
}

func (native) Name() string { return "Native" }

func (n native) Sum(text string) (Code, error) {
	return Code(n.h.Hash(text)), nil
}

// simple is the naive baseline: the native hash reduced modulo a fixed
// bucket count. Rows sum the per-field hashes before the reduction.
type simple struct {
	h       textHasher
	modulus uint64
}

func (simple) Name() string { return "Simple" }

func (s simple) Sum(text string) (Code, error) {
	return Code(s.h.Hash(text) % s.modulus), nil
}

func (s simple) SumRow(fields []string) (Code, error) {
	var sum uint64
	for _, f := range fields {
		sum += s.h.Hash(f)
	}
	return Code(sum % s.modulus), nil
}

// division is the textbook polynomial string hash (multiplier 31) reduced
// modulo a prime.
type division struct {
	prime uint64
}

func newDivision(modulus uint64) division {
	return division{prime: nextPrime(modulus)}
}

func (division) Name() string { return "Division" }

func (d division) Sum(text string) (Code, error) {
	var h uint64
	for i := 0; i < len(text); i++ {
		h = (h*31 + uint64(text[i])) % d.prime
	}
	return Code(h), nil
}

// identity maps an integer scalar to its own value. It is the perfect
// injective reference for integer datasets and rejects anything else.
type identity struct{}

func (identity) Name() string { return "Identity" }

func (identity) Supports(k Kind) bool { return k == KindScalar }

func (identity) Sum(text string) (Code, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return SentinelCode, ErrNotInteger
	}
	return Code(uint64(v)), nil
}
