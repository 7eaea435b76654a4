package hashbench

import "fmt"

const (
	// DefaultModulus is the bucket count of the Simple baseline.
	DefaultModulus = 1_000_000
	// MaxModulus bounds Options.Modulus. Division keeps h*31+255 below 2^64
	// only while its prime stays under 2^59; 2^32 leaves ample room.
	MaxModulus = 1 << 32
)

// Options tune the parameterized functions of the default registry.
type Options struct {
	// NativeSeed pins the Native and Simple baselines. Zero keeps the
	// per-process randomized hash.
	NativeSeed uint64
	// Modulus is the bucket count of Simple and the lower bound of the
	// Division prime. Zero means DefaultModulus; values above MaxModulus are
	// clamped to it.
	Modulus uint64
	// SplitMixSeed seeds the SplitMix function.
	SplitMixSeed uint64
}

// Registry maps display names to hash functions. It is populated during setup
// and only read afterwards; Names preserves registration order.
type Registry struct {
	names []string
	funcs map[string]HashFunction
}

// NewRegistry registers fns in order.
func NewRegistry(fns ...HashFunction) (*Registry, error) {
	r := &Registry{funcs: make(map[string]HashFunction, len(fns))}
	for _, fn := range fns {
		if err := r.Register(fn); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns every built-in function.
func DefaultRegistry(opts Options) *Registry {
	modulus := opts.Modulus
	if modulus == 0 {
		modulus = DefaultModulus
	}
	modulus = min(modulus, MaxModulus)
	nh := newTextHasher(opts.NativeSeed)
	r, err := NewRegistry(
		Func{"MD5", md5Sum},
		Func{"SHA-1", sha1Sum},
		Func{"SHA-256", sha256Sum},
		Func{"BLAKE2b-256", blake2bSum},
		Func{"MurmurHash3", murmur3Sum},
		Func{"xxHash32", xxhash32Sum},
		Func{"xxHash64", xxhash64Sum},
		Func{"XXH3", xxh3Sum},
		sipHash{k0: 0x0706050403020100, k1: 0x0f0e0d0c0b0a0908},
		splitMix{seed: opts.SplitMixSeed},
		Func{"FNV-1a", fnv1aSum},
		native{h: nh},
		simple{h: nh, modulus: modulus},
		newDivision(modulus),
		identity{},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds fn. Names must be unique and non-empty.
func (r *Registry) Register(fn HashFunction) error {
	name := fn.Name()
	if name == "" {
		return fmt.Errorf("registering %T: empty name", fn)
	}
	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrDuplicateFunction)
	}
	r.funcs[name] = fn
	r.names = append(r.names, name)
	return nil
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (HashFunction, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len is the number of registered functions.
func (r *Registry) Len() int { return len(r.names) }

// Select returns a registry restricted to the given names, in the order
// given. An empty selection returns r itself.
func (r *Registry) Select(names ...string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}
	sel := &Registry{funcs: make(map[string]HashFunction, len(names))}
	for _, name := range names {
		fn, ok := r.funcs[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownFunction)
		}
		if err := sel.Register(fn); err != nil {
			return nil, err
		}
	}
	return sel, nil
}
