package hashbench

// nextPrime returns the smallest prime greater than or equal to n. The
// Division baseline uses it to pick its modulus.
func nextPrime(n uint64) uint64 {
	if n <= 2 {
		return 2
	}
	if isPrime(n) {
		return n
	}
	candidate := n + 1
	if candidate%2 == 0 {
		candidate++
	}
	for ; !isPrime(candidate); candidate += 2 {
	}
	return candidate
}

// The 6542 primes below 65536 fit in uint16 values. They are the most
// probable divisors, so trial division tries them first and only falls back
// to 6k±1 candidates for inputs beyond 65521².
var primesUnder64k = [6542]uint16{}

func init() {
	// Sieve of Eratosthenes
	const limit = 65536
	isComposite := make([]bool, limit)
	for i := 2; i*i < limit; i++ {
		if !isComposite[i] {
			for j := i * i; j < limit; j += i {
				isComposite[j] = true
			}
		}
	}
	index := 0
	for i := 2; i < limit; i++ {
		if !isComposite[i] {
			primesUnder64k[index] = uint16(i)
			index++
		}
	}
	if index != len(primesUnder64k) {
		panic("unexpected number of primes under 65536")
	}
}

func isPrime(x uint64) bool {
	if x < 2 {
		return false
	}
	for _, p := range primesUnder64k {
		d := uint64(p)
		if d*d > x {
			return true
		}
		if x%d == 0 {
			return x == d
		}
	}
	// 65537 = 6*10922+5, so stepping through 6k-1 and 6k+1 starts here.
	for d := uint64(65537); d <= x/d; d += 6 {
		if x%d == 0 || x%(d+2) == 0 {
			return false
		}
	}
	return true
}
