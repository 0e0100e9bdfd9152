package random

import (
	"crypto/rand"
	"math/big"
)

// Random abstracts randomness so access-key generation is deterministic
// in tests.
type Random interface {
	// Intn returns a uniform random int in [0, n)
	Intn(n int) int

	// String returns a random string of the given length drawn from
	// the alphabet
	String(length int, alphabet string) string
}

type cryptoRandom struct{}

// New returns a Random backed by crypto/rand
func New() Random {
	return cryptoRandom{}
}

func (cryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the platform entropy source is
		// broken; nothing sensible to return
		panic(err)
	}
	return int(v.Int64())
}

func (c cryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[c.Intn(len(alphabet))]
	}
	return string(out)
}
