package battleutil

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

type RandomSource interface {
	// IntBetween returns a uniform integer in [min, max].
	IntBetween(min, max int) int
}

type randomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a RandomSource seeded from crypto/rand. It is safe for concurrent use.
func NewRandomSource() (*randomSource, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, err
	}

	return NewSeededRandomSource(int64(binary.LittleEndian.Uint64(b[:]))), nil
}

func NewSeededRandomSource(seed int64) *randomSource {
	return &randomSource{rnd: rand.New(rand.NewSource(seed))}
}

func (r *randomSource) IntBetween(min, max int) int {
	if max <= min {
		return min
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return min + r.rnd.Intn(max-min+1)
}
