package testutil

import "sync"

// FixedRandom returns Values in order, repeating the last one once they are used up. Without
// values it always returns the lower bound.
type FixedRandom struct {
	Values []int

	mu   sync.Mutex
	next int
}

func (r *FixedRandom) IntBetween(min, max int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Values) == 0 {
		return min
	}

	i := r.next
	if i >= len(r.Values) {
		i = len(r.Values) - 1
	} else {
		r.next++
	}

	return r.Values[i]
}
