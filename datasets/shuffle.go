package datasets

import "github.com/pkg/errors"
import "golang.org/x/exp/rand"

// Permutable is a list that can be permuted in place
type Permutable interface {
	Len() int
	Swap(i, j int)
}

// Slice adapts any slice to Permutable
type Slice[T any] []T

func (s Slice[T]) Len() int      { return len(s) }
func (s Slice[T]) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Shuffle draws a single permutation from seed and applies it to every list,
// so element i of every list still refers to the same original example.
// Lists of differing length are rejected before anything is mutated.
func Shuffle(seed uint64, lists ...Permutable) error {
	if len(lists) == 0 {
		return nil
	}
	n := lists[0].Len()
	for i, l := range lists[1:] {
		if l.Len() != n {
			return errors.Wrapf(ErrShapeMismatch, "list %d has %d elements, want %d", i+1, l.Len(), n)
		}
	}
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(n, func(i, j int) {
		for _, l := range lists {
			l.Swap(i, j)
		}
	})
	return nil
}

// Permutation returns the permutation Shuffle applies for seed and n
// elements: position i receives the element originally at p[i].
func Permutation(seed uint64, n int) (p []int) {
	p = make([]int, n)
	for i := range p {
		p[i] = i
	}
	_ = Shuffle(seed, Slice[int](p))
	return p
}
