package datasets

import "sort"

import "github.com/pkg/errors"

// Vocabulary is a read-only bidirectional mapping between strings and indices.
type Vocabulary struct {
	index  map[string]int
	string map[int]string
}

// NewVocabulary builds a vocabulary from a string to index mapping. Two
// strings sharing one index are rejected.
func NewVocabulary(m map[string]int) (*Vocabulary, error) {
	v := &Vocabulary{
		index:  make(map[string]int, len(m)),
		string: make(map[int]string, len(m)),
	}
	for s, i := range m {
		if i < 0 {
			return nil, errors.Wrapf(ErrLoad, "negative index %d for %q", i, s)
		}
		if prev, ok := v.string[i]; ok {
			return nil, errors.Wrapf(ErrLoad, "index %d used by both %q and %q", i, prev, s)
		}
		v.index[s] = i
		v.string[i] = s
	}
	return v, nil
}

// MustNewVocabulary is NewVocabulary which panics on error
func MustNewVocabulary(m map[string]int) *Vocabulary {
	v, err := NewVocabulary(m)
	if err != nil {
		panic(err.Error())
	}
	return v
}

// Len returns the number of entries
func (v *Vocabulary) Len() int {
	return len(v.index)
}

// Span returns the largest index plus one, the size of a dense table over the indices
func (v *Vocabulary) Span() (n int) {
	for i := range v.string {
		if i+1 > n {
			n = i + 1
		}
	}
	return
}

// Dense reports whether the indices are exactly 0 to Len()-1
func (v *Vocabulary) Dense() bool {
	return v.Span() == v.Len()
}

// Has reports whether index i is known
func (v *Vocabulary) Has(i int) bool {
	_, ok := v.string[i]
	return ok
}

// Index returns the index of s
func (v *Vocabulary) Index(s string) (int, bool) {
	i, ok := v.index[s]
	return i, ok
}

// String returns the string at index i
func (v *Vocabulary) String(i int) (string, bool) {
	s, ok := v.string[i]
	return s, ok
}

// Strings translates a sequence of indices back to strings
func (v *Vocabulary) Strings(indices []int) ([]string, error) {
	out := make([]string, len(indices))
	for n, i := range indices {
		s, ok := v.string[i]
		if !ok {
			return nil, errors.Wrapf(ErrUnknown, "index %d at position %d", i, n)
		}
		out[n] = s
	}
	return out, nil
}

// Indices translates a sequence of strings to indices
func (v *Vocabulary) Indices(strings []string) ([]int, error) {
	out := make([]int, len(strings))
	for n, s := range strings {
		i, ok := v.index[s]
		if !ok {
			return nil, errors.Wrapf(ErrUnknown, "%q at position %d", s, n)
		}
		out[n] = i
	}
	return out, nil
}

// Map returns a copy of the string to index mapping
func (v *Vocabulary) Map() map[string]int {
	m := make(map[string]int, len(v.index))
	for s, i := range v.index {
		m[s] = i
	}
	return m
}

// Sorted returns the strings ordered by index
func (v *Vocabulary) Sorted() []string {
	keys := make([]int, 0, len(v.string))
	for i := range v.string {
		keys = append(keys, i)
	}
	sort.Ints(keys)
	out := make([]string, len(keys))
	for n, i := range keys {
		out[n] = v.string[i]
	}
	return out
}
