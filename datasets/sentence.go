package datasets

import "github.com/pkg/errors"

// Sentence is one example: token indices, auxiliary feature indices and gold
// label indices, all of equal length.
type Sentence struct {
	Words    []int
	Features []int
	Labels   []int
}

// Len returns the number of tokens
func (s Sentence) Len() int {
	return len(s.Words)
}

// Split is a train, validation or test partition stored as three parallel lists.
type Split struct {
	Words    [][]int
	Features [][]int
	Labels   [][]int
}

// Len returns the number of sentences
func (s *Split) Len() int {
	return len(s.Words)
}

// At returns the i-th sentence. The slices are shared with the split.
func (s *Split) At(i int) Sentence {
	return Sentence{
		Words:    s.Words[i],
		Features: s.Features[i],
		Labels:   s.Labels[i],
	}
}

// Append adds a sentence to the end of the split
func (s *Split) Append(sentence Sentence) {
	s.Words = append(s.Words, sentence.Words)
	s.Features = append(s.Features, sentence.Features)
	s.Labels = append(s.Labels, sentence.Labels)
}

// Check verifies that the three lists have matching sentence counts and
// per-sentence lengths.
func (s *Split) Check() error {
	if len(s.Words) != len(s.Features) || len(s.Words) != len(s.Labels) {
		return errors.Wrapf(ErrShapeMismatch, "%d word lists, %d feature lists, %d label lists",
			len(s.Words), len(s.Features), len(s.Labels))
	}
	for i := range s.Words {
		if len(s.Words[i]) != len(s.Features[i]) || len(s.Words[i]) != len(s.Labels[i]) {
			return errors.Wrapf(ErrShapeMismatch, "sentence %d: %d words, %d features, %d labels",
				i, len(s.Words[i]), len(s.Features[i]), len(s.Labels[i]))
		}
	}
	return nil
}

// Shuffle permutes the three lists with one permutation drawn from seed.
func (s *Split) Shuffle(seed uint64) error {
	return Shuffle(seed, Slice[[]int](s.Words), Slice[[]int](s.Features), Slice[[]int](s.Labels))
}

// Fold is one fixed train/validation/test partition with its vocabularies.
type Fold struct {
	Train, Valid, Test Split

	Words  *Vocabulary
	Labels *Vocabulary
}

// Check verifies all splits and that every index is known to the vocabularies.
// Label indices must be dense, since models score every index below Labels.Span().
func (f *Fold) Check() error {
	if !f.Labels.Dense() {
		return errors.Wrapf(ErrUnknown, "label indices have gaps: %d labels span %d", f.Labels.Len(), f.Labels.Span())
	}
	for _, named := range []struct {
		name  string
		split *Split
	}{{"train", &f.Train}, {"valid", &f.Valid}, {"test", &f.Test}} {
		if err := named.split.Check(); err != nil {
			return errors.WithMessage(err, named.name)
		}
		for i := range named.split.Words {
			for _, w := range named.split.Words[i] {
				if !f.Words.Has(w) {
					return errors.Wrapf(ErrUnknown, "%s sentence %d: word index %d", named.name, i, w)
				}
			}
			for _, l := range named.split.Labels[i] {
				if !f.Labels.Has(l) {
					return errors.Wrapf(ErrUnknown, "%s sentence %d: label index %d", named.name, i, l)
				}
			}
		}
	}
	return nil
}

// Provider loads folds by index
type Provider interface {
	LoadFold(fold int) (*Fold, error)
}
