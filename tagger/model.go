// Package tagger implements an online hashed-feature perceptron for sequence labeling.
// Each token is described by a window of hashed context features; every feature
// bucket keeps one weight per label.
package tagger

import "github.com/jbarham/primegen"
import "github.com/pkg/errors"

import "github.com/neurlang/slotfiller/hash"

// ErrInput is returned for sentences the model cannot consume
var ErrInput = errors.New("invalid model input")

// Config configures the model
type Config struct {
	VocabSize    int
	EmbDimension int
	Hidden       int
	Classes      int
	LearningRate float64

	// Averaged makes Predict use the average of all weight vectors seen during training
	Averaged bool
}

// template numbers
const (
	tWord = iota
	tPrev
	tNext
	tPrev2
	tNext2
	tPrevWord
	tWordNext
	tBias
	templates
)

// Model is the tagger. Predict may run concurrently with other Predict
// calls, but not with TrainStep or Load.
type Model struct {
	config  Config
	buckets uint32
	salts   [templates]uint32

	// weights and updates are buckets*classes, row major by bucket
	weights []float32
	updates []float64
	step    float64

	// train is the scratch space of TrainStep
	train *scratch
}

// scratch holds the hash keys and feature buckets of one sentence,
// templates entries per token, padded to the hash batch width
type scratch struct {
	keys, salt, slots []uint32
}

// grow makes room for n tokens
func (sc *scratch) grow(m *Model, n int) {
	size := hash.Padded(n * templates)
	if len(sc.keys) >= size {
		return
	}
	sc.keys = make([]uint32, size)
	sc.salt = make([]uint32, size)
	sc.slots = make([]uint32, size)
	for j := range sc.salt {
		sc.salt[j] = m.salts[j%templates]
	}
}

// token returns the feature buckets of token i
func (sc *scratch) token(i int) []uint32 {
	return sc.slots[i*templates : (i+1)*templates]
}

// Buckets returns the smallest prime not below n
func Buckets(n int) uint32 {
	if n < 2 {
		n = 2
	}
	pg := primegen.New()
	pg.SkipTo(uint64(n))
	p := pg.Next()
	for p < uint64(n) {
		p = pg.Next()
	}
	return uint32(p)
}

// New creates an untrained model
func New(c Config) (*Model, error) {
	if c.VocabSize <= 0 || c.Classes <= 0 || c.EmbDimension <= 0 || c.Hidden <= 0 {
		return nil, errors.Errorf("tagger: sizes must be positive: %+v", c)
	}
	if c.LearningRate <= 0 {
		return nil, errors.Errorf("tagger: learning rate must be positive: %v", c.LearningRate)
	}
	m := &Model{
		config:  c,
		buckets: Buckets(c.EmbDimension * c.Hidden),
	}
	m.init()
	m.weights = make([]float32, int(m.buckets)*c.Classes)
	m.updates = make([]float64, int(m.buckets)*c.Classes)
	return m, nil
}

func (m *Model) init() {
	for t := range m.salts {
		m.salts[t] = hash.Mix(uint32(t)+1, 0x5bd1e995)
	}
	m.train = new(scratch)
}

// Config returns the model configuration
func (m *Model) Config() Config {
	return m.config
}

// Buckets returns the size of the feature table
func (m *Model) Buckets() int {
	return int(m.buckets)
}

// word returns the token at i, or a padding value past either end of the sentence
func (m *Model) word(words []int, i int) uint32 {
	if i < 0 {
		return uint32(m.config.VocabSize)
	}
	if i >= len(words) {
		return uint32(m.config.VocabSize) + 1
	}
	return uint32(words[i])
}

// features fills sc with the feature buckets of every token in one hash batch.
// Buckets depend only on the words, so they stay valid across weight updates.
func (m *Model) features(sc *scratch, words []int) {
	sc.grow(m, len(words))
	for i := range words {
		k := sc.keys[i*templates : (i+1)*templates]
		w := m.word(words, i)
		k[tWord] = w
		k[tPrev] = m.word(words, i-1)
		k[tNext] = m.word(words, i+1)
		k[tPrev2] = m.word(words, i-2)
		k[tNext2] = m.word(words, i+2)
		k[tPrevWord] = hash.Pair(k[tPrev], w)
		k[tWordNext] = hash.Pair(w, k[tNext])
		k[tBias] = 0
	}
	size := hash.Padded(len(words) * templates)
	hash.Batch(sc.slots[:size], sc.keys[:size], sc.salt[:size], m.buckets)
}

// scores returns the per label scores of a token from its feature buckets;
// averaged selects the averaged weights
func (m *Model) scores(features []uint32, averaged bool, out []float32) {
	for c := range out {
		out[c] = 0
	}
	classes := m.config.Classes
	for _, b := range features {
		row := int(b) * classes
		for c := range out {
			if averaged && m.step > 0 {
				out[c] += m.weights[row+c] - float32(m.updates[row+c]/m.step)
			} else {
				out[c] += m.weights[row+c]
			}
		}
	}
}

func argmax(v []float32) (best int) {
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return
}

func (m *Model) check(words []int) error {
	if len(words) == 0 {
		return errors.Wrap(ErrInput, "empty sentence")
	}
	for i, w := range words {
		if w < 0 || w >= m.config.VocabSize {
			return errors.Wrapf(ErrInput, "word %d at position %d out of vocabulary of %d", w, i, m.config.VocabSize)
		}
	}
	return nil
}
