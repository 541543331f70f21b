package tagger

import "os"
import "path/filepath"
import "testing"

import "github.com/davecgh/go-spew/spew"
import "github.com/pkg/errors"

import "github.com/neurlang/slotfiller/hash"
import "github.com/neurlang/slotfiller/parallel"

func oneHot(labels []int, classes int) [][]float32 {
	out := make([][]float32, len(labels))
	for i, l := range labels {
		out[i] = make([]float32, classes)
		out[i][l] = 1
	}
	return out
}

// corpus returns sentences where word 5 is always labeled 1 and the word
// after it labeled 2, everything else 0.
func corpus() (words, labels [][]int) {
	var x uint32 = 12345
	for s := 0; s < 60; s++ {
		n := 2 + s%7
		var w, l []int
		for i := 0; i < n; i++ {
			x = x*1103515245 + 12345
			w = append(w, int(x>>16)%10)
		}
		for i := range w {
			switch {
			case w[i] == 5:
				l = append(l, 1)
			case i > 0 && w[i-1] == 5:
				l = append(l, 2)
			default:
				l = append(l, 0)
			}
		}
		words = append(words, w)
		labels = append(labels, l)
	}
	return
}

func trained(t *testing.T, averaged bool) *Model {
	m, err := New(Config{VocabSize: 10, EmbDimension: 64, Hidden: 64, Classes: 3, LearningRate: 0.1, Averaged: averaged})
	if err != nil {
		t.Fatal(err)
	}
	words, labels := corpus()
	for epoch := 0; epoch < 20; epoch++ {
		for i := range words {
			loss, err := m.TrainStep(words[i], oneHot(labels[i], 3))
			if err != nil {
				t.Fatal(err)
			}
			if loss < 0 || loss > 1 {
				t.Fatalf("loss %v out of range", loss)
			}
		}
	}
	return m
}

func TestBuckets(t *testing.T) {
	for _, tc := range []struct {
		n    int
		want uint32
	}{{0, 2}, {1, 2}, {2, 2}, {100, 101}, {10000, 10007}, {7919, 7919}} {
		if got := Buckets(tc.n); got != tc.want {
			t.Errorf("Buckets(%d) == %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestNewInvalid(t *testing.T) {
	for _, c := range []Config{
		{VocabSize: 0, EmbDimension: 1, Hidden: 1, Classes: 1, LearningRate: 0.1},
		{VocabSize: 1, EmbDimension: 1, Hidden: 1, Classes: 0, LearningRate: 0.1},
		{VocabSize: 1, EmbDimension: 1, Hidden: 1, Classes: 1, LearningRate: 0},
	} {
		if _, err := New(c); err == nil {
			t.Errorf("New(%+v) accepted", c)
		}
	}
}

func TestLearns(t *testing.T) {
	// the last weights separate the corpus; their average may still miss a few tokens
	for _, c := range []struct {
		averaged bool
		accuracy float64
	}{{false, 1}, {true, 0.98}} {
		m := trained(t, c.averaged)
		words, labels := corpus()
		var right, total int
		for i := range words {
			got, err := m.Predict(words[i])
			if err != nil {
				t.Fatal(err)
			}
			for j := range got {
				if got[j] == labels[i][j] {
					right++
				}
				total++
			}
		}
		if acc := float64(right) / float64(total); acc < c.accuracy {
			t.Errorf("averaged=%v: accuracy %.4f (%d/%d) below %.2f", c.averaged, acc, right, total, c.accuracy)
		}
	}
}

func TestSentenceFeatures(t *testing.T) {
	m, err := New(Config{VocabSize: 10, EmbDimension: 8, Hidden: 8, Classes: 3, LearningRate: 1})
	if err != nil {
		t.Fatal(err)
	}
	words := []int{3, 1, 4, 1, 5, 9, 2, 6, 5}
	var sc scratch
	m.features(&sc, words)
	if len(sc.slots)%hash.Lanes() != 0 || len(sc.slots) < len(words)*templates {
		t.Fatalf("%d slots for %d tokens with %d lanes", len(sc.slots), len(words), hash.Lanes())
	}
	for i, w := range words {
		f := sc.token(i)
		if f[tWord] != hash.Hash(uint32(w), m.salts[tWord], m.buckets) {
			t.Errorf("token %d word bucket %d", i, f[tWord])
		}
		if f[tBias] != hash.Hash(0, m.salts[tBias], m.buckets) {
			t.Errorf("token %d bias bucket %d", i, f[tBias])
		}
		if i > 0 && f[tPrev] != hash.Hash(uint32(words[i-1]), m.salts[tPrev], m.buckets) {
			t.Errorf("token %d prev bucket %d", i, f[tPrev])
		}
	}
	// a shorter sentence reuses the buffers
	size := len(sc.slots)
	m.features(&sc, words[:2])
	if len(sc.slots) != size || sc.token(1)[tWord] != hash.Hash(1, m.salts[tWord], m.buckets) {
		t.Errorf("shorter sentence after a longer one")
	}
}

func TestTrainStepInvalid(t *testing.T) {
	m, _ := New(Config{VocabSize: 4, EmbDimension: 4, Hidden: 4, Classes: 2, LearningRate: 1})
	cases := []struct {
		words  []int
		labels [][]float32
	}{
		{nil, nil},
		{[]int{1, 2}, oneHot([]int{1}, 2)},
		{[]int{1, 9}, oneHot([]int{1, 0}, 2)},
		{[]int{1, 2}, [][]float32{{1}, {0, 1}}},
	}
	for _, c := range cases {
		if _, err := m.TrainStep(c.words, c.labels); !errors.Is(err, ErrInput) {
			t.Errorf("TrainStep(%s) == %v", spew.Sdump(c), err)
		}
	}
	if _, err := m.Predict([]int{-1}); !errors.Is(err, ErrInput) {
		t.Errorf("Predict(-1) == %v", err)
	}
}

func TestCheckpoint(t *testing.T) {
	m := trained(t, true)
	dir := t.TempDir()
	path := filepath.Join(dir, "weights", "best_model.json.lzw")
	if err := m.SaveCheckpoint(path); err != nil {
		t.Fatal(err)
	}
	// overwrite in place
	if err := m.SaveCheckpoint(path); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files: %v", entries)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Config() != m.Config() || back.Buckets() != m.Buckets() {
		t.Errorf("config differs: %+v %+v", back.Config(), m.Config())
	}
	words, _ := corpus()
	for i := range words {
		a, _ := m.Predict(words[i])
		b, _ := back.Predict(words[i])
		for j := range a {
			if a[j] != b[j] {
				t.Fatalf("sentence %d predictions differ after load: %v %v", i, a, b)
			}
		}
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.lzw")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("corrupt checkpoint loaded")
	}
}

func TestFilterSize(t *testing.T) {
	m, _ := New(Config{VocabSize: 10, EmbDimension: 8, Hidden: 8, Classes: 3, LearningRate: 0.1})
	if n := m.FilterSize(); n != 0 {
		t.Errorf("untrained FilterSize == %d", n)
	}
	m = trained(t, false)
	d := m.Decisions()
	if len(d) == 0 {
		t.Fatalf("trained model has no decisions")
	}
	f, tr := d.Balance()
	if f == 0 || tr == 0 {
		t.Errorf("decisions should vote both ways: %d false, %d true", f, tr)
	}
	if m.FilterSize() == 0 {
		t.Errorf("trained FilterSize == 0")
	}
}

func TestConcurrentPredict(t *testing.T) {
	m := trained(t, true)
	words, _ := corpus()
	want := make([][]int, len(words))
	for i := range words {
		p, err := m.Predict(words[i])
		if err != nil {
			t.Fatal(err)
		}
		want[i] = p
	}
	err := parallel.ForEach(len(words), 8, func(i int) error {
		p, err := m.Predict(words[i])
		if err != nil {
			return err
		}
		for j := range p {
			if p[j] != want[i][j] {
				t.Errorf("sentence %d differs when predicted concurrently: %v != %v", i, p, want[i])
				break
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
