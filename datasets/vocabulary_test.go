package datasets

import "testing"

import "github.com/pkg/errors"

func TestVocabulary(t *testing.T) {
	v, err := NewVocabulary(map[string]int{"O": 0, "B-fromloc": 1, "I-fromloc": 2})
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 3 || v.Span() != 3 {
		t.Errorf("Len() == %d, Span() == %d", v.Len(), v.Span())
	}
	if !v.Dense() {
		t.Errorf("0..2 not dense")
	}
	if sparse := MustNewVocabulary(map[string]int{"a": 0, "b": 9}); sparse.Span() != 10 || sparse.Dense() {
		t.Errorf("sparse Span() == %d, Dense() == %v", sparse.Span(), sparse.Dense())
	}
	if i, ok := v.Index("B-fromloc"); !ok || i != 1 {
		t.Errorf("Index(B-fromloc) == %d, %v", i, ok)
	}
	if s, ok := v.String(2); !ok || s != "I-fromloc" {
		t.Errorf("String(2) == %q, %v", s, ok)
	}
	got, err := v.Strings([]int{1, 2, 0})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != "B-fromloc" || got[1] != "I-fromloc" || got[2] != "O" {
		t.Errorf("Strings == %v", got)
	}
	back, err := v.Indices(got)
	if err != nil || back[0] != 1 || back[1] != 2 || back[2] != 0 {
		t.Errorf("Indices == %v, %v", back, err)
	}
	if _, err := v.Strings([]int{7}); !errors.Is(err, ErrUnknown) {
		t.Errorf("unknown index: got %v", err)
	}
	if s := v.Sorted(); s[0] != "O" || s[2] != "I-fromloc" {
		t.Errorf("Sorted == %v", s)
	}
}

func TestVocabularyDuplicateIndex(t *testing.T) {
	_, err := NewVocabulary(map[string]int{"a": 0, "b": 0})
	if !errors.Is(err, ErrLoad) {
		t.Errorf("duplicate index: got %v", err)
	}
}

func TestVocabularyReadOnly(t *testing.T) {
	m := map[string]int{"a": 0}
	v := MustNewVocabulary(m)
	m["b"] = 1
	if v.Len() != 1 {
		t.Errorf("vocabulary shares the source map")
	}
	v.Map()["c"] = 2
	if _, ok := v.Index("c"); ok {
		t.Errorf("Map() exposes internal state")
	}
}
