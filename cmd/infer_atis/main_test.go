package main

import "os"
import "path/filepath"
import "strings"
import "testing"

import "github.com/pkg/errors"

import "github.com/neurlang/slotfiller/datasets"
import "github.com/neurlang/slotfiller/datasets/atis"
import "github.com/neurlang/slotfiller/tagger"

func TestInfer(t *testing.T) {
	dir := t.TempDir()
	words := datasets.MustNewVocabulary(map[string]int{"from": 0, "boston": 1, "to": 2, "denver": 3})
	labels := datasets.MustNewVocabulary(map[string]int{"O": 0, "B-fromloc": 1, "B-toloc": 2})
	split := datasets.Split{
		Words:    [][]int{{0, 1, 2, 3}},
		Features: [][]int{{0, 0, 0, 0}},
		Labels:   [][]int{{0, 1, 0, 2}},
	}
	fold := &datasets.Fold{Train: split, Valid: split, Test: split, Words: words, Labels: labels}
	if err := atis.Save(filepath.Join(dir, atis.FileName(1)), fold); err != nil {
		t.Fatal(err)
	}

	model, err := tagger.New(tagger.Config{VocabSize: 4, EmbDimension: 4, Hidden: 4, Classes: 3, LearningRate: 1})
	if err != nil {
		t.Fatal(err)
	}
	weights := filepath.Join(dir, "weights", "best_model.json.lzw")
	if err := model.SaveCheckpoint(weights); err != nil {
		t.Fatal(err)
	}

	report := filepath.Join(dir, "test.report.txt")
	res, err := infer(atis.Loader{Dirs: dirs(dir)}, 1, weights, "test", report)
	if err != nil {
		t.Fatal(err)
	}
	// an untrained model predicts label 0 everywhere
	if res.Gold != 2 || res.Found != 0 || res.Tokens != 6 {
		t.Errorf("result %s", res.String())
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "boston B-fromloc O\n") {
		t.Errorf("report %q", data)
	}

	if _, err := infer(atis.Loader{Dirs: dirs(dir)}, 1, weights, "train", report); err == nil {
		t.Errorf("scored the train split")
	}
	if _, err := infer(atis.Loader{Dirs: dirs(dir)}, 2, weights, "test", report); err == nil {
		t.Errorf("loaded a missing fold")
	}

	tagged, tags, err := tag(atis.Loader{Dirs: dirs(dir)}, 1, weights, "From Boston  to DENVER")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(tagged, " ") != "from boston to denver" || strings.Join(tags, " ") != "O O O O" {
		t.Errorf("tagged %v as %v", tagged, tags)
	}
	if _, _, err := tag(atis.Loader{Dirs: dirs(dir)}, 1, weights, "from paris"); !errors.Is(err, datasets.ErrUnknown) {
		t.Errorf("word outside a vocabulary without <UNK>: %v", err)
	}
	if _, _, err := tag(atis.Loader{Dirs: dirs(dir)}, 1, weights, "  "); err == nil {
		t.Errorf("tagged an empty sentence")
	}
}
