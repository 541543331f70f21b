package main

import "context"
import "os"
import "path/filepath"
import "testing"

import "github.com/davecgh/go-spew/spew"

import "github.com/neurlang/slotfiller/conlleval"
import "github.com/neurlang/slotfiller/datasets"
import "github.com/neurlang/slotfiller/datasets/atis"
import "github.com/neurlang/slotfiller/history"
import "github.com/neurlang/slotfiller/tagger"
import "github.com/neurlang/slotfiller/trainer"

func TestRun(t *testing.T) {
	dir := t.TempDir()
	words := datasets.MustNewVocabulary(map[string]int{"from": 0, "boston": 1, "to": 2, "denver": 3, "flights": 4})
	labels := datasets.MustNewVocabulary(map[string]int{"O": 0, "B-fromloc": 1, "B-toloc": 2})
	train := datasets.Split{
		Words:    [][]int{{4, 0, 1, 2, 3}, {0, 3, 2, 1}, {4}},
		Features: [][]int{{0, 0, 0, 0, 0}, {0, 0, 0, 0}, {0}},
		Labels:   [][]int{{0, 0, 1, 0, 2}, {0, 1, 0, 2}, {0}},
	}
	eval := datasets.Split{
		Words:    [][]int{{0, 1, 2, 3}},
		Features: [][]int{{0, 0, 0, 0}},
		Labels:   [][]int{{0, 1, 0, 2}},
	}
	fold := &datasets.Fold{Train: train, Valid: eval, Test: eval, Words: words, Labels: labels}
	if err := atis.Save(filepath.Join(dir, atis.FileName(0)), fold); err != nil {
		t.Fatal(err)
	}

	cfg := trainer.DefaultConfig()
	cfg.Fold = 0
	cfg.Epochs = 3
	cfg.Hidden = 8
	cfg.EmbDimension = 8
	cfg.LearningRate = 1
	cfg.Threads = threads()
	cfg.Folder = filepath.Join(dir, "out", "elman")
	cfg.WeightsPath = filepath.Join(dir, "weights", "best_model.json.lzw")

	state, err := run(context.Background(), cfg, options{
		loader:   atis.Loader{Dirs: []string{dir}},
		averaged: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if state.Epoch != 2 || state.BestEpoch < 0 || state.Promotions < 1 {
		t.Fatalf("state %s", spew.Sdump(state))
	}

	// the best report re-scores to the state's validation result
	res, err := conlleval.EvaluateFile(filepath.Join(cfg.Folder, "best.valid.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if res.F1 != state.Valid.F1 {
		t.Errorf("best.valid.txt F1 %g, state %g", res.F1, state.Valid.F1)
	}
	if _, err := os.Stat(filepath.Join(cfg.Folder, "best.test.txt")); err != nil {
		t.Error(err)
	}
	if _, err := tagger.Load(cfg.WeightsPath); err != nil {
		t.Errorf("checkpoint: %v", err)
	}

	rec, err := history.Open(filepath.Join(cfg.Folder, "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()
	rows, err := rec.Epochs("")
	if err != nil || len(rows) != 3 {
		t.Fatalf("history: %v %s", err, spew.Sdump(rows))
	}
	for _, row := range rows {
		if row.Steps != 2 || row.Skipped != 1 {
			t.Errorf("epoch %d: %d steps, %d skipped", row.Epoch, row.Steps, row.Skipped)
		}
	}
}

func TestRunErrors(t *testing.T) {
	cfg := trainer.DefaultConfig()
	cfg.Folder = filepath.Join(t.TempDir(), "out")
	if _, err := run(context.Background(), cfg, options{loader: atis.Loader{Dirs: []string{t.TempDir()}}}); err == nil {
		t.Errorf("ran without a fold file")
	}
	cfg.Epochs = 0
	if _, err := run(context.Background(), cfg, options{}); err == nil {
		t.Errorf("ran with zero epochs")
	}
	if err := train(cfg, options{}, "sometimes", "valid", false); err == nil {
		t.Errorf("accepted an unknown seed policy")
	}
	cfg.Epochs = 1
	if err := train(cfg, options{}, "fixed", "best", false); err == nil {
		t.Errorf("accepted an unknown promotion policy")
	}
}
