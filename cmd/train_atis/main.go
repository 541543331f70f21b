package main

import "context"
import "flag"
import "fmt"
import "log/slog"
import "os"
import "os/signal"
import "path/filepath"

import "github.com/klauspost/cpuid/v2"
import "github.com/pkg/errors"

import "github.com/neurlang/slotfiller/conlleval"
import "github.com/neurlang/slotfiller/datasets/atis"
import "github.com/neurlang/slotfiller/hash"
import "github.com/neurlang/slotfiller/history"
import "github.com/neurlang/slotfiller/logging"
import "github.com/neurlang/slotfiller/tagger"
import "github.com/neurlang/slotfiller/trainer"

// options are the settings of one run besides the trainer configuration
type options struct {
	loader   atis.Loader
	policy   trainer.Policy
	averaged bool
	// history database, "-" disables it
	history string
}

// threads is the default evaluation parallelism
func threads() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return 1
}

func main() {
	def := trainer.DefaultConfig()
	datadir := flag.String("datadir", "", "directory holding atis.fold<N>.json.gz, default locations when empty")
	digest := flag.String("sha256", "", "expected sha256 of the fold file")
	fold := flag.Int("fold", def.Fold, "fold number, 0-4")
	lr := flag.Float64("lr", def.LearningRate, "learning rate")
	nhidden := flag.Int("nhidden", def.Hidden, "hidden units, with -emb sizes the feature table")
	emb := flag.Int("emb", def.EmbDimension, "embedding dimension, with -nhidden sizes the feature table")
	seed := flag.Uint64("seed", def.Seed, "shuffle seed")
	epochs := flag.Int("epochs", def.Epochs, "number of epochs")
	verbose := flag.Bool("verbose", def.Verbose, "log training progress within epochs")
	out := flag.String("out", def.Folder, "run folder for the reports")
	weights := flag.String("weights", def.WeightsPath, "checkpoint of the best epoch")
	nthreads := flag.Int("threads", threads(), "sentences predicted at once during evaluation, logical cores by default")
	patience := flag.Int("patience", def.Patience, "stop after that many epochs without improvement, 0 trains all epochs")
	seedpolicy := flag.String("seedpolicy", def.SeedPolicy.String(), "shuffle seed per epoch: fixed or epoch")
	policy := flag.String("policy", "valid", "promotion policy: valid or tiebreak")
	averaged := flag.Bool("averaged", true, "predict with averaged weights")
	hist := flag.String("history", "", "sqlite epoch history, <out>/history.db when empty, - to disable")
	loglevel := flag.String("loglevel", "info", "debug, info, warn or error")
	logjson := flag.Bool("logjson", false, "log JSON records")
	pgo := flag.Bool("pgo", false, "write a cpu profile to default.pgo")
	flag.Parse()

	logging.Init(*logjson, logging.ParseLevel(*loglevel))

	cfg := def
	cfg.Fold = *fold
	cfg.LearningRate = *lr
	cfg.Hidden = *nhidden
	cfg.EmbDimension = *emb
	cfg.Seed = *seed
	cfg.Epochs = *epochs
	cfg.Verbose = *verbose
	cfg.Folder = *out
	cfg.WeightsPath = *weights
	cfg.Patience = *patience
	cfg.Threads = *nthreads

	opts := options{averaged: *averaged, history: *hist}
	if *datadir != "" {
		opts.loader.Dirs = []string{*datadir}
	}
	if *digest != "" {
		opts.loader.Digests = map[string]string{atis.FileName(cfg.Fold): *digest}
	}

	if err := train(cfg, opts, *seedpolicy, *policy, *pgo); err != nil {
		slog.Error("train_atis", "err", err)
		os.Exit(1)
	}
}

// train runs with the profiler and interrupt handler installed, and removes
// both before returning
func train(cfg trainer.Config, opts options, seedpolicy, policy string, pgo bool) error {
	defer profile(pgo)()

	var err error
	if cfg.SeedPolicy, err = trainer.ParseSeedPolicy(seedpolicy); err != nil {
		return err
	}
	var ok bool
	if opts.policy, ok = trainer.ParsePolicy(policy); !ok {
		return errors.Errorf("unknown promotion policy %q", policy)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	state, err := run(ctx, cfg, opts)
	if err != nil {
		return err
	}
	fmt.Printf("BEST RESULT: epoch %d valid F1 %.2f test F1 %.2f with the model %s\n",
		state.BestEpoch, state.Valid.F1, state.Test.F1, cfg.Folder)
	return nil
}

func run(ctx context.Context, cfg trainer.Config, opts options) (trainer.State, error) {
	if err := cfg.Validate(); err != nil {
		return trainer.State{}, err
	}
	if opts.policy == nil {
		opts.policy = trainer.ValidF1Policy{}
	}
	slog.Info("cpu",
		"brand", cpuid.CPU.BrandName,
		"logical_cores", cpuid.CPU.LogicalCores,
		"avx2", cpuid.CPU.Supports(cpuid.AVX2),
		"avx512", cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ),
		"hash_lanes", hash.Lanes(),
		"threads", cfg.Threads)

	fold, err := opts.loader.LoadFold(cfg.Fold)
	if err != nil {
		return trainer.State{}, err
	}

	model, err := tagger.New(tagger.Config{
		VocabSize:    fold.Words.Span(),
		EmbDimension: cfg.EmbDimension,
		Hidden:       cfg.Hidden,
		Classes:      fold.Labels.Span(),
		LearningRate: cfg.LearningRate,
		Averaged:     opts.averaged,
	})
	if err != nil {
		return trainer.State{}, err
	}
	slog.Info("model", "buckets", model.Buckets(), "words", fold.Words.Len(), "labels", fold.Labels.Len())
	slog.Debug("labels", "labels", fold.Labels.Sorted())

	hist := opts.history
	if hist == "" {
		hist = filepath.Join(cfg.Folder, "history.db")
	}
	topts := []trainer.Option{trainer.WithPolicy(opts.policy)}
	if hist != "-" {
		if err := os.MkdirAll(filepath.Dir(hist), 0755); err != nil {
			return trainer.State{}, errors.Wrap(err, "history folder")
		}
		recorder, err := history.Open(hist)
		if err != nil {
			return trainer.State{}, err
		}
		defer recorder.Close()
		topts = append(topts, trainer.WithObserver(recorder))
	}

	t, err := trainer.New(cfg, model, conlleval.Scorer{}, fold, topts...)
	if err != nil {
		return trainer.State{}, err
	}
	return t.Run(ctx)
}
