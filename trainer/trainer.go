package trainer

import "context"
import "fmt"
import "log/slog"
import "os"
import "time"

import "github.com/google/uuid"
import "github.com/pkg/errors"

import "github.com/neurlang/slotfiller/conlleval"
import "github.com/neurlang/slotfiller/datasets"
import "github.com/neurlang/slotfiller/parallel"

// EpochReport describes one finished epoch
type EpochReport struct {
	RunID string
	Epoch int

	Valid, Test conlleval.Result

	Promoted  bool
	BestEpoch int

	// Steps is the number of sentences trained on, Skipped the number left out
	Steps, Skipped int
	// Loss is the mean TrainStep loss
	Loss float64

	// Fingerprint of the validation predictions
	Fingerprint Fingerprint

	Duration time.Duration
}

// Observer receives every finished epoch. An error aborts the run.
type Observer interface {
	Observe(EpochReport) error
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(EpochReport) error

func (f ObserverFunc) Observe(r EpochReport) error {
	return f(r)
}

// Option customizes a Trainer
type Option func(*Trainer)

// WithLogger logs through l instead of slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(t *Trainer) {
		t.log = l
	}
}

// WithObserver adds an epoch observer
func WithObserver(o Observer) Option {
	return func(t *Trainer) {
		t.observers = append(t.observers, o)
	}
}

// WithPolicy replaces ValidF1Policy
func WithPolicy(p Policy) Option {
	return func(t *Trainer) {
		t.policy = p
	}
}

// WithRunID replaces the random run id
func WithRunID(id string) Option {
	return func(t *Trainer) {
		t.runID = id
	}
}

// how many progress lines a verbose epoch logs
const progressLines = 10

// Trainer owns the training state of one run. It is not safe for concurrent use.
type Trainer struct {
	config  Config
	model   Model
	scorer  Scorer
	fold    *datasets.Fold
	classes int

	policy    Policy
	reports   *Reports
	log       *slog.Logger
	observers []Observer
	runID     string

	state State
	now   func() time.Time
}

// New creates the run folder and returns a Trainer in its initial state.
func New(cfg Config, model Model, scorer Scorer, fold *datasets.Fold, opts ...Option) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if model == nil || scorer == nil || fold == nil || fold.Words == nil || fold.Labels == nil {
		return nil, errors.Wrap(ErrConfig, "missing model, scorer, fold or vocabulary")
	}
	if err := fold.Check(); err != nil {
		return nil, errors.WithMessage(err, "fold")
	}
	if err := os.MkdirAll(cfg.Folder, 0755); err != nil {
		return nil, errors.Wrap(err, "create run folder")
	}
	t := &Trainer{
		config:  cfg,
		model:   model,
		scorer:  scorer,
		fold:    fold,
		classes: fold.Labels.Span(),
		policy:  ValidF1Policy{},
		reports: NewReports(cfg.Folder),
		log:     slog.Default(),
		runID:   uuid.New().String(),
		state:   newState(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With("run", t.runID)
	return t, nil
}

// Config returns the run configuration
func (t *Trainer) Config() Config {
	return t.config
}

// State returns a copy of the training state
func (t *Trainer) State() State {
	return t.state
}

// RunID identifies the run in logs and history
func (t *Trainer) RunID() string {
	return t.runID
}

// Reports returns the report store of the run folder
func (t *Trainer) Reports() *Reports {
	return t.reports
}

// Run trains the remaining epochs of the budget and returns the final state.
// With Config.Patience set, it also stops once that many consecutive epochs
// were not promoted.
func (t *Trainer) Run(ctx context.Context) (State, error) {
	t.log.Info("training",
		"fold", t.config.Fold,
		"epochs", t.config.Epochs,
		"lr", t.config.LearningRate,
		"seed", t.config.Seed,
		"seed_policy", t.config.SeedPolicy.String(),
		"train", t.fold.Train.Len(),
		"valid", t.fold.Valid.Len(),
		"test", t.fold.Test.Len(),
		"classes", t.classes)

	for e := t.state.Epoch + 1; e < t.config.Epochs; e++ {
		if _, err := t.Epoch(ctx, e); err != nil {
			return t.state, err
		}
		if t.config.Patience > 0 && t.state.Stale() >= t.config.Patience {
			t.log.Info("early stop", "epoch", e, "best_epoch", t.state.BestEpoch, "patience", t.config.Patience)
			break
		}
	}

	t.log.Info("BEST RESULT",
		"epoch", t.state.BestEpoch,
		"valid_f1", t.state.Valid.F1,
		"test_f1", t.state.Test.F1,
		"folder", t.reports.Dir())
	return t.state, nil
}

// Epoch shuffles and trains on the training split, scores the test and
// validation splits and promotes the epoch when the policy accepts it.
func (t *Trainer) Epoch(ctx context.Context, e int) (rep EpochReport, err error) {
	start := t.now()
	rep.RunID = t.runID
	rep.Epoch = e

	seed := t.config.SeedPolicy.Seed(t.config.Seed, e)
	if err = t.fold.Train.Shuffle(seed); err != nil {
		return rep, errors.WithMessagef(err, "shuffle epoch %d", e)
	}
	if err = t.train(ctx, e, start, &rep); err != nil {
		return rep, err
	}

	rep.Test, _, err = t.evaluate(ctx, e, "test", &t.fold.Test)
	if err != nil {
		return rep, err
	}
	var predictions [][]int
	rep.Valid, predictions, err = t.evaluate(ctx, e, "valid", &t.fold.Valid)
	if err != nil {
		return rep, err
	}
	rep.Fingerprint = fingerprint(predictions)

	if t.policy.Improved(rep.Valid, rep.Test, t.state) {
		if err = t.promote(e, rep.Valid, rep.Test); err != nil {
			return rep, err
		}
		rep.Promoted = true
	}
	t.state.Epoch = e
	rep.BestEpoch = t.state.BestEpoch
	rep.Duration = t.now().Sub(start)

	t.log.Info("epoch",
		"epoch", e,
		"valid_f1", rep.Valid.F1,
		"test_f1", rep.Test.F1,
		"loss", rep.Loss,
		"skipped", rep.Skipped,
		"promoted", rep.Promoted,
		"duration", rep.Duration)

	for _, o := range t.observers {
		if err = o.Observe(rep); err != nil {
			return rep, errors.WithMessagef(err, "observe epoch %d", e)
		}
	}
	return rep, nil
}

func (t *Trainer) train(ctx context.Context, e int, start time.Time, rep *EpochReport) error {
	var n = t.fold.Train.Len()
	var every = n / progressLines
	if every == 0 {
		every = 1
	}
	var loss float64
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := t.fold.Train.At(i)
		// a single token carries no sequence to learn from
		if s.Len() <= 1 {
			rep.Skipped++
			continue
		}
		l, err := t.model.TrainStep(s.Words, OneHot(s.Labels, t.classes))
		if err != nil {
			return kind(ErrTrainStep, err, "epoch %d sentence %d", e, i)
		}
		loss += l
		rep.Steps++

		if t.config.Verbose && ((i+1)%every == 0 || i+1 == n) {
			t.log.Info(fmt.Sprintf("[learning] epoch %d >> %2.2f%% completed in %.2f (sec) <<",
				e, 100*float64(i+1)/float64(n), t.now().Sub(start).Seconds()))
		}
	}
	if rep.Steps > 0 {
		rep.Loss = loss / float64(rep.Steps)
	}
	return nil
}

func (t *Trainer) evaluate(ctx context.Context, e int, split string, data *datasets.Split) (res conlleval.Result, predictions [][]int, err error) {
	var n = data.Len()
	predictions = make([][]int, n)
	var pred = make([][]string, n)
	var gold = make([][]string, n)
	var words = make([][]string, n)
	err = parallel.ForEach(n, t.config.Threads, func(i int) (err error) {
		if err = ctx.Err(); err != nil {
			return err
		}
		s := data.At(i)
		if s.Len() > 0 {
			predictions[i], err = t.model.Predict(s.Words)
			if err != nil {
				return kind(ErrTrainStep, err, "predict %s sentence %d", split, i)
			}
		}
		if pred[i], err = t.fold.Labels.Strings(predictions[i]); err != nil {
			return kind(ErrScoring, err, "%s sentence %d prediction", split, i)
		}
		if gold[i], err = t.fold.Labels.Strings(s.Labels); err != nil {
			return kind(ErrScoring, err, "%s sentence %d gold", split, i)
		}
		if words[i], err = t.fold.Words.Strings(s.Words); err != nil {
			return kind(ErrScoring, err, "%s sentence %d words", split, i)
		}
		return nil
	})
	if err != nil {
		return res, nil, err
	}
	res, err = t.scorer.Score(pred, gold, words, t.reports.Current(split))
	if err != nil {
		return res, nil, kind(ErrScoring, err, "score %s epoch %d", split, e)
	}
	return res, predictions, nil
}

func (t *Trainer) promote(e int, valid, test conlleval.Result) error {
	if err := t.model.SaveCheckpoint(t.config.WeightsPath); err != nil {
		return kind(ErrCheckpoint, err, "save epoch %d", e)
	}
	if err := t.reports.Promote(); err != nil {
		return kind(ErrCheckpoint, err, "promote epoch %d", e)
	}

	// the state only names epochs whose artifacts are on disk
	t.state.BestEpoch = e
	t.state.BestF1 = valid.F1
	t.state.Valid = valid
	t.state.Test = test
	t.state.Promotions++

	attrs := []any{"epoch", e, "valid_f1", valid.F1, "test_f1", test.F1, "weights", t.config.WeightsPath}
	if c, ok := t.model.(Compacter); ok {
		attrs = append(attrs, "filter_size", c.FilterSize())
	}
	t.log.Info("NEW BEST", attrs...)
	return nil
}
