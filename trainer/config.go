package trainer

import "path/filepath"

import "github.com/pkg/errors"

// SeedPolicy chooses the shuffle seed of each epoch
type SeedPolicy int

const (
	// SeedFixed reuses Config.Seed for every epoch
	SeedFixed SeedPolicy = iota
	// SeedPerEpoch shuffles epoch e with Config.Seed + e
	SeedPerEpoch
)

// ParseSeedPolicy parses "fixed" or "epoch"
func ParseSeedPolicy(s string) (SeedPolicy, error) {
	switch s {
	case "fixed", "":
		return SeedFixed, nil
	case "epoch":
		return SeedPerEpoch, nil
	}
	return SeedFixed, errors.Wrapf(ErrConfig, "unknown seed policy %q", s)
}

func (p SeedPolicy) String() string {
	if p == SeedPerEpoch {
		return "epoch"
	}
	return "fixed"
}

// Seed returns the shuffle seed for epoch e
func (p SeedPolicy) Seed(base uint64, e int) uint64 {
	if p == SeedPerEpoch {
		return base + uint64(e)
	}
	return base
}

// Config is the run configuration. It is read only once a Trainer holds it.
type Config struct {
	Fold         int
	LearningRate float64
	Verbose      bool
	Hidden       int
	Seed         uint64
	EmbDimension int
	Epochs       int

	// Folder receives the current and best reports
	Folder string
	// WeightsPath receives the checkpoint of the best epoch
	WeightsPath string

	// Threads bounds the sentences predicted at once during evaluation
	Threads int

	// Patience stops the run after that many epochs without promotion, 0 never stops early
	Patience   int
	SeedPolicy SeedPolicy
}

// DefaultConfig returns the reference configuration
func DefaultConfig() Config {
	return Config{
		Fold:         3,
		LearningRate: 0.1,
		Verbose:      false,
		Hidden:       100,
		Seed:         345,
		EmbDimension: 100,
		Epochs:       50,
		Threads:      1,
		Folder:       filepath.Join("out", "elman"),
		WeightsPath:  filepath.Join("weights", "best_model.json.lzw"),
	}
}

// Validate reports the first unusable field
func (c Config) Validate() error {
	switch {
	case c.Epochs <= 0:
		return errors.Wrapf(ErrConfig, "epochs %d", c.Epochs)
	case c.LearningRate <= 0:
		return errors.Wrapf(ErrConfig, "learning rate %g", c.LearningRate)
	case c.Hidden <= 0:
		return errors.Wrapf(ErrConfig, "hidden %d", c.Hidden)
	case c.EmbDimension <= 0:
		return errors.Wrapf(ErrConfig, "embedding dimension %d", c.EmbDimension)
	case c.Fold < 0:
		return errors.Wrapf(ErrConfig, "fold %d", c.Fold)
	case c.Threads < 0:
		return errors.Wrapf(ErrConfig, "threads %d", c.Threads)
	case c.Patience < 0:
		return errors.Wrapf(ErrConfig, "patience %d", c.Patience)
	case c.Folder == "":
		return errors.Wrap(ErrConfig, "empty folder")
	case c.WeightsPath == "":
		return errors.Wrap(ErrConfig, "empty weights path")
	case c.SeedPolicy != SeedFixed && c.SeedPolicy != SeedPerEpoch:
		return errors.Wrapf(ErrConfig, "seed policy %d", c.SeedPolicy)
	}
	return nil
}
