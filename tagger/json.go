package tagger

import "compress/lzw"
import "encoding/json"
import "io"
import "os"
import "path/filepath"

import "github.com/pkg/errors"

type checkpoint struct {
	Config  Config    `json:"config"`
	Buckets uint32    `json:"buckets"`
	Step    float64   `json:"step"`
	Weights []float32 `json:"weights"`
	Updates []float64 `json:"updates"`
}

// SaveCheckpoint writes model weights to a lzw file. The file is replaced
// atomically, an interrupted save leaves the previous checkpoint intact.
func (m *Model) SaveCheckpoint(name string) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "checkpoint directory")
	}
	file, err := os.CreateTemp(dir, filepath.Base(name)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "checkpoint temp file")
	}
	err = m.WriteCheckpoint(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(file.Name())
		return errors.Wrap(err, "write checkpoint")
	}
	if err := os.Rename(file.Name(), name); err != nil {
		os.Remove(file.Name())
		return errors.Wrap(err, "replace checkpoint")
	}
	return nil
}

// WriteCheckpoint writes model weights to a writer
func (m *Model) WriteCheckpoint(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	err := json.NewEncoder(lw).Encode(checkpoint{
		Config:  m.config,
		Buckets: m.buckets,
		Step:    m.step,
		Weights: m.weights,
		Updates: m.updates,
	})
	if err != nil {
		lw.Close()
		return err
	}
	return lw.Close()
}

// ReadCheckpoint reads a model from a reader
func ReadCheckpoint(r io.Reader) (*Model, error) {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var c checkpoint
	if err := json.NewDecoder(lr).Decode(&c); err != nil {
		return nil, errors.Wrap(err, "decode checkpoint")
	}
	size := int(c.Buckets) * c.Config.Classes
	if c.Buckets == 0 || len(c.Weights) != size || len(c.Updates) != size {
		return nil, errors.Errorf("checkpoint: %d buckets x %d classes, %d weights, %d updates",
			c.Buckets, c.Config.Classes, len(c.Weights), len(c.Updates))
	}
	m := &Model{
		config:  c.Config,
		buckets: c.Buckets,
		step:    c.Step,
		weights: c.Weights,
		updates: c.Updates,
	}
	m.init()
	return m, nil
}

// Load reads a model from a lzw file
func Load(name string) (*Model, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCheckpoint(file)
}
