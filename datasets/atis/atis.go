// Package atis loads the ATIS slot-filling folds
package atis

import "compress/gzip"
import "crypto/sha256"
import "encoding/json"
import "fmt"
import "io"
import "os"
import "path/filepath"

import "github.com/pkg/errors"
import "golang.org/x/text/unicode/norm"

import "github.com/neurlang/slotfiller/datasets"

// Folds is the number of folds the dataset ships with
const Folds = 5

const tmpDirectory = `/tmp/atis/`

func userHomeDir() string {
	dirname, err := os.UserHomeDir()
	if err != nil {
		return "~"
	}
	return dirname
}

// DefaultDirectories are searched when a Loader has no directories set
var DefaultDirectories = []string{"data", tmpDirectory, filepath.Join(userHomeDir(), "atis")}

// FileName returns the fold file name
func FileName(fold int) string {
	return fmt.Sprintf("atis.fold%d.json.gz", fold)
}

type split struct {
	Words    [][]int `json:"words"`
	Features [][]int `json:"features"`
	Labels   [][]int `json:"labels"`
}

type file struct {
	Train     split          `json:"train"`
	Valid     split          `json:"valid"`
	Test      split          `json:"test"`
	Words2Idx map[string]int `json:"words2idx"`
	Label2Idx map[string]int `json:"labels2idx"`
}

// Loader loads folds from gzip compressed json files
type Loader struct {
	// Dirs are searched in order for the fold file
	Dirs []string

	// Digests optionally maps file names to their hex sha256
	Digests map[string]string
}

// LoadFold loads the fold with index fold
func (l Loader) LoadFold(fold int) (*datasets.Fold, error) {
	if fold < 0 || fold >= Folds {
		return nil, errors.Wrapf(datasets.ErrLoad, "fold %d out of range 0..%d", fold, Folds-1)
	}
	name := FileName(fold)
	dirs := l.Dirs
	if len(dirs) == 0 {
		dirs = DefaultDirectories
	}
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		} else if err != nil {
			return nil, errors.Wrapf(datasets.ErrLoad, "stat %s: %v", path, err)
		}
		if digest, ok := l.Digests[name]; ok {
			if err := checkDigest(path, digest); err != nil {
				return nil, err
			}
		}
		return Load(path)
	}
	return nil, errors.Wrapf(datasets.ErrLoad, "file '%s' does not exist in %v", name, dirs)
}

func checkDigest(path, digest string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(datasets.ErrLoad, "cannot open file to hash '%s': %v", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return errors.Wrapf(datasets.ErrLoad, "cannot hash file '%s': %v", path, err)
	}
	if fmt.Sprintf("%x", h.Sum(nil)) != digest {
		return errors.Wrapf(datasets.ErrLoad, "file hash for file '%s' is incorrect", path)
	}
	return nil
}

// Load reads one fold file
func Load(path string) (*datasets.Fold, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(datasets.ErrLoad, "open %s: %v", path, err)
	}
	defer f.Close()
	fold, err := Read(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return fold, nil
}

// Read decodes a gzip compressed fold from r
func Read(r io.Reader) (*datasets.Fold, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrapf(datasets.ErrLoad, "gzip: %v", err)
	}
	defer gz.Close()

	var data file
	if err := json.NewDecoder(gz).Decode(&data); err != nil {
		return nil, errors.Wrapf(datasets.ErrLoad, "decode: %v", err)
	}

	words, err := normalize(data.Words2Idx)
	if err != nil {
		return nil, err
	}
	wv, err := datasets.NewVocabulary(words)
	if err != nil {
		return nil, errors.WithMessage(err, "words2idx")
	}
	lv, err := datasets.NewVocabulary(data.Label2Idx)
	if err != nil {
		return nil, errors.WithMessage(err, "labels2idx")
	}
	fold := &datasets.Fold{
		Train:  datasets.Split(data.Train),
		Valid:  datasets.Split(data.Valid),
		Test:   datasets.Split(data.Test),
		Words:  wv,
		Labels: lv,
	}
	if err := fold.Check(); err != nil {
		return nil, errors.Wrap(datasets.ErrLoad, err.Error())
	}
	return fold, nil
}

// normalize puts every word into NFC so lookups by typed text match.
func normalize(m map[string]int) (map[string]int, error) {
	out := make(map[string]int, len(m))
	for w, i := range m {
		n := norm.NFC.String(w)
		if j, ok := out[n]; ok && j != i {
			return nil, errors.Wrapf(datasets.ErrLoad, "words %q collide after normalization (%d, %d)", n, i, j)
		}
		out[n] = i
	}
	return out, nil
}

// Write encodes the fold as gzip compressed json
func Write(w io.Writer, fold *datasets.Fold) error {
	gz := gzip.NewWriter(w)
	data := file{
		Train:     split(fold.Train),
		Valid:     split(fold.Valid),
		Test:      split(fold.Test),
		Words2Idx: fold.Words.Map(),
		Label2Idx: fold.Labels.Map(),
	}
	if err := json.NewEncoder(gz).Encode(&data); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// Save writes the fold to a file
func Save(path string, fold *datasets.Fold) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = Write(f, fold)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
