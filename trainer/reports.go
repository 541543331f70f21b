package trainer

import "os"
import "path/filepath"
import "sync"

import "github.com/pkg/errors"

// Splits scored every epoch, in scoring order
var Splits = []string{"test", "valid"}

// Reports is the two slot report store of a run folder: the reports of the
// current epoch and the reports of the best epoch.
type Reports struct {
	mut    sync.Mutex
	dir    string
	splits []string
}

// NewReports roots the store at dir, which must exist. Without splits the
// store holds Splits.
func NewReports(dir string, splits ...string) *Reports {
	if len(splits) == 0 {
		splits = Splits
	}
	return &Reports{dir: dir, splits: splits}
}

// Dir returns the run folder
func (r *Reports) Dir() string {
	return r.dir
}

// Current is the report path of split for the epoch being evaluated
func (r *Reports) Current(split string) string {
	return filepath.Join(r.dir, "current."+split+".txt")
}

// Best is the report path of split for the best epoch
func (r *Reports) Best(split string) string {
	return filepath.Join(r.dir, "best."+split+".txt")
}

// Promote moves every current report over its best report.
// Each rename is atomic on one filesystem; the set of renames is not.
func (r *Reports) Promote() error {
	r.mut.Lock()
	defer r.mut.Unlock()

	for _, split := range r.splits {
		if _, err := os.Stat(r.Current(split)); err != nil {
			return errors.Wrapf(err, "no current %s report", split)
		}
	}
	for _, split := range r.splits {
		if err := os.Rename(r.Current(split), r.Best(split)); err != nil {
			return errors.Wrapf(err, "promote %s report", split)
		}
	}
	return nil
}
