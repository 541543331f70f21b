// Package conlleval scores sequence labeling output with chunk based
// precision, recall and F1, and writes conlleval compatible reports.
package conlleval

import "bufio"
import "fmt"
import "io"
import "os"
import "strings"

import "github.com/pkg/errors"

// ErrLength is returned when predictions, gold labels and words disagree in length.
var ErrLength = errors.New("length mismatch")

// ErrFormat is returned when a report line cannot be parsed.
var ErrFormat = errors.New("malformed report line")

const (
	bos = "BOS"
	eos = "EOS"
)

// Counts are chunk counts: correctly predicted, predicted and gold chunks.
type Counts struct {
	Correct int
	Found   int
	Gold    int
}

// Scores returns precision, recall and F1 in percent.
func (c Counts) Scores() (p, r, f1 float64) {
	if c.Found > 0 {
		p = 100 * float64(c.Correct) / float64(c.Found)
	}
	if c.Gold > 0 {
		r = 100 * float64(c.Correct) / float64(c.Gold)
	}
	if p+r > 0 {
		f1 = 2 * p * r / (p + r)
	}
	return
}

// Result holds the overall and per chunk type scores.
type Result struct {
	Counts

	Precision, Recall, F1 float64
	Accuracy              float64

	Tokens, CorrectTokens int

	Types map[string]Counts
}

// String formats the result like the conlleval summary line.
func (r Result) String() string {
	return fmt.Sprintf("processed %d tokens with %d phrases; found: %d phrases; correct: %d.\n"+
		"accuracy: %6.2f%%; precision: %6.2f%%; recall: %6.2f%%; FB1: %6.2f",
		r.Tokens, r.Gold, r.Found, r.Correct, r.Accuracy, r.Precision, r.Recall, r.F1)
}

// Scorer writes reports to files
type Scorer struct{}

// Score implements the trainer scorer contract using Score
func (Scorer) Score(pred, gold, words [][]string, path string) (Result, error) {
	return Score(pred, gold, words, path)
}

// Score evaluates predicted against gold label sequences and writes a
// report with one "word gold predicted" row per token to path. Every
// sentence is wrapped in BOS and EOS rows and followed by an empty line.
func Score(pred, gold, words [][]string, path string) (Result, error) {
	if len(pred) != len(gold) || len(pred) != len(words) {
		return Result{}, errors.Wrapf(ErrLength, "%d predicted, %d gold, %d word sentences",
			len(pred), len(gold), len(words))
	}
	f, err := os.Create(path)
	if err != nil {
		return Result{}, errors.Wrap(err, "create report")
	}
	w := bufio.NewWriter(f)
	c := newCounter()
	for i := range pred {
		if len(pred[i]) != len(gold[i]) || len(pred[i]) != len(words[i]) {
			f.Close()
			return Result{}, errors.Wrapf(ErrLength, "sentence %d: %d predicted, %d gold, %d words",
				i, len(pred[i]), len(gold[i]), len(words[i]))
		}
		fmt.Fprintln(w, bos, "O", "O")
		c.add("O", "O")
		for j := range pred[i] {
			fmt.Fprintln(w, words[i][j], gold[i][j], pred[i][j])
			c.add(gold[i][j], pred[i][j])
		}
		fmt.Fprintln(w, eos, "O", "O")
		c.add("O", "O")
		fmt.Fprintln(w)
		c.boundary()
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return Result{}, errors.Wrap(err, "write report")
	}
	if err := f.Close(); err != nil {
		return Result{}, errors.Wrap(err, "close report")
	}
	return c.result(), nil
}

// Evaluate scores an existing report. Rows hold whitespace separated
// columns where the last two are the gold and predicted labels; empty
// lines and -DOCSTART- rows are boundaries.
func Evaluate(r io.Reader) (Result, error) {
	c := newCounter()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] == "-DOCSTART-" {
			c.boundary()
			continue
		}
		if len(fields) < 3 {
			return Result{}, errors.Wrapf(ErrFormat, "line %d: %d columns", line, len(fields))
		}
		c.add(fields[len(fields)-2], fields[len(fields)-1])
	}
	if err := scanner.Err(); err != nil {
		return Result{}, errors.Wrap(err, "read report")
	}
	c.boundary()
	return c.result(), nil
}

// EvaluateFile scores an existing report file
func EvaluateFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, errors.Wrap(err, "open report")
	}
	defer f.Close()
	return Evaluate(f)
}
