package main

import "flag"
import "fmt"
import "log/slog"
import "os"
import "sort"
import "strings"

import "github.com/pkg/errors"
import "golang.org/x/text/unicode/norm"

import "github.com/neurlang/slotfiller/conlleval"
import "github.com/neurlang/slotfiller/datasets"
import "github.com/neurlang/slotfiller/datasets/atis"
import "github.com/neurlang/slotfiller/logging"
import "github.com/neurlang/slotfiller/tagger"
import "github.com/neurlang/slotfiller/trainer"

func main() {
	def := trainer.DefaultConfig()
	datadir := flag.String("datadir", "", "directory holding atis.fold<N>.json.gz, default locations when empty")
	fold := flag.Int("fold", def.Fold, "fold number, 0-4")
	weights := flag.String("weights", def.WeightsPath, "checkpoint to evaluate")
	split := flag.String("split", "test", "split to score: valid or test")
	out := flag.String("out", "", "report file, <split>.report.txt in the working directory when empty")
	sentence := flag.String("sentence", "", "tag this whitespace separated sentence instead of scoring a split")
	loglevel := flag.String("loglevel", "info", "debug, info, warn or error")
	logjson := flag.Bool("logjson", false, "log JSON records")
	flag.Parse()

	logging.Init(*logjson, logging.ParseLevel(*loglevel))
	if *out == "" {
		*out = *split + ".report.txt"
	}

	if *sentence != "" {
		words, labels, err := tag(atis.Loader{Dirs: dirs(*datadir)}, *fold, *weights, *sentence)
		if err != nil {
			slog.Error("infer_atis", "err", err)
			os.Exit(1)
		}
		for i := range words {
			fmt.Println(words[i], labels[i])
		}
		return
	}

	res, err := infer(atis.Loader{Dirs: dirs(*datadir)}, *fold, *weights, *split, *out)
	if err != nil {
		slog.Error("infer_atis", "err", err)
		os.Exit(1)
	}
	fmt.Println(res.String())

	types := make([]string, 0, len(res.Types))
	for typ := range res.Types {
		types = append(types, typ)
	}
	sort.Strings(types)
	for _, typ := range types {
		p, r, f1 := res.Types[typ].Scores()
		fmt.Printf("%17s: precision: %6.2f%%; recall: %6.2f%%; FB1: %6.2f  %d\n", typ, p, r, f1, res.Types[typ].Found)
	}
}

func dirs(datadir string) []string {
	if datadir == "" {
		return nil
	}
	return []string{datadir}
}

func infer(provider datasets.Provider, fold int, weights, split, out string) (res conlleval.Result, err error) {
	f, err := provider.LoadFold(fold)
	if err != nil {
		return res, err
	}
	var data *datasets.Split
	switch split {
	case "valid":
		data = &f.Valid
	case "test":
		data = &f.Test
	default:
		return res, errors.Errorf("unknown split %q", split)
	}

	model, err := tagger.Load(weights)
	if err != nil {
		return res, err
	}
	against, votes := model.Decisions().Balance()
	slog.Info("checkpoint", "path", weights, "buckets", model.Buckets(), "filter_size", model.FilterSize(),
		"votes_for", votes, "votes_against", against)

	var n = data.Len()
	var pred = make([][]string, n)
	var gold = make([][]string, n)
	var words = make([][]string, n)
	for i := 0; i < n; i++ {
		s := data.At(i)
		var labels []int
		if s.Len() > 0 {
			if labels, err = model.Predict(s.Words); err != nil {
				return res, errors.WithMessagef(err, "sentence %d", i)
			}
		}
		if pred[i], err = f.Labels.Strings(labels); err != nil {
			return res, err
		}
		if gold[i], err = f.Labels.Strings(s.Labels); err != nil {
			return res, err
		}
		if words[i], err = f.Words.Strings(s.Words); err != nil {
			return res, err
		}
	}
	return conlleval.Score(pred, gold, words, out)
}

// unknown is the vocabulary entry of out of vocabulary words
const unknown = "<UNK>"

// tag labels a typed sentence with the checkpoint, using the fold's vocabularies.
// Words missing from the vocabulary become <UNK> when the vocabulary has it.
func tag(provider datasets.Provider, fold int, weights, sentence string) (words, labels []string, err error) {
	f, err := provider.LoadFold(fold)
	if err != nil {
		return nil, nil, err
	}
	model, err := tagger.Load(weights)
	if err != nil {
		return nil, nil, err
	}
	words = strings.Fields(norm.NFC.String(strings.ToLower(sentence)))
	if len(words) == 0 {
		return nil, nil, errors.New("empty sentence")
	}
	known := make([]string, len(words))
	for i, w := range words {
		known[i] = w
		if _, ok := f.Words.Index(w); !ok {
			if _, ok := f.Words.Index(unknown); ok {
				known[i] = unknown
			}
		}
	}
	indices, err := f.Words.Indices(known)
	if err != nil {
		return nil, nil, err
	}
	predicted, err := model.Predict(indices)
	if err != nil {
		return nil, nil, err
	}
	labels, err = f.Labels.Strings(predicted)
	return words, labels, err
}
