package trainer

import "github.com/neurlang/slotfiller/conlleval"

// Model is the sequence labeler being trained
type Model interface {
	// TrainStep performs one update on a sentence given its one hot label matrix
	TrainStep(words []int, labels [][]float32) (loss float64, err error)
	// Predict returns one label index per word. With Config.Threads above 1
	// it is called concurrently.
	Predict(words []int) ([]int, error)
	// SaveCheckpoint overwrites the checkpoint at path
	SaveCheckpoint(path string) error
}

// Compacter is implemented by models that can report a compact size of their decisions
type Compacter interface {
	FilterSize() int
}

// Scorer scores predicted label strings against gold ones and writes a report to path
type Scorer interface {
	Score(pred, gold, words [][]string, path string) (conlleval.Result, error)
}

// OneHot returns a len(labels) x classes matrix with a single 1 per row.
// A label outside [0, classes) leaves its row zero.
func OneHot(labels []int, classes int) [][]float32 {
	var m = make([][]float32, len(labels))
	var backing = make([]float32, len(labels)*classes)
	for i, l := range labels {
		m[i] = backing[i*classes : (i+1)*classes : (i+1)*classes]
		if l >= 0 && l < classes {
			m[i][l] = 1
		}
	}
	return m
}
