package tagger

import "github.com/pkg/errors"

// TrainStep trains on one sentence. Labels hold a one-hot row per word.
// Every mislabeled word moves its feature weights towards the gold label
// and away from the predicted one. The loss is the fraction of mislabeled words
// before the update.
func (m *Model) TrainStep(words []int, labels [][]float32) (loss float64, err error) {
	if err := m.check(words); err != nil {
		return 0, err
	}
	if len(labels) != len(words) {
		return 0, errors.Wrapf(ErrInput, "%d words, %d label rows", len(words), len(labels))
	}
	classes := m.config.Classes
	for i, row := range labels {
		if len(row) != classes {
			return 0, errors.Wrapf(ErrInput, "label row %d has %d classes, want %d", i, len(row), classes)
		}
	}

	lr := float32(m.config.LearningRate)
	var scores = make([]float32, classes)
	var wrong int
	m.features(m.train, words)
	for i := range words {
		m.step++
		m.scores(m.train.token(i), false, scores)
		pred, gold := argmax(scores), argmax(labels[i])
		if pred == gold {
			continue
		}
		wrong++
		for _, b := range m.train.token(i) {
			row := int(b) * classes
			m.weights[row+gold] += lr
			m.weights[row+pred] -= lr
			m.updates[row+gold] += m.step * float64(lr)
			m.updates[row+pred] -= m.step * float64(lr)
		}
	}
	return float64(wrong) / float64(len(words)), nil
}

// Predict labels every word of the sentence
func (m *Model) Predict(words []int) ([]int, error) {
	if err := m.check(words); err != nil {
		return nil, err
	}
	var sc = new(scratch)
	m.features(sc, words)
	var scores = make([]float32, m.config.Classes)
	out := make([]int, len(words))
	for i := range words {
		m.scores(sc.token(i), m.config.Averaged, scores)
		out[i] = argmax(scores)
	}
	return out, nil
}
