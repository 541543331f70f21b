package conlleval

// counter accumulates chunk and token statistics the way conlleval does,
// one token at a time, with boundaries between sentences.
type counter struct {
	lastCorrect, lastCorrectType string
	lastGuessed, lastGuessedType string
	inCorrect                    bool

	correctChunk, foundCorrect, foundGuessed int
	correctTags, tokens                      int

	types map[string]*Counts
}

func newCounter() *counter {
	return &counter{
		lastCorrect: "O",
		lastGuessed: "O",
		types:       make(map[string]*Counts),
	}
}

func (c *counter) typ(t string) *Counts {
	if c.types[t] == nil {
		c.types[t] = new(Counts)
	}
	return c.types[t]
}

// add feeds one token with gold label correct and predicted label guessed.
func (c *counter) add(correct, guessed string) {
	c.step(correct, guessed, true)
}

// boundary ends the current sentence
func (c *counter) boundary() {
	c.step("O", "O", false)
}

func (c *counter) step(correctLabel, guessedLabel string, token bool) {
	correct, correctType := split(correctLabel)
	guessed, guessedType := split(guessedLabel)

	endCorrect := endOfChunk(c.lastCorrect, correct, c.lastCorrectType, correctType)
	endGuessed := endOfChunk(c.lastGuessed, guessed, c.lastGuessedType, guessedType)
	startCorrect := startOfChunk(c.lastCorrect, correct, c.lastCorrectType, correctType)
	startGuessed := startOfChunk(c.lastGuessed, guessed, c.lastGuessedType, guessedType)

	if c.inCorrect {
		if endCorrect && endGuessed && c.lastGuessedType == c.lastCorrectType {
			c.inCorrect = false
			c.correctChunk++
			c.typ(c.lastCorrectType).Correct++
		} else if endCorrect != endGuessed || guessedType != correctType {
			c.inCorrect = false
		}
	}
	if startCorrect && startGuessed && guessedType == correctType {
		c.inCorrect = true
	}
	if startCorrect {
		c.foundCorrect++
		c.typ(correctType).Gold++
	}
	if startGuessed {
		c.foundGuessed++
		c.typ(guessedType).Found++
	}
	if token {
		if correct == guessed && guessedType == correctType {
			c.correctTags++
		}
		c.tokens++
	}
	c.lastCorrect, c.lastCorrectType = correct, correctType
	c.lastGuessed, c.lastGuessedType = guessed, guessedType
}

func (c *counter) result() Result {
	if c.inCorrect {
		c.inCorrect = false
		c.correctChunk++
		c.typ(c.lastCorrectType).Correct++
	}
	r := Result{
		Counts: Counts{
			Correct: c.correctChunk,
			Found:   c.foundGuessed,
			Gold:    c.foundCorrect,
		},
		Tokens:        c.tokens,
		CorrectTokens: c.correctTags,
		Types:         make(map[string]Counts, len(c.types)),
	}
	r.Precision, r.Recall, r.F1 = r.Counts.Scores()
	if c.tokens > 0 {
		r.Accuracy = 100 * float64(c.correctTags) / float64(c.tokens)
	}
	for t, counts := range c.types {
		r.Types[t] = *counts
	}
	return r
}
