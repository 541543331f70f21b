// Package datasets implements the sentence, split and fold types for sequence labeling
package datasets

// Dataset is a boolean map over hashed features
type Dataset map[uint32]bool

// Init erases the dataset
func (d *Dataset) Init() {
	*d = make(map[uint32]bool)
}

// Balance reports the number of true and false entries
func (d Dataset) Balance() (f, t int) {
	for _, v := range d {
		if v {
			t++
		} else {
			f++
		}
	}
	return
}
