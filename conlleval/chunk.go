package conlleval

import "strings"

// split splits a label such as "B-fromloc.city_name" into its chunk tag "B"
// and chunk type "fromloc.city_name". Labels without a dash have no type.
func split(label string) (tag, typ string) {
	if i := strings.IndexByte(label, '-'); i >= 0 {
		return label[:i], label[i+1:]
	}
	return label, ""
}

// endOfChunk reports whether a chunk ended between the previous and the current word.
func endOfChunk(prevTag, tag, prevType, typ string) (end bool) {
	switch {
	case prevTag == "B" && tag == "B",
		prevTag == "B" && tag == "O",
		prevTag == "I" && tag == "B",
		prevTag == "I" && tag == "O",
		prevTag == "E" && tag == "E",
		prevTag == "E" && tag == "I",
		prevTag == "E" && tag == "O":
		end = true
	}
	if prevTag != "O" && prevTag != "." && prevType != typ {
		end = true
	}
	// bracket chunks have length 1
	if prevTag == "]" || prevTag == "[" {
		end = true
	}
	return
}

// startOfChunk reports whether a chunk started between the previous and the current word.
func startOfChunk(prevTag, tag, prevType, typ string) (start bool) {
	switch {
	case prevTag == "B" && tag == "B",
		prevTag == "I" && tag == "B",
		prevTag == "O" && tag == "B",
		prevTag == "O" && tag == "I",
		prevTag == "E" && tag == "E",
		prevTag == "E" && tag == "I",
		prevTag == "O" && tag == "E":
		start = true
	}
	if tag != "O" && tag != "." && prevType != typ {
		start = true
	}
	if tag == "[" || tag == "]" {
		start = true
	}
	return
}

// Chunk is a labeled span [Start, End) of one sentence
type Chunk struct {
	Type       string
	Start, End int
}

// Chunks extracts the labeled spans from a label sequence
func Chunks(labels []string) (out []Chunk) {
	prevTag, prevType := "O", ""
	open := -1
	for i, label := range labels {
		tag, typ := split(label)
		if open >= 0 && endOfChunk(prevTag, tag, prevType, typ) {
			out = append(out, Chunk{Type: prevType, Start: open, End: i})
			open = -1
		}
		if startOfChunk(prevTag, tag, prevType, typ) {
			if open >= 0 {
				out = append(out, Chunk{Type: prevType, Start: open, End: i})
			}
			open = i
		}
		prevTag, prevType = tag, typ
	}
	if open >= 0 {
		out = append(out, Chunk{Type: prevType, Start: open, End: len(labels)})
	}
	return
}
