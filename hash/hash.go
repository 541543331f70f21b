// Package hash implements the fast modular hash used for tagger feature hashing
package hash

// Mix mixes input n with salt s and returns the full 32 bit result.
func Mix(n uint32, s uint32) uint32 {
	// mixing stage, mix input with salt using subtraction
	var m = n - s

	// hashing stage, use xor shift with prime coefficients
	m ^= m << 2
	m ^= m << 3
	m ^= m >> 5
	m ^= m >> 7
	m ^= m << 11
	m ^= m << 13
	m ^= m >> 17
	m ^= m << 19

	// mixing stage 2, mix input with salt using addition
	return m + s
}

// Hash hashes n with salt s into the range 0 to max-1. Max 0 always yields 0.
func Hash(n uint32, s uint32, max uint32) uint32 {
	// modular stage
	// the multiply shift trick by Daniel Lemire is used instead of modulo
	// https://lemire.me/blog/2016/06/27/a-fast-alternative-to-the-modulo-reduction/
	return uint32((uint64(Mix(n, s)) * uint64(max)) >> 32)
}

// Pair combines two values into one hashing key, order sensitive.
func Pair(a, b uint32) uint32 {
	return Mix(a, 0x9e3779b9) ^ Mix(b, 0x7f4a7c15)
}
