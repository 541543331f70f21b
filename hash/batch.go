package hash

import "github.com/klauspost/cpuid/v2"

// Batch hashes many keys at once: out[i] = Hash(n[i], s[i], max)
var Batch func(out []uint32, n []uint32, s []uint32, max uint32) = batchScalar

var lanes = 1

func init() {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		lanes = 16
		Batch = batchUnrolled
	case cpuid.CPU.Supports(cpuid.AVX2):
		lanes = 8
		Batch = batchUnrolled
	default:
		lanes = 1
		Batch = batchScalar
	}
}

// Lanes reports how many keys the platform prefers per Batch call.
// Can't return 0.
func Lanes() int {
	return lanes
}

// Padded rounds n up to a multiple of Lanes.
func Padded(n int) int {
	if r := n % lanes; r != 0 {
		return n + lanes - r
	}
	return n
}

func batchScalar(out []uint32, n []uint32, s []uint32, max uint32) {
	for i := range out {
		out[i] = Hash(n[i], s[i], max)
	}
}

// batchUnrolled processes four independent keys per iteration so the
// compiler can interleave the xorshift chains.
func batchUnrolled(out []uint32, n []uint32, s []uint32, max uint32) {
	i := 0
	for ; i+4 <= len(out); i += 4 {
		out[i] = Hash(n[i], s[i], max)
		out[i+1] = Hash(n[i+1], s[i+1], max)
		out[i+2] = Hash(n[i+2], s[i+2], max)
		out[i+3] = Hash(n[i+3], s[i+3], max)
	}
	for ; i < len(out); i++ {
		out[i] = Hash(n[i], s[i], max)
	}
}
