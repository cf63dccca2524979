package core

// Zero clears buf.
func Zero(buf []float64) {
	clear(buf)
}

// Widen copies float32 samples into dst and returns how many it copied.
func Widen(dst []float64, src []float32) int {
	n := min(len(dst), len(src))
	for i, v := range src[:n] {
		dst[i] = float64(v)
	}

	return n
}

// Narrow copies samples into the float32 dst and returns how many it copied.
func Narrow(dst []float32, src []float64) int {
	n := min(len(dst), len(src))
	for i, v := range src[:n] {
		dst[i] = float32(v)
	}

	return n
}
