package core

// Sample is the set of element types used for audio buffers.
type Sample interface {
	~float32 | ~float64
}

// Zero sets all values in buf to 0.
func Zero[T Sample](buf []T) {
	clear(buf)
}

// Fill sets all values in buf to v.
func Fill[T Sample](buf []T, v T) {
	for i := range buf {
		buf[i] = v
	}
}

// Narrow converts src to float32 into dst and returns the number of converted elements.
func Narrow(dst []float32, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i])
	}
	return n
}
