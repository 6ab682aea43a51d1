package fieldml

// CappedCopy copies at most len(dst)-1 bytes of s into dst followed by a NUL
// terminator and returns the number of bytes of s copied. Buffers of length
// 0 or 1 receive nothing but the terminator.
func CappedCopy(dst []byte, s string) int {
	if len(dst) == 0 {
		return 0
	}
	n := copy(dst[:len(dst)-1], s)
	dst[n] = 0
	return n
}
