package intutils

// ZeroThen returns i, or def when i is zero.
func ZeroThen(i, def int) int {
	if i == 0 {
		return def
	}
	return i
}
