package pot

// Map linearly remaps v from [inMin, inMax] onto [outMin, outMax] using
// truncating integer division. inMin == inMax is a caller error and
// divides by zero; the exported constructors and setters reject the
// configurations that could produce it.
func Map(v, inMin, inMax, outMin, outMax int) int {
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
