// Package analysis holds the pure pattern-analysis core: cyclic deltas,
// bucketing, window extraction, distributions and the next-value predictor.
// Nothing in this package performs I/O or keeps state between calls.
package analysis

// RingSize is the circumference of the 1..1000 number line.
const RingSize = 1000

// Delta returns the shortest signed displacement from a to b on the ring.
// The result is in (-500, 500]. Delta(a, b) == -Delta(b, a) except when the
// displacement is exactly 500, which always comes back as +500.
func Delta(a, b int) int {
	value := b - a
	if value > RingSize/2 {
		value -= RingSize
	} else if value <= -RingSize/2 {
		value += RingSize
	}
	return value
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
