package geo

import "github.com/paulmach/orb"

// SelfIntersects reports whether any ring of g crosses itself (a "kinked"
// polygon, e.g. a bowtie). Adjacent segments sharing an endpoint are not
// kinks; neither is the closing segment meeting the first.
func SelfIntersects(g Geometry) bool {
	for _, p := range g.Parts() {
		for _, r := range p {
			if ringKinked(r) {
				return true
			}
		}
	}
	return false
}

func ringKinked(r orb.Ring) bool {
	// n segments: r[i-1] → r[i] for i in [1, len(r)).
	n := len(r) - 1
	if n < 4 {
		// A triangle cannot self-intersect.
		return false
	}
	for i := 1; i <= n; i++ {
		for j := i + 2; j <= n; j++ {
			// Skip the wrap-around neighbor pair (first vs last segment).
			if i == 1 && j == n {
				continue
			}
			if segmentsIntersect(r[i-1], r[i], r[j-1], r[j]) {
				return true
			}
		}
	}
	return false
}
