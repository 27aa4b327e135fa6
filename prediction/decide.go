package prediction

import "math"

// DefaultThreshold is the binary decision threshold of models that did not
// derive their own yet.
const DefaultThreshold = 0.5

// Decide selects the predicted class from the class probabilities of one row.
// For two classes class 1 is chosen iff its probability reaches thr. For more
// classes the most probable class wins and ties go to the tied class with the
// largest prior, then to the lowest index. Missing probabilities never win.
func Decide(row []float64, pri []float64, thr float64) int {
	if len(row) == 2 {
		if row[1] >= thr {
			return 1
		}

		return 0
	}

	bes := 0
	for c := 1; c < len(row); c++ {
		switch {
		case math.IsNaN(row[c]):
		case math.IsNaN(row[bes]) || row[c] > row[bes]:
			bes = c
		case row[c] == row[bes] && prior(pri, c) > prior(pri, bes):
			bes = c
		}
	}

	return bes
}

func prior(pri []float64, c int) float64 {
	if c >= len(pri) {
		return 0
	}

	return pri[c]
}
