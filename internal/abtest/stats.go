package abtest

import "math"

const (
	// DefaultAlpha is the two-sided significance level.
	DefaultAlpha = 0.05
	// MinImpressions is the per-variant floor below which no call is made.
	MinImpressions = 30

	zAlphaTwoSided = 1.9599639845400545 // z for alpha/2 = 0.025
	zBeta          = 0.8416212335729143 // z for 80% power
)

// Rate returns the conversion rate, 0 for zero impressions.
func Rate(conversions, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return float64(conversions) / float64(impressions)
}

// ZTest runs a two-proportion pooled z-test between two variants and returns
// the two-sided p-value.
func ZTest(conv1, imp1, conv2, imp2 int64) float64 {
	if imp1 <= 0 || imp2 <= 0 {
		return 1
	}

	p1 := Rate(conv1, imp1)
	p2 := Rate(conv2, imp2)
	n1 := float64(imp1)
	n2 := float64(imp2)

	pooled := float64(conv1+conv2) / (n1 + n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if se == 0 {
		return 1
	}

	z := (p1 - p2) / se
	return pValue(z)
}

// pValue is the two-sided tail probability of the standard normal.
func pValue(z float64) float64 {
	return math.Erfc(math.Abs(z) / math.Sqrt2)
}

// Significant reports whether the difference between the two variants is
// significant at alpha, requiring MinImpressions on both sides.
func Significant(conv1, imp1, conv2, imp2 int64, alpha float64) (float64, bool) {
	p := ZTest(conv1, imp1, conv2, imp2)
	if imp1 < MinImpressions || imp2 < MinImpressions {
		return p, false
	}
	return p, p < alpha
}

// SampleSize returns the impressions needed per variant to detect a lift from
// baseline rate p1 to p2 at 95% confidence and 80% power.
func SampleSize(p1, p2 float64) int64 {
	diff := p2 - p1
	if diff == 0 {
		return 0
	}

	variance := p1*(1-p1) + p2*(1-p2)
	n := math.Pow(zAlphaTwoSided+zBeta, 2) * variance / (diff * diff)
	return int64(math.Ceil(n))
}
