package profiling

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minNormalityN is the smallest sample the D'Agostino-Pearson test is
// defined for; maxNormalityN is the cost cutoff above which the test
// is skipped.
const (
	minNormalityN = 8
	maxNormalityN = 5000
)

// quantile returns the p-quantile of values using linear interpolation
// between closest ranks (h = (n-1)p). values must be sorted.
func quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// describe bundles the moment statistics of a numeric sample
type describe struct {
	mean   float64
	std    float64
	min    float64
	max    float64
	median float64
}

func describeSample(sorted []float64) describe {
	return describe{
		mean:   stat.Mean(sorted, nil),
		std:    stat.StdDev(sorted, nil),
		min:    sorted[0],
		max:    sorted[len(sorted)-1],
		median: quantile(0.5, sorted),
	}
}

// normalTest runs the D'Agostino-Pearson K-squared omnibus test and
// reports whether the sample looks normally distributed at the 5%
// level. ok is false when the sample size is outside the tested range.
func normalTest(values []float64) (isNormal, ok bool) {
	n := len(values)
	if n < minNormalityN || n >= maxNormalityN {
		return false, false
	}

	zs, ok := skewTest(values)
	if !ok {
		return false, false
	}
	zk, ok := kurtosisTest(values)
	if !ok {
		return false, false
	}

	k2 := zs*zs + zk*zk
	p := distuv.ChiSquared{K: 2}.Survival(k2)
	return p > 0.05, true
}

// centralMoments returns the biased 2nd, 3rd and 4th central moments
func centralMoments(values []float64) (m2, m3, m4 float64) {
	mean := stat.Mean(values, nil)
	n := float64(len(values))
	for _, v := range values {
		d := v - mean
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	return m2 / n, m3 / n, m4 / n
}

// skewTest transforms the sample skewness to an approximately standard
// normal statistic (D'Agostino 1970)
func skewTest(values []float64) (float64, bool) {
	n := float64(len(values))
	if n < 8 {
		return 0, false
	}

	m2, m3, _ := centralMoments(values)
	if m2 == 0 {
		return 0, false
	}
	b1 := m3 / math.Pow(m2, 1.5)

	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) /
		((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(math.Log(math.Sqrt(w2)))
	alpha := math.Sqrt(2 / (w2 - 1))

	if y == 0 {
		return 0, true
	}
	return delta * math.Log(y/alpha+math.Sqrt(math.Pow(y/alpha, 2)+1)), true
}

// kurtosisTest transforms the sample kurtosis to an approximately
// standard normal statistic (Anscombe & Glynn 1983)
func kurtosisTest(values []float64) (float64, bool) {
	n := float64(len(values))
	if n < 5 {
		return 0, false
	}

	m2, _, m4 := centralMoments(values)
	if m2 == 0 {
		return 0, false
	}
	b2 := m4 / (m2 * m2)

	e := 3 * (n - 1) / (n + 1)
	variance := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(variance)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) *
		math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))

	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	if denom == 0 {
		return 0, false
	}
	term2 := math.Copysign(math.Cbrt((1-2/a)/math.Abs(denom)), denom)

	return (term1 - term2) / math.Sqrt(2/(9*a)), true
}

// outlierCountIQR flags values strictly outside the Tukey fences
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR]. A value exactly on a fence is not an
// outlier.
func outlierCountIQR(sorted []float64) int {
	q1 := quantile(0.25, sorted)
	q3 := quantile(0.75, sorted)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	count := 0
	for _, v := range sorted {
		if v < lower || v > upper {
			count++
		}
	}
	return count
}

// outlierCountZScore flags values with absolute standard score above 3,
// using the population standard deviation
func outlierCountZScore(values []float64) int {
	mean := stat.Mean(values, nil)
	m2, _, _ := centralMoments(values)
	std := math.Sqrt(m2)
	if std == 0 {
		return 0
	}

	count := 0
	for _, v := range values {
		if math.Abs((v-mean)/std) > 3 {
			count++
		}
	}
	return count
}

// modeOf returns the most frequent value and its frequency; ties break
// toward the smallest value so repeated profiling is deterministic
func modeOf(values []float64) (float64, int) {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	best := keys[0]
	bestCount := counts[best]
	for _, k := range keys[1:] {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best, bestCount
}
