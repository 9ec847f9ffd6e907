package hypothesis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"waitstat/adapters/stats/distributions"
	"waitstat/domain/core"
	domain "waitstat/domain/stats"
)

// Royston (1995) AS R94 polynomial coefficients
var (
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
	swG  = []float64{-2.273, 0.459}
)

const (
	shapiroMinN   = 3
	shapiroMaxN   = 5000
	dagostinoMinN = 8
)

// ShapiroWilk tests the null hypothesis that the sample was drawn from a
// normal distribution. The statistic is W; small p rejects normality.
// Valid for 3 <= n <= 5000.
func ShapiroWilk(sample domain.Sample) (domain.TestResult, error) {
	n := len(sample)
	if n < shapiroMinN {
		return domain.TestResult{}, core.NewInsufficientDataError("shapiro-wilk", n, shapiroMinN)
	}
	if n > shapiroMaxN {
		return domain.TestResult{}, core.NewDegenerateDataError("shapiro-wilk", "sample larger than 5000")
	}

	x := sample.Sorted()
	rng := x[n-1] - x[0]
	if rng == 0 {
		return domain.TestResult{}, core.NewDegenerateDataError("shapiro-wilk", "all observations are equal")
	}

	half := swHalfCoefficients(n)

	// antisymmetric weight vector (-a1, -a2, ..., 0, ..., a2, a1)
	coef := make([]float64, n)
	for i, a := range half {
		coef[i] = -a
		coef[n-1-i] = a
	}

	fn := float64(n)
	var sa, sx float64
	for i := range x {
		sa += coef[i]
		sx += x[i] / rng
	}
	sa /= fn
	sx /= fn

	var ssa, ssx, sax float64
	for i := range x {
		asa := coef[i] - sa
		xsx := x[i]/rng - sx
		ssa += asa * asa
		ssx += xsx * xsx
		sax += asa * xsx
	}

	ssassx := math.Sqrt(ssa * ssx)
	w1 := (ssassx - sax) * (ssassx + sax) / (ssa * ssx)
	w := 1 - w1

	return domain.TestResult{
		Name:      domain.TestShapiroWilk,
		Statistic: w,
		PValue:    domain.ClampProbability(swPValue(w, w1, n)),
	}, nil
}

// swHalfCoefficients returns the upper half of the Shapiro-Wilk weights a1..a[n/2]
func swHalfCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	fn := float64(n)
	m := make([]float64, half)
	var summ2 float64
	for i := range m {
		m[i] = distributions.NormalQuantile((float64(i+1) - 0.375) / (fn + 0.25))
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(fn)

	a[0] = poly(swC1, rsn) - m[0]/ssumm2
	first := 1
	var fac float64
	if n > 5 {
		a[1] = -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a[0]*a[0] - 2*a[1]*a[1]))
		first = 2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a[0]*a[0]))
	}
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func swPValue(w, w1 float64, n int) float64 {
	if n == 3 {
		return math.Max(0, 6/math.Pi*(math.Asin(math.Sqrt(w))-math.Pi/3))
	}

	fn := float64(n)
	y := math.Log(w1)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, fn)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, fn)
		s = math.Exp(poly(swC4, fn))
	} else {
		lx := math.Log(fn)
		m = poly(swC5, lx)
		s = math.Exp(poly(swC6, lx))
	}
	return distributions.NormalSurvival((y - m) / s)
}

// DAgostinoPearson runs the omnibus K² test combining the skewness and
// kurtosis z-scores; K² follows chi-square with 2 df under normality.
// Moments are the biased (population) forms. Requires n >= 8.
func DAgostinoPearson(sample domain.Sample) (domain.TestResult, error) {
	n := len(sample)
	if n < dagostinoMinN {
		return domain.TestResult{}, core.NewInsufficientDataError("d'agostino-pearson", n, dagostinoMinN)
	}

	m2 := stat.Moment(2, sample, nil)
	if m2 == 0 {
		return domain.TestResult{}, core.NewDegenerateDataError("d'agostino-pearson", "zero variance")
	}
	skew := stat.Moment(3, sample, nil) / math.Pow(m2, 1.5)
	kurt := stat.Moment(4, sample, nil) / (m2 * m2)

	zs := skewZ(skew, float64(n))
	zk, err := kurtosisZ(kurt, float64(n))
	if err != nil {
		return domain.TestResult{}, err
	}

	k2 := zs*zs + zk*zk
	return domain.TestResult{
		Name:      domain.TestDAgostinoPearson,
		Statistic: k2,
		PValue:    distributions.ChiSquareSurvival(k2, 2),
		DF:        2,
	}, nil
}

// skewZ is D'Agostino's transformation of sample skewness to a standard normal score
func skewZ(b1, n float64) float64 {
	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	return delta * math.Asinh(y/alpha)
}

// kurtosisZ is Anscombe and Glynn's transformation of sample kurtosis
func kurtosisZ(b2, n float64) (float64, error) {
	e := 3 * (n - 1) / (n + 1)
	varb2 := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(varb2)

	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))

	term1 := 1 - 2/(9*a)
	denom := 1 + x*math.Sqrt(2/(a-4))
	if denom == 0 {
		return 0, core.NewDegenerateDataError("kurtosis test", "undefined transformation")
	}
	term2 := math.Cbrt((1 - 2/a) / denom)
	return (term1 - term2) / math.Sqrt(2/(9*a)), nil
}
