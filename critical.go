package rngverify

import (
	"fmt"
	"math"
)

// chi2Table95 holds the 95th percentile of the chi-square distribution for 1..30 degrees of freedom.
var chi2Table95 = [...]float64{
	3.841, 5.991, 7.815, 9.488, 11.07, 12.59, 14.07, 15.51, 16.92, 18.31,
	19.68, 21.03, 22.36, 23.69, 25.00, 26.30, 27.59, 28.87, 30.14, 31.41,
	32.67, 33.92, 35.17, 36.42, 37.65, 38.89, 40.11, 41.34, 42.56, 43.77,
}

// z95 is the one-sided 95% quantile of the standard normal distribution, as used by the
// approximation for large df.
const z95 = 1.64

// CriticalValue95 returns the chi-square critical value at the 95% level for df degrees of freedom.
// Values up to 30 come from a table, larger ones from a normal approximation.
func CriticalValue95(df int) (float64, error) {
	if df < 1 {
		return 0, fmt.Errorf("%w: degrees of freedom %d < 1", ErrPrecondition, df)
	}
	if df <= len(chi2Table95) {
		return chi2Table95[df-1], nil
	}
	n := float64(df)
	return n + math.Sqrt(2*n)*z95 + (2.0/3.0)*(z95*z95-1), nil
}
