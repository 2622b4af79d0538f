package rngverify

import "github.com/prometheus/client_golang/prometheus"

// Metrics exports the progress of validation runs to Prometheus.
type Metrics struct {
	cases          *prometheus.CounterVec
	failures       *prometheus.CounterVec
	chiSquareRatio prometheus.Histogram
	caseDuration   prometheus.Histogram
}

// NewMetrics creates the validator metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rngverify",
			Name:      "cases_total",
			Help:      "Number of test cases run, by result.",
		}, []string{"result"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rngverify",
			Name:      "failures_total",
			Help:      "Number of failed test cases, by the check that failed.",
		}, []string{"check"}),
		chiSquareRatio: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rngverify",
			Name:      "chi_square_ratio",
			Help:      "Chi-square statistic divided by its pass threshold, per channel.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 1, 2},
		}),
		caseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rngverify",
			Name:      "case_duration_seconds",
			Help:      "Time spent on one test case.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}
	reg.MustRegister(m.cases, m.failures, m.chiSquareRatio, m.caseDuration)
	return m
}

func (m *Metrics) observeChiSquare(r ChiSquareResult) {
	if m == nil {
		return
	}
	m.chiSquareRatio.Observe(r.Ratio())
}

func (m *Metrics) observeVerdict(v Verdict) {
	if m == nil {
		return
	}
	m.caseDuration.Observe(v.Elapsed.Seconds())
	if v.Passed() {
		m.cases.WithLabelValues("pass").Inc()
		return
	}
	m.cases.WithLabelValues("fail").Inc()
	m.failures.WithLabelValues(v.Check.String()).Inc()
}
