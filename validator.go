package rngverify

import (
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/stat"
)

// normalMinInRange is the fraction of normal samples that must lie within Mean ± 4·StdDev.
const normalMinInRange = 0.9

// Check names the step of a test case that produced a failure.
type Check uint8

const (
	CheckNone Check = iota
	CheckCase
	CheckChunking
	CheckHistogram
	CheckRange
	CheckChiSquare
	CheckSphere
)

func (c Check) String() string {
	switch c {
	case CheckNone:
		return "none"
	case CheckCase:
		return "case"
	case CheckChunking:
		return "reproducibility"
	case CheckHistogram:
		return "histogram"
	case CheckRange:
		return "range"
	case CheckChiSquare:
		return "chi-square"
	case CheckSphere:
		return "sphere"
	default:
		return fmt.Sprintf("Check(%d)", uint8(c))
	}
}

// Verdict is the outcome of one test case.
type Verdict struct {
	Index int
	Case  TestCase
	// Check and Channel locate the failure; Channel is -1 when the check is not per channel.
	Check   Check
	Channel int
	Err     error
	Elapsed time.Duration

	// ChiSquare holds the results of the channels tested so far.
	ChiSquare []ChiSquareResult
	// Sphere is set when the sphere test ran.
	Sphere *SphereResult
}

// Passed reports whether every check of the case passed.
func (v Verdict) Passed() bool {
	return v.Err == nil
}

// Validator runs randomized test cases against a Generator.
type Validator struct {
	cfg     Config
	logger  log.Logger
	metrics *Metrics
}

// NewValidator returns a validator for cfg. logger and metrics may be nil.
func NewValidator(cfg Config, logger log.Logger, metrics *Metrics) (*Validator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Validator{cfg: cfg, logger: logger, metrics: metrics}, nil
}

// Run draws cfg.Iterations test cases and runs each against gen. Unless FailFast is set,
// a failed case does not stop the run.
func (v *Validator) Run(gen Generator) *Report {
	rng := NewDPRNG(v.cfg.Seed)
	report := &Report{Seed: rng.State}
	level.Info(v.logger).Log("msg", "starting validation", "seed", report.Seed, "iterations", v.cfg.Iterations)

	for i := range v.cfg.Iterations {
		tc := NewTestCase(rng, v.cfg)
		verdict := v.runCase(log.With(v.logger, "case", i), gen, tc, rng)
		verdict.Index = i
		report.Verdicts = append(report.Verdicts, verdict)
		if !verdict.Passed() && v.cfg.FailFast {
			break
		}
	}

	level.Info(v.logger).Log("msg", "validation finished",
		"cases", len(report.Verdicts),
		"failed", len(report.Failed()),
		"median_case", report.MedianElapsed())
	return report
}

// RunCase runs a single test case against gen. rng supplies the slice plan and the sphere
// dimension.
func (v *Validator) RunCase(gen Generator, tc TestCase, rng *DPRNG) Verdict {
	return v.runCase(v.logger, gen, tc, rng)
}

func (v *Validator) runCase(logger log.Logger, gen Generator, tc TestCase, rng *DPRNG) Verdict {
	start := SampleTime()
	verdict := v.check(gen, tc, rng)
	verdict.Elapsed = elapsedSince(start)
	v.metrics.observeVerdict(verdict)

	if verdict.Passed() {
		level.Debug(logger).Log("msg", "case passed", "config", tc, "elapsed", verdict.Elapsed)
	} else {
		level.Warn(logger).Log("msg", "case failed", "config", tc,
			"check", verdict.Check, "channel", verdict.Channel, "err", verdict.Err)
	}
	return verdict
}

func (v *Validator) check(gen Generator, tc TestCase, rng *DPRNG) Verdict {
	verdict := Verdict{Case: tc, Channel: -1}
	fail := func(check Check, channel int, err error) Verdict {
		verdict.Check, verdict.Channel, verdict.Err = check, channel, err
		return verdict
	}

	if err := tc.Validate(); err != nil {
		return fail(CheckCase, -1, err)
	}

	plan := SlicePlan(rng, tc.Tuples, v.cfg.MaxSlices)
	buf, err := CheckReproducibility(gen, tc.Params, tc.Kind, tc.Tuples, plan)
	if err != nil {
		return fail(CheckChunking, -1, err)
	}

	for c, d := range tc.Params {
		res, check, err := v.checkChannel(buf, c, d)
		if res.Threshold > 0 {
			verdict.ChiSquare = append(verdict.ChiSquare, res)
		}
		if err != nil {
			return fail(check, c, err)
		}
	}

	ranges, ok := SphereApplicable(tc.Params)
	if !ok {
		return verdict
	}
	dim := rng.IntN(v.cfg.MaxSphereDim-1) + 2
	res, err := SphereTest(buf, ranges, dim)
	if err != nil {
		return fail(CheckSphere, -1, err)
	}
	verdict.Sphere = &res
	if !res.Passed {
		return fail(CheckSphere, -1, fmt.Errorf("%w: %d-dim sphere volume test got %g instead of %g (%d of %d tuples inside)",
			ErrInvalidOutput, res.Dim, res.Estimated, res.Expected, res.Inside, res.Tuples))
	}
	return verdict
}

// checkChannel bins one channel, checks that enough samples fall into the histogram and runs
// the chi-square test. It returns the check that failed, or CheckNone.
func (v *Validator) checkChannel(buf SampleBuffer, c int, d Distribution) (ChiSquareResult, Check, error) {
	cn := buf.Channels()
	h, err := BuildHistogram(buf, c, d, d.BucketCount(v.cfg.MaxBuckets))
	if err != nil {
		return ChiSquareResult{}, CheckHistogram, err
	}

	switch d := d.(type) {
	case Uniform:
		if h.OutOfRange > 0 {
			return ChiSquareResult{}, CheckRange, fmt.Errorf("%w: uniform generator gave %d values out of the range [%g,%g) on channel %d/%d",
				ErrInvalidOutput, h.OutOfRange, d.Low, d.High, c, cn)
		}
	case Normal:
		if float64(h.InRange) < normalMinInRange*float64(h.Total()) {
			mean, std := stat.MeanStdDev(channelValues(buf, c), nil)
			return ChiSquareResult{}, CheckRange, fmt.Errorf("%w: normal generator gave %d of %d values out of the range %g±4*%g on channel %d/%d (sample mean %g, stddev %g)",
				ErrInvalidOutput, h.OutOfRange, h.Total(), d.Mean, d.StdDev, c, cn, mean, std)
		}
	}

	expected := TheoreticalHistogram(len(h.Counts), d.Kind())
	res, err := ChiSquareTest(h.Counts, expected, 1/float64(h.InRange), d.Kind())
	if err != nil {
		return res, CheckChiSquare, err
	}
	v.metrics.observeChiSquare(res)
	if !res.Passed {
		return res, CheckChiSquare, fmt.Errorf("%w: chi-square test got %g vs probable maximum %g (df %d) on channel %d/%d",
			ErrInvalidOutput, res.Statistic, res.Threshold, res.DF, c, cn)
	}
	return res, CheckNone, nil
}

// Report collects the verdicts of a validation run.
type Report struct {
	// Seed is the seed the test cases were drawn with; pass it as Config.Seed to replay the run.
	Seed     uint64
	Verdicts []Verdict
}

// Passed reports whether every case of the run passed.
func (r *Report) Passed() bool {
	return len(r.Failed()) == 0
}

// Failed returns the verdicts of the failed cases.
func (r *Report) Failed() []Verdict {
	var failed []Verdict
	for _, v := range r.Verdicts {
		if !v.Passed() {
			failed = append(failed, v)
		}
	}
	return failed
}

// Err returns nil if the run passed, otherwise an error listing every failed case.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, v := range r.Failed() {
		result = multierror.Append(result, fmt.Errorf("case %d (%s): %s check: %w", v.Index, v.Case, v.Check, v.Err))
	}
	return result.ErrorOrNil()
}

// MedianElapsed returns the median time spent on a case.
func (r *Report) MedianElapsed() time.Duration {
	d := make([]float64, len(r.Verdicts))
	for i, v := range r.Verdicts {
		d[i] = float64(v.Elapsed)
	}
	return time.Duration(Median(d))
}
