// Command rngverify runs the statistical validation suite against the reference generator.
package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/TomTonic/rngverify"
)

const (
	cfgConfigFile    = "config"
	cfgIterations    = "iterations"
	cfgSamples       = "samples"
	cfgSlices        = "slices"
	cfgBuckets       = "buckets"
	cfgSphereDim     = "sphere.max_dim"
	cfgSeed          = "seed"
	cfgGeneratorSeed = "generator.seed"
	cfgFailFast      = "fail_fast"
	cfgLogLevel      = "log.level"
	cfgLogFormat     = "log.format"
	cfgMetricsAddr   = "metrics.addr"
)

var rootCmd = &cobra.Command{
	Use:           "rngverify",
	Short:         "Validate the statistical quality and chunking invariance of a random number generator",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	defaults := rngverify.DefaultConfig()
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.String(cfgConfigFile, "", "config file (yaml, toml or json)")
	flags.Int(cfgIterations, defaults.Iterations, "number of randomized test cases")
	flags.Int(cfgSamples, defaults.Samples, "samples per test case, shared by all channels")
	flags.Int(cfgSlices, defaults.MaxSlices, "fill calls per buffer in the reproducibility check")
	flags.Int(cfgBuckets, defaults.MaxBuckets, "maximum histogram buckets per channel")
	flags.Int(cfgSphereDim, defaults.MaxSphereDim, "maximum dimension of the sphere volume test (above 8, a full run may fail a case by chance even for a correct generator)")
	flags.Uint64(cfgSeed, 0, "seed for drawing test cases (0 = random)")
	flags.Uint64(cfgGeneratorSeed, 0, "seed of the generator under test (0 = random)")
	flags.Bool(cfgFailFast, false, "stop at the first failed test case (with sphere.max_dim above 8 a correct generator can fail an occasional case)")
	flags.String(cfgLogLevel, "info", "log level [debug,info,warn,error]")
	flags.String(cfgLogFormat, "logfmt", "log format [logfmt,json]")
	flags.String(cfgMetricsAddr, "", "serve Prometheus metrics on this address while running")
	rootCmd.Flags().AddFlagSet(flags)
	_ = viper.BindPFlags(flags)

	viper.SetEnvPrefix("RNGVERIFY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

func newLogger() (log.Logger, error) {
	var logger log.Logger
	switch strings.ToLower(viper.GetString(cfgLogFormat)) {
	case "logfmt":
		logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	case "json":
		logger = log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
	default:
		return nil, fmt.Errorf("invalid log format: '%s'", viper.GetString(cfgLogFormat))
	}

	var opt level.Option
	switch strings.ToLower(viper.GetString(cfgLogLevel)) {
	case "debug":
		opt = level.AllowDebug()
	case "info":
		opt = level.AllowInfo()
	case "warn":
		opt = level.AllowWarn()
	case "error":
		opt = level.AllowError()
	default:
		return nil, fmt.Errorf("invalid log level: '%s'", viper.GetString(cfgLogLevel))
	}
	logger = level.NewFilter(logger, opt)
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller), nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "metrics server failed", "err", err)
		}
	}()
	return srv
}

func run(cmd *cobra.Command, args []string) error {
	if f := viper.GetString(cfgConfigFile); f != "" {
		viper.SetConfigFile(f)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}

	seeds := rngverify.NewCPRNG(64)
	cfg := rngverify.Config{
		Iterations:   viper.GetInt(cfgIterations),
		Samples:      viper.GetInt(cfgSamples),
		MaxSlices:    viper.GetInt(cfgSlices),
		MaxBuckets:   viper.GetInt(cfgBuckets),
		MaxSphereDim: viper.GetInt(cfgSphereDim),
		Seed:         viper.GetUint64(cfgSeed),
		FailFast:     viper.GetBool(cfgFailFast),
	}
	if cfg.Seed == 0 {
		cfg.Seed = seeds.Seed()
	}
	genSeed := viper.GetUint64(cfgGeneratorSeed)
	if genSeed == 0 {
		genSeed = seeds.Seed()
	}

	reg := prometheus.NewRegistry()
	metrics := rngverify.NewMetrics(reg)
	if addr := viper.GetString(cfgMetricsAddr); addr != "" {
		srv := serveMetrics(addr, reg, logger)
		defer srv.Close()
	}

	v, err := rngverify.NewValidator(cfg, logger, metrics)
	if err != nil {
		return err
	}
	level.Info(logger).Log("msg", "generator under test", "generator", "reference", "seed", genSeed)
	report := v.Run(rngverify.NewReferenceGenerator(genSeed))
	if err = report.Err(); err != nil {
		return fmt.Errorf("%d of %d cases failed (seed %d, generator seed %d): %w",
			len(report.Failed()), len(report.Verdicts), report.Seed, genSeed, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PASS: %d cases, median %v per case (seed %d, generator seed %d)\n",
		len(report.Verdicts), report.MedianElapsed(), report.Seed, genSeed)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
