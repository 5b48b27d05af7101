package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jmgilman/go/imgcache"
	"github.com/jmgilman/go/imgcache/budget"
	"github.com/jmgilman/go/imgcache/errors"
)

const (
	configFlag      = "config"
	intervalFlag    = "interval"
	timeoutFlag     = "timeout"
	logLevelFlag    = "log-level"
	metricsAddrFlag = "metrics-addr"
	outputFlag      = "output"

	defaultInterval = 50 * time.Millisecond
	defaultTimeout  = time.Minute
)

type pollOptions struct {
	configPath  string
	interval    time.Duration
	timeout     time.Duration
	logLevel    string
	metricsAddr string
	output      string
}

func newRootCmd() *cobra.Command {
	opts := &pollOptions{}

	cmd := &cobra.Command{
		Use:   "imgpoll [flags] uri...",
		Short: "Load images through the image cache and report the outcomes",
		Long: `imgpoll polls every URI through a single image cache until each one is
decoded or has failed, then prints one line per URI and the cache footprint.
Supported sources are file://, http(s):// and, when configured, s3://.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPoll(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.configPath, configFlag, "", "YAML configuration file")
	cmd.Flags().DurationVar(&opts.interval, intervalFlag, defaultInterval, "Delay between polls of pending URIs")
	cmd.Flags().DurationVar(&opts.timeout, timeoutFlag, defaultTimeout, "Give up on URIs still pending after this long")
	cmd.Flags().StringVar(&opts.logLevel, logLevelFlag, "", "Override the configured log level")
	cmd.Flags().StringVar(&opts.metricsAddr, metricsAddrFlag, "", "Serve Prometheus metrics on this address while polling")
	cmd.Flags().StringVarP(&opts.output, outputFlag, "o", "text", "Output format: text or json")

	return cmd
}

func loadConfig(path string) (imgcache.Config, error) {
	if path == "" {
		return imgcache.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return imgcache.Config{}, errors.WrapWithContext(err, errors.CodeInvalidConfig,
			"failed to open config", map[string]interface{}{"path": path})
	}
	defer func() { _ = f.Close() }()
	return imgcache.LoadConfig(f)
}

func runPoll(ctx context.Context, opts *pollOptions, uris []string, stdout, stderr io.Writer) error {
	if opts.output != "text" && opts.output != "json" {
		return errors.Newf(errors.CodeInvalidInput, "unknown output format %q", opts.output)
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, errors.CodeInvalidConfig, "invalid log level")
		}
	}
	logger := cfg.Logger(stderr)

	sources, err := imgcache.NewSources(ctx, cfg.Sources)
	if err != nil {
		return err
	}
	defer func() { _ = sources.Close() }()

	cache := imgcache.New(sources,
		imgcache.WithGate(cfg.Gate()),
		imgcache.WithLogger(logger),
	)

	var trimmer *budget.Trimmer
	if cfg.Budget.MaxBytes > 0 {
		trimmer, err = budget.New(cache, int(cfg.Budget.MaxBytes),
			budget.WithForgetters(sources),
			budget.WithOnTrim(func(u string) {
				logger.WithOperation(imgcache.OpTrim).Info(ctx, "trimmed image", "uri", u)
			}),
		)
		if err != nil {
			return err
		}
	}

	if opts.metricsAddr != "" {
		stopMetrics := serveMetrics(ctx, opts.metricsAddr, cache, logger)
		defer stopMetrics()
	}

	results := pollAll(ctx, cache, trimmer, uris, opts.interval, opts.timeout)

	if err := writeResults(stdout, results, opts.output); err != nil {
		return err
	}
	if opts.output == "text" {
		fmt.Fprintf(stdout, "cached %d entries, %d bytes\n", cache.Len(), cache.ByteSize())
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
		}
	}
	imgcache.LogPerformanceMetrics(ctx, logger, cache.Metrics().Snapshot())

	if failed > 0 {
		return errors.Newf(errors.CodeSourceFailed, "%d of %d images failed to load", failed, len(results))
	}
	return nil
}

func serveMetrics(ctx context.Context, addr string, cache *imgcache.ImageCache, logger *imgcache.Logger) func() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(imgcache.NewCollector(cache, ""))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info(ctx, "serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
