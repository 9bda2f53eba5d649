package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/platinummonkey/storybot/pkg/config"
	"github.com/platinummonkey/storybot/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// storybot-config loads and validates the storytelling bot configuration the
// same way the server does at startup, then reports the result.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Environ(), os.Stdout, os.Stderr))
}

type checker struct {
	loadOptions     config.Options
	output          string
	checkRedis      bool
	metricsTextfile string

	stdout   io.Writer
	logger   *logrus.Logger
	registry *prometheus.Registry
	metrics  *observability.ConfigMetrics
}

func run(ctx context.Context, args, environ []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("storybot-config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env-file", config.DefaultEnvFile, "dotenv file providing values the environment does not set")
	noEnvFile := fs.Bool("no-env-file", false, "ignore the dotenv file")
	output := fs.String("output", config.OutputText, "summary format: text, json or yaml")
	usage := fs.Bool("usage", false, "print the supported environment variables and exit")
	checkRedis := fs.Bool("check-redis", false, "ping the redis session backend when it is selected")
	watch := fs.Bool("watch", false, "re-validate whenever the env file changes")
	metricsTextfile := fs.String("metrics-textfile", "", "write Prometheus metrics to this file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *usage {
		if err := config.Usage(stdout); err != nil {
			fmt.Fprintf(stderr, "Failed to print usage: %v\n", err)
			return 1
		}
		return 0
	}

	switch *output {
	case config.OutputText, config.OutputJSON, config.OutputYAML:
	default:
		fmt.Fprintf(stderr, "Unknown output format %q (must be text, json or yaml)\n", *output)
		return 2
	}
	if *envFile == "" {
		*envFile = config.DefaultEnvFile
	}
	if *watch && *noEnvFile {
		fmt.Fprintln(stderr, "-watch needs an env file; drop -no-env-file")
		return 2
	}

	registry := prometheus.NewRegistry()
	c := &checker{
		loadOptions: config.Options{
			Environ:     environ,
			EnvFile:     *envFile,
			SkipEnvFile: *noEnvFile,
		},
		output:          *output,
		checkRedis:      *checkRedis,
		metricsTextfile: *metricsTextfile,
		stdout:          stdout,
		logger:          observability.NewLogger("info", observability.FormatJSON, stderr),
		registry:        registry,
		metrics:         observability.NewConfigMetrics(registry),
	}

	code := c.check(ctx)
	if !*watch {
		return code
	}
	return c.watch(ctx, *envFile, code)
}

// check runs one load and reports it. It returns the process exit code.
func (c *checker) check(ctx context.Context) int {
	settings, err := config.LoadWithOptions(c.loadOptions)
	if err != nil {
		c.metrics.ObserveFailure()
		observability.LogValidationError(c.logger, err)
		c.writeMetrics(c.logger)
		return 1
	}
	c.metrics.Observe(settings)

	logger := observability.LoggerFromSettings(settings, c.logger.Out)
	logger.WithField("settings", settings.Redacted()).Debug("Loaded settings")
	for _, w := range settings.Warnings() {
		logger.Warn(w)
	}

	if err := config.WriteSummary(c.stdout, settings.Summary(), c.output); err != nil {
		logger.WithError(err).Error("Failed to write summary")
		return 1
	}

	code := 0
	if c.checkRedis {
		status := observability.CheckSessionBackend(ctx, settings)
		entry := logger.WithFields(logrus.Fields{
			"session_backend": settings.SessionBackend,
			"status":          status.Status,
		})
		if dep, ok := status.Dependencies["redis"]; ok {
			entry = entry.WithFields(logrus.Fields{
				"redis_addr": settings.RedisAddr(),
				"latency":    dep.Latency.String(),
			})
			if dep.Message != "" {
				entry = entry.WithField("error", dep.Message)
			}
		}
		if status.Healthy() {
			entry.Info("Session backend healthy")
		} else {
			entry.Error("Session backend unhealthy")
			code = 1
		}
	}

	c.writeMetrics(logger)
	return code
}

func (c *checker) writeMetrics(logger logrus.FieldLogger) {
	if c.metricsTextfile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(c.metricsTextfile, c.registry); err != nil {
		logger.WithError(err).WithField("path", c.metricsTextfile).Error("Failed to write metrics")
	}
}
