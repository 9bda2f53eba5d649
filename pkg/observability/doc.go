// Package observability provides logging, health checks and metrics built from the loaded settings.
//
// # Structured Logging
//
// Create the application logger from LOG_LEVEL and LOG_FORMAT:
//
//	logger := observability.LoggerFromSettings(settings, os.Stdout)
//	logger.WithField("provider", settings.LLMProvider).Info("Starting")
//
// Unknown levels fall back to info with a warning. Report a failed load field by field:
//
//	if err != nil {
//		observability.LogValidationError(logger, err)
//	}
//
// # Health Checks
//
// Check the configured session backend (memory is always healthy):
//
//	status := observability.CheckSessionBackend(ctx, settings)
//	fmt.Printf("Healthy: %v\n", status.Healthy())
//
// # Prometheus Metrics
//
//	metrics := observability.NewConfigMetrics(registry)
//	metrics.Observe(settings)
//
// Series: storybot_config_info, storybot_config_load_total,
// storybot_config_safety_filters_enabled, storybot_config_session_timeout_seconds.
package observability
