package observability

import (
	"github.com/platinummonkey/storybot/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
)

// Results recorded by ConfigMetrics
const (
	LoadSuccess = "success"
	LoadFailure = "failure"
)

// ConfigMetrics exposes the active configuration as Prometheus series
type ConfigMetrics struct {
	Info                 *prometheus.GaugeVec
	LoadTotal            *prometheus.CounterVec
	SafetyFiltersEnabled prometheus.Gauge
	SessionTimeout       prometheus.Gauge
}

// NewConfigMetrics creates and registers the configuration metrics
func NewConfigMetrics(registry prometheus.Registerer) *ConfigMetrics {
	m := &ConfigMetrics{
		Info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "storybot_config_info",
				Help: "Active configuration, always 1",
			},
			[]string{"app_version", "llm_provider", "model", "session_backend", "content_filter", "log_format"},
		),
		LoadTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storybot_config_load_total",
				Help: "Configuration loads by result",
			},
			[]string{"result"},
		),
		SafetyFiltersEnabled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "storybot_config_safety_filters_enabled",
				Help: "1 when content safety filters are enabled",
			},
		),
		SessionTimeout: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "storybot_config_session_timeout_seconds",
				Help: "Idle session timeout in seconds",
			},
		),
	}

	registry.MustRegister(
		m.Info,
		m.LoadTotal,
		m.SafetyFiltersEnabled,
		m.SessionTimeout,
	)

	return m
}

// Observe records a successful load of s
func (m *ConfigMetrics) Observe(s *config.Settings) {
	m.Info.Reset()
	m.Info.WithLabelValues(
		s.AppVersion,
		string(s.LLMProvider),
		s.ActiveModel(),
		string(s.SessionBackend),
		string(s.DefaultContentFilter),
		string(s.LogFormat),
	).Set(1)

	if s.SafetyFiltersEnabled {
		m.SafetyFiltersEnabled.Set(1)
	} else {
		m.SafetyFiltersEnabled.Set(0)
	}
	m.SessionTimeout.Set(s.SessionTimeout().Seconds())
	m.LoadTotal.WithLabelValues(LoadSuccess).Inc()
}

// ObserveFailure records a failed load
func (m *ConfigMetrics) ObserveFailure() {
	m.LoadTotal.WithLabelValues(LoadFailure).Inc()
}
