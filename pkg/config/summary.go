package config

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Summary is the public view of the active configuration. It never carries secrets.
type Summary struct {
	Application ApplicationSummary `json:"application" yaml:"application"`
	LLM         LLMSummary         `json:"llm_configuration" yaml:"llm_configuration"`
	Session     SessionSummary     `json:"session_configuration" yaml:"session_configuration"`
	Safety      SafetySummary      `json:"safety_configuration" yaml:"safety_configuration"`
	API         APISummary         `json:"api_features" yaml:"api_features"`
	Logging     LoggingSummary     `json:"logging" yaml:"logging"`
}

// ApplicationSummary describes the running application
type ApplicationSummary struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Debug   bool   `json:"debug" yaml:"debug"`
	Addr    string `json:"addr" yaml:"addr"`
}

// LLMSummary describes the selected provider
type LLMSummary struct {
	Provider         Provider `json:"provider" yaml:"provider"`
	Model            string   `json:"model" yaml:"model"`
	BaseURL          string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Temperature      float64  `json:"temperature" yaml:"temperature"`
	MaxTokens        int      `json:"max_tokens" yaml:"max_tokens"`
	APIKeyConfigured bool     `json:"api_key_configured" yaml:"api_key_configured"`
}

// SessionSummary describes session storage
type SessionSummary struct {
	Backend        SessionBackend `json:"backend" yaml:"backend"`
	TimeoutMinutes int            `json:"timeout_minutes" yaml:"timeout_minutes"`
	RedisAddr      string         `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisDB        int            `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
}

// SafetySummary describes content filtering
type SafetySummary struct {
	FiltersEnabled bool          `json:"filters_enabled" yaml:"filters_enabled"`
	DefaultFilter  ContentFilter `json:"default_filter" yaml:"default_filter"`
	MaxStoryLength int           `json:"max_story_length" yaml:"max_story_length"`
}

// APISummary describes request authentication
type APISummary struct {
	APIKeyRequired bool `json:"api_key_required" yaml:"api_key_required"`
}

// LoggingSummary describes log output
type LoggingSummary struct {
	Level  string    `json:"level" yaml:"level"`
	Format LogFormat `json:"format" yaml:"format"`
}

// Summary builds the public view of s
func (s *Settings) Summary() Summary {
	llm := LLMSummary{
		Provider:    s.LLMProvider,
		Model:       s.ActiveModel(),
		Temperature: s.OpenAITemperature,
		MaxTokens:   s.OpenAIMaxTokens,
	}
	switch s.LLMProvider {
	case ProviderOpenAI:
		llm.APIKeyConfigured = s.OpenAIAPIKey != ""
	case ProviderHuggingFace:
		llm.APIKeyConfigured = s.HuggingFaceAPIKey != ""
	case ProviderOpenAICompatible:
		llm.BaseURL = s.OpenAICompatibleBaseURL
		llm.APIKeyConfigured = s.OpenAICompatibleAPIKey != ""
	}

	session := SessionSummary{
		Backend:        s.SessionBackend,
		TimeoutMinutes: s.SessionTimeoutMinutes,
	}
	if s.SessionBackend == SessionBackendRedis {
		session.RedisAddr = s.RedisAddr()
		session.RedisDB = s.RedisDB
	}

	return Summary{
		Application: ApplicationSummary{
			Name:    s.AppName,
			Version: s.AppVersion,
			Debug:   s.Debug,
			Addr:    s.Addr(),
		},
		LLM:     llm,
		Session: session,
		Safety: SafetySummary{
			FiltersEnabled: s.SafetyFiltersEnabled,
			DefaultFilter:  s.DefaultContentFilter,
			MaxStoryLength: s.MaxStoryLength,
		},
		API:     APISummary{APIKeyRequired: s.APIKeyEnabled},
		Logging: LoggingSummary{Level: s.LogLevel, Format: s.LogFormat},
	}
}

// Output formats accepted by WriteSummary
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// WriteSummary renders sum to w as text, json or yaml
func WriteSummary(w io.Writer, sum Summary, format string) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sum); err != nil {
			return err
		}
		return enc.Close()
	case OutputText, "":
		return writeText(w, sum)
	default:
		return fmt.Errorf("unknown output format %q (must be text, json or yaml)", format)
	}
}

func writeText(w io.Writer, sum Summary) error {
	lines := []struct {
		key   string
		value interface{}
	}{
		{"app", fmt.Sprintf("%s %s", sum.Application.Name, sum.Application.Version)},
		{"addr", sum.Application.Addr},
		{"debug", sum.Application.Debug},
		{"llm provider", sum.LLM.Provider},
		{"llm model", sum.LLM.Model},
		{"llm api key configured", sum.LLM.APIKeyConfigured},
		{"session backend", sum.Session.Backend},
		{"session timeout", fmt.Sprintf("%dm", sum.Session.TimeoutMinutes)},
		{"safety filters", sum.Safety.FiltersEnabled},
		{"default content filter", sum.Safety.DefaultFilter},
		{"max story length", sum.Safety.MaxStoryLength},
		{"api key required", sum.API.APIKeyRequired},
		{"log", fmt.Sprintf("%s (%s)", sum.Logging.Level, sum.Logging.Format)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-24s %v\n", l.key+":", l.value); err != nil {
			return err
		}
	}
	if sum.LLM.BaseURL != "" {
		if _, err := fmt.Fprintf(w, "%-24s %s\n", "llm base url:", sum.LLM.BaseURL); err != nil {
			return err
		}
	}
	return nil
}
