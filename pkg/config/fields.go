package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// maxMinutes is the largest minute count a time.Duration can hold
const maxMinutes = math.MaxInt64 / int64(time.Minute)

// setter parses a raw value and stores it on s
type setter func(s *Settings, raw string) error

// field binds a settings field to its environment key and parser
type field struct {
	name string
	env  string
	set  setter
}

// fields is the coercion table. Order here is the order errors are reported in.
var fields = []field{
	{"app_name", "APP_NAME", str(func(s *Settings) *string { return &s.AppName })},
	{"app_version", "APP_VERSION", str(func(s *Settings) *string { return &s.AppVersion })},
	{"debug", "DEBUG", boolean(func(s *Settings) *bool { return &s.Debug })},
	{"host", "HOST", str(func(s *Settings) *string { return &s.Host })},
	{"port", "PORT", integerIn(1, 65535, func(s *Settings) *int { return &s.Port })},

	{"llm_provider", "LLM_PROVIDER", oneOf(func(s *Settings) *Provider { return &s.LLMProvider }, Providers)},

	{"openai_api_key", "OPENAI_API_KEY", str(func(s *Settings) *string { return &s.OpenAIAPIKey })},
	{"openai_model", "OPENAI_MODEL", str(func(s *Settings) *string { return &s.OpenAIModel })},
	{"openai_max_tokens", "OPENAI_MAX_TOKENS", integer(func(s *Settings) *int { return &s.OpenAIMaxTokens })},
	{"openai_temperature", "OPENAI_TEMPERATURE", float(func(s *Settings) *float64 { return &s.OpenAITemperature })},

	{"huggingface_api_key", "HUGGINGFACE_API_KEY", str(func(s *Settings) *string { return &s.HuggingFaceAPIKey })},
	{"huggingface_model", "HUGGINGFACE_MODEL", str(func(s *Settings) *string { return &s.HuggingFaceModel })},

	{"openai_compatible_base_url", "OPENAI_COMPATIBLE_BASE_URL", str(func(s *Settings) *string { return &s.OpenAICompatibleBaseURL })},
	{"openai_compatible_model", "OPENAI_COMPATIBLE_MODEL", str(func(s *Settings) *string { return &s.OpenAICompatibleModel })},
	{"openai_compatible_api_key", "OPENAI_COMPATIBLE_API_KEY", str(func(s *Settings) *string { return &s.OpenAICompatibleAPIKey })},

	{"session_backend", "SESSION_BACKEND", oneOf(func(s *Settings) *SessionBackend { return &s.SessionBackend }, SessionBackends)},
	{"session_timeout_minutes", "SESSION_TIMEOUT_MINUTES", minutes(func(s *Settings) *int { return &s.SessionTimeoutMinutes })},

	{"redis_host", "REDIS_HOST", str(func(s *Settings) *string { return &s.RedisHost })},
	{"redis_port", "REDIS_PORT", integerIn(1, 65535, func(s *Settings) *int { return &s.RedisPort })},
	{"redis_db", "REDIS_DB", integer(func(s *Settings) *int { return &s.RedisDB })},
	{"redis_password", "REDIS_PASSWORD", str(func(s *Settings) *string { return &s.RedisPassword })},

	{"safety_filters_enabled", "SAFETY_FILTERS_ENABLED", boolean(func(s *Settings) *bool { return &s.SafetyFiltersEnabled })},
	{"default_content_filter", "DEFAULT_CONTENT_FILTER", oneOf(func(s *Settings) *ContentFilter { return &s.DefaultContentFilter }, ContentFilters)},
	{"max_story_length", "MAX_STORY_LENGTH", integer(func(s *Settings) *int { return &s.MaxStoryLength })},

	{"api_key_enabled", "API_KEY_ENABLED", boolean(func(s *Settings) *bool { return &s.APIKeyEnabled })},
	{"api_key", "API_KEY", str(func(s *Settings) *string { return &s.APIKey })},

	{"log_level", "LOG_LEVEL", str(func(s *Settings) *string { return &s.LogLevel })},
	{"log_format", "LOG_FORMAT", oneOf(func(s *Settings) *LogFormat { return &s.LogFormat }, LogFormats)},
}

// EnvKeys returns every environment key the loader reads, in table order
func EnvKeys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.env
	}
	return keys
}

func str(dst func(*Settings) *string) setter {
	return func(s *Settings, raw string) error {
		*dst(s) = raw
		return nil
	}
}

func boolean(dst func(*Settings) *bool) setter {
	return func(s *Settings, raw string) error {
		b, err := parseBool(raw)
		if err != nil {
			return err
		}
		*dst(s) = b
		return nil
	}
}

func integer(dst func(*Settings) *int) setter {
	return func(s *Settings, raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return errors.New("must be an integer")
		}
		*dst(s) = n
		return nil
	}
}

func integerIn(lo, hi int, dst func(*Settings) *int) setter {
	return func(s *Settings, raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return errors.New("must be an integer")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		*dst(s) = n
		return nil
	}
}

func minutes(dst func(*Settings) *int) setter {
	return func(s *Settings, raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return errors.New("must be an integer")
		}
		if int64(n) > maxMinutes || int64(n) < -maxMinutes {
			return errors.New("must fit a duration")
		}
		*dst(s) = n
		return nil
	}
}

func float(dst func(*Settings) *float64) setter {
	return func(s *Settings, raw string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New("must be a finite number")
		}
		*dst(s) = f
		return nil
	}
}

// enum is a named string type with a closed set of values
type enum interface {
	~string
	Valid() bool
}

func oneOf[T enum](dst func(*Settings) *T, allowed []T) setter {
	return func(s *Settings, raw string) error {
		v := T(raw)
		if !v.Valid() {
			quoted := make([]string, len(allowed))
			for i, a := range allowed {
				quoted[i] = strconv.Quote(string(a))
			}
			return fmt.Errorf("must be one of %s", strings.Join(quoted, ", "))
		}
		*dst(s) = v
		return nil
	}
}

// parseBool accepts the usual textual truthy/falsy tokens, case-insensitively
func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, nil
	case "0", "f", "false", "n", "no", "off":
		return false, nil
	default:
		return false, errors.New("must be a boolean (true/false, yes/no, on/off, 1/0)")
	}
}
