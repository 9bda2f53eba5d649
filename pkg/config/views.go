package config

import (
	"crypto/subtle"
	"fmt"
	"io"
	"net"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kelseyhightower/envconfig"
)

const redactedValue = "***"

// usageFormat mirrors envconfig's default table with the description last
const usageFormat = `{{range .}}{{usage_key .}}	{{usage_type .}}	{{usage_default .}}	{{usage_description .}}
{{end}}`

// Usage writes a table of every supported environment variable with its type and default
func Usage(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 1, 0, 4, ' ', 0)
	if _, err := fmt.Fprintln(tw, "KEY\tTYPE\tDEFAULT\tDESCRIPTION"); err != nil {
		return err
	}
	var s Settings
	if err := envconfig.Usagef("", &s, tw, usageFormat); err != nil {
		return fmt.Errorf("render usage: %w", err)
	}
	return tw.Flush()
}

// RedisAddr returns the host:port of the redis session backend
func (s *Settings) RedisAddr() string {
	return net.JoinHostPort(s.RedisHost, strconv.Itoa(s.RedisPort))
}

// RedisOptions returns go-redis client options for the session backend.
// An empty password connects without AUTH.
func (s *Settings) RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:         s.RedisAddr(),
		Password:     s.RedisPassword,
		DB:           s.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// VerifyAPIKey reports whether a request carrying key may proceed
func (s *Settings) VerifyAPIKey(key string) bool {
	if !s.APIKeyEnabled {
		return true
	}
	if key == "" || s.APIKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.APIKey)) == 1
}

// Warnings returns non-fatal observations about combinations of values
// that load fine but will likely misbehave at runtime.
func (s *Settings) Warnings() []string {
	var warnings []string
	if s.LLMProvider == ProviderOpenAI && s.OpenAIAPIKey == "" {
		warnings = append(warnings, "llm_provider is openai but OPENAI_API_KEY is not set")
	}
	if s.LLMProvider == ProviderHuggingFace && s.HuggingFaceAPIKey == "" {
		warnings = append(warnings, "llm_provider is huggingface but HUGGINGFACE_API_KEY is not set; public inference limits apply")
	}
	if s.APIKeyEnabled && s.APIKey == "" {
		warnings = append(warnings, "api_key_enabled is true but API_KEY is not set; every request will be rejected")
	}
	if !s.SafetyFiltersEnabled {
		warnings = append(warnings, "safety_filters_enabled is false; generated stories are not filtered")
	}
	return warnings
}

// Redacted returns a copy with every configured secret replaced
func (s *Settings) Redacted() Settings {
	c := *s
	for _, secret := range []*string{&c.OpenAIAPIKey, &c.HuggingFaceAPIKey, &c.OpenAICompatibleAPIKey, &c.RedisPassword, &c.APIKey} {
		if *secret != "" {
			*secret = redactedValue
		}
	}
	return c
}
