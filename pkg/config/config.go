package config

import (
	"net"
	"strconv"
	"time"
)

// Provider selects the backend family used to generate story content
type Provider string

const (
	ProviderOpenAI           Provider = "openai"
	ProviderHuggingFace      Provider = "huggingface"
	ProviderOpenAICompatible Provider = "openai_compatible"
)

// Providers lists every accepted LLM_PROVIDER value
var Providers = []Provider{ProviderOpenAI, ProviderHuggingFace, ProviderOpenAICompatible}

// Valid reports whether p is one of Providers
func (p Provider) Valid() bool {
	return oneOfValues(p, Providers)
}

// SessionBackend selects where per-user conversation state is kept
type SessionBackend string

const (
	SessionBackendMemory SessionBackend = "memory"
	SessionBackendRedis  SessionBackend = "redis"
)

// SessionBackends lists every accepted SESSION_BACKEND value
var SessionBackends = []SessionBackend{SessionBackendMemory, SessionBackendRedis}

// Valid reports whether b is one of SessionBackends
func (b SessionBackend) Valid() bool {
	return oneOfValues(b, SessionBackends)
}

// ContentFilter is the safety/tone policy applied to generated stories
type ContentFilter string

const (
	ContentFilterMoralValues ContentFilter = "moral_values"
	ContentFilterEducational ContentFilter = "educational"
	ContentFilterFunOnly     ContentFilter = "fun_only"
)

// ContentFilters lists every accepted DEFAULT_CONTENT_FILTER value
var ContentFilters = []ContentFilter{ContentFilterMoralValues, ContentFilterEducational, ContentFilterFunOnly}

// Valid reports whether f is one of ContentFilters
func (f ContentFilter) Valid() bool {
	return oneOfValues(f, ContentFilters)
}

// LogFormat selects the log line encoding
type LogFormat string

const (
	LogFormatJSON  LogFormat = "json"
	LogFormatPlain LogFormat = "plain"
)

// LogFormats lists every accepted LOG_FORMAT value
var LogFormats = []LogFormat{LogFormatJSON, LogFormatPlain}

// Valid reports whether f is one of LogFormats
func (f LogFormat) Valid() bool {
	return oneOfValues(f, LogFormats)
}

// Default values. These must stay in sync with the default struct tags on Settings.
const (
	DefaultAppName                 = "Kids Storytelling Bot"
	DefaultAppVersion              = "1.0.0"
	DefaultHost                    = "0.0.0.0"
	DefaultPort                    = 8000
	DefaultProvider                = ProviderOpenAI
	DefaultOpenAIModel             = "gpt-3.5-turbo"
	DefaultOpenAIMaxTokens         = 500
	DefaultOpenAITemperature       = 0.8
	DefaultHuggingFaceModel        = "microsoft/DialoGPT-medium"
	DefaultOpenAICompatibleBaseURL = "http://localhost:8001/v1"
	DefaultOpenAICompatibleModel   = "meta-llama/Llama-2-7b-chat-hf"
	DefaultSessionBackend          = SessionBackendMemory
	DefaultSessionTimeoutMinutes   = 60
	DefaultRedisHost               = "localhost"
	DefaultRedisPort               = 6379
	DefaultRedisDB                 = 0
	DefaultContentFilter           = ContentFilterEducational
	DefaultMaxStoryLength          = 1000
	DefaultLogLevel                = "INFO"
	DefaultLogFormat               = LogFormatJSON
)

// Settings holds all application configuration.
//
// A Settings is built once by Load and handed to every consumer at startup.
// It must be treated as read-only; build a new one to change configuration.
// Optional strings are empty when not configured.
type Settings struct {
	// Application
	AppName    string `envconfig:"APP_NAME" default:"Kids Storytelling Bot" desc:"Application display name"`
	AppVersion string `envconfig:"APP_VERSION" default:"1.0.0" desc:"Application version"`
	Debug      bool   `envconfig:"DEBUG" default:"false" desc:"Enable debug mode"`
	Host       string `envconfig:"HOST" default:"0.0.0.0" desc:"Bind host"`
	Port       int    `envconfig:"PORT" default:"8000" desc:"Bind port (1-65535)"`

	// LLM provider selection
	LLMProvider Provider `envconfig:"LLM_PROVIDER" default:"openai" desc:"openai, huggingface or openai_compatible"`

	// OpenAI
	OpenAIAPIKey      string  `envconfig:"OPENAI_API_KEY" desc:"OpenAI API key"`
	OpenAIModel       string  `envconfig:"OPENAI_MODEL" default:"gpt-3.5-turbo" desc:"OpenAI model name"`
	OpenAIMaxTokens   int     `envconfig:"OPENAI_MAX_TOKENS" default:"500" desc:"Max tokens per completion"`
	OpenAITemperature float64 `envconfig:"OPENAI_TEMPERATURE" default:"0.8" desc:"Sampling temperature"`

	// Hugging Face
	HuggingFaceAPIKey string `envconfig:"HUGGINGFACE_API_KEY" desc:"Hugging Face API key"`
	HuggingFaceModel  string `envconfig:"HUGGINGFACE_MODEL" default:"microsoft/DialoGPT-medium" desc:"Hugging Face model name"`

	// OpenAI-compatible endpoint
	OpenAICompatibleBaseURL string `envconfig:"OPENAI_COMPATIBLE_BASE_URL" default:"http://localhost:8001/v1" desc:"Base URL of the OpenAI-compatible API"`
	OpenAICompatibleModel   string `envconfig:"OPENAI_COMPATIBLE_MODEL" default:"meta-llama/Llama-2-7b-chat-hf" desc:"Model served by the OpenAI-compatible API"`
	OpenAICompatibleAPIKey  string `envconfig:"OPENAI_COMPATIBLE_API_KEY" desc:"API key for the OpenAI-compatible API"`

	// Sessions
	SessionBackend        SessionBackend `envconfig:"SESSION_BACKEND" default:"memory" desc:"memory or redis"`
	SessionTimeoutMinutes int            `envconfig:"SESSION_TIMEOUT_MINUTES" default:"60" desc:"Idle session timeout in minutes"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost" desc:"Redis host"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379" desc:"Redis port (1-65535)"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0" desc:"Redis database index"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" desc:"Redis password"`

	// Safety
	SafetyFiltersEnabled bool          `envconfig:"SAFETY_FILTERS_ENABLED" default:"true" desc:"Enable content safety filters"`
	DefaultContentFilter ContentFilter `envconfig:"DEFAULT_CONTENT_FILTER" default:"educational" desc:"moral_values, educational or fun_only"`
	MaxStoryLength       int           `envconfig:"MAX_STORY_LENGTH" default:"1000" desc:"Maximum story length"`

	// API security
	APIKeyEnabled bool   `envconfig:"API_KEY_ENABLED" default:"false" desc:"Require an API key on requests"`
	APIKey        string `envconfig:"API_KEY" desc:"Expected API key"`

	// Logging
	LogLevel  string    `envconfig:"LOG_LEVEL" default:"INFO" desc:"Log level"`
	LogFormat LogFormat `envconfig:"LOG_FORMAT" default:"json" desc:"json or plain"`
}

// Default returns the built-in defaults
func Default() Settings {
	return Settings{
		AppName:                 DefaultAppName,
		AppVersion:              DefaultAppVersion,
		Debug:                   false,
		Host:                    DefaultHost,
		Port:                    DefaultPort,
		LLMProvider:             DefaultProvider,
		OpenAIModel:             DefaultOpenAIModel,
		OpenAIMaxTokens:         DefaultOpenAIMaxTokens,
		OpenAITemperature:       DefaultOpenAITemperature,
		HuggingFaceModel:        DefaultHuggingFaceModel,
		OpenAICompatibleBaseURL: DefaultOpenAICompatibleBaseURL,
		OpenAICompatibleModel:   DefaultOpenAICompatibleModel,
		SessionBackend:          DefaultSessionBackend,
		SessionTimeoutMinutes:   DefaultSessionTimeoutMinutes,
		RedisHost:               DefaultRedisHost,
		RedisPort:               DefaultRedisPort,
		RedisDB:                 DefaultRedisDB,
		SafetyFiltersEnabled:    true,
		DefaultContentFilter:    DefaultContentFilter,
		MaxStoryLength:          DefaultMaxStoryLength,
		APIKeyEnabled:           false,
		LogLevel:                DefaultLogLevel,
		LogFormat:               DefaultLogFormat,
	}
}

// Addr returns the host:port the server binds to
func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SessionTimeout returns the idle session timeout
func (s *Settings) SessionTimeout() time.Duration {
	return time.Duration(s.SessionTimeoutMinutes) * time.Minute
}

// ActiveModel returns the model name of the selected provider
func (s *Settings) ActiveModel() string {
	switch s.LLMProvider {
	case ProviderHuggingFace:
		return s.HuggingFaceModel
	case ProviderOpenAICompatible:
		return s.OpenAICompatibleModel
	default:
		return s.OpenAIModel
	}
}

func oneOfValues[T comparable](v T, allowed []T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
