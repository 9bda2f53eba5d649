// Package config loads the storytelling bot settings from environment variables.
//
// # Overview
//
// Load builds a single validated Settings value at startup. Values come from the
// process environment, then an optional .env file, then built-in defaults. Keys
// are matched case-insensitively and the environment always wins over the file.
// The result is read-only; pass it to consumers instead of reaching for globals.
//
// # Configuration Structure
//
// Application:
//
//	APP_NAME="Kids Storytelling Bot"
//	APP_VERSION="1.0.0"
//	DEBUG="false"
//	HOST="0.0.0.0"
//	PORT="8000"
//
// LLM provider:
//
//	LLM_PROVIDER="openai"  # openai, huggingface, openai_compatible
//	OPENAI_API_KEY=""
//	OPENAI_MODEL="gpt-3.5-turbo"
//	OPENAI_MAX_TOKENS="500"
//	OPENAI_TEMPERATURE="0.8"
//	HUGGINGFACE_API_KEY=""
//	HUGGINGFACE_MODEL="microsoft/DialoGPT-medium"
//	OPENAI_COMPATIBLE_BASE_URL="http://localhost:8001/v1"
//	OPENAI_COMPATIBLE_MODEL="meta-llama/Llama-2-7b-chat-hf"
//	OPENAI_COMPATIBLE_API_KEY=""
//
// Sessions:
//
//	SESSION_BACKEND="memory"  # memory, redis
//	SESSION_TIMEOUT_MINUTES="60"
//	REDIS_HOST="localhost"
//	REDIS_PORT="6379"
//	REDIS_DB="0"
//	REDIS_PASSWORD=""
//
// Safety and API security:
//
//	SAFETY_FILTERS_ENABLED="true"
//	DEFAULT_CONTENT_FILTER="educational"  # moral_values, educational, fun_only
//	MAX_STORY_LENGTH="1000"
//	API_KEY_ENABLED="false"
//	API_KEY=""
//
// Logging:
//
//	LOG_LEVEL="INFO"
//	LOG_FORMAT="json"  # json, plain
//
// Booleans accept true/false, yes/no, on/off, t/f, y/n and 1/0 in any case.
// Enumerated values are case-sensitive.
//
// The .env file expands $NAME and ${NAME} in unquoted and double-quoted values.
// Single-quote any value that contains a literal dollar sign:
//
//	API_KEY='abc$def'
//
// # Errors
//
// Every invalid value is reported at once in a *ValidationError, one *FieldError
// per field naming the field and the raw value. All load errors match
// ErrInvalidConfiguration.
//
// # Usage Example
//
//	settings, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Listening on %s\n", settings.Addr())
//	fmt.Printf("Provider: %s (%s)\n", settings.LLMProvider, settings.ActiveModel())
//
// Tests can load from explicit sources:
//
//	settings, err := config.LoadWithOptions(config.Options{
//		Environ:     []string{"LLM_PROVIDER=huggingface"},
//		SkipEnvFile: true,
//	})
//
// # Related Packages
//
//   - pkg/observability: Builds the logger, health checks and metrics from Settings
package config
