package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the dotenv file read when Options.EnvFile is empty
const DefaultEnvFile = ".env"

// Options controls where Load reads raw values from
type Options struct {
	// Environ holds KEY=VALUE pairs. Nil means os.Environ().
	Environ []string

	// EnvFile is the dotenv file consulted for keys the environment does not set.
	// Empty means DefaultEnvFile. A missing file is ignored.
	EnvFile string

	// SkipEnvFile disables the dotenv file
	SkipEnvFile bool
}

// Load builds Settings from the process environment and ./.env
func Load() (*Settings, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions builds Settings from the given sources.
//
// For each field the first non-empty value wins: environment, then env file,
// then the built-in default. Keys are matched case-insensitively. Every
// invalid value is collected into a single *ValidationError.
func LoadWithOptions(opts Options) (*Settings, error) {
	environ := opts.Environ
	if environ == nil {
		environ = os.Environ()
	}
	env := environMap(environ)

	var file map[string]string
	if !opts.SkipEnvFile {
		path := opts.EnvFile
		if path == "" {
			path = DefaultEnvFile
		}
		var err error
		file, err = readEnvFile(path)
		if err != nil {
			return nil, err
		}
	}

	s := Default()
	var errs []*FieldError
	for _, f := range fields {
		raw, ok := lookup(f.env, env, file)
		if !ok {
			continue
		}
		if err := f.set(&s, raw); err != nil {
			errs = append(errs, &FieldError{Field: f.name, Env: f.env, Value: raw, Reason: err.Error()})
		}
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &s, nil
}

// lookup returns the first non-empty value for key across sources
func lookup(key string, sources ...map[string]string) (string, bool) {
	for _, src := range sources {
		if v, ok := src[key]; ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// environMap turns KEY=VALUE pairs into a map keyed by upper-cased name
func environMap(environ []string) map[string]string {
	pairs := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		pairs[k] = v
	}
	return foldKeys(pairs)
}

// foldKeys upper-cases keys and drops empty values. When several spellings of
// a name are set, the exactly upper-case one wins, then the lowest in byte order.
func foldKeys(pairs map[string]string) map[string]string {
	out := make(map[string]string, len(pairs))
	from := make(map[string]string, len(pairs))
	for k, v := range pairs {
		if v == "" {
			continue
		}
		upper := strings.ToUpper(k)
		if prev, seen := from[upper]; seen && !preferKey(k, prev, upper) {
			continue
		}
		out[upper] = v
		from[upper] = k
	}
	return out
}

func preferKey(k, prev, upper string) bool {
	switch {
	case prev == upper:
		return false
	case k == upper:
		return true
	default:
		return k < prev
	}
}

func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading env file %s: %v", ErrInvalidConfiguration, path, err)
	}
	return foldKeys(values), nil
}
