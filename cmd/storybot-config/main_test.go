package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reading test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runCLI(t *testing.T, environ []string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if environ == nil {
		environ = []string{}
	}
	code := run(context.Background(), args, environ, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Defaults(t *testing.T) {
	code, stdout, stderr := runCLI(t, nil, "-no-env-file")

	assert.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Kids Storytelling Bot 1.0.0")
	assert.Contains(t, stdout, "openai")
	assert.Contains(t, stderr, "Logging configured")
	// No OPENAI_API_KEY in the environment.
	assert.Contains(t, stderr, "OPENAI_API_KEY")
}

func TestRun_Usage(t *testing.T) {
	code, stdout, _ := runCLI(t, nil, "-usage")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "LLM_PROVIDER")
	assert.Contains(t, stdout, "REDIS_PORT")
}

func TestRun_JSONOutput(t *testing.T) {
	environ := []string{
		"LLM_PROVIDER=huggingface",
		"HUGGINGFACE_API_KEY=hf-secret",
		"PORT=9000",
	}
	code, stdout, stderr := runCLI(t, environ, "-no-env-file", "-output", "json")
	require.Equal(t, 0, code, stderr)

	var out map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "huggingface", out["llm_configuration"]["provider"])
	assert.Equal(t, true, out["llm_configuration"]["api_key_configured"])
	assert.Equal(t, "0.0.0.0:9000", out["application"]["addr"])
	assert.NotContains(t, stdout, "hf-secret")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	environ := []string{
		"LLM_PROVIDER=anthropic",
		"PORT=eighty",
	}
	code, stdout, stderr := runCLI(t, environ, "-no-env-file")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Invalid configuration value")
	assert.Contains(t, stderr, `"field":"llm_provider"`)
	assert.Contains(t, stderr, `"field":"port"`)
}

func TestRun_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storybot.env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7000\nLOG_LEVEL=debug\n"), 0o600))

	t.Run("file values apply", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, nil, "-env-file", path)
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "0.0.0.0:7000")
	})

	t.Run("environment wins", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, []string{"PORT=7001"}, "-env-file", path)
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "0.0.0.0:7001")
	})

	t.Run("no-env-file ignores it", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, nil, "-env-file", path, "-no-env-file")
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "0.0.0.0:8000")
	})
}

func TestRun_BadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"unknown output", []string{"-no-env-file", "-output", "xml"}},
		{"watch without env file", []string{"-no-env-file", "-watch"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCLI(t, nil, tt.args...)
			assert.Equal(t, 2, code)
			assert.Empty(t, stdout)
		})
	}
}

func TestRun_CheckRedis(t *testing.T) {
	t.Run("memory backend is healthy", func(t *testing.T) {
		code, _, stderr := runCLI(t, nil, "-no-env-file", "-check-redis")
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stderr, "Session backend healthy")
	})

	t.Run("redis reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		environ := []string{
			"SESSION_BACKEND=redis",
			"REDIS_HOST=" + mr.Host(),
			"REDIS_PORT=" + mr.Port(),
		}
		code, stdout, stderr := runCLI(t, environ, "-no-env-file", "-check-redis")
		assert.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, mr.Addr())
		assert.Contains(t, stderr, "Session backend healthy")
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		environ := []string{
			"SESSION_BACKEND=redis",
			"REDIS_HOST=" + mr.Host(),
			"REDIS_PORT=" + mr.Port(),
		}
		mr.Close()

		code, _, stderr := runCLI(t, environ, "-no-env-file", "-check-redis")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "Session backend unhealthy")
	})
}

func TestRun_MetricsTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storybot.prom")

	t.Run("successful load", func(t *testing.T) {
		code, _, stderr := runCLI(t, nil, "-no-env-file", "-metrics-textfile", path)
		require.Equal(t, 0, code, stderr)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `storybot_config_load_total{result="success"} 1`)
		assert.Contains(t, string(data), "storybot_config_safety_filters_enabled 1")
	})

	t.Run("failed load", func(t *testing.T) {
		code, _, _ := runCLI(t, []string{"DEBUG=maybe"}, "-no-env-file", "-metrics-textfile", path)
		require.Equal(t, 1, code)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `storybot_config_load_total{result="failure"} 1`)
		assert.NotContains(t, string(data), "storybot_config_info{")
	})
}

// watchUntilReload runs -watch with args and rewrites path until the new
// port shows up in the summary.
func watchUntilReload(t *testing.T, path string, args ...string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("PORT=7000\n"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, append(args, "-watch"), []string{}, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "0.0.0.0:7000")
	}, 5*time.Second, 20*time.Millisecond)

	// Rewrite until the watcher is registered and picks the change up.
	require.Eventually(t, func() bool {
		if err := os.WriteFile(path, []byte("PORT=7100\n"), 0o600); err != nil {
			return false
		}
		return strings.Contains(stdout.String(), "0.0.0.0:7100")
	}, 5*time.Second, 50*time.Millisecond)
	assert.Contains(t, stderr.String(), "Env file changed, re-validating")

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestRun_Watch(t *testing.T) {
	t.Run("explicit env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "storybot.env")
		watchUntilReload(t, path, "-env-file", path)
	})

	t.Run("empty env file flag watches .env", func(t *testing.T) {
		dir := t.TempDir()
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { _ = os.Chdir(wd) })
		watchUntilReload(t, filepath.Join(dir, ".env"), "-env-file", "")
	})
}

func TestRun_DebugLogsRedactedSettings(t *testing.T) {
	environ := []string{
		"LOG_LEVEL=debug",
		"OPENAI_API_KEY=sk-very-secret",
		"REDIS_PASSWORD=hunter2",
	}
	code, stdout, stderr := runCLI(t, environ, "-no-env-file")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stderr, "Loaded settings")
	assert.Contains(t, stderr, "***")
	assert.NotContains(t, stderr, "sk-very-secret")
	assert.NotContains(t, stderr, "hunter2")
	assert.NotContains(t, stdout, "sk-very-secret")
}
