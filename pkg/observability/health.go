package observability

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/storybot/pkg/config"
)

// HealthChecker checks the dependencies the configuration points at
type HealthChecker struct {
	redis *redis.Client
}

// NewHealthChecker creates a new health checker. A nil client means the
// memory session backend, which has nothing to check.
func NewHealthChecker(redis *redis.Client) *HealthChecker {
	return &HealthChecker{
		redis: redis,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Latency   time.Duration `json:"latency_ms,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Healthy reports whether every dependency is healthy
func (s HealthStatus) Healthy() bool {
	return s.Status == StatusHealthy
}

// Check performs a health check of every configured dependency
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus),
	}

	if h.redis != nil {
		redisStatus := h.checkRedis(ctx)
		status.Dependencies["redis"] = redisStatus
		if redisStatus.Status == StatusUnhealthy {
			status.Status = StatusUnhealthy
		}
	}

	return status
}

// checkRedis pings the redis session backend
func (h *HealthChecker) checkRedis(ctx context.Context) DependencyStatus {
	start := time.Now()
	status := DependencyStatus{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}

	err := h.redis.Ping(ctx).Err()
	status.Latency = time.Since(start)

	if err != nil {
		status.Status = StatusUnhealthy
		status.Message = err.Error()
	}

	return status
}

// CheckSessionBackend checks the session backend selected by s. For the redis
// backend a short-lived client is created from s.RedisOptions().
func CheckSessionBackend(ctx context.Context, s *config.Settings) HealthStatus {
	if s.SessionBackend != config.SessionBackendRedis {
		return NewHealthChecker(nil).Check(ctx)
	}

	client := redis.NewClient(s.RedisOptions())
	defer client.Close()

	return NewHealthChecker(client).Check(ctx)
}
