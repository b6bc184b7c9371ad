package config

import (
	"os"
	"strconv"
	"time"
)

// Backend names for Config.ExecBackend.
const (
	BackendPiston = "piston"
	BackendDocker = "docker"
)

// Config holds everything read from the environment at startup.
type Config struct {
	// HTTPAddr is the REST API listen address.
	HTTPAddr string
	// WSAddr is the WebSocket listen address.
	WSAddr string
	// ExecBackend selects the execution engine: "piston" or "docker".
	ExecBackend string
	// PistonURL is the execute endpoint of the Piston instance.
	PistonURL string
	// ExecTimeout bounds one execution round-trip.
	ExecTimeout time.Duration
	// DockerConcurrency caps simultaneous containers for the docker backend.
	DockerConcurrency int
}

func Load() Config {
	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		WSAddr:            getenv("WS_ADDR", ":8081"),
		ExecBackend:       getenv("EXEC_BACKEND", BackendPiston),
		PistonURL:         getenv("PISTON_URL", "https://emkc.org/api/v2/piston/execute"),
		ExecTimeout:       getduration("EXEC_TIMEOUT", 30*time.Second),
		DockerConcurrency: getint("DOCKER_CONCURRENCY", 2),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
