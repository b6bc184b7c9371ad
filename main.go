package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/namnv2496/go-code-room/api"
	"github.com/namnv2496/go-code-room/internal/config"
	"github.com/namnv2496/go-code-room/internal/gateway"
	"github.com/namnv2496/go-code-room/internal/gateway/dockerengine"
	"github.com/namnv2496/go-code-room/internal/room"
	"github.com/namnv2496/go-code-room/internal/session"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	var engine gateway.Engine
	switch cfg.ExecBackend {
	case config.BackendDocker:
		dockerEngine, err := dockerengine.NewEngine(context.Background(), cfg.ExecTimeout, cfg.DockerConcurrency)
		if err != nil {
			slog.Error("failed to start docker engine", "error", err)
			os.Exit(1)
		}
		engine = dockerEngine
	case config.BackendPiston:
		engine = gateway.NewPistonEngine(cfg.PistonURL, &http.Client{Timeout: cfg.ExecTimeout})
	default:
		slog.Error("unknown execution backend", "backend", cfg.ExecBackend)
		os.Exit(1)
	}

	registry := room.NewRegistry()
	coordinator := session.NewCoordinator(registry, engine)

	errCh := make(chan error, 2)

	go func() {
		http.HandleFunc("/ws", coordinator.HandleConnection)
		slog.Info("websocket server started", "addr", cfg.WSAddr)
		errCh <- http.ListenAndServe(cfg.WSAddr, nil)
	}()

	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr)
		errCh <- api.NewRouter(engine).Run(cfg.HTTPAddr)
	}()

	if err := <-errCh; err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
