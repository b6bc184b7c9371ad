package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// DefaultPistonURL is the public Piston execute endpoint.
const DefaultPistonURL = "https://emkc.org/api/v2/piston/execute"

// PistonEngine executes code through a remote Piston instance, a sandboxed
// multi-language runner. One POST per execution; stdout and stderr come back
// merged in run.output.
type PistonEngine struct {
	url    string
	client *http.Client
}

// NewPistonEngine builds an engine talking to url. The client's timeout is
// the only upstream timeout; pass one configured accordingly.
func NewPistonEngine(url string, client *http.Client) *PistonEngine {
	if client == nil {
		client = http.DefaultClient
	}
	return &PistonEngine{url: url, client: client}
}

type pistonRequest struct {
	Language string       `json:"language"`
	Version  string       `json:"version"`
	Files    []pistonFile `json:"files"`
}

type pistonFile struct {
	Content string `json:"content"`
}

type pistonResponse struct {
	Run *struct {
		Output string `json:"output"`
	} `json:"run"`
}

func (e *PistonEngine) Execute(ctx context.Context, language, code string) Result {
	slog.Info("executing code", "language", language, "bytes", len(code))

	body, err := json.Marshal(pistonRequest{
		Language: language,
		Version:  "*",
		Files:    []pistonFile{{Content: code}},
	})
	if err != nil {
		return Err(fmt.Sprintf("Execution failed: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return Err(fmt.Sprintf("Execution failed: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return Err(fmt.Sprintf("Execution failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Err(fmt.Sprintf("Error: Piston API returned %s", resp.Status))
	}

	var out pistonResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Err(fmt.Sprintf("Execution failed: %v", err))
	}
	if out.Run == nil {
		return Err("Error executing code: No output returned")
	}
	return Ok(out.Run.Output)
}
