package dockerengine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/araddon/dateparse"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/namnv2496/go-code-room/internal/gateway"
)

// language describes how one supported language runs inside a container.
type language struct {
	image    string
	filename string
	// command receives the timeout in seconds via %d.
	command string
}

var languages = map[string]language{
	"python": {
		image:    "python:3.9.19-slim-bullseye",
		filename: "main.py",
		command:  "timeout --foreground %ds python3 main.py | head -c 8192",
	},
	"javascript": {
		image:    "node:20-bullseye-slim",
		filename: "main.js",
		command:  "timeout --foreground %ds node main.js | head -c 8192",
	},
}

var resourcesConf = container.Resources{
	Memory:   1073741824, // 1 GB of RAM
	CPUQuota: 100000,     // 1 CPU core
}

const timeoutStatusCode = 124

// Engine runs code in short-lived local Docker containers instead of a
// remote runner. Useful when the server host has Docker but no network
// access to a Piston instance.
type Engine struct {
	cli     *client.Client
	timeout time.Duration
	// sem caps how many containers run at once.
	sem chan struct{}
}

// NewEngine connects to the local Docker daemon and pre-pulls the images for
// every supported language so first executions aren't slow.
func NewEngine(ctx context.Context, timeout time.Duration, concurrency int) (*Engine, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	if concurrency < 1 {
		concurrency = 1
	}
	e := &Engine{cli: cli, timeout: timeout, sem: make(chan struct{}, concurrency)}
	for name, lang := range languages {
		if err := e.pullImage(ctx, lang.image); err != nil {
			return nil, fmt.Errorf("pull image for %s: %w", name, err)
		}
	}
	return e, nil
}

func (e *Engine) Execute(ctx context.Context, languageName, code string) gateway.Result {
	lang, ok := languages[languageName]
	if !ok {
		return gateway.Err(fmt.Sprintf("Error: unsupported language: %s", languageName))
	}

	e.sem <- struct{}{}
	defer func() { <-e.sem }()

	dir, err := os.MkdirTemp("", "run-workdir")
	if err != nil {
		return gateway.Err(fmt.Sprintf("Execution failed: create temp dir: %v", err))
	}
	defer os.RemoveAll(dir)

	path := fmt.Sprintf("%s/%s", dir, lang.filename)
	if err := os.WriteFile(path, []byte(code), fs.FileMode(0644)); err != nil {
		return gateway.Err(fmt.Sprintf("Execution failed: write source file: %v", err))
	}

	return e.runContainer(ctx, dir, lang)
}

func (e *Engine) runContainer(ctx context.Context, dir string, lang language) gateway.Result {
	resp, err := e.cli.ContainerCreate(ctx, &container.Config{
		Image:      lang.image,
		WorkingDir: "/workdir",
		Cmd:        []string{"sh", "-c", fmt.Sprintf(lang.command, int(e.timeout.Seconds()))},
	}, &container.HostConfig{
		Binds:     []string{fmt.Sprintf("%s:/workdir", dir)},
		Resources: resourcesConf,
	}, nil, nil, "")
	if err != nil {
		return gateway.Err(fmt.Sprintf("Execution failed: create container: %v", err))
	}

	defer func() {
		if err := e.cli.ContainerRemove(ctx, resp.ID, container.RemoveOptions{}); err != nil {
			slog.Warn("failed to remove container", "container", resp.ID, "error", err)
		}
	}()

	attachResp, err := e.cli.ContainerAttach(ctx, resp.ID, container.AttachOptions{
		Stream: true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return gateway.Err(fmt.Sprintf("Execution failed: attach to container: %v", err))
	}
	defer attachResp.Close()

	if err := e.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return gateway.Err(fmt.Sprintf("Execution failed: start container: %v", err))
	}

	okChan, errChan := e.cli.ContainerWait(ctx, resp.ID, container.WaitConditionNotRunning)
	select {
	case data := <-okChan:
		stdoutBuffer := new(bytes.Buffer)
		stderrBuffer := new(bytes.Buffer)
		if _, err := stdcopy.StdCopy(stdoutBuffer, stderrBuffer, attachResp.Reader); err != nil {
			slog.Warn("stdcopy error", "container", resp.ID, "error", err)
		}

		e.logRunTime(ctx, resp.ID, data.StatusCode)

		if data.StatusCode == timeoutStatusCode {
			return gateway.Err(fmt.Sprintf("Error: execution timed out after %s", e.timeout))
		}
		// A non-zero exit from the program itself is not an engine failure;
		// the captured output (stack trace and all) is the result, same as
		// a remote runner would report it.
		output := stdoutBuffer.String() + stderrBuffer.String()
		return gateway.Ok(output)

	case err := <-errChan:
		return gateway.Err(fmt.Sprintf("Execution failed: container wait: %v", err))
	}
}

// logRunTime reports how long the container ran, from the daemon's own
// start/finish timestamps.
func (e *Engine) logRunTime(ctx context.Context, containerID string, exitCode int64) {
	inspectResp, err := e.cli.ContainerInspect(ctx, containerID)
	if err != nil {
		slog.Warn("failed to inspect container", "container", containerID, "error", err)
		return
	}
	startTime, err := dateparse.ParseAny(inspectResp.State.StartedAt)
	if err != nil {
		return
	}
	finishTime, err := dateparse.ParseAny(inspectResp.State.FinishedAt)
	if err != nil {
		return
	}
	slog.Info("container run finished",
		"container", containerID,
		"exitCode", exitCode,
		"runTimeMs", finishTime.Sub(startTime).Milliseconds(),
	)
}

// pullImage pre-pulls one image. The response body MUST be fully drained
// before closing — otherwise Docker cancels the download mid-flight and the
// image is never stored locally.
func (e *Engine) pullImage(ctx context.Context, ref string) error {
	slog.Info("pulling image (this may take a minute on first run)", "image", ref)
	out, err := e.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(io.Discard, out); err != nil {
		slog.Warn("error reading image pull stream", "image", ref, "error", err)
	}
	slog.Info("image ready", "image", ref)
	return nil
}
