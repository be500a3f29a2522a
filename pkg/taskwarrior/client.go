package taskwarrior

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/harrisonrobin/autoflow/pkg/model"
)

type Client struct {
	// Binary is the task executable, "task" by default.
	Binary string
}

func NewClient() *Client {
	return &Client{Binary: "task"}
}

// GetTasks runs `task <filter> export` with hooks disabled.
func (c *Client) GetTasks(ctx context.Context, filter []string) ([]Task, error) {
	args := append(append([]string{}, filter...), "export", "rc.hooks=0")
	cmd := exec.CommandContext(ctx, c.Binary, args...)

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("taskwarrior command failed: exit code %d, %s, stderr: %s",
				exitErr.ExitCode(), err, exitErr.Stderr)
		}
		return nil, fmt.Errorf("taskwarrior command failed: %w", err)
	}

	var tasks []Task
	if err := json.Unmarshal(output, &tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal taskwarrior output: %w", err)
	}
	return tasks, nil
}

// ParseTask parses a single task JSON from an io.Reader
func (c *Client) ParseTask(r io.Reader) (Task, error) {
	var task Task
	if err := json.NewDecoder(r).Decode(&task); err != nil {
		return Task{}, fmt.Errorf("failed to decode task json: %w", err)
	}
	return task, nil
}

// ParseTasks reads a stream of task JSON values, either one per line as hooks
// emit them or a single export array.
func (c *Client) ParseTasks(r io.Reader) ([]Task, error) {
	var tasks []Task
	decoder := json.NewDecoder(r)
	for {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		if len(raw) > 0 && raw[0] == '[' {
			var batch []Task
			if err := json.Unmarshal(raw, &batch); err != nil {
				return nil, fmt.Errorf("failed to decode task export: %w", err)
			}
			tasks = append(tasks, batch...)
			continue
		}
		var task Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return nil, fmt.Errorf("failed to decode task json: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Convert maps tasks onto ownerID, dropping deleted and recurring templates.
func Convert(tasks []Task, ownerID string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if m, ok := t.ToModel(ownerID); ok {
			out = append(out, m)
		}
	}
	return out
}
