package nintex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// TaskSearchOptions filters a task search. Zero values are omitted from
// the request. When From and To are unset the API defaults to the last
// 30 days.
type TaskSearchOptions struct {
	WorkflowName string
	InstanceID   string
	Status       TaskStatus
	Assignee     string
	From         time.Time
	To           time.Time
}

func (o TaskSearchOptions) query() url.Values {
	q := url.Values{}

	if o.WorkflowName != "" {
		q.Set("workflowName", o.WorkflowName)
	}

	if o.InstanceID != "" {
		q.Set("workflowInstanceId", o.InstanceID)
	}

	if o.Status != "" {
		q.Set("status", string(o.Status))
	}

	if o.Assignee != "" {
		q.Set("assignee", o.Assignee)
	}

	if !o.From.IsZero() {
		q.Set("from", o.From.UTC().Format(apiTimeLayout))
	}

	if !o.To.IsZero() {
		q.Set("to", o.To.UTC().Format(apiTimeLayout))
	}

	return q
}

// SearchTasks returns all tasks matching the options, following
// nextLink until no more pages.
func (c *Client) SearchTasks(ctx context.Context, opts TaskSearchOptions) ([]Task, error) {
	c.logger.Info("searching tasks",
		slog.String("workflow_name", opts.WorkflowName),
		slog.String("status", string(opts.Status)),
		slog.String("assignee", opts.Assignee),
	)

	return fetchAll[Task](ctx, c, "/workflows/v2/tasks", "tasks", opts.query())
}

// GetTask returns the details of a single task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	c.logger.Info("getting task",
		slog.String("task_id", taskID),
	)

	path := "/workflows/v2/tasks/" + url.PathEscape(taskID)

	resp, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var task Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("nintex: decoding task response: %w", err)
	}

	return &task, nil
}

// completeTaskRequest carries the chosen outcome for a task assignment.
type completeTaskRequest struct {
	Outcome string `json:"outcome"`
}

// CompleteTask completes a task assignment with the given outcome. The
// outcome must match one of the outcomes defined on the task. The
// returned payload is the updated assignment record.
func (c *Client) CompleteTask(ctx context.Context, taskID, assignmentID, outcome string) (map[string]any, error) {
	c.logger.Info("completing task",
		slog.String("task_id", taskID),
		slog.String("assignment_id", assignmentID),
		slog.String("outcome", outcome),
	)

	body, err := json.Marshal(completeTaskRequest{Outcome: outcome})
	if err != nil {
		return nil, fmt.Errorf("nintex: marshaling complete request: %w", err)
	}

	path := "/workflows/v2/tasks/" + url.PathEscape(taskID) + "/assignments/" + url.PathEscape(assignmentID)

	resp, err := c.Do(ctx, http.MethodPatch, path, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("nintex: decoding complete response: %w", err)
	}

	return result, nil
}

// delegateTaskRequest carries the delegation targets and message.
type delegateTaskRequest struct {
	Assignees []string `json:"assignees"`
	Message   string   `json:"message"`
}

// DelegateTask delegates a task assignment to other users, identified
// by email.
func (c *Client) DelegateTask(ctx context.Context, taskID, assignmentID string, assignees []string, message string) error {
	c.logger.Info("delegating task",
		slog.String("task_id", taskID),
		slog.String("assignment_id", assignmentID),
		slog.Int("assignees", len(assignees)),
	)

	body, err := json.Marshal(delegateTaskRequest{Assignees: assignees, Message: message})
	if err != nil {
		return fmt.Errorf("nintex: marshaling delegate request: %w", err)
	}

	path := "/workflows/v2/tasks/" + url.PathEscape(taskID) +
		"/assignments/" + url.PathEscape(assignmentID) + "/delegate"

	resp, err := c.Do(ctx, http.MethodPut, path, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, copyErr := io.Copy(io.Discard, resp.Body); copyErr != nil {
		return fmt.Errorf("nintex: draining delegate response body: %w", copyErr)
	}

	return nil
}
