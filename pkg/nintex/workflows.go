package nintex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultWorkflowLimit caps a workflow listing when the caller does not
// choose a limit.
const DefaultWorkflowLimit = 1000

// ListWorkflows returns the published workflow designs, following
// nextLink until no more pages. limit <= 0 means DefaultWorkflowLimit.
func (c *Client) ListWorkflows(ctx context.Context, limit int) ([]Workflow, error) {
	if limit <= 0 {
		limit = DefaultWorkflowLimit
	}

	c.logger.Info("listing workflows",
		slog.Int("limit", limit),
	)

	q := url.Values{"limit": {strconv.Itoa(limit)}}

	return fetchAll[Workflow](ctx, c, "/workflows/v1/designs/published", "workflows", q)
}

// GetWorkflow returns a workflow design as a raw map. Design documents
// are large and workflow-specific, so callers pick out the fields they
// need.
func (c *Client) GetWorkflow(ctx context.Context, workflowID string) (map[string]any, error) {
	c.logger.Info("getting workflow design",
		slog.String("workflow_id", workflowID),
	)

	path := "/workflows/v1/designs/" + url.PathEscape(workflowID)

	resp, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var design map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&design); err != nil {
		return nil, fmt.Errorf("nintex: decoding workflow design response: %w", err)
	}

	return design, nil
}

// DeleteWorkflow deletes a workflow design.
func (c *Client) DeleteWorkflow(ctx context.Context, workflowID string) error {
	c.logger.Info("deleting workflow design",
		slog.String("workflow_id", workflowID),
	)

	path := "/workflows/v1/designs/" + url.PathEscape(workflowID)

	resp, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if _, copyErr := io.Copy(io.Discard, resp.Body); copyErr != nil {
		return fmt.Errorf("nintex: draining delete response body: %w", copyErr)
	}

	return nil
}
