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
	"strconv"
	"time"
)

// apiTimeLayout is the timestamp format list filters are serialized with.
// The trailing Z is literal; the API expects UTC instants.
const apiTimeLayout = "2006-01-02T15:04:05.000000Z"

// DefaultPageSize is the page-size hint sent with instance listings when
// the caller does not choose one. Advisory only: the server decides the
// actual page size.
const DefaultPageSize = 100

// InstanceListOptions filters an instance listing. Zero values are
// omitted from the request. When From and To are unset the API defaults
// to the last 30 days; pass an explicitly large range to fetch
// everything.
type InstanceListOptions struct {
	WorkflowName string
	Status       WorkflowStatus
	Order        string // "ASC" or "DESC"
	From         time.Time
	To           time.Time
	PageSize     int
}

func (o InstanceListOptions) query() url.Values {
	q := url.Values{}

	if o.WorkflowName != "" {
		q.Set("workflowName", o.WorkflowName)
	}

	if o.Status != "" {
		q.Set("status", string(o.Status))
	}

	if o.Order != "" {
		q.Set("order", o.Order)
	}

	if !o.From.IsZero() {
		q.Set("from", o.From.UTC().Format(apiTimeLayout))
	}

	if !o.To.IsZero() {
		q.Set("to", o.To.UTC().Format(apiTimeLayout))
	}

	pageSize := o.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	q.Set("pageSize", strconv.Itoa(pageSize))

	return q
}

// ListInstances returns all workflow instances matching the options,
// following nextLink until no more pages.
func (c *Client) ListInstances(ctx context.Context, opts InstanceListOptions) ([]Instance, error) {
	c.logger.Info("listing instances",
		slog.String("workflow_name", opts.WorkflowName),
		slog.String("status", string(opts.Status)),
	)

	return fetchAll[Instance](ctx, c, "/workflows/v2/instances", "instances", opts.query())
}

// createInstanceRequest wraps the start data for instance creation.
type createInstanceRequest struct {
	StartData map[string]any `json:"startData"`
}

// CreateInstance starts a new instance of the given workflow design.
// startData may be nil for workflows without start variables. The
// returned payload carries the created instance's ID.
func (c *Client) CreateInstance(ctx context.Context, workflowID string, startData map[string]any) (map[string]any, error) {
	if startData == nil {
		startData = map[string]any{}
	}

	c.logger.Info("creating instance",
		slog.String("workflow_id", workflowID),
	)

	body, err := json.Marshal(createInstanceRequest{StartData: startData})
	if err != nil {
		return nil, fmt.Errorf("nintex: marshaling start data: %w", err)
	}

	path := "/workflows/v1/designs/" + url.PathEscape(workflowID) + "/instances"

	resp, err := c.Do(ctx, http.MethodPost, path, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var created map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("nintex: decoding create instance response: %w", err)
	}

	return created, nil
}

// instanceDetailResponse is one page of an instance-detail response.
// The actions list is what pages; the scalar fields repeat.
type instanceDetailResponse struct {
	InstanceDetail
	NextLink string `json:"nextLink"`
}

// GetInstance returns the full record of one workflow instance. The
// actions list is paginated by the server: the first page supplies the
// instance fields and later pages contribute additional actions.
func (c *Client) GetInstance(ctx context.Context, instanceID string) (*InstanceDetail, error) {
	c.logger.Info("getting instance",
		slog.String("instance_id", instanceID),
	)

	path := "/workflows/v2/instances/" + url.PathEscape(instanceID)

	var detail *InstanceDetail

	page := 1

	for path != "" {
		resp, err := c.Do(ctx, http.MethodGet, path, nil, nil)
		if err != nil {
			return nil, err
		}

		var idr instanceDetailResponse
		err = json.NewDecoder(resp.Body).Decode(&idr)
		resp.Body.Close()

		if err != nil {
			return nil, fmt.Errorf("nintex: decoding instance page %d: %w", page, err)
		}

		if detail == nil {
			d := idr.InstanceDetail
			detail = &d
		} else {
			detail.Actions = append(detail.Actions, idr.Actions...)
		}

		path = ""

		if idr.NextLink != "" {
			path, err = c.stripBaseURL(idr.NextLink)
			if err != nil {
				return nil, err
			}
		}

		page++
	}

	c.logger.Debug("got instance",
		slog.String("instance_id", instanceID),
		slog.Int("actions", len(detail.Actions)),
		slog.Int("pages", page-1),
	)

	return detail, nil
}

// resolveInstanceRequest carries the resolution choice and the message
// shown on the instance page.
type resolveInstanceRequest struct {
	ResolveType ResolveType `json:"resolveType"`
	Message     string      `json:"message"`
}

// ResolveInstance resolves a paused workflow instance, either retrying
// the failed action (ResolveRetry) or failing the instance (ResolveFail).
func (c *Client) ResolveInstance(ctx context.Context, instanceID string, resolveType ResolveType, message string) error {
	c.logger.Info("resolving instance",
		slog.String("instance_id", instanceID),
		slog.String("resolve_type", string(resolveType)),
	)

	body, err := json.Marshal(resolveInstanceRequest{ResolveType: resolveType, Message: message})
	if err != nil {
		return fmt.Errorf("nintex: marshaling resolve request: %w", err)
	}

	path := "/workflows/v1/instances/" + url.PathEscape(instanceID) + "/resolve"

	resp, err := c.Do(ctx, http.MethodPost, path, nil, bytes.NewReader(body))
	if err != nil {
		return err
	}

	// 204 No Content. Drain and close to reuse the connection.
	defer resp.Body.Close()

	if _, copyErr := io.Copy(io.Discard, resp.Body); copyErr != nil {
		return fmt.Errorf("nintex: draining resolve response body: %w", copyErr)
	}

	return nil
}

// InstanceStartData returns the start data of a workflow instance as a
// raw map. The shape varies workflow to workflow, so callers decode the
// fields they need.
func (c *Client) InstanceStartData(ctx context.Context, instanceID string) (map[string]any, error) {
	c.logger.Info("getting instance start data",
		slog.String("instance_id", instanceID),
	)

	path := "/workflows/v2/instances/" + url.PathEscape(instanceID) + "/startdata"

	resp, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("nintex: decoding start data response: %w", err)
	}

	return data, nil
}

// DeleteInstance deletes a workflow instance.
func (c *Client) DeleteInstance(ctx context.Context, instanceID string) error {
	c.logger.Info("deleting instance",
		slog.String("instance_id", instanceID),
	)

	path := "/workflows/v1/instances/" + url.PathEscape(instanceID)

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
