package nintex

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListWorkflows(t *testing.T) {
	var gotPath, gotLimit string

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")

		w.Write([]byte(`{"workflows": [
			{"id": "wf-1", "name": "Expense Approval"},
			{"id": "wf-2", "name": "Onboarding"}
		]}`))
	}))

	workflows, err := c.ListWorkflows(context.Background(), 25)
	require.NoError(t, err)

	assert.Equal(t, "/workflows/v1/designs/published", gotPath)
	assert.Equal(t, "25", gotLimit)

	require.Len(t, workflows, 2)
	assert.Equal(t, "Expense Approval", workflows[0].Name)
}

func TestListWorkflowsDefaultLimit(t *testing.T) {
	var gotLimit string

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"workflows": []}`))
	}))

	_, err := c.ListWorkflows(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "1000", gotLimit)
}

func TestGetWorkflow(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/workflows/v1/designs/wf-1", r.URL.Path)
		w.Write([]byte(`{"id": "wf-1", "name": "Expense Approval", "definition": {"actions": []}}`))
	}))

	design, err := c.GetWorkflow(context.Background(), "wf-1")
	require.NoError(t, err)

	assert.Equal(t, "Expense Approval", design["name"])
}

func TestDeleteWorkflow(t *testing.T) {
	var gotMethod, gotPath string

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	err := c.DeleteWorkflow(context.Background(), "wf-1")
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/workflows/v1/designs/wf-1", gotPath)
}
