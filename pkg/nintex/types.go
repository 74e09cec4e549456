package nintex

import "time"

// WorkflowStatus is the state of a workflow instance.
type WorkflowStatus string

const (
	StatusRunning    WorkflowStatus = "running"
	StatusCompleted  WorkflowStatus = "completed"
	StatusFailed     WorkflowStatus = "failed"
	StatusTerminated WorkflowStatus = "terminated"
)

// TaskStatus is the state of a task assignment.
type TaskStatus string

const (
	TaskActive     TaskStatus = "active"
	TaskEscalated  TaskStatus = "active-escalated"
	TaskExpired    TaskStatus = "expired"
	TaskComplete   TaskStatus = "complete"
	TaskOverridden TaskStatus = "overridden"
	TaskTerminated TaskStatus = "terminated"
	TaskPaused     TaskStatus = "paused"
	TaskAll        TaskStatus = "all"
)

// ResolveType selects how to resolve a paused instance: retry the failed
// action, or fail the whole instance.
type ResolveType string

const (
	ResolveRetry ResolveType = "1"
	ResolveFail  ResolveType = "2"
)

// WorkflowRef identifies the workflow an instance or action belongs to.
// EventType is only populated on instance-detail responses.
type WorkflowRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	EventType string `json:"eventType"`
}

// StartEvent describes how an instance was started.
type StartEvent struct {
	EventType string `json:"eventType"`
}

// Instance is one row of a workflow-instance listing: the workflow it
// belongs to, when it started, and its current status.
type Instance struct {
	InstanceID    string         `json:"instanceId"`
	InstanceName  string         `json:"instanceName"`
	Workflow      WorkflowRef    `json:"workflow"`
	StartDateTime time.Time      `json:"startDateTime"`
	EndDateTime   time.Time      `json:"endDateTime"`
	Status        WorkflowStatus `json:"status"`
	StartEvent    StartEvent     `json:"startEvent"`
}

// Action is one executed step of a workflow instance.
type Action struct {
	ID               string    `json:"id"`
	ActionInstanceID string    `json:"actionInstanceId"`
	Name             string    `json:"name"`
	Label            string    `json:"label"`
	Type             string    `json:"type"`
	ParentID         string    `json:"parentId"`
	StartDateTime    time.Time `json:"startDateTime"`
	EndDateTime      time.Time `json:"endDateTime"`
	ErrorMessage     string    `json:"errorMessage"`
	LogMessage       string    `json:"logMessage"`
}

// Age returns how long ago the action started, or zero when it has not
// started.
func (a Action) Age() time.Duration {
	if a.StartDateTime.IsZero() {
		return 0
	}

	return time.Since(a.StartDateTime)
}

// InstanceDetail is the full record of a single workflow instance,
// including its executed actions.
type InstanceDetail struct {
	InstanceID    string      `json:"instanceId"`
	Name          string      `json:"name"`
	StartDateTime time.Time   `json:"startDateTime"`
	Status        string      `json:"status"`
	ErrorMessage  string      `json:"errorMessage"`
	Workflow      WorkflowRef `json:"workflow"`
	Actions       []Action    `json:"actions"`
}

// TaskURLs carries the form URL of a task assignment. Only present for
// tasks created by the assign-a-task-to-multiple-users action.
type TaskURLs struct {
	FormURL string `json:"formUrl"`
}

// TaskAssignment is one user's assignment of a task.
type TaskAssignment struct {
	ID            string    `json:"id"`
	Status        string    `json:"status"`
	Assignee      string    `json:"assignee"`
	CreatedDate   time.Time `json:"createdDate"`
	UpdatedDate   time.Time `json:"updatedDate"`
	CompletedBy   string    `json:"completedBy"`
	CompletedByID string    `json:"completedById"`
	CompletedDate time.Time `json:"completedDate"`
	Outcome       string    `json:"outcome"`
	EscalatedTo   string    `json:"escalatedTo"`
	URLs          *TaskURLs `json:"urls"`
}

// Task is a human task raised by a workflow instance, with its
// per-assignee assignments.
type Task struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Subject            string           `json:"subject"`
	Message            string           `json:"message"`
	Description        string           `json:"description"`
	Status             TaskStatus       `json:"status"`
	AssignmentBehavior string           `json:"assignmentBehavior"`
	CompletionCriteria string           `json:"completionCriteria"`
	Initiator          string           `json:"initiator"`
	IsAuthenticated    bool             `json:"isAuthenticated"`
	Outcomes           []string         `json:"outcomes"`
	CreatedDate        time.Time        `json:"createdDate"`
	CompletedDate      time.Time        `json:"completedDate"`
	DueDate            time.Time        `json:"dueDate"`
	Modified           time.Time        `json:"modified"`
	WorkflowID         string           `json:"workflowId"`
	WorkflowInstanceID string           `json:"workflowInstanceId"`
	WorkflowName       string           `json:"workflowName"`
	TaskAssignments    []TaskAssignment `json:"taskAssignments"`
}

// Age returns how long ago the task was created.
func (t Task) Age() time.Duration {
	return time.Since(t.CreatedDate)
}

// SupportsMultipleUsers reports whether the task was created by the
// assign-a-task-to-multiple-users action. Those assignments carry a
// form URL; single-user assignments do not.
func (t Task) SupportsMultipleUsers() bool {
	return len(t.TaskAssignments) > 0 && t.TaskAssignments[0].URLs != nil
}

// Workflow is one row of a published workflow-design listing.
type Workflow struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LastModified time.Time `json:"lastModified"`
}

// User is a tenant user account.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	IsGuest        bool   `json:"isGuest"`
	OrganizationID string `json:"organizationId"`
	Role           string `json:"role"`
}

// DisplayName returns the user's full name.
func (u User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
