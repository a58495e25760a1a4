package taskgroup

import (
	"strings"

	"adminconsole/internal/core"
	"adminconsole/internal/domain/user"
	"adminconsole/internal/domain/validation"
)

// TaskGroup groups tasks of a project, optionally inside a phase.
type TaskGroup struct {
	TaskGroupID string  `json:"task_group_id"`
	ProjectID   string  `json:"project_id"`
	PhaseID     *string `json:"phase_id"`
	CorporateID string  `json:"corporate_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	OrderIndex  int     `json:"order_index"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ListParams are the query parameters of GET .../projects/{id}/task-groups.
type ListParams struct {
	PhaseID string
	Page    int
	Limit   int
}

// Payload creates or updates a task group.
type Payload struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
	OrderIndex  int    `json:"order_index" validate:"min=0"`
	PhaseID     string `json:"phase_id,omitempty"`
}

// AssignmentPayload grants users access to a task group.
type AssignmentPayload struct {
	AccessType core.AccessType `json:"access_type,omitempty" validate:"omitempty,oneof=OWNER EDITOR VIEWER"`
	UserIDs    []user.Assignee `json:"user_ids" validate:"min=1,dive"`
}

func (p *Payload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.PhaseID = strings.TrimSpace(p.PhaseID)
}

func (p Payload) Validate() error { return validation.Struct(p) }

func (p AssignmentPayload) Validate() error { return validation.Struct(p) }
