package phase

import (
	"strings"

	"adminconsole/internal/core"
	"adminconsole/internal/domain/validation"
)

// Phase is an ordered stage of a project.
type Phase struct {
	PhaseID     string           `json:"phase_id"`
	ProjectID   string           `json:"project_id"`
	CorporateID string           `json:"corporate_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Status      core.PhaseStatus `json:"status"`
	StartDate   string           `json:"start_date"`
	EndDate     string           `json:"end_date"`
	OrderIndex  int              `json:"order_index"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

// ListParams are the query parameters of GET .../projects/{id}/phases.
type ListParams struct {
	Status string
	Page   int
	Limit  int
}

// Payload creates or updates a phase.
type Payload struct {
	Name        string           `json:"name" validate:"required,max=100"`
	Description string           `json:"description" validate:"max=255"`
	Status      core.PhaseStatus `json:"status,omitempty" validate:"omitempty,oneof=NOT_STARTED IN_PROGRESS COMPLETED"`
	StartDate   string           `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string           `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	OrderIndex  int              `json:"order_index" validate:"min=0"`
}

func (p *Payload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

func (p Payload) Validate() error { return validation.Struct(p) }
