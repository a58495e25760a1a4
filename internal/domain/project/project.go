package project

import (
	"strings"

	"adminconsole/internal/core"
	"adminconsole/internal/domain/user"
	"adminconsole/internal/domain/validation"
)

// Project belongs to one corporate.
type Project struct {
	ProjectID          string             `json:"project_id"`
	CorporateID        string             `json:"corporate_id"`
	ProjectCode        string             `json:"project_code"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	ProjectType        core.ProjectType   `json:"project_type"`
	StartDate          string             `json:"start_date"`
	EndDate            string             `json:"end_date"`
	Status             core.ProjectStatus `json:"status"`
	ProgressPercentage float64            `json:"progress_percentage"`
	CreatedBy          string             `json:"created_by"`
	CreatedAt          string             `json:"created_at"`
	UpdatedAt          string             `json:"updated_at"`
	ProjectTemplateID  *string            `json:"project_template_id"`
	ImageURL           string             `json:"image_url,omitempty"`
}

// ListParams are the query parameters of GET /corporates/{id}/projects.
type ListParams struct {
	Q           string
	Status      string
	ProjectType string
	Page        int
	Limit       int
}

// Payload creates or updates a project.
type Payload struct {
	Name        string             `json:"name" validate:"required,max=100"`
	Description string             `json:"description" validate:"required,max=100"`
	ProjectType core.ProjectType   `json:"project_type,omitempty" validate:"omitempty,oneof=CONSTRUCTION SOFTWARE CUSTOM"`
	StartDate   string             `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string             `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      core.ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT ON_HOLD ACTIVE COMPLETED ARCHIVED"`
}

// UpdatePayload is a partial project update; nil fields are left unchanged upstream.
type UpdatePayload struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string             `json:"description,omitempty" validate:"omitempty,min=1,max=100"`
	ProjectType *core.ProjectType   `json:"project_type,omitempty" validate:"omitempty,oneof=CONSTRUCTION SOFTWARE CUSTOM"`
	StartDate   *string             `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string             `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      *core.ProjectStatus `json:"status,omitempty" validate:"omitempty,oneof=DRAFT ON_HOLD ACTIVE COMPLETED ARCHIVED"`
}

// FromTemplatePayload creates a project from a template.
type FromTemplatePayload struct {
	ProjectTemplateID string `json:"project_template_id" validate:"required,max=50"`
}

// AssignmentPayload grants users access to a project.
type AssignmentPayload struct {
	AccessType core.AccessType `json:"access_type,omitempty" validate:"omitempty,oneof=EDITOR VIEWER"`
	UserIDs    []user.Assignee `json:"user_ids" validate:"min=1,dive"`
}

func (p *Payload) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

func (p Payload) Validate() error { return validation.Struct(p) }

func (p UpdatePayload) Validate() error { return validation.Struct(p) }

func (p FromTemplatePayload) Validate() error { return validation.Struct(p) }

func (p AssignmentPayload) Validate() error { return validation.Struct(p) }
