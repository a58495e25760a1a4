package corporate

import (
	"strings"

	"adminconsole/internal/core"
	"adminconsole/internal/domain/validation"
)

// Corporate is a corporate as listed for the signed-in user, together with the
// role the user holds in it.
type Corporate struct {
	CorporateID     string               `json:"corporate_id"`
	CorporateName   string               `json:"corporate_name"`
	CorporateCode   string               `json:"corporate_code"`
	CorporateStatus core.CorporateStatus `json:"corporate_status"`
	RoleName        string               `json:"role_name"`
	RoleCode        string               `json:"role_code"`
	RoleScope       string               `json:"role_scope"`
	AssignedAt      string               `json:"assigned_at"`
	ImageURL        string               `json:"image_url,omitempty"`
}

// ListParams are the query parameters of GET /corporates.
type ListParams struct {
	Q      string
	Status string
	Page   int
	Limit  int
}

// Payload creates a corporate from the admin console.
type Payload struct {
	Code         string            `json:"code" validate:"required,min=3,max=10"`
	Name         string            `json:"name" validate:"required,min=5,max=100"`
	Email        string            `json:"email" validate:"required,email"`
	Phone        string            `json:"phone" validate:"required,phone"`
	Address      string            `json:"address" validate:"required,max=100"`
	IndustryType core.IndustryType `json:"industry_type,omitempty" validate:"omitempty,oneof=SOFTWARE CONSTRUCTION"`
	CompanySize  int               `json:"company_size" validate:"gt=0,gte=3"`
}

// RegisterPayload is the corporate part of a self-service registration.
type RegisterPayload struct {
	Code         string            `json:"code" validate:"required,min=3,max=10"`
	Name         string            `json:"name" validate:"required,max=150"`
	Email        string            `json:"email" validate:"required,email,max=100"`
	Phone        string            `json:"phone" validate:"required,register_phone"`
	Address      string            `json:"address,omitempty" validate:"omitempty,max=100"`
	IndustryType core.IndustryType `json:"industry_type,omitempty" validate:"omitempty,oneof=SOFTWARE CONSTRUCTION"`
	CompanySize  int               `json:"company_size" validate:"min=0,max=99999"`
}

// Registered is the corporate returned by the register endpoints.
type Registered struct {
	CorporateID           string            `json:"corporate_id"`
	Code                  string            `json:"code"`
	Name                  string            `json:"name"`
	Email                 string            `json:"email"`
	Phone                 string            `json:"phone"`
	Address               string            `json:"address"`
	Status                string            `json:"status"`
	LogoURL               *string           `json:"logo_url"`
	IndustryType          core.IndustryType `json:"industry_type"`
	CompanySize           int               `json:"company_size"`
	SubscriptionPlan      *string           `json:"subscription_plan"`
	SubscriptionStartedAt *string           `json:"subscription_started_at"`
	SubscriptionExpiredAt *string           `json:"subscription_expired_at"`
	CreatedAt             string            `json:"created_at"`
	UpdatedAt             string            `json:"updated_at"`
}

// Normalize trims the payload and upper-cases the code.
func (p *Payload) Normalize() {
	p.Code = NormalizeCode(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
}

// NormalizeCode trims and upper-cases a corporate code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks the admin form rules.
func (p Payload) Validate() error {
	return validation.Struct(p)
}

// Validate checks the registration rules.
func (p RegisterPayload) Validate() error {
	return validation.Struct(p)
}

// Find returns the corporate with id from list.
func Find(list []Corporate, id string) (Corporate, bool) {
	for _, c := range list {
		if c.CorporateID == id {
			return c, true
		}
	}
	return Corporate{}, false
}
