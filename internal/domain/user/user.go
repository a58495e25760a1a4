package user

import "adminconsole/internal/core"

// User is a member of a corporate.
type User struct {
	UserID     string          `json:"user_id"`
	AssignedAt string          `json:"assigned_at"`
	UserName   string          `json:"user_name"`
	UserEmail  string          `json:"user_email"`
	UserPhone  string          `json:"user_phone"`
	UserStatus core.UserStatus `json:"user_status"`
	RoleName   string          `json:"role_name"`
	RoleCode   string          `json:"role_code"`
	RoleScope  string          `json:"role_scope"`
}

// ListParams are the query parameters of GET /corporates/{id}/users.
type ListParams struct {
	Q      string
	Status string
	Page   int
	Limit  int
}

// Assignee references a user in an assignment payload.
type Assignee struct {
	UserID string `json:"user_id" validate:"required,max=50"`
}
