package core

import "strings"

type CorporateStatus string

const (
	CorporateActive   CorporateStatus = "ACTIVE"
	CorporateInactive CorporateStatus = "INACTIVE"
)

type UserStatus string

const (
	UserActive    UserStatus = "ACTIVE"
	UserInactive  UserStatus = "INACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
)

type IndustryType string

const (
	IndustrySoftware     IndustryType = "SOFTWARE"
	IndustryConstruction IndustryType = "CONSTRUCTION"
)

type ProjectType string

const (
	ProjectConstruction ProjectType = "CONSTRUCTION"
	ProjectSoftware     ProjectType = "SOFTWARE"
	ProjectCustom       ProjectType = "CUSTOM"
)

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "DRAFT"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
)

type PhaseStatus string

const (
	PhaseNotStarted PhaseStatus = "NOT_STARTED"
	PhaseInProgress PhaseStatus = "IN_PROGRESS"
	PhaseCompleted  PhaseStatus = "COMPLETED"
)

type AccessType string

const (
	AccessOwner  AccessType = "OWNER"
	AccessEditor AccessType = "EDITOR"
	AccessViewer AccessType = "VIEWER"
)

// FilterAll is the select value the console uses for "no filter".
const FilterAll = "ALL"

// NormalizeFilter maps "", "ALL" (any case) and surrounding blanks to "" and
// everything else to its trimmed upper-case form.
func NormalizeFilter(v string) string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == FilterAll {
		return ""
	}
	return v
}

// OneOf reports whether v is empty or one of allowed.
func OneOf[S ~string](v string, allowed ...S) bool {
	if v == "" {
		return true
	}
	for _, a := range allowed {
		if string(a) == v {
			return true
		}
	}
	return false
}
