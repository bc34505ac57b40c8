package constants

// ContextKeyUser is the gin context key holding the authenticated principal.
const ContextKeyUser = "current_user"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// Pagination bounds for list endpoints.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Dashboard result limits.
const (
	RecentProjectsLimit = 5
	RecentTasksLimit    = 10
)
