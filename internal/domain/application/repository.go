package application

import "internhub/internal/common"

// Repository is the registry of every application in the system. Records kept
// here are the same instances referenced by applicant and opportunity
// collections; the repository is the single writable copy.
type Repository interface {
	Add(app *Application)
	GetByID(id string) (*Application, error)
	List() []*Application
	ListByStatus(status Status) []*Application
}

func errUnknownStatus(value string) error {
	return common.NewValidationError("unknown application status", map[string]string{"status": value})
}
