package applicant

import (
	"strings"
	"time"

	"internhub/internal/common"
	"internhub/internal/domain/application"
	"internhub/internal/domain/opportunity"
)

const (
	MinYearOfStudy = 1
	MaxYearOfStudy = 4

	// MaxActiveApplications caps simultaneous PENDING/SUCCESSFUL applications.
	MaxActiveApplications = 3

	// SeniorYear is the first year of study allowed beyond BASIC listings.
	SeniorYear = 3
)

// Applicant is the student profile the core consumes: the fields the
// eligibility filter gates on, the applicant-side view of the shared
// application records, and the single accepted placement, if any.
type Applicant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Major       string `json:"major"`
	YearOfStudy int    `json:"year_of_study"`

	Applications      []*application.Application `json:"-"`
	AcceptedPlacement *application.Application   `json:"-"`

	Filters FilterSettings `json:"filters"`
}

// FilterSettings are the applicant's saved listing preferences. Each field is
// independently nil, meaning no constraint.
type FilterSettings struct {
	Status        *opportunity.Status `json:"status,omitempty"`
	Major         *string             `json:"major,omitempty"`
	Level         *opportunity.Level  `json:"level,omitempty"`
	ClosingBefore *time.Time          `json:"closing_before,omitempty"`
}

func New(id, name, major string, yearOfStudy int, email string) (*Applicant, error) {
	id = strings.TrimSpace(id)
	major = strings.TrimSpace(major)
	if id == "" {
		return nil, common.NewValidationError("applicant id is required", nil)
	}
	if major == "" {
		return nil, common.NewValidationError("major is required", nil)
	}
	if yearOfStudy < MinYearOfStudy || yearOfStudy > MaxYearOfStudy {
		return nil, common.NewValidationError("year of study must be between 1 and 4", nil)
	}
	return &Applicant{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		Major:       major,
		YearOfStudy: yearOfStudy,
	}, nil
}

func (a *Applicant) AddApplication(app *application.Application) {
	if app == nil {
		return
	}
	a.Applications = append(a.Applications, app)
}

// CanApplyForLevel gates juniors (year 1-2) to BASIC listings; year 3 and
// above may apply to any level.
func (a *Applicant) CanApplyForLevel(level opportunity.Level) bool {
	if a.YearOfStudy < SeniorYear {
		return level == opportunity.LevelBasic
	}
	return true
}

// ActiveCount counts applications in PENDING or SUCCESSFUL.
func (a *Applicant) ActiveCount() int {
	active := 0
	for _, app := range a.Applications {
		if app.Active() {
			active++
		}
	}
	return active
}

// HasOpenApplicationFor reports whether a non-WITHDRAWN application against
// the opportunity already exists.
func (a *Applicant) HasOpenApplicationFor(opportunityID string) bool {
	for _, app := range a.Applications {
		if app.OpportunityID == opportunityID && app.Status != application.StatusWithdrawn {
			return true
		}
	}
	return false
}
