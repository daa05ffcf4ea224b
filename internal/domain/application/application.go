package application

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending           Status = "PENDING"
	StatusSuccessful        Status = "SUCCESSFUL"
	StatusUnsuccessful      Status = "UNSUCCESSFUL"
	StatusConfirmed         Status = "CONFIRMED"
	StatusWithdrawRequested Status = "WITHDRAW_REQUESTED"
	StatusWithdrawn         Status = "WITHDRAWN"
)

// RemarkSeparator joins an appended remark to whatever remark text already exists.
const RemarkSeparator = " | "

// Application is one applicant's bid against one opportunity. A single record
// is shared by the owning applicant and opportunity collections; cross-entity
// references are by ID.
type Application struct {
	ID            string    `json:"id"`
	ApplicantID   string    `json:"applicant_id"`
	OpportunityID string    `json:"opportunity_id"`
	Status        Status    `json:"status"`
	DateApplied   time.Time `json:"date_applied"`
	Remarks       string    `json:"remarks,omitempty"`

	// PreviousStatus holds the status a withdrawal request was made from, so a
	// rejected request can restore it. Cleared when the application is withdrawn.
	PreviousStatus *Status `json:"previous_status,omitempty"`
}

func New(applicantID, opportunityID string, dateApplied time.Time) *Application {
	return &Application{
		ID:            uuid.NewString(),
		ApplicantID:   applicantID,
		OpportunityID: opportunityID,
		Status:        StatusPending,
		DateApplied:   dateApplied,
	}
}

// Active reports whether the application counts toward the per-applicant cap.
func (a *Application) Active() bool {
	return a.Status == StatusPending || a.Status == StatusSuccessful
}

// Terminal reports whether no further transition is possible.
func (a *Application) Terminal() bool {
	return a.Status == StatusWithdrawn || a.Status == StatusUnsuccessful
}

func (a *Application) SetRemarks(remarks string) {
	a.Remarks = strings.TrimSpace(remarks)
}

// AppendRemark adds a note without discarding existing remark text.
func (a *Application) AppendRemark(remark string) {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		return
	}
	if a.Remarks == "" {
		a.Remarks = remark
		return
	}
	a.Remarks = a.Remarks + RemarkSeparator + remark
}

func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, nil
	case StatusSuccessful:
		return StatusSuccessful, nil
	case StatusUnsuccessful:
		return StatusUnsuccessful, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusWithdrawRequested:
		return StatusWithdrawRequested, nil
	case StatusWithdrawn:
		return StatusWithdrawn, nil
	}
	return "", errUnknownStatus(value)
}
