package opportunity

import (
	"strings"
	"time"

	"internhub/internal/common"
	"internhub/internal/domain/application"
)

type Status string

const (
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusFilled          Status = "FILLED"
)

type Level string

const (
	LevelBasic        Level = "BASIC"
	LevelIntermediate Level = "INTERMEDIATE"
	LevelAdvanced     Level = "ADVANCED"
)

const (
	MinSlots = 1
	MaxSlots = 10
)

// Opportunity is a postable internship listing with a bounded slot count.
// Applications holds shared references in application order; SlotsAvailable
// and Status within the APPROVED/FILLED pair are derived by Recalculate.
type Opportunity struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Level          Level     `json:"level"`
	PreferredMajor string    `json:"preferred_major"`
	CompanyName    string    `json:"company_name"`
	RepID          string    `json:"rep_id"`
	TotalSlots     int       `json:"total_slots"`
	SlotsAvailable int       `json:"slots_available"`
	Status         Status    `json:"status"`
	Visible        bool      `json:"visible"`
	OpeningDate    time.Time `json:"opening_date"`
	ClosingDate    time.Time `json:"closing_date"`

	Applications []*application.Application `json:"-"`
}

// New validates and builds a listing. Slot counts are clamped to
// [MinSlots, MaxSlots]; both dates are required and closing may not precede
// opening. New listings start PENDING_APPROVAL and invisible.
func New(id, title, description string, level Level, preferredMajor, companyName, repID string, slots int, openingDate, closingDate time.Time) (*Opportunity, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	preferredMajor = strings.TrimSpace(preferredMajor)
	companyName = strings.TrimSpace(companyName)
	if id == "" {
		return nil, common.NewValidationError("opportunity id is required", nil)
	}
	if title == "" {
		return nil, common.NewValidationError("title is required", nil)
	}
	if preferredMajor == "" {
		return nil, common.NewValidationError("preferred major is required", nil)
	}
	if companyName == "" {
		return nil, common.NewValidationError("company name is required", nil)
	}
	if _, err := ParseLevel(string(level)); err != nil {
		return nil, err
	}
	if openingDate.IsZero() || closingDate.IsZero() {
		return nil, common.NewValidationError("opening and closing dates are required", nil)
	}
	if closingDate.Before(openingDate) {
		return nil, common.NewValidationError("closing date cannot be before opening date", nil)
	}
	if slots < MinSlots {
		slots = MinSlots
	}
	if slots > MaxSlots {
		slots = MaxSlots
	}
	return &Opportunity{
		ID:             id,
		Title:          title,
		Description:    strings.TrimSpace(description),
		Level:          level,
		PreferredMajor: preferredMajor,
		CompanyName:    companyName,
		RepID:          strings.TrimSpace(repID),
		TotalSlots:     slots,
		SlotsAvailable: slots,
		Status:         StatusPendingApproval,
		Visible:        false,
		OpeningDate:    openingDate,
		ClosingDate:    closingDate,
	}, nil
}

func (o *Opportunity) AddApplication(app *application.Application) {
	if app == nil {
		return
	}
	o.Applications = append(o.Applications, app)
}

// Recalculate recomputes SlotsAvailable from the confirmed-application count
// and flips the status between APPROVED and FILLED. PENDING_APPROVAL and
// REJECTED are left untouched. Idempotent; must be called after any
// transition into or out of CONFIRMED on an owned application.
func (o *Opportunity) Recalculate() {
	confirmed := 0
	for _, app := range o.Applications {
		if app.Status == application.StatusConfirmed {
			confirmed++
		}
	}

	o.SlotsAvailable = o.TotalSlots - confirmed
	if o.SlotsAvailable < 0 {
		o.SlotsAvailable = 0
	}

	if o.Status == StatusApproved || o.Status == StatusFilled {
		if o.SlotsAvailable == 0 {
			o.Status = StatusFilled
		} else {
			o.Status = StatusApproved
		}
	}
}

func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(value))) {
	case StatusPendingApproval:
		return StatusPendingApproval, nil
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusFilled:
		return StatusFilled, nil
	}
	return "", common.NewValidationError("unknown opportunity status", map[string]string{"status": value})
}

func ParseLevel(value string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(value))) {
	case LevelBasic:
		return LevelBasic, nil
	case LevelIntermediate:
		return LevelIntermediate, nil
	case LevelAdvanced:
		return LevelAdvanced, nil
	}
	return "", common.NewValidationError("unknown internship level", map[string]string{"level": value})
}
