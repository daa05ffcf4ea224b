package app

import (
	"time"

	"go.uber.org/zap"

	"internhub/internal/common"
	"internhub/internal/domain/applicant"
	"internhub/internal/domain/application"
	"internhub/internal/domain/opportunity"
	"internhub/internal/metrics"
)

// ApplicationService owns the application status machine and the cascade
// rules that couple applications belonging to the same applicant. Every
// operation validates first and mutates only on success; a returned error
// means no state changed.
type ApplicationService struct {
	applications  application.Repository
	opportunities opportunity.Repository
	applicants    applicant.Repository
	metrics       *metrics.Metrics
	logger        *zap.Logger

	now func() time.Time
}

func NewApplicationService(applications application.Repository, opportunities opportunity.Repository, applicants applicant.Repository, m *metrics.Metrics, logger *zap.Logger) *ApplicationService {
	return &ApplicationService{
		applications:  applications,
		opportunities: opportunities,
		applicants:    applicants,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
	}
}

// Submit creates a PENDING application after every eligibility check passes,
// appending the new record to both the applicant's and the opportunity's
// collections.
func (s *ApplicationService) Submit(applicantID, opportunityID string) (*application.Application, error) {
	appl, err := s.applicants.GetByID(applicantID)
	if err != nil {
		return nil, err
	}
	opp, err := s.opportunities.GetByID(opportunityID)
	if err != nil {
		return nil, err
	}
	if !opp.Visible || opp.Status != opportunity.StatusApproved {
		return nil, common.NewError(common.CodeIneligible, "opportunity is not open for applications", nil)
	}
	if dateOnly(s.now()).After(opp.ClosingDate) {
		return nil, common.NewError(common.CodeIneligible, "opportunity is past its closing date", nil)
	}
	if !majorMatches(opp.PreferredMajor, appl.Major) {
		return nil, common.NewError(common.CodeIneligible, "major does not match the preferred major", nil)
	}
	if !appl.CanApplyForLevel(opp.Level) {
		return nil, common.NewError(common.CodeIneligible, "not eligible for this internship level", nil)
	}
	if appl.HasOpenApplicationFor(opp.ID) {
		return nil, common.NewError(common.CodeConflict, "already applied for this opportunity", nil)
	}
	if appl.ActiveCount() >= applicant.MaxActiveApplications {
		return nil, common.NewError(common.CodeIneligible, "active application limit reached", nil)
	}

	app := application.New(appl.ID, opp.ID, dateOnly(s.now()))
	appl.AddApplication(app)
	opp.AddApplication(app)
	s.applications.Add(app)

	s.metrics.ApplicationsSubmitted.Inc()
	s.logger.Info("application submitted",
		zap.String("application_id", app.ID),
		zap.String("applicant_id", appl.ID),
		zap.String("opportunity_id", opp.ID))
	return app, nil
}

// Decide records the reviewer's outcome, SUCCESSFUL or UNSUCCESSFUL.
// Applications that are withdrawn or awaiting withdrawal review cannot be
// decided. Non-blank remarks replace the existing remark text.
func (s *ApplicationService) Decide(applicationID string, outcome application.Status, remarks string) error {
	if outcome != application.StatusSuccessful && outcome != application.StatusUnsuccessful {
		return common.NewValidationError("outcome must be SUCCESSFUL or UNSUCCESSFUL", map[string]string{"outcome": string(outcome)})
	}
	app, err := s.applications.GetByID(applicationID)
	if err != nil {
		return err
	}
	if app.Status == application.StatusWithdrawn || app.Status == application.StatusWithdrawRequested {
		return common.NewError(common.CodeInvalidTransition, "application is withdrawn or pending withdrawal review", nil)
	}

	previous := app.Status
	app.Status = outcome
	if remarks != "" {
		app.SetRemarks(remarks)
	}
	// Deciding over a confirmed offer releases its slot and the applicant's
	// accepted placement.
	if previous == application.StatusConfirmed {
		if appl, err := s.applicants.GetByID(app.ApplicantID); err == nil && appl.AcceptedPlacement == app {
			appl.AcceptedPlacement = nil
		}
		s.recalculateFor(app.OpportunityID)
	}

	s.metrics.ApplicationsDecided.WithLabelValues(string(outcome)).Inc()
	s.logger.Info("application decided",
		zap.String("application_id", app.ID),
		zap.String("outcome", string(outcome)))
	return nil
}

// RequestWithdrawal moves a PENDING, SUCCESSFUL, or CONFIRMED application to
// WITHDRAW_REQUESTED, remembering the prior status for a possible restore.
func (s *ApplicationService) RequestWithdrawal(applicationID string) error {
	app, err := s.applications.GetByID(applicationID)
	if err != nil {
		return err
	}
	switch app.Status {
	case application.StatusWithdrawn, application.StatusWithdrawRequested:
		return common.NewError(common.CodeInvalidTransition, "application is already withdrawn or has a pending withdrawal request", nil)
	case application.StatusUnsuccessful:
		return common.NewError(common.CodeInvalidTransition, "unsuccessful applications cannot be withdrawn", nil)
	}

	previous := app.Status
	app.PreviousStatus = &previous
	app.Status = application.StatusWithdrawRequested

	s.logger.Info("withdrawal requested",
		zap.String("application_id", app.ID),
		zap.String("previous_status", string(previous)))
	return nil
}

// ResolveWithdrawal settles a pending withdrawal request. Approval withdraws
// the application, clears the applicant's accepted placement when this was
// it, and recomputes the opportunity's slots. Rejection restores the saved
// previous status and appends an explanatory remark, touching nothing else.
func (s *ApplicationService) ResolveWithdrawal(applicationID string, approve bool) error {
	app, err := s.applications.GetByID(applicationID)
	if err != nil {
		return err
	}
	if app.Status != application.StatusWithdrawRequested {
		return common.NewError(common.CodeInvalidTransition, "application has no pending withdrawal request", nil)
	}
	appl, err := s.applicants.GetByID(app.ApplicantID)
	if err != nil {
		return err
	}

	if !approve {
		if app.PreviousStatus != nil {
			app.Status = *app.PreviousStatus
		} else if appl.AcceptedPlacement == app {
			// No recorded previous status should be impossible once a request
			// always saves one; recover to CONFIRMED for the accepted
			// placement but flag the inconsistency.
			app.Status = application.StatusConfirmed
			s.logger.Warn("restoring to CONFIRMED without a recorded previous status",
				zap.String("application_id", app.ID))
		}
		app.AppendRemark("Withdrawal request rejected by career center staff.")
		s.logger.Info("withdrawal rejected",
			zap.String("application_id", app.ID),
			zap.String("restored_status", string(app.Status)))
		return nil
	}

	app.Status = application.StatusWithdrawn
	app.PreviousStatus = nil
	if appl.AcceptedPlacement == app {
		appl.AcceptedPlacement = nil
	}
	s.recalculateFor(app.OpportunityID)

	s.metrics.ApplicationsWithdrawn.WithLabelValues("approved").Inc()
	s.logger.Info("withdrawal approved", zap.String("application_id", app.ID))
	return nil
}

// Confirm accepts a SUCCESSFUL offer. The applicant's other PENDING,
// SUCCESSFUL, or WITHDRAW_REQUESTED applications are force-withdrawn
// unconditionally, then the owning opportunity's slots are recomputed.
func (s *ApplicationService) Confirm(applicationID string) error {
	app, err := s.applications.GetByID(applicationID)
	if err != nil {
		return err
	}
	if app.Status != application.StatusSuccessful {
		return common.NewError(common.CodeInvalidTransition, "only SUCCESSFUL applications can be confirmed", nil)
	}
	appl, err := s.applicants.GetByID(app.ApplicantID)
	if err != nil {
		return err
	}
	if appl.AcceptedPlacement != nil && appl.AcceptedPlacement != app {
		return common.NewError(common.CodeConflict, "applicant already has an accepted placement", nil)
	}

	app.Status = application.StatusConfirmed
	appl.AcceptedPlacement = app
	s.cascadeWithdraw(appl, app)
	s.recalculateFor(app.OpportunityID)

	s.metrics.ApplicationsConfirmed.Inc()
	s.logger.Info("application confirmed",
		zap.String("application_id", app.ID),
		zap.String("applicant_id", appl.ID))
	return nil
}

// cascadeWithdraw enforces the one-accepted-placement rule: every other
// application of the applicant still in play is forced straight to WITHDRAWN,
// bypassing reviewer approval.
func (s *ApplicationService) cascadeWithdraw(appl *applicant.Applicant, confirmed *application.Application) {
	for _, other := range appl.Applications {
		if other == confirmed {
			continue
		}
		switch other.Status {
		case application.StatusPending, application.StatusSuccessful, application.StatusWithdrawRequested:
			other.Status = application.StatusWithdrawn
			other.PreviousStatus = nil
			s.metrics.ApplicationsWithdrawn.WithLabelValues("forced").Inc()
			s.logger.Info("application force-withdrawn",
				zap.String("application_id", other.ID),
				zap.String("confirmed_application_id", confirmed.ID))
		}
	}
}

// Get returns a single application by ID.
func (s *ApplicationService) Get(applicationID string) (*application.Application, error) {
	return s.applications.GetByID(applicationID)
}

// ListByApplicant returns the applicant's applications in submission order.
func (s *ApplicationService) ListByApplicant(applicantID string) ([]*application.Application, error) {
	appl, err := s.applicants.GetByID(applicantID)
	if err != nil {
		return nil, err
	}
	out := make([]*application.Application, len(appl.Applications))
	copy(out, appl.Applications)
	return out, nil
}

// ListForOpportunity returns the reviewer-side view of an opportunity's
// applications in application order.
func (s *ApplicationService) ListForOpportunity(opportunityID string) ([]*application.Application, error) {
	opp, err := s.opportunities.GetByID(opportunityID)
	if err != nil {
		return nil, err
	}
	out := make([]*application.Application, len(opp.Applications))
	copy(out, opp.Applications)
	return out, nil
}

// ListWithdrawalRequests returns every application awaiting withdrawal review.
func (s *ApplicationService) ListWithdrawalRequests() []*application.Application {
	return s.applications.ListByStatus(application.StatusWithdrawRequested)
}

func (s *ApplicationService) recalculateFor(opportunityID string) {
	opp, err := s.opportunities.GetByID(opportunityID)
	if err != nil {
		s.logger.Warn("recalculate skipped, opportunity missing", zap.String("opportunity_id", opportunityID))
		return
	}
	opp.Recalculate()
}
