package app

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"internhub/internal/common"
	"internhub/internal/domain/company"
	"internhub/internal/domain/opportunity"
)

// OpportunityService covers the company and staff side of listings: creation
// and maintenance while pending approval, the staff approval decision, and
// visibility. Slot counts and the APPROVED/FILLED pair stay owned by
// Opportunity.Recalculate.
type OpportunityService struct {
	opportunities   opportunity.Repository
	representatives company.Repository
	logger          *zap.Logger
}

func NewOpportunityService(opportunities opportunity.Repository, representatives company.Repository, logger *zap.Logger) *OpportunityService {
	return &OpportunityService{opportunities: opportunities, representatives: representatives, logger: logger}
}

// CreateInput carries the listing fields a representative supplies.
type CreateInput struct {
	ID             string
	Title          string
	Description    string
	Level          opportunity.Level
	PreferredMajor string
	Slots          int
	OpeningDate    time.Time
	ClosingDate    time.Time
}

func (s *OpportunityService) Create(repID string, in CreateInput) (*opportunity.Opportunity, error) {
	rep, err := s.representatives.GetByID(repID)
	if err != nil {
		return nil, err
	}
	if !rep.Approved {
		return nil, common.NewError(common.CodeForbidden, "representative account is not approved", nil)
	}
	if len(s.opportunities.ListByRep(rep.ID)) >= company.MaxListings {
		return nil, common.NewError(common.CodeConflict, "representative already owns the maximum number of listings", nil)
	}
	if _, err := s.opportunities.GetByID(in.ID); err == nil {
		return nil, common.NewError(common.CodeConflict, "opportunity id already exists", map[string]string{"id": in.ID})
	}

	opp, err := opportunity.New(in.ID, in.Title, in.Description, in.Level, in.PreferredMajor, rep.CompanyName, rep.ID, in.Slots, in.OpeningDate, in.ClosingDate)
	if err != nil {
		return nil, err
	}
	s.opportunities.Add(opp)

	s.logger.Info("opportunity created",
		zap.String("opportunity_id", opp.ID),
		zap.String("rep_id", rep.ID))
	return opp, nil
}

// EditInput carries the editable fields; zero values keep the current ones.
type EditInput struct {
	Title          string
	Description    string
	Level          opportunity.Level
	PreferredMajor string
	Slots          int
}

// Edit rebuilds a listing with the supplied fields. Only the owning
// representative may edit, and only while the listing is still pending
// approval.
func (s *OpportunityService) Edit(repID, opportunityID string, in EditInput) (*opportunity.Opportunity, error) {
	current, err := s.ownedPending(repID, opportunityID)
	if err != nil {
		return nil, err
	}

	title := current.Title
	if in.Title != "" {
		title = in.Title
	}
	description := current.Description
	if in.Description != "" {
		description = in.Description
	}
	level := current.Level
	if in.Level != "" {
		level = in.Level
	}
	major := current.PreferredMajor
	if in.PreferredMajor != "" {
		major = in.PreferredMajor
	}
	slots := current.TotalSlots
	if in.Slots != 0 {
		slots = in.Slots
	}

	updated, err := opportunity.New(current.ID, title, description, level, major, current.CompanyName, current.RepID, slots, current.OpeningDate, current.ClosingDate)
	if err != nil {
		return nil, err
	}

	// Overwrite in place so the registry keeps its insertion order.
	updated.Applications = current.Applications
	*current = *updated
	s.logger.Info("opportunity edited", zap.String("opportunity_id", current.ID))
	return current, nil
}

// Delete removes a listing; permitted only to the owner while the listing is
// pending approval.
func (s *OpportunityService) Delete(repID, opportunityID string) error {
	opp, err := s.ownedPending(repID, opportunityID)
	if err != nil {
		return err
	}
	s.opportunities.Remove(opp.ID)
	s.logger.Info("opportunity deleted", zap.String("opportunity_id", opp.ID))
	return nil
}

// Approve marks a listing APPROVED and makes it visible to applicants.
func (s *OpportunityService) Approve(opportunityID string) (*opportunity.Opportunity, error) {
	opp, err := s.opportunities.GetByID(opportunityID)
	if err != nil {
		return nil, err
	}
	opp.Status = opportunity.StatusApproved
	opp.Visible = true
	s.logger.Info("opportunity approved", zap.String("opportunity_id", opp.ID))
	return opp, nil
}

func (s *OpportunityService) Reject(opportunityID string) (*opportunity.Opportunity, error) {
	opp, err := s.opportunities.GetByID(opportunityID)
	if err != nil {
		return nil, err
	}
	opp.Status = opportunity.StatusRejected
	opp.Visible = false
	s.logger.Info("opportunity rejected", zap.String("opportunity_id", opp.ID))
	return opp, nil
}

// ToggleVisibility flips the owner-controlled visibility flag, which is
// independent of the approval status.
func (s *OpportunityService) ToggleVisibility(repID, opportunityID string) (*opportunity.Opportunity, error) {
	opp, err := s.owned(repID, opportunityID)
	if err != nil {
		return nil, err
	}
	opp.Visible = !opp.Visible
	s.logger.Info("opportunity visibility toggled",
		zap.String("opportunity_id", opp.ID),
		zap.Bool("visible", opp.Visible))
	return opp, nil
}

func (s *OpportunityService) Get(opportunityID string) (*opportunity.Opportunity, error) {
	return s.opportunities.GetByID(opportunityID)
}

func (s *OpportunityService) ListByRep(repID string) []*opportunity.Opportunity {
	return s.opportunities.ListByRep(repID)
}

// Filter runs the reporting query: a plain AND of the set predicates in
// registry order.
func (s *OpportunityService) Filter(f opportunity.Filter) []*opportunity.Opportunity {
	return s.opportunities.Filter(f)
}

// ApproveRepresentative flips a representative account to approved.
func (s *OpportunityService) ApproveRepresentative(repID string) (*company.Representative, error) {
	rep, err := s.representatives.GetByID(repID)
	if err != nil {
		return nil, err
	}
	rep.Approved = true
	s.logger.Info("representative approved", zap.String("rep_id", rep.ID))
	return rep, nil
}

func (s *OpportunityService) owned(repID, opportunityID string) (*opportunity.Opportunity, error) {
	opp, err := s.opportunities.GetByID(opportunityID)
	if err != nil {
		return nil, err
	}
	rep, err := s.representatives.GetByID(repID)
	if err != nil {
		return nil, err
	}
	if !equalFoldID(opp.RepID, rep.ID) {
		return nil, common.NewError(common.CodeForbidden, "opportunity belongs to another representative", nil)
	}
	return opp, nil
}

func equalFoldID(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (s *OpportunityService) ownedPending(repID, opportunityID string) (*opportunity.Opportunity, error) {
	opp, err := s.owned(repID, opportunityID)
	if err != nil {
		return nil, err
	}
	if opp.Status != opportunity.StatusPendingApproval {
		return nil, common.NewError(common.CodeConflict, "only listings pending approval can be edited or deleted", nil)
	}
	return opp, nil
}
