package app

import (
	"sort"
	"strings"
	"time"

	"internhub/internal/domain/applicant"
	"internhub/internal/domain/opportunity"
)

// IsEligible reports whether the applicant may act on the opportunity as of
// the given day: visible and APPROVED, not past the closing date (inclusive),
// major match, and level within the applicant's tier. Missing records are
// ineligible rather than an error.
func IsEligible(opp *opportunity.Opportunity, appl *applicant.Applicant, today time.Time) bool {
	if opp == nil || appl == nil {
		return false
	}
	if !opp.Visible || opp.Status != opportunity.StatusApproved {
		return false
	}
	if dateOnly(today).After(opp.ClosingDate) {
		return false
	}
	if !majorMatches(opp.PreferredMajor, appl.Major) {
		return false
	}
	return appl.CanApplyForLevel(opp.Level)
}

// MatchesSavedFilters applies the applicant's saved preferences. Each unset
// field imposes no constraint; the closing-date bound is inclusive.
func MatchesSavedFilters(opp *opportunity.Opportunity, fs applicant.FilterSettings) bool {
	if opp == nil {
		return false
	}
	if fs.Status != nil && opp.Status != *fs.Status {
		return false
	}
	if fs.Major != nil && !majorMatches(opp.PreferredMajor, *fs.Major) {
		return false
	}
	if fs.Level != nil && opp.Level != *fs.Level {
		return false
	}
	if fs.ClosingBefore != nil && opp.ClosingDate.After(*fs.ClosingBefore) {
		return false
	}
	return true
}

// ListEligibleOpportunities composes the eligibility and saved-filter checks
// into the applicant's listing, ordered case-insensitively by title with ties
// kept in insertion order.
func (s *ApplicationService) ListEligibleOpportunities(applicantID string) ([]*opportunity.Opportunity, error) {
	appl, err := s.applicants.GetByID(applicantID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	var eligible []*opportunity.Opportunity
	for _, opp := range s.opportunities.List() {
		if IsEligible(opp, appl, today) && MatchesSavedFilters(opp, appl.Filters) {
			eligible = append(eligible, opp)
		}
	}
	sortByTitle(eligible)
	return eligible, nil
}

// UpdateFilters replaces the applicant's saved listing preferences.
func (s *ApplicationService) UpdateFilters(applicantID string, fs applicant.FilterSettings) error {
	appl, err := s.applicants.GetByID(applicantID)
	if err != nil {
		return err
	}
	appl.Filters = fs
	return nil
}

func sortByTitle(opps []*opportunity.Opportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return strings.ToLower(opps[i].Title) < strings.ToLower(opps[j].Title)
	})
}

func majorMatches(preferred, major string) bool {
	return strings.EqualFold(strings.TrimSpace(preferred), strings.TrimSpace(major))
}

// dateOnly truncates a timestamp to its calendar day in UTC, the precision
// opening and closing dates carry.
func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
