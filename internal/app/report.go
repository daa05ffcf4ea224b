package app

import (
	"internhub/internal/domain/application"
	"internhub/internal/domain/opportunity"
)

// OpportunityReport summarises a filtered set of listings for career center
// staff.
type OpportunityReport struct {
	Total        int                        `json:"total"`
	StatusCounts map[opportunity.Status]int `json:"status_counts"`
	Entries      []ReportEntry              `json:"entries"`
}

// ReportEntry tallies one listing's applications.
type ReportEntry struct {
	Opportunity *opportunity.Opportunity `json:"opportunity"`
	Total       int                      `json:"total_applications"`
	Pending     int                      `json:"pending"`
	Successful  int                      `json:"successful"`
	Confirmed   int                      `json:"confirmed"`
}

// Report filters the registry and aggregates status counts and per-listing
// application tallies.
func (s *OpportunityService) Report(f opportunity.Filter) *OpportunityReport {
	filtered := s.opportunities.Filter(f)

	report := &OpportunityReport{
		Total:        len(filtered),
		StatusCounts: make(map[opportunity.Status]int),
	}
	for _, opp := range filtered {
		report.StatusCounts[opp.Status]++

		entry := ReportEntry{Opportunity: opp, Total: len(opp.Applications)}
		for _, app := range opp.Applications {
			switch app.Status {
			case application.StatusPending:
				entry.Pending++
			case application.StatusSuccessful:
				entry.Successful++
			case application.StatusConfirmed:
				entry.Confirmed++
			}
		}
		report.Entries = append(report.Entries, entry)
	}
	return report
}
