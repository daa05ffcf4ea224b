// Package memory holds the process-lifetime registries backing the core.
// State is populated once at startup by the loader and discarded on exit;
// mutating callers are expected to serialize access themselves, so the
// repositories carry no locking.
package memory

import (
	"strings"

	"internhub/internal/common"
	"internhub/internal/domain/opportunity"
)

type OpportunityRepository struct {
	items []*opportunity.Opportunity
	byID  map[string]*opportunity.Opportunity
}

func NewOpportunityRepository() *OpportunityRepository {
	return &OpportunityRepository{byID: make(map[string]*opportunity.Opportunity)}
}

func (r *OpportunityRepository) Add(opp *opportunity.Opportunity) {
	if opp == nil {
		return
	}
	r.items = append(r.items, opp)
	r.byID[strings.ToLower(opp.ID)] = opp
}

func (r *OpportunityRepository) Remove(id string) bool {
	key := strings.ToLower(strings.TrimSpace(id))
	opp, ok := r.byID[key]
	if !ok {
		return false
	}
	delete(r.byID, key)
	for i, item := range r.items {
		if item == opp {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}
	return true
}

// GetByID matches IDs case-insensitively.
func (r *OpportunityRepository) GetByID(id string) (*opportunity.Opportunity, error) {
	opp, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "opportunity not found", map[string]string{"id": id})
	}
	return opp, nil
}

// List returns all opportunities in insertion order.
func (r *OpportunityRepository) List() []*opportunity.Opportunity {
	out := make([]*opportunity.Opportunity, len(r.items))
	copy(out, r.items)
	return out
}

func (r *OpportunityRepository) ListByRep(repID string) []*opportunity.Opportunity {
	var out []*opportunity.Opportunity
	for _, opp := range r.items {
		if strings.EqualFold(opp.RepID, repID) {
			out = append(out, opp)
		}
	}
	return out
}

// Filter applies the AND of the set predicates, preserving insertion order.
func (r *OpportunityRepository) Filter(f opportunity.Filter) []*opportunity.Opportunity {
	var out []*opportunity.Opportunity
	for _, opp := range r.items {
		if f.Status != nil && opp.Status != *f.Status {
			continue
		}
		if f.Major != nil && !strings.EqualFold(opp.PreferredMajor, strings.TrimSpace(*f.Major)) {
			continue
		}
		if f.Level != nil && opp.Level != *f.Level {
			continue
		}
		if f.Company != nil && !strings.EqualFold(opp.CompanyName, strings.TrimSpace(*f.Company)) {
			continue
		}
		out = append(out, opp)
	}
	return out
}
