package opportunity

// Filter is the AND of optional equality predicates used by reporting
// queries. Nil fields impose no constraint; major and company matching is
// case-insensitive.
type Filter struct {
	Status  *Status
	Major   *string
	Level   *Level
	Company *string
}

type Repository interface {
	Add(opp *Opportunity)
	Remove(id string) bool
	GetByID(id string) (*Opportunity, error)
	List() []*Opportunity
	ListByRep(repID string) []*Opportunity
	Filter(f Filter) []*Opportunity
}
