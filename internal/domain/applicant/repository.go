package applicant

type Repository interface {
	Add(a *Applicant)
	GetByID(id string) (*Applicant, error)
	List() []*Applicant
}
