package memory

import (
	"strings"

	"internhub/internal/common"
	"internhub/internal/domain/applicant"
)

type ApplicantRepository struct {
	items []*applicant.Applicant
	byID  map[string]*applicant.Applicant
}

func NewApplicantRepository() *ApplicantRepository {
	return &ApplicantRepository{byID: make(map[string]*applicant.Applicant)}
}

func (r *ApplicantRepository) Add(a *applicant.Applicant) {
	if a == nil {
		return
	}
	r.items = append(r.items, a)
	r.byID[strings.ToLower(a.ID)] = a
}

func (r *ApplicantRepository) GetByID(id string) (*applicant.Applicant, error) {
	a, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "applicant not found", map[string]string{"id": id})
	}
	return a, nil
}

func (r *ApplicantRepository) List() []*applicant.Applicant {
	out := make([]*applicant.Applicant, len(r.items))
	copy(out, r.items)
	return out
}
