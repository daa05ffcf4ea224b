package memory

import (
	"strings"

	"internhub/internal/common"
	"internhub/internal/domain/company"
)

type RepresentativeRepository struct {
	items []*company.Representative
	byID  map[string]*company.Representative
}

func NewRepresentativeRepository() *RepresentativeRepository {
	return &RepresentativeRepository{byID: make(map[string]*company.Representative)}
}

func (r *RepresentativeRepository) Add(rep *company.Representative) {
	if rep == nil {
		return
	}
	r.items = append(r.items, rep)
	r.byID[strings.ToLower(rep.ID)] = rep
}

func (r *RepresentativeRepository) GetByID(id string) (*company.Representative, error) {
	rep, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "representative not found", map[string]string{"id": id})
	}
	return rep, nil
}

func (r *RepresentativeRepository) List() []*company.Representative {
	out := make([]*company.Representative, len(r.items))
	copy(out, r.items)
	return out
}
