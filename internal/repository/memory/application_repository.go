package memory

import (
	"strings"

	"internhub/internal/common"
	"internhub/internal/domain/application"
)

type ApplicationRepository struct {
	items []*application.Application
	byID  map[string]*application.Application
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{byID: make(map[string]*application.Application)}
}

func (r *ApplicationRepository) Add(app *application.Application) {
	if app == nil {
		return
	}
	r.items = append(r.items, app)
	r.byID[strings.ToLower(app.ID)] = app
}

func (r *ApplicationRepository) GetByID(id string) (*application.Application, error) {
	app, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", map[string]string{"id": id})
	}
	return app, nil
}

func (r *ApplicationRepository) List() []*application.Application {
	out := make([]*application.Application, len(r.items))
	copy(out, r.items)
	return out
}

func (r *ApplicationRepository) ListByStatus(status application.Status) []*application.Application {
	var out []*application.Application
	for _, app := range r.items {
		if app.Status == status {
			out = append(out, app)
		}
	}
	return out
}
