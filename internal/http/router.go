package http

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"internhub/internal/http/handlers"
)

type RouterDependencies struct {
	ApplicationHandler *handlers.ApplicationHandler
	OpportunityHandler *handlers.OpportunityHandler
	MetricsGatherer    prometheus.Gatherer
}

// NewRouter builds the HTTP surface. The core keeps no internal locks under
// its single-writer model, so every mutating route is funnelled through one
// serialization point here.
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	serialized := serialize()

	r.Route("/opportunities", func(r chi.Router) {
		r.Get("/", deps.OpportunityHandler.Filter)
		r.Get("/eligible", deps.OpportunityHandler.ListEligible)
		r.Get("/report", deps.OpportunityHandler.Report)
		r.Get("/{id}", deps.OpportunityHandler.Get)
		r.Get("/{id}/applications", deps.OpportunityHandler.ListApplications)

		r.Group(func(r chi.Router) {
			r.Use(serialized)
			r.Post("/", deps.OpportunityHandler.Create)
			r.Put("/{id}", deps.OpportunityHandler.Edit)
			r.Delete("/{id}", deps.OpportunityHandler.Delete)
			r.Post("/{id}/approve", deps.OpportunityHandler.Approve)
			r.Post("/{id}/reject", deps.OpportunityHandler.Reject)
			r.Post("/{id}/visibility", deps.OpportunityHandler.ToggleVisibility)
		})
	})

	r.Route("/applications", func(r chi.Router) {
		r.Get("/", deps.ApplicationHandler.ListMine)
		r.Get("/withdrawal-requests", deps.ApplicationHandler.ListWithdrawalRequests)

		r.Group(func(r chi.Router) {
			r.Use(serialized)
			r.Post("/", deps.ApplicationHandler.Submit)
			r.Post("/{id}/decide", deps.ApplicationHandler.Decide)
			r.Post("/{id}/withdrawal-request", deps.ApplicationHandler.RequestWithdrawal)
			r.Post("/{id}/withdrawal", deps.ApplicationHandler.ResolveWithdrawal)
			r.Post("/{id}/confirm", deps.ApplicationHandler.Confirm)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(serialized)
		r.Post("/representatives/{id}/approve", deps.OpportunityHandler.ApproveRepresentative)
		r.Put("/filters", deps.OpportunityHandler.UpdateFilters)
	})

	return r
}

func serialize() func(http.Handler) http.Handler {
	var mu sync.Mutex
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			defer mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}
