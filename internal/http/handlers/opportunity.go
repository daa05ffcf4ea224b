package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"internhub/internal/app"
	"internhub/internal/common"
	"internhub/internal/domain/applicant"
	"internhub/internal/domain/opportunity"
	"internhub/internal/http/response"
)

type OpportunityHandler struct {
	opportunities *app.OpportunityService
	applications  *app.ApplicationService
}

func NewOpportunityHandler(opportunities *app.OpportunityService, applications *app.ApplicationService) *OpportunityHandler {
	return &OpportunityHandler{opportunities: opportunities, applications: applications}
}

type createOpportunityRequest struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Level          string `json:"level"`
	PreferredMajor string `json:"preferred_major"`
	Slots          int    `json:"slots"`
	OpeningDate    string `json:"opening_date"`
	ClosingDate    string `json:"closing_date"`
}

func (h *OpportunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req createOpportunityRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	level, err := opportunity.ParseLevel(req.Level)
	if err != nil {
		response.Error(w, err)
		return
	}
	opening, err := parseDate(req.OpeningDate, "opening_date")
	if err != nil {
		response.Error(w, err)
		return
	}
	closing, err := parseDate(req.ClosingDate, "closing_date")
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.opportunities.Create(repID, app.CreateInput{
		ID:             req.ID,
		Title:          req.Title,
		Description:    req.Description,
		Level:          level,
		PreferredMajor: req.PreferredMajor,
		Slots:          req.Slots,
		OpeningDate:    opening,
		ClosingDate:    closing,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

type editOpportunityRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Level          string `json:"level"`
	PreferredMajor string `json:"preferred_major"`
	Slots          int    `json:"slots"`
}

func (h *OpportunityHandler) Edit(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req editOpportunityRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	level := opportunity.Level("")
	if req.Level != "" {
		level, err = opportunity.ParseLevel(req.Level)
		if err != nil {
			response.Error(w, err)
			return
		}
	}
	updated, err := h.opportunities.Edit(repID, chi.URLParam(r, "id"), app.EditInput{
		Title:          req.Title,
		Description:    req.Description,
		Level:          level,
		PreferredMajor: req.PreferredMajor,
		Slots:          req.Slots,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.opportunities.Delete(repID, chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	opp, err := h.opportunities.Get(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, opp)
}

// Filter is the staff reporting query: optional status/major/level/company
// query parameters ANDed together.
func (h *OpportunityHandler) Filter(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, h.opportunities.Filter(f))
}

func (h *OpportunityHandler) Report(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, h.opportunities.Report(f))
}

// ListEligible returns the opportunities the calling applicant may act on,
// sorted by title.
func (h *OpportunityHandler) ListEligible(w http.ResponseWriter, r *http.Request) {
	applicantID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.ListEligibleOpportunities(applicantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *OpportunityHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	opportunityID := chi.URLParam(r, "id")
	opp, err := h.opportunities.Get(opportunityID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if !strings.EqualFold(opp.RepID, repID) {
		response.Error(w, common.NewError(common.CodeForbidden, "opportunity belongs to another representative", nil))
		return
	}
	items, err := h.applications.ListForOpportunity(opportunityID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *OpportunityHandler) Approve(w http.ResponseWriter, r *http.Request) {
	opp, err := h.opportunities.Approve(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Reject(w http.ResponseWriter, r *http.Request) {
	opp, err := h.opportunities.Reject(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	opp, err := h.opportunities.ToggleVisibility(repID, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) ApproveRepresentative(w http.ResponseWriter, r *http.Request) {
	rep, err := h.opportunities.ApproveRepresentative(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, rep)
}

type filtersRequest struct {
	Status        string `json:"status"`
	Major         string `json:"major"`
	Level         string `json:"level"`
	ClosingBefore string `json:"closing_before"`
}

// UpdateFilters saves the calling applicant's listing preferences. Blank
// fields clear the corresponding constraint.
func (h *OpportunityHandler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	applicantID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req filtersRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}

	var fs applicant.FilterSettings
	if req.Status != "" {
		status, err := opportunity.ParseStatus(req.Status)
		if err != nil {
			response.Error(w, err)
			return
		}
		fs.Status = &status
	}
	if major := strings.TrimSpace(req.Major); major != "" {
		fs.Major = &major
	}
	if req.Level != "" {
		level, err := opportunity.ParseLevel(req.Level)
		if err != nil {
			response.Error(w, err)
			return
		}
		fs.Level = &level
	}
	if req.ClosingBefore != "" {
		bound, err := parseDate(req.ClosingBefore, "closing_before")
		if err != nil {
			response.Error(w, err)
			return
		}
		fs.ClosingBefore = &bound
	}

	if err := h.applications.UpdateFilters(applicantID, fs); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, fs)
}

func filterFromQuery(r *http.Request) (opportunity.Filter, error) {
	var f opportunity.Filter
	query := r.URL.Query()
	if value := strings.TrimSpace(query.Get("status")); value != "" {
		status, err := opportunity.ParseStatus(value)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}
	if value := strings.TrimSpace(query.Get("major")); value != "" {
		f.Major = &value
	}
	if value := strings.TrimSpace(query.Get("level")); value != "" {
		level, err := opportunity.ParseLevel(value)
		if err != nil {
			return f, err
		}
		f.Level = &level
	}
	if value := strings.TrimSpace(query.Get("company")); value != "" {
		f.Company = &value
	}
	return f, nil
}

func parseDate(value, field string) (time.Time, error) {
	parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, common.NewValidationError("invalid date, expected yyyy-MM-dd", map[string]string{field: value})
	}
	return parsed, nil
}
