package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"internhub/internal/app"
	"internhub/internal/common"
	"internhub/internal/domain/application"
	"internhub/internal/http/response"
)

// userIDHeader carries the acting user's identity. Authentication itself is
// handled upstream of this service; the header is trusted as-is.
const userIDHeader = "X-User-ID"

type ApplicationHandler struct {
	applications  *app.ApplicationService
	opportunities *app.OpportunityService
}

func NewApplicationHandler(applications *app.ApplicationService, opportunities *app.OpportunityService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, opportunities: opportunities}
}

type submitRequest struct {
	OpportunityID string `json:"opportunity_id"`
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	applicantID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req submitRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.applications.Submit(applicantID, req.OpportunityID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	applicantID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.ListByApplicant(applicantID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type decideRequest struct {
	Outcome string `json:"outcome"`
	Remarks string `json:"remarks"`
}

func (h *ApplicationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	repID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID := chi.URLParam(r, "id")
	if err := h.requireReviewer(applicationID, repID); err != nil {
		response.Error(w, err)
		return
	}
	var req decideRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	outcome, err := application.ParseStatus(req.Outcome)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.Decide(applicationID, outcome, req.Remarks); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (h *ApplicationHandler) RequestWithdrawal(w http.ResponseWriter, r *http.Request) {
	applicantID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID := chi.URLParam(r, "id")
	if err := h.requireOwner(applicationID, applicantID); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.RequestWithdrawal(applicationID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

type resolveRequest struct {
	Approve bool `json:"approve"`
}

func (h *ApplicationHandler) ResolveWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decode(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.ResolveWithdrawal(chi.URLParam(r, "id"), req.Approve); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (h *ApplicationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	applicantID, err := callerID(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID := chi.URLParam(r, "id")
	if err := h.requireOwner(applicationID, applicantID); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.Confirm(applicationID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, nil)
}

func (h *ApplicationHandler) ListWithdrawalRequests(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.applications.ListWithdrawalRequests())
}

// requireOwner rejects actions on applications the caller does not own.
func (h *ApplicationHandler) requireOwner(applicationID, applicantID string) error {
	app, err := h.applications.Get(applicationID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(app.ApplicantID, applicantID) {
		return common.NewError(common.CodeForbidden, "application belongs to another applicant", nil)
	}
	return nil
}

// requireReviewer rejects decisions from representatives who do not own the
// application's opportunity.
func (h *ApplicationHandler) requireReviewer(applicationID, repID string) error {
	app, err := h.applications.Get(applicationID)
	if err != nil {
		return err
	}
	opp, err := h.opportunities.Get(app.OpportunityID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(opp.RepID, repID) {
		return common.NewError(common.CodeForbidden, "opportunity belongs to another representative", nil)
	}
	return nil
}

func callerID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(userIDHeader))
	if id == "" {
		return "", common.NewValidationError("missing "+userIDHeader+" header", nil)
	}
	return id, nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewValidationError("invalid request body", nil)
	}
	return nil
}
