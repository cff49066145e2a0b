// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/proposal-desk/client"
	"github.com/danielhkuo/proposal-desk/forms"
	"github.com/danielhkuo/proposal-desk/identity"
	"github.com/danielhkuo/proposal-desk/middleware"
	"github.com/danielhkuo/proposal-desk/models"
)

// ProposalBackend is the part of the API client the proposal routes use.
type ProposalBackend interface {
	ListProposals(ctx context.Context) ([]models.Proposal, error)
	GetProposal(ctx context.Context, id int64) (*models.Proposal, error)
	CreateProposal(ctx context.Context, req models.CreateProposalRequest) (*models.Proposal, error)
}

type ProposalHandler struct {
	api ProposalBackend
	now func() time.Time
}

func NewProposalHandler(api ProposalBackend) *ProposalHandler {
	return &ProposalHandler{api: api, now: time.Now}
}

// ListProposals handles GET /proposals
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.api.ListProposals(r.Context())
	if err != nil {
		upstreamError(w, r, err, "Error loading proposals")
		return
	}

	now := h.now()
	views := make([]models.ProposalView, 0, len(proposals))
	for _, p := range proposals {
		views = append(views, models.NewProposalView(p, now))
	}
	middleware.JSONResponse(w, http.StatusOK, views)
}

// GetProposal handles GET /proposals/{id}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalID(w, r)
	if !ok {
		return
	}

	p, err := h.api.GetProposal(r.Context(), id)
	if err != nil {
		upstreamError(w, r, err, "Error loading proposal")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.NewProposalView(*p, h.now()))
}

// CreateProposal handles POST /proposals
// The body is the raw form: dates and times are separate and combined here.
func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	form := forms.NewProposalForm()
	if err := middleware.ParseJSONBody(r, &form.Input); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	now := h.now()
	p, err := form.Submit(r.Context(), now, h.api)
	if err != nil {
		submitError(w, r, err, form.Message())
		return
	}

	slog.Info("proposal created",
		"proposal_id", p.ID,
		"request_id", identity.RequestID(r.Context()),
	)
	middleware.JSONResponse(w, http.StatusCreated, models.NewProposalView(*p, now))
}

func proposalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid proposal id")
		return 0, false
	}
	return id, true
}

// upstreamStatus keeps backend 4xx statuses and reports everything else as
// a bad gateway.
func upstreamStatus(err error) int {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		return apiErr.Status
	}
	return http.StatusBadGateway
}

func upstreamError(w http.ResponseWriter, r *http.Request, err error, action string) {
	status := upstreamStatus(err)
	if status == http.StatusBadGateway {
		slog.Error("backend request failed",
			"path", r.URL.Path,
			"request_id", identity.RequestID(r.Context()),
			"error", err,
		)
	}
	middleware.ErrorResponse(w, status, forms.FailureMessage(action, err))
}

// submitError maps a form submission failure onto a response.
func submitError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verrs *forms.Errors
	switch {
	case errors.As(err, &verrs):
		middleware.JSONResponse(w, http.StatusUnprocessableEntity, models.ValidationErrorResponse{
			Error:       http.StatusText(http.StatusUnprocessableEntity),
			Message:     strings.Join(verrs.Messages(), "; "),
			FieldErrors: verrs.Fields,
			FormErrors:  verrs.Form,
		})
	case errors.Is(err, forms.ErrAlreadySubmitting):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		status := upstreamStatus(err)
		if status == http.StatusBadGateway {
			slog.Error("backend submit failed",
				"path", r.URL.Path,
				"request_id", identity.RequestID(r.Context()),
				"error", err,
			)
		}
		middleware.ErrorResponse(w, status, message)
	}
}
