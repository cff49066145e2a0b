// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/proposal-desk/forms"
	"github.com/danielhkuo/proposal-desk/identity"
	"github.com/danielhkuo/proposal-desk/middleware"
	"github.com/danielhkuo/proposal-desk/models"
)

// VoteBackend is the part of the API client the vote routes use.
type VoteBackend interface {
	CastVote(ctx context.Context, proposalID int64, req models.CastVoteRequest, userID int64) (*models.VoteReceipt, error)
	ListVotes(ctx context.Context, proposalID int64) ([]models.Vote, error)
}

type VoteHandler struct {
	api VoteBackend
}

func NewVoteHandler(api VoteBackend) *VoteHandler {
	return &VoteHandler{api: api}
}

// castVoteBody accepts userId as a JSON string or number.
type castVoteBody struct {
	UserID json.RawMessage `json:"userId"`
	Vote   string          `json:"vote"`
}

func (b castVoteBody) userID() string {
	raw := bytes.TrimSpace(b.UserID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
		return s
	}
	return string(raw)
}

// CastVote handles POST /proposals/{id}/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalID(w, r)
	if !ok {
		return
	}

	var body castVoteBody
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	form := &forms.VoteForm{Input: forms.VoteInput{UserID: body.userID(), Vote: body.Vote}}
	receipt, err := form.Submit(r.Context(), id, h.api)
	if err != nil {
		submitError(w, r, err, form.Message())
		return
	}

	slog.Info("vote cast",
		"proposal_id", id,
		"vote", receipt.Vote,
		"request_id", identity.RequestID(r.Context()),
	)
	middleware.JSONResponse(w, http.StatusCreated, receipt)
}

// ListVotes handles GET /proposals/{id}/votes
func (h *VoteHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	id, ok := proposalID(w, r)
	if !ok {
		return
	}

	votes, err := h.api.ListVotes(r.Context(), id)
	if err != nil {
		upstreamError(w, r, err, "Error loading votes")
		return
	}
	if votes == nil {
		votes = []models.Vote{}
	}
	middleware.JSONResponse(w, http.StatusOK, votes)
}
