// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/danielhkuo/proposal-desk/identity"
)

// WireProposal is a proposal as the backend stores and sends it.
type WireProposal struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	PositiveVotes *int   `json:"positive_votes,omitempty"`
	NegativeVotes *int   `json:"negative_votes,omitempty"`
}

// WireVote is a vote as the backend stores and sends it.
type WireVote struct {
	ID         int64  `json:"id"`
	Vote       string `json:"vote"`
	UserID     int64  `json:"user_id"`
	ProposalID int64  `json:"proposal_id"`
}

// Recorded is one request as the backend received it.
type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type failure struct {
	status int
	body   string
}

// Backend is an in-memory snake_case proposals API served over httptest.
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	nextID    int64
	proposals map[int64]*WireProposal
	votes     []WireVote
	requests  []Recorded
	failures  []failure
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{proposals: make(map[int64]*WireProposal)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /proposals", b.listProposals)
	mux.HandleFunc("POST /proposals", b.createProposal)
	mux.HandleFunc("GET /proposals/{id}", b.getProposal)
	mux.HandleFunc("PUT /proposals/{id}", b.updateProposal)
	mux.HandleFunc("DELETE /proposals/{id}", b.deleteProposal)
	mux.HandleFunc("POST /proposals/{id}/votes", b.castVote)
	mux.HandleFunc("GET /proposals/{id}/votes", b.listVotes)
	mux.HandleFunc("GET /proposals/{id}/votes/count", b.countVotes)

	b.Server = httptest.NewServer(b.record(mux))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string {
	return b.Server.URL
}

// AddProposal stores p under a fresh id and returns the id.
func (b *Backend) AddProposal(p WireProposal) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	p.ID = b.nextID
	b.proposals[p.ID] = &p
	return p.ID
}

// FailNext makes the next request answer with status and a raw body.
func (b *Backend) FailNext(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = append(b.failures, failure{status: status, body: body})
}

// Requests returns a copy of everything received so far.
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.requests)
}

// LastRequest returns the most recent request, failing the test if none.
func (b *Backend) LastRequest(t *testing.T) Recorded {
	t.Helper()
	reqs := b.Requests()
	if len(reqs) == 0 {
		t.Fatal("Expected the backend to receive a request")
	}
	return reqs[len(reqs)-1]
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		var fail *failure
		if len(b.failures) > 0 {
			fail = &b.failures[0]
			b.failures = b.failures[1:]
		}
		b.mu.Unlock()

		if fail != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(fail.status)
			io.WriteString(w, fail.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
	})
}

func (b *Backend) lookup(w http.ResponseWriter, r *http.Request) (*WireProposal, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid proposal id")
		return nil, false
	}
	p, ok := b.proposals[id]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Proposal not found")
		return nil, false
	}
	return p, true
}

func (b *Backend) listProposals(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]WireProposal, 0, len(b.proposals))
	for _, p := range b.proposals {
		out = append(out, *p)
	}
	slices.SortFunc(out, func(a, b WireProposal) int { return int(a.ID - b.ID) })
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getProposal(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p, ok := b.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, p)
	}
}

func (b *Backend) createProposal(w http.ResponseWriter, r *http.Request) {
	var p WireProposal
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed body")
		return
	}
	if p.Title == "" || p.StartDate == "" || p.EndDate == "" {
		writeMessage(w, http.StatusBadRequest, "title, start_date and end_date are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	p.ID = b.nextID
	p.PositiveVotes, p.NegativeVotes = nil, nil
	b.proposals[p.ID] = &p
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) updateProposal(w http.ResponseWriter, r *http.Request) {
	var in WireProposal
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.lookup(w, r)
	if !ok {
		return
	}
	p.Title, p.Description = in.Title, in.Description
	p.StartDate, p.EndDate = in.StartDate, in.EndDate
	writeJSON(w, http.StatusOK, p)
}

func (b *Backend) deleteProposal(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.lookup(w, r)
	if !ok {
		return
	}
	delete(b.proposals, p.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) castVote(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.ParseUserID(r.Header.Get(identity.UserIDHeader))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var in struct {
		Vote string `json:"vote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Vote == "" {
		writeMessage(w, http.StatusBadRequest, "Vote is required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.lookup(w, r)
	if !ok {
		return
	}
	for _, v := range b.votes {
		if v.ProposalID == p.ID && v.UserID == userID {
			writeMessage(w, http.StatusConflict, "User has already voted on this proposal")
			return
		}
	}

	vote := WireVote{ID: int64(len(b.votes) + 1), Vote: in.Vote, UserID: userID, ProposalID: p.ID}
	b.votes = append(b.votes, vote)
	switch in.Vote {
	case "POSITIVE":
		p.PositiveVotes = increment(p.PositiveVotes)
	case "NEGATIVE":
		p.NegativeVotes = increment(p.NegativeVotes)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"vote": vote.Vote, "proposal_id": p.ID})
}

func increment(n *int) *int {
	v := 1
	if n != nil {
		v = *n + 1
	}
	return &v
}

func (b *Backend) proposalVotes(id int64) []WireVote {
	out := []WireVote{}
	for _, v := range b.votes {
		if v.ProposalID == id {
			out = append(out, v)
		}
	}
	return out
}

func (b *Backend) listVotes(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, b.proposalVotes(p.ID))
	}
}

func (b *Backend) countVotes(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p, ok := b.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, len(b.proposalVotes(p.ID)))
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}
