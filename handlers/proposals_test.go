// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/proposal-desk/client"
	"github.com/danielhkuo/proposal-desk/models"
	"github.com/danielhkuo/proposal-desk/testutil"
)

var fixedNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.Local)

func newProposalHandler(t *testing.T) (*ProposalHandler, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	h := NewProposalHandler(client.New(backend.URL()))
	h.now = func() time.Time { return fixedNow }
	return h, backend
}

func seedProposal(b *testutil.Backend) int64 {
	return b.AddProposal(testutil.WireProposal{
		Title:         "New bike lanes",
		Description:   "Paint them green",
		StartDate:     "2025-06-01 09:00:00",
		EndDate:       "2025-06-03 17:00:00",
		PositiveVotes: testutil.IntPtr(3),
		NegativeVotes: testutil.IntPtr(1),
	})
}

func TestListProposals(t *testing.T) {
	h, backend := newProposalHandler(t)
	seedProposal(backend)
	backend.AddProposal(testutil.WireProposal{
		Title:     "Night market",
		StartDate: "2025-07-01 09:00:00",
		EndDate:   "2025-07-02 17:00:00",
	})

	req := testutil.MakeRequest("GET", "/proposals", nil, nil)
	w := httptest.NewRecorder()
	h.ListProposals(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var views []models.ProposalView
	testutil.AssertJSON(t, w, &views)
	if len(views) != 2 {
		t.Fatalf("Expected 2 proposals, got %d", len(views))
	}
	if views[0].Phase != models.PhaseOpen || views[0].Outcome != models.OutcomeApproved {
		t.Errorf("Expected open/Approved, got %s/%s", views[0].Phase, views[0].Outcome)
	}
	if views[1].Phase != models.PhaseUpcoming || views[1].Outcome != "" {
		t.Errorf("Expected upcoming with no outcome, got %s/%q", views[1].Phase, views[1].Outcome)
	}
}

func TestListProposalsEmpty(t *testing.T) {
	h, _ := newProposalHandler(t)

	w := httptest.NewRecorder()
	h.ListProposals(w, testutil.MakeRequest("GET", "/proposals", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("Expected empty array, got %q", body)
	}
}

func TestGetProposal(t *testing.T) {
	h, backend := newProposalHandler(t)
	id := seedProposal(backend)

	testCases := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"found", "1", http.StatusOK},
		{"missing", "42", http.StatusNotFound},
		{"not a number", "abc", http.StatusBadRequest},
		{"zero", "0", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/proposals/"+tc.id, nil, nil)
			req.SetPathValue("id", tc.id)
			w := httptest.NewRecorder()

			h.GetProposal(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus == http.StatusOK {
				var view models.ProposalView
				testutil.AssertJSON(t, w, &view)
				if view.ID != id || view.StartDate != "2025-06-01 09:00:00" {
					t.Errorf("Unexpected proposal %+v", view)
				}
			}
		})
	}
}

func TestGetProposalNotFoundMessage(t *testing.T) {
	h, _ := newProposalHandler(t)

	req := testutil.MakeRequest("GET", "/proposals/9", nil, nil)
	req.SetPathValue("id", "9")
	w := httptest.NewRecorder()
	h.GetProposal(w, req)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "Error loading proposal: Proposal not found" {
		t.Errorf("Unexpected message %q", resp.Message)
	}
}

func TestCreateProposal(t *testing.T) {
	h, backend := newProposalHandler(t)

	body := map[string]string{
		"title":       "Community garden",
		"description": "Turn the empty lot into a garden",
		"startDate":   "2025-06-10",
		"endDate":     "2025-06-12",
	}
	req := testutil.MakeRequest("POST", "/proposals", body, nil)
	w := httptest.NewRecorder()

	h.CreateProposal(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var view models.ProposalView
	testutil.AssertJSON(t, w, &view)
	if view.ID == 0 {
		t.Error("Expected an id from the backend")
	}
	// Default times fill in when the body omits them
	if view.StartDate != "2025-06-10 09:00:00" || view.EndDate != "2025-06-12 17:00:00" {
		t.Errorf("Unexpected instants %s / %s", view.StartDate, view.EndDate)
	}
	if view.Phase != models.PhaseUpcoming {
		t.Errorf("Expected upcoming, got %s", view.Phase)
	}

	var sent map[string]any
	if err := json.Unmarshal(backend.LastRequest(t).Body, &sent); err != nil {
		t.Fatal(err)
	}
	if sent["start_date"] != "2025-06-10 09:00:00" {
		t.Errorf("Expected snake_case start_date on the wire, got %v", sent)
	}
}

func TestCreateProposalValidation(t *testing.T) {
	testCases := []struct {
		name        string
		body        map[string]string
		fieldErrors map[string]string
		formError   string
	}{
		{
			name:        "empty form",
			body:        map[string]string{},
			fieldErrors: map[string]string{"title": "required", "description": "required", "startDate": "required", "endDate": "required"},
		},
		{
			name: "past start and short title",
			body: map[string]string{
				"title": "Park", "description": "x",
				"startDate": "2025-06-01", "endDate": "2025-06-05",
			},
			fieldErrors: map[string]string{"title": "minlength", "startDate": "pastDate"},
		},
		{
			name: "end before start",
			body: map[string]string{
				"title": "Community garden", "description": "x",
				"startDate": "2025-06-10", "startTime": "10:00",
				"endDate": "2025-06-10", "endTime": "10:00",
			},
			formError: "endDateBeforeStart",
		},
		{
			name: "malformed time",
			body: map[string]string{
				"title": "Community garden", "description": "x",
				"startDate": "2025-06-10", "startTime": "10h",
				"endDate": "2025-06-11",
			},
			fieldErrors: map[string]string{"startTime": "pattern"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, backend := newProposalHandler(t)

			w := httptest.NewRecorder()
			h.CreateProposal(w, testutil.MakeRequest("POST", "/proposals", tc.body, nil))

			testutil.AssertStatus(t, w, http.StatusUnprocessableEntity)

			var resp models.ValidationErrorResponse
			testutil.AssertJSON(t, w, &resp)
			for field, name := range tc.fieldErrors {
				if !contains(resp.FieldErrors[field], name) {
					t.Errorf("Expected %s on %s, got %v", name, field, resp.FieldErrors)
				}
			}
			if tc.formError != "" && !contains(resp.FormErrors, tc.formError) {
				t.Errorf("Expected form error %s, got %v", tc.formError, resp.FormErrors)
			}
			if resp.Message == "" {
				t.Error("Expected a readable message")
			}
			if n := len(backend.Requests()); n != 0 {
				t.Errorf("Expected no backend calls, got %d", n)
			}
		})
	}
}

func TestCreateProposalUpstreamErrors(t *testing.T) {
	testCases := []struct {
		name            string
		status          int
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{"backend rejects", http.StatusBadRequest, `{"message":"Dates overlap"}`, http.StatusBadRequest, "Error creating proposal: Dates overlap"},
		{"backend crashes", http.StatusInternalServerError, `{}`, http.StatusBadGateway, "Error creating proposal: unknown error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, backend := newProposalHandler(t)
			backend.FailNext(tc.status, tc.body)

			body := map[string]string{
				"title": "Community garden", "description": "x",
				"startDate": "2025-06-10", "endDate": "2025-06-12",
			}
			w := httptest.NewRecorder()
			h.CreateProposal(w, testutil.MakeRequest("POST", "/proposals", body, nil))

			testutil.AssertStatus(t, w, tc.expectedStatus)

			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Message != tc.expectedMessage {
				t.Errorf("Expected %q, got %q", tc.expectedMessage, resp.Message)
			}
			if n := len(backend.Requests()); n != 1 {
				t.Errorf("Expected exactly one attempt, got %d", n)
			}
		})
	}
}

func TestCreateProposalInvalidJSON(t *testing.T) {
	h, _ := newProposalHandler(t)

	req := httptest.NewRequest("POST", "/proposals", nil)
	w := httptest.NewRecorder()
	h.CreateProposal(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
