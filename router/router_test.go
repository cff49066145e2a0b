// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/proposal-desk/client"
	"github.com/danielhkuo/proposal-desk/identity"
	"github.com/danielhkuo/proposal-desk/middleware"
	"github.com/danielhkuo/proposal-desk/testutil"
)

func newTestRouter(t *testing.T, limiter *middleware.IPRateLimiter) (*http.ServeMux, *testutil.Backend) {
	t.Helper()
	backend := testutil.NewBackend(t)
	return NewRouter(client.New(backend.URL()), limiter), backend
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	expected := "proposal-desk gateway v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, backend := newTestRouter(t, nil)
	backend.AddProposal(testutil.WireProposal{
		Title:     "New bike lanes",
		StartDate: "2025-06-01 09:00:00",
		EndDate:   "2025-06-03 17:00:00",
	})

	testCases := []struct {
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{"GET", "/proposals", "", http.StatusOK},
		{"GET", "/proposals/1", "", http.StatusOK},
		{"GET", "/proposals/2", "", http.StatusNotFound},
		{"POST", "/proposals", `{}`, http.StatusUnprocessableEntity},
		{"GET", "/proposals/1/votes", "", http.StatusOK},
		{"POST", "/proposals/1/votes", `{"userId":"4","vote":"POSITIVE"}`, http.StatusCreated},
		{"DELETE", "/proposals/1", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tc.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRequestIDReachesBackend(t *testing.T) {
	mux, backend := newTestRouter(t, nil)

	req := httptest.NewRequest("GET", "/proposals", nil)
	req.Header.Set(identity.RequestIDHeader, "trace-42")
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if got := w.Header().Get(identity.RequestIDHeader); got != "trace-42" {
		t.Errorf("Expected trace-42 echoed, got %q", got)
	}
	if got := backend.LastRequest(t).Header.Get(identity.RequestIDHeader); got != "trace-42" {
		t.Errorf("Expected trace-42 forwarded, got %q", got)
	}
}

func TestSubmitRoutesAreRateLimited(t *testing.T) {
	mux, backend := newTestRouter(t, middleware.NewIPRateLimiter(0.001, 1))
	backend.AddProposal(testutil.WireProposal{
		Title:     "New bike lanes",
		StartDate: "2025-06-01 09:00:00",
		EndDate:   "2025-06-03 17:00:00",
	})

	post := func() int {
		req := httptest.NewRequest("POST", "/proposals/1/votes", strings.NewReader(`{"userId":"4","vote":"POSITIVE"}`))
		req.RemoteAddr = "198.51.100.7:4000"
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w.Code
	}

	if code := post(); code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", code)
	}

	// Reads are never limited
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/proposals", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200 for reads, got %d", w.Code)
		}
	}
}
