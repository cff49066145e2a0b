// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/proposal-desk/handlers"
	"github.com/danielhkuo/proposal-desk/middleware"
)

// Backend is everything the gateway routes need from the API client.
type Backend interface {
	handlers.ProposalBackend
	handlers.VoteBackend
}

// NewRouter wires the gateway routes. A nil limiter disables rate limiting
// on the submit routes.
func NewRouter(api Backend, limiter *middleware.IPRateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	proposalHandler := handlers.NewProposalHandler(api)
	voteHandler := handlers.NewVoteHandler(api)

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithRequestID(middleware.WithLogging(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Proposals
	mux.HandleFunc("GET /proposals", wrap(proposalHandler.ListProposals))
	mux.HandleFunc("GET /proposals/{id}", wrap(proposalHandler.GetProposal))
	mux.HandleFunc("POST /proposals", wrap(middleware.RateLimit(limiter, proposalHandler.CreateProposal)))

	// Votes
	mux.HandleFunc("GET /proposals/{id}/votes", wrap(voteHandler.ListVotes))
	mux.HandleFunc("POST /proposals/{id}/votes", wrap(middleware.RateLimit(limiter, voteHandler.CastVote)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("proposal-desk gateway v1"))
	})

	return mux
}
