// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the gateway's HTTP request handlers.

# Handler Types

  - ProposalHandler: List, fetch and create proposals
  - VoteHandler: Cast and list votes

Handlers depend on a narrow slice of the API client so tests can pass the
real client pointed at a fake backend:

	proposalHandler := handlers.NewProposalHandler(api)

# Submissions

Create and vote requests run through the same forms the CLI uses. Invalid
input answers 422 with per-field errors:

	{"error": "Unprocessable Entity", "fieldErrors": {"title": ["minlength"]}}

Backend failures keep the backend's 4xx status and message. Anything else
becomes 502.
*/
package handlers
