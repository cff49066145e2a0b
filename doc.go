// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the proposal-desk gateway.

proposal-desk fronts a proposals backend that speaks snake_case JSON. The
gateway validates proposal and vote submissions, transcodes keys between
the app's camelCase and the backend's convention, and annotates proposals
with their voting phase and outcome.

# Starting the Server

The gateway needs the backend URL from a flag or the environment:

	API_BASE_URL=http://localhost:8080 go run main.go

Or with flags:

	go run main.go -p 4300 -api http://localhost:8080

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - API_BASE_URL (-api): Backend base URL

Optional settings:

  - PORT (-p): Server port (default: 4300)
  - REQUEST_TIMEOUT (-timeout): Backend request timeout (default: 10s)
  - WIRE_CASE (-wire-case): snake, kebab or pascal (default: snake)
  - LOG_LEVEL (-log-level): debug, info, warn or error (default: info)
  - SUBMIT_RPS (-submit-rps), SUBMIT_BURST (-submit-burst): per-client
    limit on submissions, off by default

# Architecture

  - casing: Key transcoding between app and wire conventions
  - schedule: Date and time rules for proposal windows
  - forms: Proposal and vote form validation and submission state
  - client: Backend API client
  - handlers, router, middleware: The HTTP gateway
  - cmd/proposalctl: Command-line client

See package documentation for each component.
*/
package main
