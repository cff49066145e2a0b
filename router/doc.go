// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the gateway's HTTP routes.

	mux := router.NewRouter(api, limiter)

# Endpoints

	GET  /health
	GET  /proposals              - Proposals with phase and outcome
	GET  /proposals/{id}         - One proposal
	POST /proposals              - Validate and create (rate limited)
	GET  /proposals/{id}/votes   - Votes on a proposal
	POST /proposals/{id}/votes   - Validate and cast (rate limited)
*/
package router
