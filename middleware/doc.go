// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /proposals", middleware.WithRequestID(middleware.WithLogging(handler)))

WithRequestID reuses a well-formed X-Request-ID header or generates one,
echoes it on the response and carries it on the request context so the
API client forwards it to the backend.

# Rate Limiting

	limiter := middleware.NewIPRateLimiter(cfg.SubmitRPS, cfg.SubmitBurst)
	mux.HandleFunc("POST /proposals", middleware.RateLimit(limiter, handler))

Each client gets a token bucket. Idle buckets are dropped by RunJanitor.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")
	err := middleware.ParseJSONBody(r, &req)
*/
package middleware
