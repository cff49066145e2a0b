// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p             Server port
	-api           Backend API base URL
	-timeout       Backend request timeout
	-wire-case     Backend key convention
	-log-level     Log level
	-submit-rps    Per-client submit rate
	-submit-burst  Per-client submit burst
	-env-file      Environment file (default .env, "" to skip)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	API_BASE_URL    → -api
	REQUEST_TIMEOUT → -timeout
	WIRE_CASE       → -wire-case
	LOG_LEVEL       → -log-level
	SUBMIT_RPS      → -submit-rps
	SUBMIT_BURST    → -submit-burst

CLI flags take precedence over environment variables, which take precedence
over the env file. A missing env file is not an error.

# Validation

ParseFlags returns an error if API_BASE_URL is missing or any value fails
to parse.
*/
package cliparse
