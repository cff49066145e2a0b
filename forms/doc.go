// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package forms validates proposal and vote input and tracks a form through
// submission. Field rules are validator tags; error names match the ones
// the web form reports.
package forms
