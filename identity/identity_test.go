// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseUserID(t *testing.T) {
	testCases := []struct {
		in       string
		expected int64
		wantErr  bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{" 7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"+3", 0, true},
		{"1.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"99999999999999999999", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseUserID(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidUserID) {
					t.Errorf("Expected ErrInvalidUserID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestFormatUserIDRoundTrip(t *testing.T) {
	id, err := ParseUserID(FormatUserID(1234))
	if err != nil || id != 1234 {
		t.Errorf("Expected 1234, got %d (err %v)", id, err)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if RequestID(ctx) != "" {
		t.Error("Expected no request id on a bare context")
	}

	ctx, id := EnsureRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Expected generated id to be a UUID, got %q", id)
	}

	again, same := EnsureRequestID(ctx)
	if same != id || RequestID(again) != id {
		t.Error("Expected existing request id to be kept")
	}
}

func TestNewRequestIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		if seen[id] {
			t.Fatalf("Duplicate request id %s", id)
		}
		seen[id] = true
	}
}

func TestValidRequestID(t *testing.T) {
	testCases := []struct {
		in       string
		expected bool
	}{
		{"abc-123", true},
		{uuid.NewString(), true},
		{"", false},
		{"has space", false},
		{"line\nbreak", false},
		{strings.Repeat("a", 129), false},
	}

	for _, tc := range testCases {
		if got := ValidRequestID(tc.in); got != tc.expected {
			t.Errorf("ValidRequestID(%q): expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

func TestClientKey(t *testing.T) {
	salt := "test-salt"

	key := ClientKey("198.51.100.7", salt)
	if len(key) != 16 {
		t.Errorf("Expected 16 hex chars, got %q", key)
	}
	if key != ClientKey("198.51.100.7", salt) {
		t.Error("ClientKey is not deterministic")
	}
	if key == ClientKey("198.51.100.8", salt) {
		t.Error("Different addresses produced the same key")
	}
	if key == ClientKey("198.51.100.7", "other-salt") {
		t.Error("Different salts produced the same key")
	}
}

func TestNewSalt(t *testing.T) {
	a, b := NewSalt(), NewSalt()
	if a == "" || a == b {
		t.Errorf("Expected distinct non-empty salts, got %q and %q", a, b)
	}
}
