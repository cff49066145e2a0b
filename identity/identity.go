// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// UserIDHeader identifies the acting user on vote calls. The backend
	// does not authenticate it.
	UserIDHeader = "x-user-id"

	// RequestIDHeader correlates gateway logs with backend calls
	RequestIDHeader = "X-Request-ID"
)

var ErrInvalidUserID = errors.New("user id must be a positive integer")

// ParseUserID accepts decimal digits only and rejects zero.
func ParseUserID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidUserID
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidUserID
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidUserID
	}
	return id, nil
}

// FormatUserID renders a user id for the header
func FormatUserID(id int64) string {
	return strconv.FormatInt(id, 10)
}

type requestIDKey struct{}

// NewRequestID returns a fresh random request id.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID stores id on the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored on ctx, or "" when there is none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// EnsureRequestID returns ctx carrying a request id, generating one if needed.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestID(ctx); id != "" {
		return ctx, id
	}
	id := NewRequestID()
	return WithRequestID(ctx, id), id
}

// ValidRequestID reports whether an incoming header value is safe to reuse.
func ValidRequestID(id string) bool {
	if id == "" || len(id) > 128 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

// NewSalt returns a random secret for ClientKey. Each process uses its own,
// so client keys are not comparable across restarts.
func NewSalt() string {
	return rand.Text()
}

// ClientKey is a salted one-way hash of a client address, used where an
// address would otherwise be held in memory.
func ClientKey(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	return hex.EncodeToString(h.Sum(nil)[:8])
}
