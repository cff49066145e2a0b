// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"errors"
	"sync"
)

// State is where a form is in its submit lifecycle.
type State int

const (
	Editing State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var ErrAlreadySubmitting = errors.New("a submission is already in flight")

const unknownError = "unknown error"

// ServerMessager is implemented by errors that carry a message meant for
// the user, such as an API error body.
type ServerMessager interface {
	ServerMessage() string
}

// Submission tracks one form's lifecycle. The zero value is Editing.
type Submission struct {
	mu      sync.Mutex
	state   State
	message string
}

func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Message is the last success or failure message shown to the user.
func (s *Submission) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Edit returns a settled form to Editing and clears its message. It has no
// effect while a submission is in flight.
func (s *Submission) Edit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting {
		return
	}
	s.state = Editing
	s.message = ""
}

// begin moves to Submitting if validate passes. Validation failures leave
// the state untouched.
func (s *Submission) begin(validate func() *Errors) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Submitting {
		return ErrAlreadySubmitting
	}
	if errs := validate(); errs != nil {
		return errs
	}
	s.state = Submitting
	s.message = ""
	return nil
}

func (s *Submission) succeed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Succeeded
	s.message = message
}

func (s *Submission) fail(action string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Failed
	s.message = FailureMessage(action, err)
}

// FailureMessage renders "<action>: <server message>", falling back to
// "unknown error" when err carries no message for the user.
func FailureMessage(action string, err error) string {
	msg := ""
	var sm ServerMessager
	if errors.As(err, &sm) {
		msg = sm.ServerMessage()
	}
	if msg == "" {
		msg = unknownError
	}
	return action + ": " + msg
}
