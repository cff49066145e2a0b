package models

import (
	"fmt"
	"time"

	"github.com/danielhkuo/proposal-desk/schedule"
)

// VoteType is the closed set of ballot values. The wire spells abstention
// "ABSTENCY" and that literal is kept as-is.
type VoteType string

const (
	VotePositive   VoteType = "POSITIVE"
	VoteNegative   VoteType = "NEGATIVE"
	VoteAbstention VoteType = "ABSTENCY"
)

// VoteTypes lists every accepted vote value in display order.
var VoteTypes = []VoteType{VotePositive, VoteNegative, VoteAbstention}

// ParseVoteType accepts only the exact wire literals.
func ParseVoteType(s string) (VoteType, error) {
	for _, vt := range VoteTypes {
		if string(vt) == s {
			return vt, nil
		}
	}
	return "", fmt.Errorf("unknown vote type %q", s)
}

func (v VoteType) Valid() bool {
	_, err := ParseVoteType(string(v))
	return err == nil
}

// Label is the human-readable name of a vote value
func (v VoteType) Label() string {
	switch v {
	case VotePositive:
		return "Positive"
	case VoteNegative:
		return "Negative"
	case VoteAbstention:
		return "Abstention"
	}
	return string(v)
}

// Proposal phases relative to a reference instant
const (
	PhaseUpcoming = "upcoming"
	PhaseOpen     = "open"
	PhaseFinished = "finished"
)

// Proposal outcomes
const (
	OutcomeApproved = "Approved"
	OutcomeRejected = "Rejected"
	OutcomeDraw     = "Draw"
)

// Request types

type CreateProposalRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

type CastVoteRequest struct {
	Vote VoteType `json:"vote"`
}

// Response types

// VoteReceipt is what the backend returns after a vote is cast
type VoteReceipt struct {
	Vote       VoteType `json:"vote"`
	ProposalID int64    `json:"proposalId"`
}

// Domain types

type Proposal struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	PositiveVotes *int   `json:"positiveVotes,omitempty"`
	NegativeVotes *int   `json:"negativeVotes,omitempty"`
}

type Vote struct {
	ID         int64    `json:"id"`
	Vote       VoteType `json:"vote"`
	UserID     int64    `json:"userId"`
	ProposalID int64    `json:"proposalId"`
}

// Window parses the proposal's start and end instants.
func (p Proposal) Window() (schedule.Window, error) {
	start, err := schedule.ParseInstant(p.StartDate)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("start date: %w", err)
	}
	end, err := schedule.ParseInstant(p.EndDate)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("end date: %w", err)
	}
	return schedule.Window{Start: start, End: end}, nil
}

// Phase places the proposal relative to now. Unparseable dates yield "".
func (p Proposal) Phase(now time.Time) string {
	w, err := p.Window()
	if err != nil {
		return ""
	}
	switch {
	case !w.Started(now):
		return PhaseUpcoming
	case w.Open(now):
		return PhaseOpen
	default:
		return PhaseFinished
	}
}

// HasResults reports whether the server has reported any vote counts.
func (p Proposal) HasResults() bool {
	return p.PositiveVotes != nil || p.NegativeVotes != nil
}

// Outcome compares positive and negative votes; missing counts are zero.
func (p Proposal) Outcome() string {
	var pos, neg int
	if p.PositiveVotes != nil {
		pos = *p.PositiveVotes
	}
	if p.NegativeVotes != nil {
		neg = *p.NegativeVotes
	}
	switch {
	case pos > neg:
		return OutcomeApproved
	case neg > pos:
		return OutcomeRejected
	default:
		return OutcomeDraw
	}
}

// ProposalView is a proposal plus what a list or detail page shows about it
type ProposalView struct {
	Proposal
	Phase   string `json:"phase,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}

// NewProposalView derives the view at now. The outcome is only set once the
// server reports vote counts.
func NewProposalView(p Proposal, now time.Time) ProposalView {
	v := ProposalView{Proposal: p, Phase: p.Phase(now)}
	if p.HasResults() {
		v.Outcome = p.Outcome()
	}
	return v
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse carries field and form errors by name
type ValidationErrorResponse struct {
	Error       string              `json:"error"`
	Message     string              `json:"message,omitempty"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	FormErrors  []string            `json:"formErrors,omitempty"`
}
