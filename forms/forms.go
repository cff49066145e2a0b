// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"context"
	"fmt"
	"time"

	"github.com/danielhkuo/proposal-desk/identity"
	"github.com/danielhkuo/proposal-desk/models"
	"github.com/danielhkuo/proposal-desk/schedule"
)

// Title length bounds, mirrored in the ProposalInput tags.
const (
	titleMin = 5
	titleMax = 50
)

// Default schedule times for a new proposal.
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
)

const (
	createAction = "Error creating proposal"
	voteAction   = "Error casting vote"

	createdMessage = "Proposal created successfully"
	votedMessage   = "Vote cast successfully"
)

// ProposalCreator sends a new proposal to the backend.
type ProposalCreator interface {
	CreateProposal(ctx context.Context, req models.CreateProposalRequest) (*models.Proposal, error)
}

// VoteCaster sends a ballot on behalf of a user.
type VoteCaster interface {
	CastVote(ctx context.Context, proposalID int64, req models.CastVoteRequest, userID int64) (*models.VoteReceipt, error)
}

// ProposalInput is the raw proposal form as typed by the user.
type ProposalInput struct {
	Title       string `json:"title" validate:"required,min=5,max=50"`
	Description string `json:"description" validate:"required,nonblank"`
	StartDate   string `json:"startDate" validate:"required,isodate,future"`
	StartTime   string `json:"startTime" validate:"required,clock"`
	EndDate     string `json:"endDate" validate:"required,isodate,future"`
	EndTime     string `json:"endTime" validate:"required,clock"`
}

// NewProposalInput returns an empty form with the default times filled in.
func NewProposalInput() ProposalInput {
	return ProposalInput{StartTime: DefaultStartTime, EndTime: DefaultEndTime}
}

// Validate checks every field and the schedule as a whole against now. It
// returns nil when the input is valid.
func (in ProposalInput) Validate(now time.Time) *Errors {
	errs := check(withNow(context.Background(), now), in)

	if in.StartDate != "" && in.StartTime != "" && in.EndDate != "" && in.EndTime != "" {
		start, serr := in.start()
		end, eerr := in.end()
		if serr == nil && eerr == nil && !schedule.IsEndAfterStart(start, end) {
			errs.AddForm(ErrEndDateBeforeStart)
		}
	}

	if errs.Empty() {
		return nil
	}
	return errs
}

func (in ProposalInput) start() (time.Time, error) {
	return combine(in.StartDate, in.StartTime)
}

func (in ProposalInput) end() (time.Time, error) {
	return combine(in.EndDate, in.EndTime)
}

func combine(date, hhmm string) (time.Time, error) {
	d, err := schedule.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.CombineDateAndTime(d, hhmm)
}

// Request builds the wire request with both instants in the backend format.
func (in ProposalInput) Request() (models.CreateProposalRequest, error) {
	start, err := in.start()
	if err != nil {
		return models.CreateProposalRequest{}, fmt.Errorf("start: %w", err)
	}
	end, err := in.end()
	if err != nil {
		return models.CreateProposalRequest{}, fmt.Errorf("end: %w", err)
	}
	return models.CreateProposalRequest{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   schedule.FormatInstant(start),
		EndDate:     schedule.FormatInstant(end),
	}, nil
}

// ProposalForm is the create-proposal form and its submission state.
type ProposalForm struct {
	Input ProposalInput
	Submission
}

func NewProposalForm() *ProposalForm {
	return &ProposalForm{Input: NewProposalInput()}
}

// Submit validates the input against now and, if it passes, creates the
// proposal exactly once. Validation failures come back as *Errors and leave
// the form editable.
func (f *ProposalForm) Submit(ctx context.Context, now time.Time, creator ProposalCreator) (*models.Proposal, error) {
	input := f.Input
	if err := f.begin(func() *Errors { return input.Validate(now) }); err != nil {
		return nil, err
	}

	req, err := input.Request()
	if err != nil {
		f.fail(createAction, err)
		return nil, err
	}

	proposal, err := creator.CreateProposal(ctx, req)
	if err != nil {
		f.fail(createAction, err)
		return nil, err
	}
	f.succeed(createdMessage)
	return proposal, nil
}

// VoteInput is the raw ballot form.
type VoteInput struct {
	UserID string `json:"userId" validate:"required,userid"`
	Vote   string `json:"vote" validate:"required,oneof=POSITIVE NEGATIVE ABSTENCY"`
}

// Validate returns nil when the ballot is complete and well-formed.
func (in VoteInput) Validate() *Errors {
	errs := check(context.Background(), in)
	if errs.Empty() {
		return nil
	}
	return errs
}

// VoteForm is the ballot form shown on an open proposal.
type VoteForm struct {
	Input VoteInput
	Submission
}

// Submit validates the ballot and casts it once. The input is cleared after
// a successful vote.
func (f *VoteForm) Submit(ctx context.Context, proposalID int64, caster VoteCaster) (*models.VoteReceipt, error) {
	input := f.Input
	if err := f.begin(input.Validate); err != nil {
		return nil, err
	}

	userID, err := identity.ParseUserID(input.UserID)
	if err != nil {
		f.fail(voteAction, err)
		return nil, err
	}

	receipt, err := caster.CastVote(ctx, proposalID, models.CastVoteRequest{Vote: models.VoteType(input.Vote)}, userID)
	if err != nil {
		f.fail(voteAction, err)
		return nil, err
	}
	f.Input = VoteInput{}
	f.succeed(votedMessage)
	return receipt, nil
}
