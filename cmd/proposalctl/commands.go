package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/proposal-desk/forms"
	"github.com/danielhkuo/proposal-desk/models"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid proposal id %q", s)
	}
	return id, nil
}

// describeWindow says when a proposal opens or closes relative to now.
func describeWindow(p models.Proposal, now time.Time) string {
	w, err := p.Window()
	if err != nil {
		return "-"
	}
	rel := func(t time.Time) string {
		return humanize.RelTime(t, now, "ago", "from now")
	}
	switch p.Phase(now) {
	case models.PhaseUpcoming:
		return "opens " + rel(w.Start)
	case models.PhaseOpen:
		return "closes " + rel(w.End)
	default:
		return "closed " + rel(w.End)
	}
}

func result(view models.ProposalView) string {
	if view.Outcome == "" {
		return "-"
	}
	return view.Outcome
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List proposals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proposals, err := a.api.ListProposals(cmd.Context())
			if err != nil {
				return errors.New(forms.FailureMessage("Error loading proposals", err))
			}

			now := a.now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPHASE\tWHEN\tRESULT")
			for _, p := range proposals {
				view := models.NewProposalView(p, now)
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Title, view.Phase, describeWindow(p, now), result(view))
			}
			return tw.Flush()
		},
	}
}

func showCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one proposal and its vote count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := a.api.GetProposal(cmd.Context(), id)
			if err != nil {
				return errors.New(forms.FailureMessage("Error loading proposal", err))
			}
			count, err := a.api.CountVotes(cmd.Context(), id)
			if err != nil {
				return errors.New(forms.FailureMessage("Error counting votes", err))
			}

			now := a.now()
			view := models.NewProposalView(*p, now)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#%d %s\n", p.ID, p.Title)
			if p.Description != "" {
				fmt.Fprintf(out, "%s\n", p.Description)
			}
			fmt.Fprintf(out, "\nStart:  %s\n", p.StartDate)
			fmt.Fprintf(out, "End:    %s\n", p.EndDate)
			fmt.Fprintf(out, "Phase:  %s (%s)\n", view.Phase, describeWindow(*p, now))
			fmt.Fprintf(out, "Votes:  %s\n", humanize.Comma(int64(count)))
			if view.Outcome != "" {
				fmt.Fprintf(out, "Result: %s\n", view.Outcome)
			}
			return nil
		},
	}
}

// printInvalid writes each validation message and returns a short error.
func printInvalid(w io.Writer, err error) error {
	var verrs *forms.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, msg := range verrs.Messages() {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
	return errors.New("the form has errors")
}

func createCmd(a *app) *cobra.Command {
	form := forms.NewProposalForm()

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a proposal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := form.Submit(cmd.Context(), a.now(), a.api)
			if err != nil {
				if form.State() == forms.Failed {
					return errors.New(form.Message())
				}
				return printInvalid(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (id %d)\n", form.Message(), p.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.Input.Title, "title", "", "Title (5 to 50 characters)")
	flags.StringVar(&form.Input.Description, "description", "", "Description")
	flags.StringVar(&form.Input.StartDate, "start-date", "", "Start date (YYYY-MM-DD, after today)")
	flags.StringVar(&form.Input.StartTime, "start-time", forms.DefaultStartTime, "Start time (HH:MM)")
	flags.StringVar(&form.Input.EndDate, "end-date", "", "End date (YYYY-MM-DD, after today)")
	flags.StringVar(&form.Input.EndTime, "end-time", forms.DefaultEndTime, "End time (HH:MM)")

	return cmd
}

func voteCmd(a *app) *cobra.Command {
	form := &forms.VoteForm{}

	cmd := &cobra.Command{
		Use:   "vote <id>",
		Short: "Cast a vote on a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			receipt, err := form.Submit(cmd.Context(), id, a.api)
			if err != nil {
				if form.State() == forms.Failed {
					return errors.New(form.Message())
				}
				return printInvalid(cmd.ErrOrStderr(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s on #%d\n", form.Message(), receipt.Vote.Label(), receipt.ProposalID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.Input.UserID, "user", "", "Your numeric user id")
	flags.StringVar(&form.Input.Vote, "vote", "", "POSITIVE, NEGATIVE or ABSTENCY")

	return cmd
}

func votesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "votes <id>",
		Short: "List the votes on a proposal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			votes, err := a.api.ListVotes(cmd.Context(), id)
			if err != nil {
				return errors.New(forms.FailureMessage("Error loading votes", err))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSER\tVOTE")
			for _, v := range votes {
				fmt.Fprintf(tw, "%d\t%d\t%s\n", v.ID, v.UserID, v.Vote.Label())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s votes\n", humanize.Comma(int64(len(votes))))
			return nil
		},
	}
}
