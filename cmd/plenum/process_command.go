package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"plenum/internal/config"
	"plenum/internal/pipeline"
	"plenum/internal/queue"
	"plenum/internal/session"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var retryFlag bool

	cmd := &cobra.Command{
		Use:   "process [session...]",
		Short: "Label sessions from transcripts and decoder output",
		Long: "Process reconciles decoder segments against the official transcripts " +
			"and writes per-session kept, dropped and vocabulary files into the work " +
			"directory. Sessions are given as NNN-YYYY; with no arguments every " +
			"transcript in the transcript directory is processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(func(cfg *config.Config, store *queue.Store, runner *pipeline.Runner) error {
				return ctx.withRunLock(cfg, func() error {
					runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
					defer stop()

					ids, err := resolveSessionArgs(runner, args)
					if err != nil {
						return err
					}
					if len(ids) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No sessions to process")
						return nil
					}

					report, err := runner.Process(runCtx, ids, pipeline.ProcessOptions{Retry: retryFlag})
					if err != nil {
						return err
					}
					printRunReport(cmd, report)
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVar(&retryFlag, "retry", false, "Reconcile only the boundaries queued by a previous run")
	return cmd
}

func resolveSessionArgs(runner *pipeline.Runner, args []string) ([]session.ID, error) {
	if len(args) == 0 {
		return runner.DiscoverSessions()
	}
	ids := make([]session.ID, 0, len(args))
	for _, arg := range args {
		id, err := session.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("session %q: %w", arg, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printRunReport(cmd *cobra.Command, report *pipeline.RunReport) {
	out := cmd.OutOrStdout()
	total, failed := report.Totals()

	rows := make([][]string, 0, len(report.Sessions))
	for _, sr := range report.Sessions {
		state := "ok"
		if sr.Failed() {
			state = "failed"
		}
		rows = append(rows, []string{
			sr.Session.String(),
			state,
			fmt.Sprintf("%d", sr.Summary.Kept),
			fmt.Sprintf("%d", sr.Summary.Dropped),
			fmt.Sprintf("%d", sr.Summary.Queued),
			fmt.Sprintf("%d", sr.Summary.Unresolved),
			sr.Summary.KeptDuration.FormatSeconds(),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Session", "State", "Kept", "Dropped", "Queued", "Unresolved", "Kept s"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	))

	fmt.Fprintf(out, "Processed %d sessions (%d failed): kept %d, dropped %d, queued %d, unresolved %d\n",
		len(report.Sessions), failed, total.Kept, total.Dropped, total.Queued, total.Unresolved)
	if total.Queued > 0 {
		fmt.Fprintln(out, "Queued boundaries were written to the retry list; realign them and rerun with --retry.")
	}
}
