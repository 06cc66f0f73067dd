package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"plenum/internal/config"
	"plenum/internal/pipeline"
	"plenum/internal/queue"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-session pipeline state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(func(cfg *config.Config, store *queue.Store, runner *pipeline.Runner) error {
				states, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				summary, err := store.Summarize(cmd.Context())
				if err != nil {
					return err
				}
				pending, err := runner.PendingRetries()
				if err != nil {
					return err
				}
				printStatus(cmd.OutOrStdout(), states, summary, pending)
				return nil
			})
		},
	}
}

func printStatus(out io.Writer, states []queue.SessionState, summary queue.Summary, pendingRetries int) {
	if len(states) == 0 {
		fmt.Fprintln(out, "No sessions tracked yet")
		return
	}

	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(states))
	for _, st := range states {
		rows = append(rows, []string{
			st.Session,
			renderStatus(st.Status, colorize),
			fmt.Sprintf("%d", st.Kept),
			fmt.Sprintf("%d", st.Dropped),
			fmt.Sprintf("%d", st.Queued),
			fmt.Sprintf("%d", st.Unresolved),
			fmt.Sprintf("%.1f", st.KeptSeconds),
			st.ErrorMessage,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Session", "Status", "Kept", "Dropped", "Queued", "Unresolved", "Kept s", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))

	fmt.Fprintf(out, "Sessions: %d total, %d processing, %d labeled, %d assembled, %d failed\n",
		summary.Total, summary.Processing, summary.Labeled, summary.Assembled, summary.Failed)
	if pendingRetries > 0 {
		fmt.Fprintf(out, "Retry list holds %d boundaries awaiting realignment\n", pendingRetries)
	}
}

func renderStatus(status queue.Status, colorize bool) string {
	if !colorize {
		return string(status)
	}
	switch status {
	case queue.StatusLabeled, queue.StatusAssembled:
		return ansiGreen + string(status) + ansiReset
	case queue.StatusFailed:
		return ansiRed + string(status) + ansiReset
	case queue.StatusProcessing:
		return ansiYellow + string(status) + ansiReset
	default:
		return string(status)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
