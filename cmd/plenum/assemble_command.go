package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"plenum/internal/config"
	"plenum/internal/pipeline"
	"plenum/internal/queue"
)

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	var partialFlag bool

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Merge labeled sessions into the corpus tables",
		Long: "Assemble merges every labeled session's kept segments, plus the " +
			"existing corpus manifest, into the global segments, text, utt2spk and " +
			"wav.scp tables. Records that share an utterance id with different " +
			"content are excluded from both sides and reported.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(func(cfg *config.Config, store *queue.Store, runner *pipeline.Runner) error {
				return ctx.withRunLock(cfg, func() error {
					report, err := runner.Assemble(cmd.Context(), pipeline.AssembleOptions{Partial: partialFlag})
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Assembled %d sessions into %d records (%d duplicates collapsed, vocabulary %d words)\n",
						report.Sessions, report.Records, report.Duplicates, report.Vocabulary)
					for _, conflict := range report.Conflicts {
						fmt.Fprintf(out, "Conflict excluded: %s\n", conflict.UttID)
					}
					return nil
				})
			})
		},
	}

	cmd.Flags().BoolVar(&partialFlag, "partial", false, "Assemble even while sessions are still processing")
	return cmd
}

func newFilterCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "filter",
		Short: "Remove minority-language leakage from the corpus tables",
		Long: "Filter runs the lexical stopword-density pass over the assembled " +
			"corpus and removes records whose text is dominated by the minority " +
			"language. The corpus tables are rewritten atomically.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRunner(func(cfg *config.Config, store *queue.Store, runner *pipeline.Runner) error {
				return ctx.withRunLock(cfg, func() error {
					report, err := runner.Filter(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Examined %d records, removed %d\n", report.Examined, report.Removed)
					return nil
				})
			})
		},
	}
}
