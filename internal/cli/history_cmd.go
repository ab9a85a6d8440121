package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/promptcap/promptcap/internal/cli/formatter"
	"github.com/promptcap/promptcap/internal/domain"
)

// resolveRunID expands a short or partial run ID to the full UUID by
// matching against recent history.
func resolveRunID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("run ID is required")
	}

	// Full IDs skip the listing round trip.
	if r, err := app.History.Get(ctx, input); err == nil {
		return r.ID, nil
	}

	runs, err := app.History.ListRecent(ctx, 500)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, r := range runs {
		if strings.HasPrefix(r.ID, input) {
			matches = append(matches, r.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("run not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse captured runs",
	}

	cmd.AddCommand(
		newHistoryListCmd(app),
		newHistoryShowCmd(app),
		newHistoryAnnotateCmd(app),
		newHistoryPruneCmd(app),
		newHistorySearchCmd(app),
	)

	return cmd
}

func newHistoryListCmd(app *App) *cobra.Command {
	var (
		promptName string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var runs []*domain.RunRecord
			var err error
			if promptName != "" {
				runs, err = app.History.ListByPrompt(ctx, promptName, limit)
			} else {
				runs, err = app.History.ListRecent(ctx, limit)
			}
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunList(runs))
			return nil
		},
	}

	cmd.Flags().StringVar(&promptName, "prompt", "", "Only runs of this prompt")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows")

	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	var (
		raw       bool
		withInput bool
		noReplay  bool
	)

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show run details and replay its chunk log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			id, err := resolveRunID(ctx, app, args[0])
			if err != nil {
				return err
			}
			run, err := app.History.Get(ctx, id)
			if err != nil {
				return err
			}
			annotations, err := app.History.Annotations(ctx, id)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunDetails(run, annotations))

			if noReplay || run.OutputFile == "" {
				return nil
			}

			chunks, err := readChunkLog(run.OutputFile)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Header("Transcript"))
			fmt.Fprint(cmd.OutOrStdout(), renderTranscript(chunks, transcriptOptions{
				Raw:       raw,
				ShowInput: withInput,
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Keep ANSI escape sequences in the replay")
	cmd.Flags().BoolVar(&withInput, "input", false, "Interleave injected input chunks")
	cmd.Flags().BoolVar(&noReplay, "no-replay", false, "Details only, skip the transcript")

	return cmd
}

func newHistoryAnnotateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "annotate ID NOTE",
		Short: "Attach a note to a run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			id, err := resolveRunID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if _, err := app.History.Annotate(ctx, id, args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Annotated run %s\n", formatter.ShortID(id))
			return nil
		},
	}
}

// parseRetention accepts plain day counts ("30") and Go durations ("720h").
func parseRetention(s string) (time.Duration, error) {
	if days, err := strconv.Atoi(s); err == nil {
		if days <= 0 {
			return 0, fmt.Errorf("retention must be positive, got %d days", days)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid retention %q: use days (30) or a duration (720h)", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %s", d)
	}
	return d, nil
}

func newHistoryPruneCmd(app *App) *cobra.Command {
	var (
		olderThan string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete runs older than a retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := parseRetention(olderThan)
			if err != nil {
				return err
			}

			if !force {
				if !promptYesNo(fmt.Sprintf("Delete all runs older than %s? [y/N] ", olderThan)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			deleted, err := app.History.Prune(context.Background(), window)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs.\n", deleted)
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", "30", "Retention window in days or as a duration")
	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}

func newHistorySearchCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search runs by prompt name or command",
		Long: "With a terminal, opens an interactive list that filters as you type\n" +
			"and replays the selected run. Without one, prints matching runs.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			if !app.interactive() {
				runs, err := app.History.Search(ctx, query, limit)
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching runs.")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunList(runs))
				return nil
			}

			view := newSearchView(app, query, limit)
			program := tea.NewProgram(view, tea.WithAltScreen())
			final, err := program.Run()
			if err != nil {
				return err
			}

			// Replay the selection after the alt screen is restored.
			if v, ok := final.(*searchView); ok && v.selected != nil {
				return showRun(cmd, app, v.selected.ID)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum rows")

	return cmd
}

// showRun prints the detail block and transcript for one run.
func showRun(cmd *cobra.Command, app *App, id string) error {
	ctx := context.Background()
	run, err := app.History.Get(ctx, id)
	if err != nil {
		return err
	}
	annotations, err := app.History.Annotations(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunDetails(run, annotations))

	if run.OutputFile == "" {
		return nil
	}
	chunks, err := readChunkLog(run.OutputFile)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), formatter.Header("Transcript"))
	fmt.Fprint(cmd.OutOrStdout(), renderTranscript(chunks, transcriptOptions{}))
	return nil
}
