package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptcap/promptcap/internal/cli/formatter"
	"github.com/promptcap/promptcap/internal/service"
	"github.com/promptcap/promptcap/internal/template"
)

// parseVarFlags turns repeated --var key=value flags into a map.
func parseVarFlags(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q: expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

// collectMissingVariables prompts for required variables the flags did
// not supply. Interactive sessions get a huh form; otherwise the
// missing keys are an error.
func collectMissingVariables(app *App, schema *template.Schema, vars map[string]string) error {
	missing := template.MissingVariables(schema, vars)
	if len(missing) == 0 {
		return nil
	}

	if !app.interactive() {
		keys := make([]string, 0, len(missing))
		for _, v := range missing {
			keys = append(keys, v.Key)
		}
		return fmt.Errorf("missing required variables: %s (pass --var key=value)", strings.Join(keys, ", "))
	}

	values := make(map[string]*string, len(missing))
	if err := variableForm(missing, values).Run(); err != nil {
		return fmt.Errorf("collecting variables: %w", err)
	}
	for key, val := range values {
		vars[key] = *val
	}
	return nil
}

func printRunSummary(cmd *cobra.Command, outcome *service.RunOutcome) {
	r := outcome.Record
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
		formatter.StatusIndicator(r),
		formatter.Dim(formatter.ShortID(r.ID)),
		formatter.Duration(r.DurationMS))
	if r.OutputFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Chunk log: %s (%s", r.OutputFile, formatter.ByteSize(r.OutputBytes))
		if r.Truncated {
			fmt.Fprint(cmd.OutOrStdout(), ", truncated")
		}
		fmt.Fprintln(cmd.OutOrStdout(), ")")
	}
	if r.Error != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Error: %s\n", formatter.StyleRed.Render(r.Error))
	}
}

func newRunCmd(app *App) *cobra.Command {
	var (
		varFlags  []string
		noCapture bool
		output    string
		maxOutput int64
		timeout   time.Duration
		workDir   string
	)

	cmd := &cobra.Command{
		Use:   "run NAME",
		Short: "Render a stored prompt and run its command under capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			schema, err := app.Prompts.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if schema.Command == "" {
				return fmt.Errorf("prompt %q declares no command", schema.Name)
			}

			vars, err := parseVarFlags(varFlags)
			if err != nil {
				return err
			}
			if err := collectMissingVariables(app, schema, vars); err != nil {
				return err
			}

			rendered, _, err := app.Prompts.Render(ctx, schema.Name, vars)
			if err != nil {
				return err
			}

			outcome, err := app.Runs.Execute(ctx, service.RunRequest{
				PromptName:     schema.Name,
				Command:        schema.Command,
				Args:           schema.Args,
				Prompt:         rendered,
				Capture:        app.Config.Capture.Enabled && !noCapture,
				OutputPath:     output,
				MaxOutputBytes: maxOutput,
				WorkDir:        workDir,
				Timeout:        timeout,
			})
			if err != nil {
				return err
			}

			printRunSummary(cmd, outcome)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&varFlags, "var", nil, "Template variable as key=value (repeatable)")
	cmd.Flags().BoolVar(&noCapture, "no-capture", false, "Run attached to the terminal without recording a chunk log")
	cmd.Flags().StringVar(&output, "output", "", "Chunk log destination (default: history output directory)")
	cmd.Flags().Int64Var(&maxOutput, "max-output", 0, "Recorded output cap in bytes (default: configured limit)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Kill the command after this duration (e.g. 90s)")
	cmd.Flags().StringVar(&workDir, "workdir", "", "Working directory for the command")

	return cmd
}
