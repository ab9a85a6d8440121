package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptcap/promptcap/internal/service"
)

func newExecCmd(app *App) *cobra.Command {
	var (
		promptText string
		promptFile string
		noCapture  bool
		output     string
		maxOutput  int64
		timeout    time.Duration
		workDir    string
	)

	cmd := &cobra.Command{
		Use:   "exec [flags] -- COMMAND [ARGS...]",
		Short: "Capture an arbitrary command without a stored prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if promptText != "" && promptFile != "" {
				return fmt.Errorf("--prompt and --prompt-file are mutually exclusive")
			}
			if promptFile != "" {
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("reading prompt file: %w", err)
				}
				promptText = string(data)
			}

			outcome, err := app.Runs.Execute(context.Background(), service.RunRequest{
				Command:        args[0],
				Args:           args[1:],
				Prompt:         promptText,
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

	cmd.Flags().StringVar(&promptText, "prompt", "", "Prompt text to inject once the command spawns")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "Read the prompt from a file")
	cmd.Flags().BoolVar(&noCapture, "no-capture", false, "Run attached to the terminal without recording a chunk log")
	cmd.Flags().StringVar(&output, "output", "", "Chunk log destination (default: history output directory)")
	cmd.Flags().Int64Var(&maxOutput, "max-output", 0, "Recorded output cap in bytes (default: configured limit)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Kill the command after this duration (e.g. 90s)")
	cmd.Flags().StringVar(&workDir, "workdir", "", "Working directory for the command")

	return cmd
}
