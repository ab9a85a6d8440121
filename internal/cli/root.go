package cli

import (
	"github.com/spf13/cobra"

	"github.com/promptcap/promptcap/internal/config"
	"github.com/promptcap/promptcap/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Runs    service.RunService
	Prompts service.PromptService
	History service.HistoryService

	// Config is the resolved configuration; ConfigPath is where it was
	// (or would be) read from.
	Config     *config.Config
	ConfigPath string

	// IsInteractive reports whether stdin is a terminal. Commands use it
	// to decide between huh forms and flag-only operation.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "promptcap" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "promptcap",
		Short: "Prompt library and process-capture runner",
		Long: "promptcap stores prompt templates, renders them with variables,\n" +
			"feeds them to interactive programs through a pseudoterminal or pipe,\n" +
			"and records the full exchange as a timestamped chunk log.",
	}

	root.AddCommand(
		newRunCmd(app),
		newExecCmd(app),
		newPromptCmd(app),
		newHistoryCmd(app),
		newConfigCmd(app),
	)

	return root
}
