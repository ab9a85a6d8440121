package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/promptcap/promptcap/internal/cli/formatter"
	"github.com/promptcap/promptcap/internal/template"
)

func newPromptCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Manage the prompt template library",
	}

	cmd.AddCommand(
		newPromptListCmd(app),
		newPromptShowCmd(app),
		newPromptAddCmd(app),
		newPromptEditCmd(app),
		newPromptDeleteCmd(app),
	)

	return cmd
}

func newPromptListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas, warnings := app.Prompts.List(context.Background())
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", w)
			}

			if len(schemas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No prompts found.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPromptList(schemas))
			return nil
		},
	}
}

func newPromptShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show prompt details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := app.Prompts.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPromptDetails(schema))
			return nil
		},
	}
}

// readTextFlag resolves the prompt body from --text or --file.
func readTextFlag(text, file string) (string, error) {
	if text != "" && file != "" {
		return "", fmt.Errorf("--text and --file are mutually exclusive")
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading text file: %w", err)
		}
		return string(data), nil
	}
	return text, nil
}

// autoDeclareVariables declares every placeholder in the text that the
// schema does not already know, as a required variable.
func autoDeclareVariables(schema *template.Schema) error {
	keys, err := template.Placeholders(schema.Text)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(schema.Variables))
	for _, v := range schema.Variables {
		known[v.Key] = true
	}
	for _, key := range keys {
		if !known[key] {
			schema.Variables = append(schema.Variables, template.VariableConfig{
				Key:      key,
				Required: true,
			})
		}
	}
	return nil
}

// promptAddForm collects the basic prompt fields interactively.
func promptAddForm(schema *template.Schema) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("code-review").
				Value(&schema.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&schema.Description),
			huh.NewInput().
				Title("Command").
				Placeholder("claude").
				Value(&schema.Command),
			huh.NewText().
				Title("Prompt Text").
				Description("Use {key} placeholders for variables").
				Value(&schema.Text),
		),
	).WithTheme(promptcapHuhTheme()).WithShowHelp(false)
}

func newPromptAddCmd(app *App) *cobra.Command {
	var (
		description string
		command     string
		cmdArgs     []string
		text        string
		textFile    string
	)

	cmd := &cobra.Command{
		Use:   "add [NAME]",
		Short: "Create a new prompt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := &template.Schema{
				Description: description,
				Command:     command,
				Args:        cmdArgs,
			}
			if len(args) == 1 {
				schema.Name = args[0]
			}

			body, err := readTextFlag(text, textFile)
			if err != nil {
				return err
			}
			schema.Text = body

			// Flags cover everything in scripts; a form fills the gaps
			// at an interactive terminal.
			if (schema.Name == "" || schema.Command == "" || schema.Text == "") && app.interactive() {
				if err := promptAddForm(schema).Run(); err != nil {
					return fmt.Errorf("collecting prompt fields: %w", err)
				}
			}

			if err := autoDeclareVariables(schema); err != nil {
				return err
			}
			if err := app.Prompts.Save(context.Background(), schema); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created prompt %s\n", formatter.Bold(schema.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Short description")
	cmd.Flags().StringVar(&command, "command", "", "Target command to run")
	cmd.Flags().StringArrayVar(&cmdArgs, "arg", nil, "Argument for the target command (repeatable)")
	cmd.Flags().StringVar(&text, "text", "", "Prompt text with {key} placeholders")
	cmd.Flags().StringVar(&textFile, "file", "", "Read the prompt text from a file")

	return cmd
}

func newPromptEditCmd(app *App) *cobra.Command {
	var (
		description string
		command     string
		cmdArgs     []string
		text        string
		textFile    string
		defaults    []string
		optional    []string
	)

	cmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Update fields of an existing prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := app.Prompts.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("description") {
				schema.Description = description
			}
			if cmd.Flags().Changed("command") {
				schema.Command = command
			}
			if cmd.Flags().Changed("arg") {
				schema.Args = cmdArgs
			}

			body, err := readTextFlag(text, textFile)
			if err != nil {
				return err
			}
			if body != "" {
				schema.Text = body
				if err := autoDeclareVariables(schema); err != nil {
					return err
				}
			}

			for _, pair := range defaults {
				key, value, ok := strings.Cut(pair, "=")
				if !ok || key == "" {
					return fmt.Errorf("invalid --default %q: expected key=value", pair)
				}
				if err := setVariableDefault(schema, key, value); err != nil {
					return err
				}
			}
			for _, key := range optional {
				if err := setVariableOptional(schema, key); err != nil {
					return err
				}
			}

			if err := app.Prompts.Save(context.Background(), schema); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated prompt %s\n", formatter.Bold(schema.Name))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Short description")
	cmd.Flags().StringVar(&command, "command", "", "Target command to run")
	cmd.Flags().StringArrayVar(&cmdArgs, "arg", nil, "Argument for the target command (replaces all, repeatable)")
	cmd.Flags().StringVar(&text, "text", "", "Prompt text with {key} placeholders")
	cmd.Flags().StringVar(&textFile, "file", "", "Read the prompt text from a file")
	cmd.Flags().StringArrayVar(&defaults, "default", nil, "Variable default as key=value; also marks it optional (repeatable)")
	cmd.Flags().StringArrayVar(&optional, "optional", nil, "Mark a variable as optional (repeatable)")

	return cmd
}

// setVariableDefault gives a declared variable a default value. A
// defaulted variable can always be omitted, so it stops being required.
func setVariableDefault(schema *template.Schema, key, value string) error {
	for i := range schema.Variables {
		if schema.Variables[i].Key == key {
			schema.Variables[i].Default = value
			schema.Variables[i].Required = false
			return nil
		}
	}
	return fmt.Errorf("prompt %q declares no variable '%s'", schema.Name, key)
}

func setVariableOptional(schema *template.Schema, key string) error {
	for i := range schema.Variables {
		if schema.Variables[i].Key == key {
			schema.Variables[i].Required = false
			return nil
		}
	}
	return fmt.Errorf("prompt %q declares no variable '%s'", schema.Name, key)
}

func newPromptDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				if !promptYesNo(fmt.Sprintf("Delete prompt %q? [y/N] ", args[0])) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			if err := app.Prompts.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted prompt %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
