package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/promptcap/promptcap/internal/cli/formatter"
	"github.com/promptcap/promptcap/internal/domain"
)

// searchResultsMsg carries one round of search results into the view.
type searchResultsMsg struct {
	query string
	runs  []*domain.RunRecord
	err   error
}

// searchView is an interactive history browser: a query input on top, a
// navigable result list below. Enter selects a run for replay.
type searchView struct {
	app   *App
	input textinput.Model
	limit int

	runs    []*domain.RunRecord
	cursor  int
	loading bool
	err     error

	// selected is the run chosen with Enter, nil if dismissed.
	selected *domain.RunRecord

	width  int
	height int
}

func newSearchView(app *App, query string, limit int) *searchView {
	input := textinput.New()
	input.Placeholder = "prompt name or command"
	input.Prompt = "search> "
	input.PromptStyle = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	input.SetValue(query)
	input.Focus()

	return &searchView{
		app:     app,
		input:   input,
		limit:   limit,
		loading: true,
	}
}

func (v *searchView) search() tea.Cmd {
	app := v.app
	query := v.input.Value()
	limit := v.limit
	return func() tea.Msg {
		runs, err := app.History.Search(context.Background(), query, limit)
		return searchResultsMsg{query: query, runs: runs, err: err}
	}
}

func (v *searchView) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, v.search())
}

func (v *searchView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case searchResultsMsg:
		// Stale responses from earlier keystrokes are dropped.
		if msg.query != v.input.Value() {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.err = nil
		v.runs = msg.runs
		if v.cursor >= len(v.runs) {
			v.cursor = 0
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return v, tea.Quit
		case tea.KeyEnter:
			if v.cursor < len(v.runs) {
				v.selected = v.runs[v.cursor]
			}
			return v, tea.Quit
		case tea.KeyUp:
			if v.cursor > 0 {
				v.cursor--
			}
			return v, nil
		case tea.KeyDown:
			if v.cursor < len(v.runs)-1 {
				v.cursor++
			}
			return v, nil
		}

		before := v.input.Value()
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		if v.input.Value() != before {
			v.cursor = 0
			return v, tea.Batch(cmd, v.search())
		}
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *searchView) View() string {
	var b strings.Builder

	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.loading:
		b.WriteString(formatter.Dim("Loading…"))
		b.WriteString("\n")
	case len(v.runs) == 0:
		b.WriteString(formatter.Dim("No matching runs."))
		b.WriteString("\n")
	default:
		for i, r := range v.runs {
			line := fmt.Sprintf("%s  %-10s  %-14s  %s  %s",
				formatter.ShortID(r.ID),
				formatter.Truncate(displayPromptName(r), 10),
				formatter.Truncate(r.Command, 14),
				formatter.StatusIndicator(r),
				formatter.Dim(formatter.RelativeTime(r.StartedAt)))
			if i == v.cursor {
				b.WriteString(formatter.StyleHeader.Render("> "))
				b.WriteString(line)
			} else {
				b.WriteString("  ")
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(formatter.Dim("↑/↓ navigate · enter replay · esc quit"))
	return b.String()
}

func displayPromptName(r *domain.RunRecord) string {
	if r.PromptName == "" {
		return "(ad hoc)"
	}
	return r.PromptName
}
