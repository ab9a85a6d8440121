package formatter

import (
	"fmt"
	"strings"

	"github.com/promptcap/promptcap/internal/domain"
)

// FormatRunList renders history records as an aligned table.
func FormatRunList(runs []*domain.RunRecord) string {
	headers := []string{"ID", "When", "Prompt", "Command", "Status", "Output"}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		promptName := r.PromptName
		if promptName == "" {
			promptName = Dim("(ad hoc)")
		}
		rows = append(rows, []string{
			ShortID(r.ID),
			RelativeTime(r.StartedAt),
			promptName,
			Truncate(commandLine(r), 40),
			StatusIndicator(r),
			ByteSize(r.OutputBytes),
		})
	}
	return RenderTable(headers, rows)
}

// FormatRunDetails renders one history record as a detail block.
func FormatRunDetails(r *domain.RunRecord, annotations []*domain.Annotation) string {
	var b strings.Builder

	fmt.Fprintln(&b, Header("Run"))
	fmt.Fprintf(&b, "  ID:        %s\n", Bold(r.ID))
	if r.PromptName != "" {
		fmt.Fprintf(&b, "  Prompt:    %s\n", r.PromptName)
	}
	fmt.Fprintf(&b, "  Command:   %s\n", commandLine(r))
	fmt.Fprintf(&b, "  Started:   %s (%s)\n", r.StartedAt.Format("2006-01-02 15:04:05"), RelativeTime(r.StartedAt))
	fmt.Fprintf(&b, "  Duration:  %s\n", Duration(r.DurationMS))
	fmt.Fprintf(&b, "  Status:    %s\n", StatusIndicator(r))
	fmt.Fprintf(&b, "  Output:    %s", ByteSize(r.OutputBytes))
	if r.Truncated {
		fmt.Fprintf(&b, " %s", StyleYellow.Render("(truncated)"))
	}
	fmt.Fprintln(&b)
	if r.OutputFile != "" {
		fmt.Fprintf(&b, "  Log:       %s\n", r.OutputFile)
	}
	if r.Error != "" {
		fmt.Fprintf(&b, "  Error:     %s\n", StyleRed.Render(r.Error))
	}

	if len(annotations) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, Header("Notes"))
		for _, a := range annotations {
			fmt.Fprintf(&b, "  %s %s\n", Dim(a.CreatedAt.Format("2006-01-02 15:04")), a.Note)
		}
	}

	return b.String()
}

func commandLine(r *domain.RunRecord) string {
	if len(r.Args) == 0 {
		return r.Command
	}
	return r.Command + " " + strings.Join(r.Args, " ")
}
