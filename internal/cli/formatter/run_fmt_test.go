package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcap/promptcap/internal/domain"
)

func intPtr(n int) *int { return &n }

func testRun() *domain.RunRecord {
	return &domain.RunRecord{
		ID:          "5f1c8a2b-9d3e-4f00-b1a2-000000000000",
		PromptName:  "review",
		Command:     "claude",
		Args:        []string{"-p"},
		OutputFile:  "/tmp/out.json",
		ExitCode:    intPtr(0),
		OutputBytes: 2048,
		StartedAt:   time.Now().Add(-time.Hour),
		DurationMS:  3200,
	}
}

func TestFormatRunList(t *testing.T) {
	out := ansi.Strip(FormatRunList([]*domain.RunRecord{testRun()}))

	assert.Contains(t, out, "5f1c8a2b")
	assert.Contains(t, out, "review")
	assert.Contains(t, out, "claude -p")
	assert.Contains(t, out, "● ok")
	assert.Contains(t, out, "2.0 KiB")
}

func TestFormatRunListAdHoc(t *testing.T) {
	r := testRun()
	r.PromptName = ""
	out := ansi.Strip(FormatRunList([]*domain.RunRecord{r}))

	assert.Contains(t, out, "(ad hoc)")
}

func TestFormatRunDetails(t *testing.T) {
	r := testRun()
	r.Truncated = true
	notes := []*domain.Annotation{
		{ID: "a1", RunID: r.ID, Note: "good summary", CreatedAt: time.Now()},
	}

	out := ansi.Strip(FormatRunDetails(r, notes))

	assert.Contains(t, out, "RUN")
	assert.Contains(t, out, r.ID)
	assert.Contains(t, out, "(truncated)")
	assert.Contains(t, out, "/tmp/out.json")
	assert.Contains(t, out, "NOTES")
	assert.Contains(t, out, "good summary")
}

func TestStatusIndicator(t *testing.T) {
	tests := []struct {
		name string
		run  *domain.RunRecord
		want string
	}{
		{"ok", &domain.RunRecord{ExitCode: intPtr(0)}, "● ok"},
		{"nonzero exit", &domain.RunRecord{ExitCode: intPtr(2)}, "● exit 2"},
		{"killed", &domain.RunRecord{}, "● killed"},
		{"truncated", &domain.RunRecord{ExitCode: intPtr(0), Truncated: true}, "● truncated"},
		{"error", &domain.RunRecord{Error: "spawn failed"}, "● error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ansi.Strip(StatusIndicator(tt.run)))
		})
	}
}

func TestRenderTableAlignment(t *testing.T) {
	out := ansi.Strip(RenderTable(
		[]string{"A", "Long Header"},
		[][]string{
			{"x", "y"},
			{"wider cell", "z"},
		},
	))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)

	// Second column starts at the same offset in every row.
	offset := strings.Index(lines[0], "Long Header")
	assert.Equal(t, "y", strings.TrimSpace(lines[2][offset:]))
	assert.Equal(t, "z", strings.TrimSpace(lines[3][offset:]))
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	assert.Equal(t, "", RenderTable(nil, nil))
}
