package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/promptcap/promptcap/internal/capture"
	"github.com/promptcap/promptcap/internal/config"
	"github.com/promptcap/promptcap/internal/prompts"
	"github.com/promptcap/promptcap/internal/repository"
	"github.com/promptcap/promptcap/internal/service"
	"github.com/promptcap/promptcap/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB and temp dirs for
// CLI integration tests. stdin is treated as non-interactive so no
// command blocks on a form. The run repo is returned for seeding.
func testApp(t *testing.T) (*App, repository.RunRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)

	runRepo := repository.NewSQLiteRunRepo(database)
	annotationRepo := repository.NewSQLiteAnnotationRepo(database)

	cfg := config.Default()
	cfg.PromptsDir = t.TempDir()
	cfg.Capture.MaxOutputBytes = 1 << 20

	captureCfg := capture.DefaultConfig()
	captureCfg.KillGrace = 500 * time.Millisecond
	controller := capture.NewController(captureCfg)

	app := &App{
		Runs:          service.NewRunService(controller, runRepo, t.TempDir(), cfg.Capture.MaxOutputBytes),
		Prompts:       service.NewPromptService(prompts.NewStore(cfg.PromptsDir)),
		History:       service.NewHistoryService(runRepo, annotationRepo),
		Config:        cfg,
		ConfigPath:    "/dev/null",
		IsInteractive: func() bool { return false },
	}
	return app, runRepo
}

// seedRuns inserts n history records a minute apart, oldest first.
func seedRuns(t *testing.T, repo repository.RunRepo, promptName string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		r := testutil.NewRun(promptName, base.Add(time.Duration(i)*time.Minute))
		r.OutputFile = ""
		require.NoError(t, repo.Create(context.Background(), r))
		ids = append(ids, r.ID)
	}
	return ids
}

// testRunAt inserts one history record with the given start time.
func testRunAt(t *testing.T, repo repository.RunRepo, promptName string, startedAt time.Time) string {
	t.Helper()
	r := testutil.NewRun(promptName, startedAt)
	r.OutputFile = ""
	require.NoError(t, repo.Create(context.Background(), r))
	return r.ID
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}
