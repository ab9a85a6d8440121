package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcap/promptcap/internal/testutil"
)

func TestAnnotationRepoRoundTrip(t *testing.T) {
	database := testutil.NewTestDB(t)
	runs := NewSQLiteRunRepo(database)
	repo := NewSQLiteAnnotationRepo(database)
	ctx := context.Background()

	run := testutil.NewRun("annotated", time.Now().UTC())
	require.NoError(t, runs.Create(ctx, run))

	first := testutil.NewAnnotation(run.ID, "worked first try")
	second := testutil.NewAnnotation(run.ID, "follow-up: flaky on retry")
	second.CreatedAt = first.CreatedAt.Add(time.Minute)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.ListByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "worked first try", got[0].Note)
	assert.Equal(t, "follow-up: flaky on retry", got[1].Note)
}

func TestAnnotationRepoDelete(t *testing.T) {
	database := testutil.NewTestDB(t)
	runs := NewSQLiteRunRepo(database)
	repo := NewSQLiteAnnotationRepo(database)
	ctx := context.Background()

	run := testutil.NewRun("annotated", time.Now().UTC())
	require.NoError(t, runs.Create(ctx, run))

	a := testutil.NewAnnotation(run.ID, "remove me")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Delete(ctx, a.ID))

	got, err := repo.ListByRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, got)

	err = repo.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAnnotationRepoRequiresRun(t *testing.T) {
	repo := NewSQLiteAnnotationRepo(testutil.NewTestDB(t))

	err := repo.Create(context.Background(), testutil.NewAnnotation("ghost-run", "note"))
	assert.Error(t, err, "foreign key should reject annotations on missing runs")
}
