package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptcap/promptcap/internal/template"
)

func testSchema(name string) *template.Schema {
	return &template.Schema{
		Name:    name,
		Command: "claude",
		Text:    "Do the thing with {target}.",
		Variables: []template.VariableConfig{
			{Key: "target", Required: true},
		},
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(testSchema("review")))
	require.True(t, store.Exists("review"))

	got, err := store.Load("review")
	require.NoError(t, err)
	assert.Equal(t, "review", got.Name)
	assert.Equal(t, "claude", got.Command)
	require.Len(t, got.Variables, 1)
	assert.True(t, got.Variables[0].Required)
}

func TestStoreListSorted(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.Save(testSchema(name)))
	}

	schemas, broken := store.List()
	require.Empty(t, broken)
	require.Len(t, schemas, 3)
	assert.Equal(t, "alpha", schemas[0].Name)
	assert.Equal(t, "mid", schemas[1].Name)
	assert.Equal(t, "zeta", schemas[2].Name)
}

func TestStoreListMissingDirIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))
	schemas, broken := store.List()
	assert.Empty(t, schemas)
	assert.Empty(t, broken)
}

func TestStoreListSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, store.Save(testSchema("good")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	schemas, broken := store.List()
	require.Len(t, schemas, 1)
	assert.Equal(t, "good", schemas[0].Name)
	require.Len(t, broken, 1)
	assert.Contains(t, broken[0].Error(), "bad.json")
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStoreDelete(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(testSchema("tmp")))
	require.NoError(t, store.Delete("tmp"))
	assert.False(t, store.Exists("tmp"))

	err := store.Delete("tmp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStoreSaveRejectsInvalidSchema(t *testing.T) {
	store := NewStore(t.TempDir())
	bad := testSchema("ok")
	bad.Command = ""
	assert.Error(t, store.Save(bad))
}
