package capture

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records everything a strategy writes.
type fakeWriter struct {
	writes   []string
	closed   bool
	writeErr error
}

func (f *fakeWriter) Write(data string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, data)
	return nil
}

func (f *fakeWriter) CloseInput() error {
	f.closed = true
	return nil
}

func TestInjectorForMode(t *testing.T) {
	assert.IsType(t, &directInjector{}, injectorFor(ModePtyDirect))
	assert.IsType(t, &stagedInjector{}, injectorFor(ModePtyStaged))
	assert.IsType(t, &pipeInjector{}, injectorFor(ModePipeDirect))
}

func TestDirectInjectorBulkWrite(t *testing.T) {
	w := &fakeWriter{}
	written, err := (&directInjector{}).Inject(w, "hello world")
	require.NoError(t, err)

	// One atomic write, trailing newline appended.
	require.Len(t, w.writes, 1)
	assert.Equal(t, "hello world\n", w.writes[0])
	assert.Equal(t, "hello world\n", written)
	assert.False(t, w.closed)
}

func TestDirectInjectorKeepsExistingNewline(t *testing.T) {
	w := &fakeWriter{}
	written, err := (&directInjector{}).Inject(w, "line\n")
	require.NoError(t, err)
	assert.Equal(t, "line\n", written)
}

func TestDirectInjectorSkipsBlankPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\n\t "} {
		w := &fakeWriter{}
		written, err := (&directInjector{}).Inject(w, prompt)
		require.NoError(t, err)
		assert.Empty(t, written)
		assert.Empty(t, w.writes)
	}
}

func TestDirectInjectorWriteFailure(t *testing.T) {
	w := &fakeWriter{writeErr: errors.New("broken pipe")}
	written, err := (&directInjector{}).Inject(w, "prompt")
	assert.Error(t, err)
	assert.Empty(t, written)
}

func TestPipeInjectorWritesThenClosesInput(t *testing.T) {
	w := &fakeWriter{}
	written, err := (&pipeInjector{}).Inject(w, "filter me")
	require.NoError(t, err)
	assert.Equal(t, "filter me\n", written)
	assert.True(t, w.closed, "stdin must be closed so read-to-EOF filters terminate")
}

func TestPipeInjectorBlankPromptStillClosesInput(t *testing.T) {
	w := &fakeWriter{}
	written, err := (&pipeInjector{}).Inject(w, " ")
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Empty(t, w.writes)
	assert.True(t, w.closed)
}

func TestStagedInjectorStagesPromptInTempFile(t *testing.T) {
	w := &fakeWriter{}
	inj := &stagedInjector{}
	written, err := inj.Inject(w, "staged prompt text")
	require.NoError(t, err)
	require.NotEmpty(t, inj.stagedPath)

	// The child receives a shell command, not the prompt itself.
	assert.Contains(t, written, "cat ")
	assert.Contains(t, written, inj.stagedPath)
	assert.True(t, strings.HasSuffix(written, "\n"))

	data, err := os.ReadFile(inj.stagedPath)
	require.NoError(t, err)
	assert.Equal(t, "staged prompt text", string(data))

	require.NoError(t, inj.Cleanup())
	_, statErr := os.Stat(inj.stagedPath)
	assert.True(t, os.IsNotExist(statErr) || inj.stagedPath == "")
}

func TestStagedInjectorCleanupRemovesFile(t *testing.T) {
	w := &fakeWriter{}
	inj := &stagedInjector{}
	_, err := inj.Inject(w, "to be removed")
	require.NoError(t, err)
	path := inj.stagedPath

	require.NoError(t, inj.Cleanup())
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Second cleanup is a no-op.
	assert.NoError(t, inj.Cleanup())
}

func TestStagedInjectorSkipsBlankPrompt(t *testing.T) {
	w := &fakeWriter{}
	inj := &stagedInjector{}
	written, err := inj.Inject(w, "\t")
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Empty(t, inj.stagedPath)
	assert.NoError(t, inj.Cleanup())
}
