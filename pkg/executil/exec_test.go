package executil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingExecutor(t *testing.T) {
	t.Run("records commands in order", func(t *testing.T) {
		exec := &RecordingExecutor{}

		_, err := exec.Run(context.Background(), "bd", "ready", "--json")
		require.NoError(t, err)
		_, err = exec.RunDir(context.Background(), "/tmp/work", "bd", "close", "rl-1")
		require.NoError(t, err)

		require.Len(t, exec.Commands, 2)
		assert.Equal(t, RecordedCommand{Cmd: "bd", Args: []string{"ready", "--json"}}, exec.Commands[0])
		assert.Equal(t, "/tmp/work", exec.Commands[1].Dir)
	})

	t.Run("returns configured output and error", func(t *testing.T) {
		wantErr := errors.New("boom")
		exec := &RecordingExecutor{
			Outputs: map[string][]byte{"bd": []byte(`[]`)},
			Errors:  map[string]error{"git": wantErr},
		}

		out, err := exec.Run(context.Background(), "bd")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), out)

		_, err = exec.Run(context.Background(), "git")
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("lookpath honors missing binaries", func(t *testing.T) {
		exec := &RecordingExecutor{MissingBinaries: []string{"bd"}}

		_, err := exec.LookPath("bd")
		assert.Error(t, err)

		path, err := exec.LookPath("timeout")
		require.NoError(t, err)
		assert.Equal(t, "timeout", path)
	})

	t.Run("reset clears recorded commands", func(t *testing.T) {
		exec := &RecordingExecutor{}
		_, _ = exec.Run(context.Background(), "bd")
		exec.Reset()
		assert.Empty(t, exec.Commands)
	})
}
