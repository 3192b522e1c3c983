package timeout

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "30", want: 30},
		{input: "30s", want: 30},
		{input: "5m", want: 300},
		{input: "2h", want: 7200},
		{input: "0", want: 0},
		{input: "", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "10d", wantErr: true},
		{input: "1.5s", wantErr: true},
		{input: "s", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Invalid duration format")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func nativeRunner() *Runner {
	return &Runner{DisableHostTimeout: true, Grace: 200 * time.Millisecond}
}

func TestRunner_Run(t *testing.T) {
	t.Run("passes through child exit code", func(t *testing.T) {
		code, err := nativeRunner().Run("5s", os.Stdout, os.Stderr, "sh", "-c", "exit 3")
		require.NoError(t, err)
		assert.Equal(t, 3, code)
	})

	t.Run("captures child stdout", func(t *testing.T) {
		var out bytes.Buffer
		code, err := nativeRunner().Run("5s", &out, os.Stderr, "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.Equal(t, 0, code)
		assert.Equal(t, "hello", strings.TrimSpace(out.String()))
	})

	t.Run("returns 124 on timeout", func(t *testing.T) {
		start := time.Now()
		code, err := nativeRunner().Run("1s", os.Stdout, os.Stderr, "sleep", "10")
		require.NoError(t, err)
		assert.Equal(t, ExitTimeout, code)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("force kills a child that ignores SIGTERM", func(t *testing.T) {
		code, err := nativeRunner().Run("1s", os.Stdout, os.Stderr, "sh", "-c", "trap '' TERM; sleep 10")
		require.NoError(t, err)
		assert.Equal(t, ExitTimeout, code)
	})

	t.Run("invalid duration rejects before running command", func(t *testing.T) {
		marker := filepath.Join(t.TempDir(), "ran")

		code, err := nativeRunner().Run("bogus", os.Stdout, os.Stderr, "touch", marker)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid duration format")
		assert.NotEqual(t, 0, code)

		_, statErr := os.Stat(marker)
		assert.True(t, os.IsNotExist(statErr), "command must not have run")
	})

	t.Run("missing binary returns 127", func(t *testing.T) {
		code, err := nativeRunner().Run("1s", os.Stdout, os.Stderr, "definitely-not-a-real-binary")
		require.Error(t, err)
		assert.Equal(t, 127, code)
	})

	t.Run("host strategy is skipped when binaries are absent", func(t *testing.T) {
		r := &Runner{
			Grace:    200 * time.Millisecond,
			LookPath: func(string) (string, error) { return "", os.ErrNotExist },
		}
		code, err := r.Run("5s", os.Stdout, os.Stderr, "sh", "-c", "exit 0")
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	})
}
