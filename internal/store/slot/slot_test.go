package slot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSlot(t *testing.T) {
	t.Run("read on missing file returns nil", func(t *testing.T) {
		s := NewFileSlot(filepath.Join(t.TempDir(), "pointer"))

		data, err := s.Read()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("write then read round trips", func(t *testing.T) {
		s := NewFileSlot(filepath.Join(t.TempDir(), "pointer"))

		require.NoError(t, s.Write([]byte("rl-42")))
		data, err := s.Read()
		require.NoError(t, err)
		assert.Equal(t, "rl-42", string(data))
	})

	t.Run("write creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "deep", "pointer")
		s := NewFileSlot(path)

		require.NoError(t, s.Write([]byte("x")))
		_, err := os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("write replaces wholesale", func(t *testing.T) {
		s := NewFileSlot(filepath.Join(t.TempDir(), "pointer"))

		require.NoError(t, s.Write([]byte("a much longer first value")))
		require.NoError(t, s.Write([]byte("short")))

		data, err := s.Read()
		require.NoError(t, err)
		assert.Equal(t, "short", string(data))
	})

	t.Run("clear removes the file and is idempotent", func(t *testing.T) {
		s := NewFileSlot(filepath.Join(t.TempDir(), "pointer"))
		require.NoError(t, s.Write([]byte("x")))

		require.NoError(t, s.Clear())
		require.NoError(t, s.Clear())

		data, err := s.Read()
		require.NoError(t, err)
		assert.Nil(t, data)
	})
}

func TestMemorySlot(t *testing.T) {
	t.Run("behaves like an empty slot initially", func(t *testing.T) {
		s := &MemorySlot{}
		data, err := s.Read()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("round trips and clears", func(t *testing.T) {
		s := &MemorySlot{}
		require.NoError(t, s.Write([]byte("checklist:Do the thing")))

		data, err := s.Read()
		require.NoError(t, err)
		assert.Equal(t, "checklist:Do the thing", string(data))

		require.NoError(t, s.Clear())
		data, err = s.Read()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("forced errors surface", func(t *testing.T) {
		s := &MemorySlot{ReadErr: os.ErrPermission}
		_, err := s.Read()
		assert.ErrorIs(t, err, os.ErrPermission)
	})
}
