package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	var empty map[string]int
	found, err := Load(path, &empty)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, Save(path, map[string]int{"a": 1}))
	require.NoError(t, Save(path, map[string]int{"a": 2}))

	got := map[string]int{}
	found, err = Load(path, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]int{"a": 2}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	var v map[string]int
	_, err := Load(path, &v)
	assert.Error(t, err)
}
