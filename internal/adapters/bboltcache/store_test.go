package bboltcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveLoad(t *testing.T) {
	s := newTestStore(t)

	snapshot := []byte(`[{"File":"iea/CO2_bigco2","Name":"product"}]`)
	require.NoError(t, s.Save("iea/CO2_bigco2", "abc123", snapshot))

	hash, got, err := s.Load("iea/CO2_bigco2")
	require.NoError(t, err)
	assert.Equal(t, "abc123", hash)
	assert.Equal(t, snapshot, got)
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	hash, snapshot, err := s.Load("nope")
	require.NoError(t, err)
	assert.Empty(t, hash)
	assert.Nil(t, snapshot)
}

func TestStore_Overwrite(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("f", "h1", []byte("one")))
	require.NoError(t, s.Save("f", "h2", []byte("two")))

	hash, snapshot, err := s.Load("f")
	require.NoError(t, err)
	assert.Equal(t, "h2", hash)
	assert.Equal(t, []byte("two"), snapshot)
}

func TestStore_Delete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Save("f", "h", []byte("x")))
	require.NoError(t, s.Delete("f"))

	hash, snapshot, err := s.Load("f")
	require.NoError(t, err)
	assert.Empty(t, hash)
	assert.Nil(t, snapshot)

	// Idempotent
	require.NoError(t, s.Delete("f"))
}
