package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestWatcher_DetectsLabelFileChange(t *testing.T) {
	dir := t.TempDir()
	labelFile := filepath.Join(dir, "test_labels.yaml")
	require.NoError(t, os.WriteFile(labelFile, []byte("product:\n  orient: index\n"), 0644))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	err = w.Watch(dir, func(path string) {
		changed <- path
	})
	require.NoError(t, err)

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(labelFile, []byte("product:\n  orient: columns\n"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for label file change")
	assert.Equal(t, labelFile, path)
}

func TestWatcher_DetectsNewUnitFile(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	err = w.Watch(dir, func(path string) {
		changed <- path
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	unitFile := filepath.Join(dir, "pint_units_extra.txt")
	require.NoError(t, os.WriteFile(unitFile, []byte("吨 = 1000 * kilogram\n"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for new unit file")
	assert.Equal(t, unitFile, path)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0755))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()

	changed := make(chan string, 10)
	err = w.Watch(dir, func(path string) {
		changed <- path
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "labels.yaml.swp"), []byte("x"), 0644)
	// Editor lock files keep the watched suffix but must not trigger
	os.WriteFile(filepath.Join(dir, ".#nbs_labels.yaml"), []byte("x"), 0644)

	_, ok := waitForCallback(changed, 500*time.Millisecond)
	assert.False(t, ok, "should not have received callback for unrelated files")

	labelFile := filepath.Join(dir, "nbs_labels.yaml")
	require.NoError(t, os.WriteFile(labelFile, []byte("measure:\n"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for label file")
	assert.Equal(t, labelFile, path)
}

func TestWatcher_StopCleanup(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch(dir, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	err = w.Stop()
	require.NoError(t, err)

	mu.Lock()
	countAfterStop := callCount
	mu.Unlock()

	os.WriteFile(filepath.Join(dir, "after_stop_labels.yaml"), []byte("x"), 0644)
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	countAfterWrite := callCount
	mu.Unlock()

	assert.Equal(t, countAfterStop, countAfterWrite, "callbacks fired after Stop()")

	// Double-stop should be safe
	err = w.Stop()
	assert.NoError(t, err)
}
