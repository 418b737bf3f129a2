package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSnapshot(t *testing.T, dir, category, payload string) {
	t.Helper()
	path := filepath.Join(dir, category)
	require.NoError(t, os.MkdirAll(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "latest.json"), []byte(payload), 0o644))
}

func TestFetchMergesCategories(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "acts", `{"documents":[{"id":"a1","date":"2024-01-01"}]}`)
	writeSnapshot(t, dir, "gazettes", `[{"id":"g1","date":"2024-02-01"},{"id":"g2","date":"2024-03-01"}]`)

	src := New(dir, "acts", "gazettes", "bills")

	docs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 3)
}

func TestFetchSkipsMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "acts", `{"documents":[{"id":"a1"}]}`)
	writeSnapshot(t, dir, "bills", `{{{`)

	src := New(dir, "acts", "bills")

	docs, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestFetchFailsWithoutSnapshots(t *testing.T) {
	src := New(t.TempDir(), "acts")

	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}

func TestCountIsUnsupported(t *testing.T) {
	n, err := New(t.TempDir()).Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWatchSignalsOnSnapshotWrite(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, "acts", `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := New(dir, "acts")
	ch, err := src.Watch(ctx)
	require.NoError(t, err)

	writeSnapshot(t, dir, "acts", `[{"id":"a1","date":"2024-01-01"}]`)

	select {
	case _, ok := <-ch:
		assert.True(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal received")
	}
}
