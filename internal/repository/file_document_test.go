package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Value int      `json:"value"`
	Tags  []string `json:"tags"`
}

func TestFileDocumentMissingFileUsesInitial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "counter.json")

	doc, err := NewFileDocument(path, counter{Value: 7})
	require.NoError(t, err)

	got, err := doc.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got.Value)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file must not be created by a read")
}

func TestFileDocumentMutatePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "counter.json")

	doc, err := NewFileDocument(path, counter{})
	require.NoError(t, err)

	err = doc.Mutate(ctx, func(c *counter) error {
		c.Value = 3
		c.Tags = append(c.Tags, "a")
		return nil
	})
	require.NoError(t, err)

	reopened, err := NewFileDocument(path, counter{})
	require.NoError(t, err)

	got, err := reopened.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, counter{Value: 3, Tags: []string{"a"}}, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestFileDocumentMutateErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "counter.json")

	doc, err := NewFileDocument(path, counter{})
	require.NoError(t, err)
	require.NoError(t, doc.Mutate(ctx, func(c *counter) error {
		c.Value = 1
		return nil
	}))

	errBoom := errors.New("boom")
	err = doc.Mutate(ctx, func(c *counter) error {
		c.Value = 100
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	got, err := doc.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Value)
}

func TestFileDocumentReadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	doc, err := NewFileDocument(filepath.Join(t.TempDir(), "c.json"), counter{Tags: []string{"x"}})
	require.NoError(t, err)

	got, err := doc.Read(ctx)
	require.NoError(t, err)
	got.Tags[0] = "changed"

	again, err := doc.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", again.Tags[0])
}

func TestFileDocumentWriteFailureKeepsSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	// Родитель пути - обычный файл, поэтому записать коллекцию нельзя
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	doc, err := NewFileDocument(filepath.Join(blocker, "c.json"), counter{Value: 5})
	require.NoError(t, err)

	err = doc.Mutate(ctx, func(c *counter) error {
		c.Value = 6
		return nil
	})
	require.Error(t, err)

	got, err := doc.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Value)
}

func TestFileDocumentRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileDocument(path, counter{})
	assert.Error(t, err)
}

func TestFileDocumentConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	doc, err := NewFileDocument(filepath.Join(t.TempDir(), "c.json"), counter{})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, doc.Mutate(ctx, func(c *counter) error {
				c.Value++
				return nil
			}))
		}()
	}
	wg.Wait()

	got, err := doc.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, workers, got.Value)
}

func TestFileDocumentCancelledContext(t *testing.T) {
	doc, err := NewFileDocument(filepath.Join(t.TempDir(), "c.json"), counter{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = doc.Mutate(ctx, func(c *counter) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
