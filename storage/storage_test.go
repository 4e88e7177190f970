package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStoragePath(t *testing.T) {
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

	assert.Equal(t,
		"cases/case_1/123e4567-e89b-12d3-a456-426614174000_peticao_inicial.pdf",
		generateStoragePath("case_1", id, "peticao inicial.pdf"))
	assert.Equal(t,
		"cases/case_1/123e4567-e89b-12d3-a456-426614174000_document.txt",
		generateStoragePath("case_1", id, ""))

	p := generateStoragePath("case_1", id, "../../etc/passwd")
	assert.True(t, strings.HasPrefix(p, "cases/case_1/"))
	assert.NotContains(t, p, "..")
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	s, err := NewStorage(ctx, StorageConfig{Type: StorageTypeNone})
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = NewStorage(ctx, StorageConfig{Type: "ftp"})
	assert.Error(t, err)

	_, err = NewStorage(ctx, StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	s, err = NewStorage(ctx, StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := s.Upload(ctx, "case_1", uuid.New(), "sentenca.txt", bytes.NewBufferString("conteúdo"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(base, path))

	r, err := s.Download(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "conteúdo", string(data))

	require.NoError(t, s.Delete(ctx, path))
	_, err = os.Stat(filepath.Join(base, path))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, path))

	_, err = s.Download(ctx, path)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// no temporary files are left behind
	entries, err := os.ReadDir(filepath.Dir(filepath.Join(base, path)))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(ctx, "../outside.txt")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
	assert.Error(t, s.Delete(ctx, "../../etc/passwd"))
}

func TestLocalStorageUploadHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(ctx, "case_1", uuid.New(), "a.txt", bytes.NewBufferString("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
