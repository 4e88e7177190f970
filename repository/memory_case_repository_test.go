package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"iajuridica-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCase(title string) *models.Case {
	return &models.Case{Title: title, Matter: models.DefaultMatter}
}

func doc(content string) models.Document {
	return models.Document{Type: models.DocOther, Content: content, Encoding: models.EncodingPlain}
}

func contents(docs []models.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Content)
	}
	return out
}

func TestMemoryCreateCaseSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCaseRepository()

	first := newCase("Reclamação Trabalhista X")
	require.NoError(t, repo.CreateCase(ctx, first))
	second := newCase("Second")
	require.NoError(t, repo.CreateCase(ctx, second))

	assert.Equal(t, "case_1", first.ID)
	assert.Equal(t, "case_2", second.ID)

	got, err := repo.GetCase(ctx, "case_1")
	require.NoError(t, err)
	assert.Equal(t, "Reclamação Trabalhista X", got.Title)
	assert.Equal(t, models.StatusOpen, got.Status())
}

func TestMemoryCreateCaseConcurrentUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCaseRepository()

	const n = 100
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newCase(fmt.Sprintf("case %d", i))
			if err := repo.CreateCase(ctx, c); err == nil {
				ids <- c.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestMemoryUnknownCase(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCaseRepository()

	_, err := repo.GetCase(ctx, "case_9")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := repo.AttachDocuments(ctx, "case_9", []models.Document{doc("a")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, n)

	_, err = repo.ListDocuments(ctx, "case_9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAttachPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCaseRepository()
	c := newCase("t")
	require.NoError(t, repo.CreateCase(ctx, c))

	n, err := repo.AttachDocuments(ctx, c.ID, []models.Document{doc("d1"), doc("d2")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = repo.AttachDocuments(ctx, c.ID, []models.Document{doc("d3"), doc("d1")})
	require.NoError(t, err)

	docs, err := repo.ListDocuments(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2", "d3", "d1"}, contents(docs))
}

func TestMemoryConcurrentAttachKeepsBatchesContiguous(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCaseRepository()
	c := newCase("t")
	require.NoError(t, repo.CreateCase(ctx, c))

	const batches, size = 20, 5
	var wg sync.WaitGroup
	for b := 0; b < batches; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			batch := make([]models.Document, size)
			for i := range batch {
				batch[i] = doc(fmt.Sprintf("%d", b))
			}
			_, err := repo.AttachDocuments(ctx, c.ID, batch)
			assert.NoError(t, err)
		}(b)
	}
	wg.Wait()

	docs, err := repo.ListDocuments(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, docs, batches*size)
	for i := 0; i < len(docs); i += size {
		for j := i; j < i+size; j++ {
			assert.Equal(t, docs[i].Content, docs[j].Content, "batch starting at %d was interleaved", i)
		}
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCaseRepository()
	notes := "original"
	c := &models.Case{Title: "t", Matter: "m", Notes: &notes}
	require.NoError(t, repo.CreateCase(ctx, c))
	_, err := repo.AttachDocuments(ctx, c.ID, []models.Document{doc("a")})
	require.NoError(t, err)

	got, err := repo.GetCase(ctx, c.ID)
	require.NoError(t, err)
	*got.Notes = "changed"
	got.Title = "changed"

	docs, err := repo.ListDocuments(ctx, c.ID)
	require.NoError(t, err)
	docs[0].Content = "changed"

	again, err := repo.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", again.Title)
	assert.Equal(t, "original", *again.Notes)

	docs, err = repo.ListDocuments(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", docs[0].Content)
}
