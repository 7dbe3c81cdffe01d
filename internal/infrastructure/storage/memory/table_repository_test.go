package memory

import (
	"context"
	"testing"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRepository_RowsAreCopies(t *testing.T) {
	repo := NewTableRepository()
	rec := record.Record{"id": "1", "nama": "Beras"}
	require.NoError(t, repo.Insert("logistik", rec))

	rec["nama"] = "changed"
	rows, err := repo.Load("logistik")
	require.NoError(t, err)
	assert.Equal(t, "Beras", rows[0]["nama"])

	rows[0]["nama"] = "also changed"
	again, _ := repo.Load("logistik")
	assert.Equal(t, "Beras", again[0]["nama"])
}

func TestTableRepository_PutAndRemove(t *testing.T) {
	repo := NewTableRepository()
	require.NoError(t, repo.ReplaceAll("produksi", []record.Record{{"id": "a"}, {"id": "b"}}))

	found, err := repo.Put("produksi", "b", record.Record{"id": "b", "step": "masak"})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Put("produksi", "zz", record.Record{"id": "zz"})
	require.NoError(t, err)
	assert.False(t, found)

	removed, err := repo.Remove("produksi", "a")
	require.NoError(t, err)
	assert.True(t, removed)

	rows, _ := repo.Load("produksi")
	require.Len(t, rows, 1)
	assert.Equal(t, "masak", rows[0]["step"])
}

func TestSheetRepository_DeleteFirstMatchOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewSheetRepository()
	require.NoError(t, repo.Append(ctx, "users", record.Record{"id": "1", "nama": "a"}, record.Record{"id": "1", "nama": "b"}, record.Record{"id": "2"}))

	found, err := repo.Delete(ctx, "users", "1")
	require.NoError(t, err)
	assert.True(t, found)

	rows, _ := repo.Rows(ctx, "users")
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0]["nama"])

	n, err := repo.Truncate(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	rows, _ = repo.Rows(ctx, "users")
	assert.Empty(t, rows)
}

func TestSheetRepository_NumericIDsCompareAsStrings(t *testing.T) {
	ctx := context.Background()
	repo := NewSheetRepository()
	require.NoError(t, repo.Append(ctx, "produksi", record.Record{"id": float64(42)}))

	found, err := repo.Replace(ctx, "produksi", "42", record.Record{"id": "42", "step": "cuci"})
	require.NoError(t, err)
	assert.True(t, found)
}
