package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestStorage_RoundTrip(t *testing.T) {
	s, err := New(t.TempDir(), slog.Default())
	require.NoError(t, err)

	require.NoError(t, s.Insert("produksi", record.Record{"id": "1", "step": "persiapan"}))
	require.NoError(t, s.Insert("produksi", record.Record{"id": "2", "step": "masak"}))

	ok, err := s.Put("produksi", "2", record.Record{"id": "2", "step": "packing"})
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := s.Load("produksi")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "packing", rows[1]["step"])

	ok, err = s.Remove("produksi", "1")
	require.NoError(t, err)
	assert.True(t, ok)

	rows, _ = s.Load("produksi")
	assert.Len(t, rows, 1)
}

func TestStorage_MalformedFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, slog.Default())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sppg_v2_users.json"), []byte("{broken"), 0o600))

	rows, err := s.Load("users")
	require.NoError(t, err)
	assert.Empty(t, rows)

	// запись поверх битого файла восстанавливает таблицу
	require.NoError(t, s.Insert("users", record.Record{"id": "1"}))
	rows, _ = s.Load("users")
	assert.Len(t, rows, 1)
}

func TestStorage_NoTempFileLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, slog.Default())
	require.NoError(t, err)

	require.NoError(t, s.ReplaceAll("logistik", []record.Record{{"id": "a"}}))

	_, err = os.Stat(filepath.Join(dir, "sppg_v2_logistik.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestStorage_InvalidTableName(t *testing.T) {
	s, err := New(t.TempDir(), slog.Default())
	require.NoError(t, err)

	_, err = s.Load("../etc")
	assert.Error(t, err)
}
