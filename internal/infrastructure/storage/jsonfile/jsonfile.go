// Package jsonfile stores each device table as one JSON array file.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/exp/slog"
)

const filePrefix = "sppg_v2_"

type Storage struct {
	dir string
	mu  sync.Mutex
	log *slog.Logger
}

func New(dir string, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Storage{dir: dir, log: log.With("component", "jsonfile")}, nil
}

func (s *Storage) Load(table string) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(table)
}

func (s *Storage) Insert(table string, rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read(table)
	if err != nil {
		return err
	}
	return s.write(table, append(rows, rec))
}

func (s *Storage) Put(table, id string, rec record.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read(table)
	if err != nil {
		return false, err
	}
	for i := range rows {
		if rows[i].ID() == id {
			rows[i] = rec
			return true, s.write(table, rows)
		}
	}
	return false, nil
}

func (s *Storage) Remove(table, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.read(table)
	if err != nil {
		return false, err
	}
	kept := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		if row.ID() != id {
			kept = append(kept, row)
		}
	}
	if len(kept) == len(rows) {
		return false, nil
	}
	return true, s.write(table, kept)
}

func (s *Storage) ReplaceAll(table string, recs []record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recs == nil {
		recs = []record.Record{}
	}
	return s.write(table, recs)
}

func (s *Storage) Close() error { return nil }

// read returns an empty table for a missing or malformed file.
func (s *Storage) read(table string) ([]record.Record, error) {
	path, err := s.path(table)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []record.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}

	var rows []record.Record
	if err := json.Unmarshal(content, &rows); err != nil {
		s.log.Warn("malformed table file, treating as empty", "table", table, "error", err)
		return []record.Record{}, nil
	}
	if rows == nil {
		rows = []record.Record{}
	}
	return rows, nil
}

// write replaces the file atomically: temp file first, then rename.
func (s *Storage) write(table string, rows []record.Record) error {
	path, err := s.path(table)
	if err != nil {
		return err
	}

	content, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", table, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return os.Rename(tmp, path)
}

func (s *Storage) path(table string) (string, error) {
	if table == "" || strings.ContainsAny(table, `/\.`) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return filepath.Join(s.dir, filePrefix+table+".json"), nil
}
