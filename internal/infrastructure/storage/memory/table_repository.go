package memory

import (
	"sync"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

// TableRepository keeps device tables in process memory.
type TableRepository struct {
	mu     sync.RWMutex
	tables map[string][]record.Record
}

func NewTableRepository() *TableRepository {
	return &TableRepository{tables: make(map[string][]record.Record)}
}

func (r *TableRepository) Load(table string) ([]record.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneRows(r.tables[table]), nil
}

func (r *TableRepository) Insert(table string, rec record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables[table] = append(r.tables[table], rec.Clone())
	return nil
}

func (r *TableRepository) Put(table, id string, rec record.Record) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.tables[table]
	for i := range rows {
		if rows[i].ID() == id {
			rows[i] = rec.Clone()
			return true, nil
		}
	}
	return false, nil
}

func (r *TableRepository) Remove(table, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.tables[table]
	kept := rows[:0:0]
	for _, row := range rows {
		if row.ID() != id {
			kept = append(kept, row)
		}
	}
	r.tables[table] = kept
	return len(kept) != len(rows), nil
}

func (r *TableRepository) ReplaceAll(table string, recs []record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tables[table] = cloneRows(recs)
	return nil
}

func (r *TableRepository) Close() error { return nil }

func cloneRows(rows []record.Record) []record.Record {
	out := make([]record.Record, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}
