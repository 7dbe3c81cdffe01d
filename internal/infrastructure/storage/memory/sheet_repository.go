package memory

import (
	"context"
	"sync"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

// SheetRepository keeps the remote service's sheets in process memory.
type SheetRepository struct {
	mu     sync.RWMutex
	sheets map[string][]record.Record
}

func NewSheetRepository() *SheetRepository {
	return &SheetRepository{sheets: make(map[string][]record.Record)}
}

func (r *SheetRepository) Rows(_ context.Context, sheet string) ([]record.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneRows(r.sheets[sheet]), nil
}

func (r *SheetRepository) Append(_ context.Context, sheet string, rows ...record.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.sheets[sheet] = append(r.sheets[sheet], row.Clone())
	}
	return nil
}

func (r *SheetRepository) Replace(_ context.Context, sheet, id string, row record.Record) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.sheets[sheet]
	for i := range rows {
		if rows[i].ID() == id {
			rows[i] = row.Clone()
			return true, nil
		}
	}
	return false, nil
}

func (r *SheetRepository) Delete(_ context.Context, sheet, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows := r.sheets[sheet]
	for i := range rows {
		if rows[i].ID() == id {
			r.sheets[sheet] = append(rows[:i:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *SheetRepository) Truncate(_ context.Context, sheet string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.sheets[sheet])
	delete(r.sheets, sheet)
	return n, nil
}
