package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/exp/slog"
)

// SheetRepository хранит строки листов в таблице sheet_rows.
// Порядок строк задает pos, полезная нагрузка лежит в JSONB.
type SheetRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSheetRepository(pool *pgxpool.Pool, log *slog.Logger) *SheetRepository {
	return &SheetRepository{
		pool: pool,
		log:  log.With("component", "sheet_repository"),
	}
}

func (r *SheetRepository) Rows(ctx context.Context, sheet string) ([]record.Record, error) {
	const query = `SELECT pos, data FROM sheet_rows WHERE sheet = $1 ORDER BY pos`

	rows, err := r.pool.Query(ctx, query, sheet)
	if err != nil {
		r.log.Error("failed to list rows", "sheet", sheet, "error", err)
		return nil, fmt.Errorf("list rows: %w", err)
	}
	defer rows.Close()

	out := []record.Record{}
	for rows.Next() {
		var (
			pos  int64
			data []byte
		)
		if err := rows.Scan(&pos, &data); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var rec record.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			r.log.Warn("skipping malformed row", "sheet", sheet, "pos", pos, "error", err)
			continue
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

func (r *SheetRepository) Append(ctx context.Context, sheet string, recs ...record.Record) error {
	const query = `INSERT INTO sheet_rows (sheet, row_id, data) VALUES ($1, $2, $3::jsonb)`

	batch := &pgx.Batch{}
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal row: %w", err)
		}
		batch.Queue(query, sheet, rec.ID(), data)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		r.log.Error("failed to append rows", "sheet", sheet, "count", len(recs), "error", err)
		return fmt.Errorf("append rows: %w", err)
	}
	return nil
}

func (r *SheetRepository) Replace(ctx context.Context, sheet, id string, rec record.Record) (bool, error) {
	const query = `
		UPDATE sheet_rows
		SET data = $3::jsonb, row_id = $4, updated_at = NOW()
		WHERE pos = (SELECT MIN(pos) FROM sheet_rows WHERE sheet = $1 AND row_id = $2)`

	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("marshal row: %w", err)
	}

	newID := rec.ID()
	if newID == "" {
		newID = id
	}
	result, err := r.pool.Exec(ctx, query, sheet, id, data, newID)
	if err != nil {
		r.log.Error("failed to replace row", "sheet", sheet, "id", id, "error", err)
		return false, fmt.Errorf("replace row: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *SheetRepository) Delete(ctx context.Context, sheet, id string) (bool, error) {
	const query = `
		DELETE FROM sheet_rows
		WHERE pos = (SELECT MIN(pos) FROM sheet_rows WHERE sheet = $1 AND row_id = $2)`

	result, err := r.pool.Exec(ctx, query, sheet, id)
	if err != nil {
		r.log.Error("failed to delete row", "sheet", sheet, "id", id, "error", err)
		return false, fmt.Errorf("delete row: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *SheetRepository) Truncate(ctx context.Context, sheet string) (int, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM sheet_rows WHERE sheet = $1`, sheet)
	if err != nil {
		return 0, fmt.Errorf("truncate %s: %w", sheet, err)
	}
	return int(result.RowsAffected()), nil
}
