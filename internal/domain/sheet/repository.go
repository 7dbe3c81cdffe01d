package sheet

import (
	"context"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

// Repository stores the rows of each sheet in insertion order. Ids are
// compared as strings.
type Repository interface {
	Rows(ctx context.Context, sheet string) ([]record.Record, error)
	Append(ctx context.Context, sheet string, rows ...record.Record) error
	// Replace overwrites the first row with the id. It reports false when none matches.
	Replace(ctx context.Context, sheet, id string, row record.Record) (bool, error)
	// Delete removes the first row with the id.
	Delete(ctx context.Context, sheet, id string) (bool, error)
	Truncate(ctx context.Context, sheet string) (int, error)
}
