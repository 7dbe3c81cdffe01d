package sync

import (
	"context"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

// Remote is the tabular service the engine talks to. Implementations map
// transport and {success:false} replies onto the errors of this package.
type Remote interface {
	Configured() bool
	Ping(ctx context.Context) (PingInfo, error)
	GetAll(ctx context.Context, sheet string) ([]record.Record, error)
	AddItem(ctx context.Context, sheet string, item record.Record) (string, error)
	UpdateItem(ctx context.Context, sheet, id string, item record.Record) error
	DeleteItem(ctx context.Context, sheet, id string) error
	Sync(ctx context.Context, sheet string, items []record.Record) (int, error)
	GetSettings(ctx context.Context) ([]record.Setting, error)
	SetSetting(ctx context.Context, id, value string) error
	GetBranding(ctx context.Context) (Branding, error)
	ResetData(ctx context.Context, user string) (string, error)
}

// SessionChecker gates the background loop on a logged-in user.
type SessionChecker interface {
	Active() bool
}
