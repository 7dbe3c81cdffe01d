package client

import (
	"context"

	"github.com/sppgdatasystem/bgn/internal/domain/sync"
)

// StartAutoSync запускает фоновый цикл синхронизации до Close или отмены ctx
func (a *App) StartAutoSync(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return
	}
	if !a.engine.Configured() {
		a.log.Info("remote not configured, auto sync disabled")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.engine.Run(ctx)
	}()
}

// SyncReport итог ручной полной синхронизации
type SyncReport struct {
	Pulled map[string]sync.PullOutcome  `json:"pulled"`
	Pushed map[string]sync.MergeOutcome `json:"pushed"`
	Status sync.Status                  `json:"status"`
}

// SyncNow отправляет локальные записи и затем подтягивает рабочие таблицы
func (a *App) SyncNow(ctx context.Context) (SyncReport, error) {
	if !a.engine.Configured() {
		return SyncReport{}, sync.ErrNotConfigured
	}
	if _, err := a.engine.Ping(ctx); err != nil {
		return SyncReport{Status: a.engine.Status()}, err
	}

	report := SyncReport{
		Pushed: a.engine.PushAll(ctx, sync.PushTables),
		Pulled: a.engine.PullAll(ctx, sync.LoopTables),
	}
	report.Status = a.engine.Status()
	return report, nil
}
