package client

import (
	"github.com/sppgdatasystem/bgn/internal/domain/lock"
	"github.com/sppgdatasystem/bgn/internal/domain/session"
)

// ClaimTask блокирует задачу за текущим пользователем
func (a *App) ClaimTask(taskID, taskType string) (lock.ClaimResult, error) {
	s, ok := a.session.CurrentSession()
	if !ok {
		return lock.ClaimResult{}, session.ErrNotLoggedIn
	}
	return a.locks.Claim(taskID, taskType, lock.Owner{
		ID:        s.UserID,
		Name:      s.Nama,
		NoPegawai: s.NoPegawai,
	})
}

func (a *App) ReleaseTask(taskID string) error {
	return a.locks.Release(taskID)
}

// TaskStatus возвращает состояние блокировки с точки зрения текущего пользователя
func (a *App) TaskStatus(taskID string) lock.LockStatus {
	viewer := ""
	if s, ok := a.session.CurrentSession(); ok {
		viewer = s.UserID
	}
	return a.locks.IsLocked(taskID, viewer)
}
