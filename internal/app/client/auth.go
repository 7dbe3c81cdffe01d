package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sppgdatasystem/bgn/internal/domain/audit"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/session"
	"github.com/sppgdatasystem/bgn/internal/domain/sync"
	"github.com/sppgdatasystem/bgn/internal/domain/user"
)

// Login подтягивает свежий список пользователей, если сервис доступен,
// открывает сессию и затем обновляет настройки. Сбой сети не мешает входу.
func (a *App) Login(ctx context.Context, phone, pin string) (session.Session, error) {
	if a.engine.Configured() {
		if _, err := a.engine.Pull(ctx, record.TableUsers); err != nil {
			a.log.Warn("users pull before login failed, using local roster", "error", err)
		}
	}

	s, err := a.session.Login(phone, pin)
	if err != nil {
		return session.Session{}, err
	}

	if a.engine.Configured() {
		if _, err := a.engine.PullSettings(ctx); err != nil {
			a.log.Warn("settings pull after login failed", "error", err)
		}
	}
	return s, nil
}

func (a *App) Logout() error {
	return a.session.Logout()
}

// ResetResult описывает итог сброса данных
type ResetResult struct {
	Remote      bool     `json:"remote"`
	Message     string   `json:"message"`
	LocalTables []string `json:"localTables"`
}

// ResetRemoteData очищает рабочие таблицы на сервисе и на устройстве.
// Нужна сессия администратора и повторный ввод его PIN.
func (a *App) ResetRemoteData(ctx context.Context, pin string) (ResetResult, error) {
	s, ok := a.session.CurrentSession()
	if !ok {
		return ResetResult{}, session.ErrNotLoggedIn
	}
	if !s.IsAdmin() {
		return ResetResult{}, ErrForbidden
	}

	rec, ok := a.store.GetByID(record.TableUsers, s.UserID)
	if !ok {
		return ResetResult{}, session.ErrPhoneNotFound
	}
	u, err := record.Decode[record.User](rec)
	if err != nil {
		return ResetResult{}, fmt.Errorf("decode user: %w", err)
	}
	if !user.VerifyPIN(user.EffectivePIN(u), pin) {
		return ResetResult{}, session.ErrWrongPin
	}

	var res ResetResult
	msg, err := a.engine.ResetRemote(ctx, s.Nama)
	switch {
	case err == nil:
		res.Remote = true
		res.Message = msg
	case errors.Is(err, sync.ErrNotConfigured):
		res.Message = "offline: only local data was reset"
	default:
		return ResetResult{}, err
	}

	cleared := append([]string{}, record.MutableTables...)
	cleared = append(cleared, record.TableLocks)
	for _, table := range cleared {
		if err := a.store.Replace(table, nil); err != nil {
			return res, fmt.Errorf("clear %s: %w", table, err)
		}
	}
	res.LocalTables = cleared

	a.audit.Append(audit.ActionReset, "reset: "+strings.Join(record.MutableTables, ", "))
	return res, nil
}
