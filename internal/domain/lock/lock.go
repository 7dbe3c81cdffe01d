// Package lock keeps advisory task locks on the device so two users of the
// same device do not work the same task at once. Locks are never synced.
package lock

import (
	"fmt"
	"sync"
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/exp/slog"
)

// DefaultTTL is how long a claim holds without being refreshed.
const DefaultTTL = 30 * time.Minute

// SettingShowNoPegawai toggles recording the employee number on a lock.
const SettingShowNoPegawai = "showNoPegawai"

// Owner is the user claiming a task.
type Owner struct {
	ID        string
	Name      string
	NoPegawai string
}

// ClaimResult is the business outcome of Claim. A refused claim is not an error.
type ClaimResult struct {
	Claimed bool
	Lock    record.TaskLock
	Holder  *record.TaskLock
	Message string
}

// LockStatus is what a viewer sees for a task.
type LockStatus struct {
	Locked      bool
	LockedByMe  bool
	By          string
	ByNoPegawai string
	ExpiresAt   string
}

type Manager struct {
	mu    sync.Mutex
	store record.Servicer
	ttl   time.Duration
	now   func() time.Time
	newID func() string
	log   *slog.Logger
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store record.Servicer, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
		newID: func() string { return "lock_" + record.NewID() },
		log:   log.With("component", "locks"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Claim takes the lock when the task is free, expired or already ours. Our own
// claim is refreshed with a new expiry.
func (m *Manager) Claim(taskID, taskType string, owner Owner) (ClaimResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	locks := m.load()

	idx := indexOf(locks, taskID)
	if idx >= 0 {
		held := locks[idx]
		if !expired(held, now) && held.OwnerID != owner.ID {
			return ClaimResult{
				Claimed: false,
				Holder:  &held,
				Message: fmt.Sprintf("claimed by %s", held.OwnerName),
			}, nil
		}
		locks = append(locks[:idx], locks[idx+1:]...)
	}

	lock := record.TaskLock{
		ID:        m.newID(),
		TaskID:    taskID,
		TaskType:  taskType,
		OwnerID:   owner.ID,
		OwnerName: owner.Name,
		StartedAt: record.FormatTime(now),
		ExpiresAt: record.FormatTime(now.Add(m.ttl)),
	}
	if m.showNoPegawai() {
		lock.OwnerNoPegawai = owner.NoPegawai
	}

	if err := m.save(append(locks, lock)); err != nil {
		return ClaimResult{}, err
	}
	m.log.Debug("task claimed", "task_id", taskID, "owner", owner.ID, "expires_at", lock.ExpiresAt)
	return ClaimResult{Claimed: true, Lock: lock}, nil
}

// Release drops the lock of taskID whoever holds it.
func (m *Manager) Release(taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	locks := m.load()
	idx := indexOf(locks, taskID)
	if idx < 0 {
		return nil
	}
	return m.save(append(locks[:idx], locks[idx+1:]...))
}

// IsLocked reports the lock state of taskID for viewerID. An expired lock is
// evicted on the way.
func (m *Manager) IsLocked(taskID, viewerID string) LockStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	locks := m.load()
	idx := indexOf(locks, taskID)
	if idx < 0 {
		return LockStatus{}
	}

	held := locks[idx]
	if expired(held, m.now()) {
		if err := m.save(append(locks[:idx], locks[idx+1:]...)); err != nil {
			m.log.Warn("evicting expired lock failed", "task_id", taskID, "error", err)
		}
		return LockStatus{}
	}
	if held.OwnerID == viewerID {
		return LockStatus{LockedByMe: true, ExpiresAt: held.ExpiresAt}
	}
	return LockStatus{
		Locked:      true,
		By:          held.OwnerName,
		ByNoPegawai: held.OwnerNoPegawai,
		ExpiresAt:   held.ExpiresAt,
	}
}

// SweepExpired removes every expired lock and returns how many went.
func (m *Manager) SweepExpired() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	locks := m.load()
	kept := make([]record.TaskLock, 0, len(locks))
	for _, l := range locks {
		if !expired(l, now) {
			kept = append(kept, l)
		}
	}

	removed := len(locks) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := m.save(kept); err != nil {
		return 0, err
	}
	m.log.Info("expired locks swept", "count", removed)
	return removed, nil
}

func (m *Manager) List() []record.TaskLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.load()
}

func (m *Manager) load() []record.TaskLock {
	return record.DecodeAll[record.TaskLock](m.store.GetAll(record.TableLocks))
}

func (m *Manager) save(locks []record.TaskLock) error {
	rows := make([]record.Record, 0, len(locks))
	for _, l := range locks {
		rec, err := record.Encode(l)
		if err != nil {
			return err
		}
		rows = append(rows, rec)
	}
	if err := m.store.Replace(record.TableLocks, rows); err != nil {
		return fmt.Errorf("save locks: %w", err)
	}
	return nil
}

func (m *Manager) showNoPegawai() bool {
	rec, ok := m.store.GetByID(record.TableSettings, SettingShowNoPegawai)
	return ok && rec.String("value") == "true"
}

func indexOf(locks []record.TaskLock, taskID string) int {
	for i, l := range locks {
		if l.TaskID == taskID {
			return i
		}
	}
	return -1
}

// expired treats an unreadable expiry as expired, so a corrupt lock never blocks a task.
func expired(l record.TaskLock, now time.Time) bool {
	at, err := record.ParseTime(l.ExpiresAt)
	if err != nil {
		return true
	}
	return !now.Before(at)
}
