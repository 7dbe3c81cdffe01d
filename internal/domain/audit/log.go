package audit

import (
	"sync"
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/exp/slog"
)

// Actions recorded in the audit table.
const (
	ActionAdd    = "add"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionImport = "import"
	ActionReset  = "RESET_DATA"
)

// SystemActor is recorded when no session is active.
const SystemActor = "System"

// ActorSource names the user performing the current action.
type ActorSource interface {
	CurrentUserName() (string, bool)
}

// Log is the append-only audit trail. It writes straight to the repository so
// appending an entry never triggers another audit or a push.
type Log struct {
	mu    sync.RWMutex
	repo  record.Repository
	actor ActorSource
	now   func() time.Time
	newID func() string
	log   *slog.Logger
}

func NewLog(repo record.Repository, log *slog.Logger) *Log {
	return &Log{
		repo:  repo,
		now:   time.Now,
		newID: record.NewID,
		log:   log.With("component", "audit"),
	}
}

// SetActorSource wires the session that names entries.
func (l *Log) SetActorSource(src ActorSource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actor = src
}

// SetClock overrides time.Now, for tests.
func (l *Log) SetClock(now func() time.Time) {
	l.now = now
}

// Append records one action. Persistence failures are logged; the entry is returned either way.
func (l *Log) Append(action, detail string) record.AuditEntry {
	ts := l.now()
	entry := record.AuditEntry{
		ID:     l.newID(),
		Action: action,
		Detail: detail,
		User:   l.actorName(),
		Time:   ts.Format("15:04"),
		Date:   ts.Format("2006-01-02"),
	}

	rec, err := record.Encode(entry)
	if err == nil {
		err = l.repo.Insert(record.TableAudit, rec)
	}
	if err != nil {
		l.log.Error("audit append failed", "action", action, "error", err)
	}
	return entry
}

// List returns entries oldest first.
func (l *Log) List() []record.AuditEntry {
	rows, err := l.repo.Load(record.TableAudit)
	if err != nil {
		l.log.Warn("audit unreadable", "error", err)
		return []record.AuditEntry{}
	}
	return record.DecodeAll[record.AuditEntry](rows)
}

// ListByDate returns entries of a single day, date as YYYY-MM-DD.
func (l *Log) ListByDate(date string) []record.AuditEntry {
	var out []record.AuditEntry
	for _, e := range l.List() {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return out
}

func (l *Log) actorName() string {
	l.mu.RLock()
	src := l.actor
	l.mu.RUnlock()

	if src == nil {
		return SystemActor
	}
	if name, ok := src.CurrentUserName(); ok && name != "" {
		return name
	}
	return SystemActor
}
