package session

import (
	"fmt"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/exp/slog"
)

type Repository interface {
	UsersByPhone(phone string) []record.User
	Save(s Session) error
	Load() (Session, bool)
	Clear() error
}

func NewRepo(store record.Servicer, log *slog.Logger) Repository {
	return &repository{
		store: store,
		log:   log,
	}
}

type repository struct {
	store record.Servicer
	log   *slog.Logger
}

// UsersByPhone returns every user whose normalized phone matches, in table order.
func (r *repository) UsersByPhone(phone string) []record.User {
	norm := record.NormalizePhone(phone)
	if norm == "" {
		return nil
	}

	var out []record.User
	for _, row := range r.store.GetAll(record.TableUsers) {
		if record.NormalizePhone(row[record.FieldPhone]) != norm {
			continue
		}
		u, err := record.Decode[record.User](row)
		if err != nil {
			r.log.Warn("skipping malformed user row", "id", row.ID(), "error", err)
			continue
		}
		out = append(out, u)
	}
	return out
}

// Save writes the session silently: it is local state and never audited or pushed.
func (r *repository) Save(s Session) error {
	rec, err := record.Encode(s)
	if err != nil {
		return err
	}
	rec[record.FieldID] = CurrentID
	if err := r.store.Replace(record.TableSession, []record.Record{rec}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *repository) Load() (Session, bool) {
	rec, ok := r.store.GetByID(record.TableSession, CurrentID)
	if !ok {
		return Session{}, false
	}
	s, err := record.Decode[Session](rec)
	if err != nil || s.UserID == "" {
		return Session{}, false
	}
	return s, true
}

func (r *repository) Clear() error {
	return r.store.Replace(record.TableSession, []record.Record{})
}
