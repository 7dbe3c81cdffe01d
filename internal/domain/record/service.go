package record

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Servicer is the table store contract the rest of the client works against.
type Servicer interface {
	GetAll(table string) []Record
	GetByID(table, id string) (Record, bool)
	FindUserByPhone(phone string) (Record, bool)
	Add(table string, rec Record) Record
	Update(table, id string, fields Record) (Record, error)
	Delete(table, id string) bool
	Replace(table string, recs []Record) error
}

// Service is the persistent table store. Every mutation outside the audit and
// local-only tables is audited and forwarded to the pusher.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	audit  Auditor
	pusher Pusher
	now    func() time.Time
	newID  func() string
	log    *slog.Logger
}

type Option func(*Service)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides NewID.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService builds the store. audit and pusher may be nil.
func NewService(repo Repository, audit Auditor, pusher Pusher, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		audit:  audit,
		pusher: pusher,
		now:    time.Now,
		newID:  NewID,
		log:    log.With("component", "store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a time-ordered unique token.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Service) GetAll(table string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(table)
}

func (s *Service) GetByID(table, id string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return find(s.load(table), id)
}

func (s *Service) FindUserByPhone(phone string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return findByPhone(s.load(TableUsers), phone)
}

// Add assigns an id when missing, stamps createdAt and appends the record.
// A users record whose normalized phone already exists is not inserted; the
// existing record is returned instead.
func (s *Service) Add(table string, rec Record) Record {
	s.mu.Lock()

	if table == TableUsers && rec.String(FieldPhone) != "" {
		if existing, ok := findByPhone(s.load(table), rec.String(FieldPhone)); ok {
			s.mu.Unlock()
			s.log.Info("user with this phone already exists", "phone", rec.String(FieldPhone), "id", existing.ID())
			return existing
		}
	}

	item := rec.Clone()
	if item.ID() == "" {
		item[FieldID] = s.newID()
	}
	item[FieldCreatedAt] = FormatTime(s.now())

	if err := s.repo.Insert(table, item); err != nil {
		s.mu.Unlock()
		s.log.Error("insert failed", "table", table, "error", err)
		return item
	}
	s.mu.Unlock()

	s.afterMutation(OpAdd, table, item, fmt.Sprintf("added to %s", table))
	return item.Clone()
}

// Update merges fields into the record and stamps updatedAt.
func (s *Service) Update(table, id string, fields Record) (Record, error) {
	if table == TableAudit {
		return nil, ErrAppendOnly
	}

	s.mu.Lock()
	current, ok := find(s.load(table), id)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s/%s: %w", table, id, ErrNotFound)
	}

	// id is pinned to the stored value, a caller cannot rename the record
	updated := current.Clone().Merge(fields)
	updated[FieldID] = current[FieldID]
	updated[FieldUpdatedAt] = FormatTime(s.now())

	found, err := s.repo.Put(table, id, updated)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	if !found {
		return nil, fmt.Errorf("%s/%s: %w", table, id, ErrNotFound)
	}

	s.afterMutation(OpUpdate, table, updated, fmt.Sprintf("updated in %s", table))
	return updated.Clone(), nil
}

// Delete removes the record. Removing an absent id still succeeds.
func (s *Service) Delete(table, id string) bool {
	if table == TableAudit {
		s.log.Warn("refusing to delete audit entry", "id", id)
		return false
	}

	s.mu.Lock()
	if _, err := s.repo.Remove(table, id); err != nil {
		s.mu.Unlock()
		s.log.Error("remove failed", "table", table, "id", id, "error", err)
		return false
	}
	s.mu.Unlock()

	s.afterMutation(OpDelete, table, Record{FieldID: id}, fmt.Sprintf("deleted from %s", table))
	return true
}

// Replace swaps the whole table. It is neither audited nor pushed.
func (s *Service) Replace(table string, recs []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.ReplaceAll(table, recs); err != nil {
		return fmt.Errorf("replace %s: %w", table, err)
	}
	return nil
}

func (s *Service) afterMutation(op Op, table string, rec Record, detail string) {
	if table == TableAudit || IsLocalOnly(table) {
		return
	}
	if s.audit != nil {
		s.audit.Append(string(op), detail)
	}
	if s.pusher != nil {
		s.pusher.PushAsync(op, table, rec.Clone())
	}
}

func (s *Service) load(table string) []Record {
	rows, err := s.repo.Load(table)
	if err != nil {
		s.log.Warn("table unreadable, treating as empty", "table", table, "error", err)
		return []Record{}
	}
	if rows == nil {
		return []Record{}
	}
	return rows
}

func find(rows []Record, id string) (Record, bool) {
	for _, r := range rows {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

func findByPhone(rows []Record, phone string) (Record, bool) {
	norm := NormalizePhone(phone)
	if norm == "" {
		return nil, false
	}
	for _, r := range rows {
		if NormalizePhone(r[FieldPhone]) == norm {
			return r, true
		}
	}
	return nil, false
}
