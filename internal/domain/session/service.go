package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/audit"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/user"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Login(phone, pin string) (Session, error)
	CurrentSession() (Session, bool)
	Logout() error
	CurrentUserName() (string, bool)
	Active() bool
}

// Service keeps the one current session of the device. The persisted row is
// read once and cached.
type Service struct {
	mu     sync.RWMutex
	repo   Repository
	audit  record.Auditor
	now    func() time.Time
	log    *slog.Logger
	loaded bool
	cur    *Session
}

func NewService(repo Repository, auditor record.Auditor, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		audit: auditor,
		now:   time.Now,
		log:   log.With("component", "session"),
	}
}

// SetClock overrides time.Now, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Login authenticates by phone and PIN. An active user wins over inactive
// duplicates of the same phone.
func (s *Service) Login(phone, pin string) (Session, error) {
	matches := s.repo.UsersByPhone(phone)
	if len(matches) == 0 {
		return Session{}, authError(CodePhoneNotFound, ErrPhoneNotFound)
	}

	var candidate *record.User
	for i := range matches {
		if matches[i].IsActive() {
			candidate = &matches[i]
			break
		}
	}
	if candidate == nil {
		return Session{}, authError(CodeAccountInactive, ErrAccountInactive)
	}

	if !user.VerifyPIN(user.EffectivePIN(*candidate), pin) {
		s.log.Info("login rejected", "user_id", candidate.ID)
		return Session{}, authError(CodeWrongPin, ErrWrongPin)
	}

	sess := fromUser(*candidate, record.FormatTime(s.now()))
	if err := s.repo.Save(sess); err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	s.cur = &sess
	s.loaded = true
	s.mu.Unlock()

	if s.audit != nil {
		s.audit.Append(audit.ActionLogin, fmt.Sprintf("%s login", sess.Nama))
	}
	s.log.Info("logged in", "user_id", sess.UserID, "role", sess.Role)
	return sess, nil
}

func (s *Service) CurrentSession() (Session, bool) {
	s.mu.RLock()
	if s.loaded {
		defer s.mu.RUnlock()
		if s.cur == nil {
			return Session{}, false
		}
		return *s.cur, true
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		if sess, ok := s.repo.Load(); ok {
			s.cur = &sess
		}
		s.loaded = true
	}
	if s.cur == nil {
		return Session{}, false
	}
	return *s.cur, true
}

// Logout records the logout while the session still names the actor, then clears it.
func (s *Service) Logout() error {
	sess, ok := s.CurrentSession()
	if ok && s.audit != nil {
		s.audit.Append(audit.ActionLogout, fmt.Sprintf("%s logout", sess.Nama))
	}

	if err := s.repo.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	s.mu.Lock()
	s.cur = nil
	s.loaded = true
	s.mu.Unlock()
	return nil
}

func (s *Service) CurrentUserName() (string, bool) {
	sess, ok := s.CurrentSession()
	if !ok {
		return "", false
	}
	return sess.Nama, true
}

func (s *Service) Active() bool {
	_, ok := s.CurrentSession()
	return ok
}

// Reset drops the cached session so the next read goes to the repository.
func (s *Service) Reset() {
	s.mu.Lock()
	s.cur = nil
	s.loaded = false
	s.mu.Unlock()
}
