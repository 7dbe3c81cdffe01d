package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(req RegisterRequest) (record.User, error)
	List() []record.User
	SetStatus(id, status string) error
	ChangePIN(id, pin string) error
}

// Service manages the roster on top of the table store, so every change is
// audited and pushed like any other mutation.
type Service struct {
	store     record.Servicer
	validator Validator
	log       *slog.Logger
}

func NewService(store record.Servicer, validator Validator, log *slog.Logger) *Service {
	return &Service{
		store:     store,
		validator: validator,
		log:       log.With("component", "users"),
	}
}

func (s *Service) Register(req RegisterRequest) (record.User, error) {
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if err := s.validator.ValidateRegister(req); err != nil {
		s.log.Debug("validation failed", "phone", req.Phone, "error", err)
		return record.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, exists := s.store.FindUserByPhone(req.Phone); exists {
		return record.User{}, ErrDuplicate
	}

	hash, err := HashPIN(req.PIN)
	if err != nil {
		return record.User{}, err
	}

	rec, err := record.Encode(record.User{
		Nama:      strings.TrimSpace(req.Nama),
		Phone:     req.Phone,
		PIN:       hash,
		NoPegawai: req.NoPegawai,
		Jabatan:   req.Jabatan,
		Role:      req.Role,
		Status:    record.StatusActive,
	})
	if err != nil {
		return record.User{}, err
	}
	delete(rec, record.FieldID)
	delete(rec, record.FieldCreatedAt)

	added := s.store.Add(record.TableUsers, rec)
	s.log.Info("user registered", "id", added.ID(), "role", req.Role)
	return record.Decode[record.User](added)
}

// List returns the roster in table order. Rows that cannot be decoded are skipped.
func (s *Service) List() []record.User {
	return record.DecodeAll[record.User](s.store.GetAll(record.TableUsers))
}

func (s *Service) SetStatus(id, status string) error {
	if err := s.validator.ValidateStatus(status); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.update(id, record.Record{"status": status})
}

func (s *Service) ChangePIN(id, pin string) error {
	if err := s.validator.ValidatePIN(pin); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hash, err := HashPIN(pin)
	if err != nil {
		return err
	}
	return s.update(id, record.Record{"pin": hash})
}

func (s *Service) update(id string, fields record.Record) error {
	if _, err := s.store.Update(record.TableUsers, id, fields); err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
