package user

import (
	"errors"
	"fmt"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

var (
	ErrNotFound     = fmt.Errorf("user: %w", record.ErrNotFound)
	ErrDuplicate    = fmt.Errorf("user: phone already registered: %w", record.ErrDuplicate)
	ErrInvalidInput = errors.New("invalid input")
)
