package record

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("duplicate record")
	ErrInvalidFormat = errors.New("invalid record format")
	ErrAppendOnly    = errors.New("table is append-only")
)
