package client

import "errors"

var (
	ErrForbidden = errors.New("admin access required")
)
