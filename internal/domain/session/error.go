package session

import "errors"

var (
	ErrPhoneNotFound   = errors.New("phone number not registered")
	ErrAccountInactive = errors.New("account is inactive")
	ErrWrongPin        = errors.New("wrong pin")
	ErrNotLoggedIn     = errors.New("not logged in")
)

// Codes carried by AuthError.
const (
	CodePhoneNotFound   = "PhoneNotFound"
	CodeAccountInactive = "AccountInactive"
	CodeWrongPin        = "WrongPin"
)

// AuthError is a failed login. errors.Is matches the wrapped sentinel.
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	return e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func authError(code string, err error) error {
	return &AuthError{Code: code, Err: err}
}
