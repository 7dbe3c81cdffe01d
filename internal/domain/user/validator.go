package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

// Roles accepted on registration.
var Roles = []string{record.RoleAdmin, record.RolePetugas, "editor", "koordinator", "staff", "aslab"}

// RegisterRequest carries the roster form.
type RegisterRequest struct {
	Nama      string `validate:"required,min=2,max=80"`
	Phone     string `validate:"required,numeric,min=8,max=15"`
	PIN       string `validate:"required,numeric,min=4,max=6"`
	NoPegawai string `validate:"omitempty,max=32"`
	Jabatan   string `validate:"omitempty,max=80"`
	Role      string `validate:"required,role"`
}

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateRegister(req RegisterRequest) error
	ValidatePIN(pin string) error
	ValidateStatus(status string) error
}

type StructValidator struct {
	v *validator.Validate
}

func NewValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := strings.ToLower(fl.Field().String())
		for _, r := range Roles {
			if r == role {
				return true
			}
		}
		return false
	})
	return &StructValidator{v: v}
}

func (sv *StructValidator) ValidateRegister(req RegisterRequest) error {
	return humanize(sv.v.Struct(req))
}

func (sv *StructValidator) ValidatePIN(pin string) error {
	if err := sv.v.Var(pin, "required,numeric,min=4,max=6"); err != nil {
		return errors.New("pin must be 4 to 6 digits")
	}
	return nil
}

func (sv *StructValidator) ValidateStatus(status string) error {
	if status != record.StatusActive && status != record.StatusInactive {
		return fmt.Errorf("status must be %s or %s", record.StatusActive, record.StatusInactive)
	}
	return nil
}

// humanize turns the first field error into a short message.
func humanize(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "numeric":
		return fmt.Errorf("%s must contain digits only", field)
	case "min":
		return fmt.Errorf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", field, fe.Param())
	case "role":
		return fmt.Errorf("role must be one of %s", strings.Join(Roles, ", "))
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
