package user

import (
	"errors"
	"testing"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

func newTestService(t *testing.T) (*Service, *record.Service) {
	t.Helper()
	store := record.NewService(memory.NewTableRepository(), nil, nil, slog.Default())
	return NewService(store, NewValidator(), slog.Default()), store
}

func validRequest() RegisterRequest {
	return RegisterRequest{
		Nama:  "Siti Aminah",
		Phone: "081298765432",
		PIN:   "4321",
		Role:  "Petugas",
	}
}

func TestService_Register(t *testing.T) {
	svc, store := newTestService(t)

	u, err := svc.Register(validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "petugas", u.Role)
	assert.Equal(t, record.StatusActive, u.Status)
	assert.NotEqual(t, "4321", u.PIN, "pin is stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PIN), []byte("4321")))

	_, ok := store.FindUserByPhone("81298765432")
	assert.True(t, ok)
}

func TestService_Register_Duplicate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Phone = "81298765432"
	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.True(t, errors.Is(err, record.ErrDuplicate))
	assert.Len(t, svc.List(), 1)
}

func TestService_Register_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)

	req := validRequest()
	req.PIN = "12ab"
	_, err := svc.Register(req)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, svc.List())
}

func TestService_SetStatus(t *testing.T) {
	svc, _ := newTestService(t)
	u, err := svc.Register(validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(u.ID, record.StatusInactive))
	users := svc.List()
	require.Len(t, users, 1)
	assert.False(t, users[0].IsActive())

	assert.ErrorIs(t, svc.SetStatus(u.ID, "banned"), ErrInvalidInput)
	assert.ErrorIs(t, svc.SetStatus("missing", record.StatusActive), ErrNotFound)
}

func TestService_ChangePIN(t *testing.T) {
	svc, _ := newTestService(t)
	u, err := svc.Register(validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.ChangePIN(u.ID, "998877"))
	users := svc.List()
	require.Len(t, users, 1)
	assert.True(t, VerifyPIN(users[0].PIN, "998877"))
	assert.False(t, VerifyPIN(users[0].PIN, "4321"))

	assert.ErrorIs(t, svc.ChangePIN(u.ID, "1"), ErrInvalidInput)
}

func TestEffectivePIN(t *testing.T) {
	assert.Equal(t, DefaultPIN, EffectivePIN(record.User{}))
	assert.Equal(t, DefaultPIN, EffectivePIN(record.User{PIN: "  "}))
	assert.Equal(t, "5555", EffectivePIN(record.User{PIN: "5555"}))
}

func TestVerifyPIN(t *testing.T) {
	hash, err := HashPIN("2468")
	require.NoError(t, err)

	assert.True(t, VerifyPIN(hash, "2468"))
	assert.False(t, VerifyPIN(hash, "1234"))
	assert.True(t, VerifyPIN("1234", "1234"))
	assert.False(t, VerifyPIN("1234", "12345"))
}
