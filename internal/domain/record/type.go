package record

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	RoleAdmin   = "admin"
	RolePetugas = "petugas"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is a row of the users table.
type User struct {
	ID        string `mapstructure:"id"`
	Nama      string `mapstructure:"nama"`
	Phone     string `mapstructure:"phone"`
	PIN       string `mapstructure:"pin"`
	NoPegawai string `mapstructure:"noPegawai"`
	Jabatan   string `mapstructure:"jabatan"`
	Role      string `mapstructure:"role"`
	Status    string `mapstructure:"status"`
	CreatedAt string `mapstructure:"createdAt"`
}

func (u User) IsAdmin() bool  { return strings.EqualFold(u.Role, RoleAdmin) }
func (u User) IsActive() bool { return u.Status == StatusActive }

// Setting is a row of the settings table.
type Setting struct {
	ID        string `mapstructure:"id"`
	Value     string `mapstructure:"value"`
	UpdatedAt string `mapstructure:"updatedAt"`
	UpdatedBy string `mapstructure:"updatedBy"`
}

// AuditEntry is an immutable row of the audit table.
type AuditEntry struct {
	ID     string `mapstructure:"id"`
	Action string `mapstructure:"aksi"`
	Detail string `mapstructure:"detail"`
	User   string `mapstructure:"user"`
	Time   string `mapstructure:"waktu"`
	Date   string `mapstructure:"tanggal"`
}

// Timestamp joins the date and time columns.
func (a AuditEntry) Timestamp() string {
	return strings.TrimSpace(a.Date + " " + a.Time)
}

// TaskLock is a row of the local taskLocks table.
type TaskLock struct {
	ID             string `mapstructure:"id"`
	TaskID         string `mapstructure:"taskId"`
	TaskType       string `mapstructure:"taskType"`
	OwnerID        string `mapstructure:"userId"`
	OwnerName      string `mapstructure:"userName"`
	OwnerNoPegawai string `mapstructure:"userNoPegawai"`
	StartedAt      string `mapstructure:"startedAt"`
	ExpiresAt      string `mapstructure:"expiresAt"`
}

type Produksi struct {
	ID        string `mapstructure:"id"`
	Step      string `mapstructure:"step"`
	Label     string `mapstructure:"label"`
	Tanggal   string `mapstructure:"tanggal"`
	Waktu     string `mapstructure:"waktu"`
	User      string `mapstructure:"user"`
	FotoFile  string `mapstructure:"fotoFile"`
	FotoCount int    `mapstructure:"fotoCount"`
}

type Distribusi struct {
	ID        string `mapstructure:"id"`
	Kloter    string `mapstructure:"kloter"`
	Sekolah   string `mapstructure:"sekolah"`
	JumlahBox int    `mapstructure:"jumlahBox"`
	Driver    string `mapstructure:"driver"`
	Status    string `mapstructure:"status"`
	Tanggal   string `mapstructure:"tanggal"`
	Waktu     string `mapstructure:"waktu"`
	User      string `mapstructure:"user"`
	FotoFile  string `mapstructure:"fotoFile"`
}

type Logistik struct {
	ID       string  `mapstructure:"id"`
	Nama     string  `mapstructure:"nama"`
	Berat    float64 `mapstructure:"berat"`
	Harga    float64 `mapstructure:"harga"`
	QCStatus string  `mapstructure:"qcStatus"`
	Supplier string  `mapstructure:"supplier"`
	Tanggal  string  `mapstructure:"tanggal"`
	Waktu    string  `mapstructure:"waktu"`
	User     string  `mapstructure:"user"`
	FotoFile string  `mapstructure:"fotoFile"`
}

// Decode converts a Record into a typed row. Decoding is weakly typed because
// values coming back from the sheet may be numbers where strings are expected.
// Empty cells ("") decode to zero values of numeric fields.
func Decode[T any](r Record) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook:       boolToText,
	})
	if err != nil {
		return out, fmt.Errorf("decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return out, nil
}

// boolToText keeps sheet booleans readable: weak decoding alone would turn true into "1".
func boolToText(from, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.Bool && to.Kind() == reflect.String {
		return strconv.FormatBool(data.(bool)), nil
	}
	return data, nil
}

// DecodeAll decodes rows, skipping the ones that do not fit T.
func DecodeAll[T any](rows []Record) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := Decode[T](r)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Encode converts a typed row back into a Record.
func Encode(v any) (Record, error) {
	out := Record{}
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return out, nil
}
