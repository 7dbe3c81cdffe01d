package record

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the layout of every createdAt/updatedAt/expiresAt stamp.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Table names.
const (
	TableUsers      = "users"
	TableProduksi   = "produksi"
	TableDistribusi = "distribusi"
	TableLogistik   = "logistik"
	TableSettings   = "settings"
	TableAudit      = "audit"

	// Local-only tables, never sent to the remote service.
	TableLocks   = "taskLocks"
	TableSession = "session"
	TableMeta    = "meta"
)

const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
	FieldPhone     = "phone"
	FieldFoto      = "foto"
)

// RemoteTables are the tables shared with the remote service, in export order.
var RemoteTables = []string{TableUsers, TableProduksi, TableDistribusi, TableLogistik, TableAudit, TableSettings}

// MutableTables are the operational tables pulled by the background loop and cleared by a reset.
var MutableTables = []string{TableProduksi, TableDistribusi, TableLogistik}

// IsLocalOnly reports whether the table never leaves the device.
func IsLocalOnly(table string) bool {
	switch table {
	case TableLocks, TableSession, TableMeta:
		return true
	}
	return false
}

// IsRemote reports whether the table is one of the shared tables.
func IsRemote(table string) bool {
	for _, t := range RemoteTables {
		if t == table {
			return true
		}
	}
	return false
}

// Record is a single row: field name to scalar value.
type Record map[string]any

// ID returns the record id as a string, whatever type it was stored with.
func (r Record) ID() string {
	return r.String(FieldID)
}

// String returns the field formatted as a string, or "" when absent.
func (r Record) String(field string) string {
	return Stringify(r[field])
}

// Clone returns a shallow copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge copies fields over the record and returns it.
func (r Record) Merge(fields Record) Record {
	for k, v := range fields {
		r[k] = v
	}
	return r
}

// Stringify renders scalar values the way a spreadsheet cell would.
// Whole float64 values (JSON numbers) lose the trailing ".0".
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}

// NormalizePhone strips whitespace and leading zeros so "0812..." and "812..." compare equal.
func NormalizePhone(phone any) string {
	return strings.TrimLeft(strings.TrimSpace(Stringify(phone)), "0")
}

// FormatTime renders t in TimeLayout, UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime accepts TimeLayout and RFC3339 variants.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
