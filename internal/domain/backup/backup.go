package backup

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/audit"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/crypto"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

// Version of the archive layout.
const Version = "1.0"

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	keyVersion    = "version"
	keyExportedAt = "exportedAt"
)

// Service exports the shared tables and restores them from an archive.
type Service struct {
	store record.Servicer
	audit record.Auditor
	now   func() time.Time
	log   *slog.Logger
}

func NewService(store record.Servicer, auditor record.Auditor, log *slog.Logger) *Service {
	return &Service{
		store: store,
		audit: auditor,
		now:   time.Now,
		log:   log.With("component", "backup"),
	}
}

// SetClock overrides time.Now, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Export writes every remote table plus version and exportedAt.
func (s *Service) Export(format string) ([]byte, error) {
	archive := map[string]any{
		keyVersion:    Version,
		keyExportedAt: record.FormatTime(s.now()),
	}
	for _, table := range record.RemoteTables {
		archive[table] = s.store.GetAll(table)
	}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		return json.MarshalIndent(archive, "", "  ")
	case FormatYAML:
		return yaml.Marshal(archive)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// ExportEncrypted seals a JSON export with a passphrase.
func (s *Service) ExportEncrypted(passphrase string) ([]byte, error) {
	data, err := s.Export(FormatJSON)
	if err != nil {
		return nil, err
	}
	return crypto.Seal(passphrase, data)
}

// Import replaces every table present in the archive. A malformed archive
// changes nothing. It returns the restored table names.
func (s *Service) Import(data []byte) ([]string, error) {
	tables, err := parse(data)
	if err != nil {
		return nil, err
	}

	restored := make([]string, 0, len(tables))
	for _, table := range record.RemoteTables {
		rows, ok := tables[table]
		if !ok {
			continue
		}
		if err := s.store.Replace(table, rows); err != nil {
			return restored, fmt.Errorf("restore %s: %w", table, err)
		}
		restored = append(restored, table)
	}

	if s.audit != nil {
		s.audit.Append(audit.ActionImport, "imported: "+strings.Join(restored, ", "))
	}
	s.log.Info("backup imported", "tables", restored)
	return restored, nil
}

// ImportEncrypted opens a sealed archive and imports it.
func (s *Service) ImportEncrypted(data []byte, passphrase string) ([]string, error) {
	plain, err := crypto.Open(passphrase, data)
	if err != nil {
		return nil, err
	}
	return s.Import(plain)
}

// parse accepts the JSON layout and the YAML produced by Export.
func parse(data []byte) (map[string][]record.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		if yerr := yaml.Unmarshal(data, &raw); yerr != nil || raw == nil {
			return nil, fmt.Errorf("%w: %v", record.ErrInvalidFormat, err)
		}
	}

	out := make(map[string][]record.Record)
	for key, val := range raw {
		if key == keyVersion || key == keyExportedAt || !record.IsRemote(key) {
			continue
		}
		rows, err := toRows(val)
		if err != nil {
			return nil, fmt.Errorf("%w: table %s: %v", record.ErrInvalidFormat, key, err)
		}
		out[key] = rows
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no tables in archive", record.ErrInvalidFormat)
	}
	return out, nil
}

func toRows(val any) ([]record.Record, error) {
	if val == nil {
		return []record.Record{}, nil
	}
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", val)
	}
	rows := make([]record.Record, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d is %T", i, item)
		}
		rows = append(rows, record.Record(m))
	}
	return rows, nil
}

// Tables lists the table names of an archive without importing it.
func Tables(data []byte) ([]string, error) {
	tables, err := parse(data)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
