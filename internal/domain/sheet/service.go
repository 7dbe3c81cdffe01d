package sheet

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/audit"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Query(ctx context.Context, req Request) Response
	Command(ctx context.Context, req Request) Response
	Seed(ctx context.Context) error
}

// Service is the remote tabular service. Writes are serialized so the
// duplicate and existence checks see a stable sheet.
type Service struct {
	mu     sync.Mutex
	repo   Repository
	apiKey string
	now    func() time.Time
	log    *slog.Logger
}

func NewService(repo Repository, apiKey string, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		apiKey: apiKey,
		now:    time.Now,
		log:    log.With("component", "sheets"),
	}
}

// SetClock overrides time.Now, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Query serves the GET channel.
func (s *Service) Query(ctx context.Context, req Request) Response {
	switch req.Action {
	case ActionPing:
		return Response{Success: true, Message: ReadyMessage, Version: APIVersion}
	case ActionGetAll:
		return s.getAll(ctx, req.Sheet)
	case ActionGetBranding:
		return s.branding(ctx)
	case ActionGetSettings:
		return s.settings(ctx)
	case ActionSetSetting:
		return s.setSetting(ctx, req.ID, req.Value)
	case ActionAddItem, ActionUpdateItem, ActionDeleteItem:
		if !s.authorized(req.APIKey) {
			return fail(MsgInvalidAPIKey)
		}
		return s.write(ctx, req)
	default:
		return fail(MsgInvalidAction)
	}
}

// Command serves the POST channel. Every command needs the api key.
func (s *Service) Command(ctx context.Context, req Request) Response {
	if !s.authorized(req.APIKey) {
		return fail(MsgInvalidAPIKey)
	}

	switch req.Action {
	case ActionAdd, ActionUpdate, ActionDelete:
		return s.write(ctx, req)
	case ActionSync:
		return s.sync(ctx, req.Sheet, req.Items)
	case ActionResetData:
		return s.reset(ctx, req.User)
	default:
		return fail(MsgInvalidAction)
	}
}

func (s *Service) authorized(key string) bool {
	if key == "" || s.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(s.apiKey)) == 1
}

func (s *Service) write(ctx context.Context, req Request) Response {
	switch req.Action {
	case ActionAdd, ActionAddItem:
		return s.add(ctx, req.Sheet, req.Item)
	case ActionUpdate, ActionUpdateItem:
		return s.update(ctx, req.Sheet, req.ID, req.Item)
	default:
		return s.delete(ctx, req.Sheet, req.ID)
	}
}

func (s *Service) getAll(ctx context.Context, sheet string) Response {
	if !Known(sheet) {
		return fail(fmt.Sprintf("%s: %s", MsgSheetNotFound, sheet))
	}
	rows, err := s.repo.Rows(ctx, sheet)
	if err != nil {
		return s.internal("getAll", err)
	}
	return Response{Success: true, Data: rows}
}

func (s *Service) add(ctx context.Context, sheet string, item record.Record) Response {
	if !Known(sheet) {
		return fail(fmt.Sprintf("%s: %s", MsgSheetNotFound, sheet))
	}
	if item == nil {
		return fail(MsgInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sheet == record.TableUsers && record.NormalizePhone(item[record.FieldPhone]) != "" {
		rows, err := s.repo.Rows(ctx, sheet)
		if err != nil {
			return s.internal("add", err)
		}
		phone := record.NormalizePhone(item[record.FieldPhone])
		for _, r := range rows {
			if record.NormalizePhone(r[record.FieldPhone]) == phone {
				return Response{Success: false, Error: MsgDuplicatePhone, Duplicate: true}
			}
		}
	}

	if err := s.repo.Append(ctx, sheet, BuildRow(sheet, item)); err != nil {
		return s.internal("add", err)
	}
	return Response{Success: true, ID: item[record.FieldID]}
}

func (s *Service) update(ctx context.Context, sheet, id string, item record.Record) Response {
	if !Known(sheet) {
		return fail(fmt.Sprintf("%s: %s", MsgSheetNotFound, sheet))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.repo.Rows(ctx, sheet)
	if err != nil {
		return s.internal("update", err)
	}
	for _, r := range rows {
		if r.ID() != id {
			continue
		}
		found, err := s.repo.Replace(ctx, sheet, id, MergeRow(sheet, r, item))
		if err != nil {
			return s.internal("update", err)
		}
		if found {
			return ok()
		}
		break
	}
	return fail(MsgRecordNotFound)
}

func (s *Service) delete(ctx context.Context, sheet, id string) Response {
	if !Known(sheet) {
		return fail(fmt.Sprintf("%s: %s", MsgSheetNotFound, sheet))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.repo.Delete(ctx, sheet, id)
	if err != nil {
		return s.internal("delete", err)
	}
	if !found {
		return fail(MsgRecordNotFound)
	}
	return ok()
}

// sync appends the items whose id the sheet has not seen. Existing rows are
// never touched. Items without an id are skipped.
func (s *Service) sync(ctx context.Context, sheet string, items []record.Record) Response {
	if !Known(sheet) || items == nil {
		return fail(MsgInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.repo.Rows(ctx, sheet)
	if err != nil {
		return s.internal("sync", err)
	}
	seen := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		seen[r.ID()] = struct{}{}
	}

	var fresh []record.Record
	for _, it := range items {
		id := it.ID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		fresh = append(fresh, BuildRow(sheet, it))
	}

	if len(fresh) > 0 {
		if err := s.repo.Append(ctx, sheet, fresh...); err != nil {
			return s.internal("sync", err)
		}
	}
	added := len(fresh)
	return Response{Success: true, Message: fmt.Sprintf("%d records added", added), Added: &added}
}

func (s *Service) reset(ctx context.Context, user string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	cleared := 0
	for _, sheet := range ResetSheets {
		n, err := s.repo.Truncate(ctx, sheet)
		if err != nil {
			return s.internal("resetData", err)
		}
		if n > 0 {
			cleared++
		}
	}

	if user == "" {
		user = audit.SystemActor
	}
	now := s.now()
	entry := record.Record{
		"id":      strconv.FormatInt(now.UnixMilli(), 10),
		"aksi":    audit.ActionReset,
		"detail":  "reset: " + strings.Join(ResetSheets, ", "),
		"user":    user,
		"waktu":   now.Format("15:04:05"),
		"tanggal": now.Format("2006-01-02"),
	}
	if err := s.repo.Append(ctx, record.TableAudit, entry); err != nil {
		s.log.Error("reset audit append failed", "error", err)
	}

	s.log.Warn("operational sheets reset", "user", user, "cleared", cleared)
	return Response{Success: true, Message: fmt.Sprintf("Data reset (%d sheets)", cleared)}
}

func (s *Service) settings(ctx context.Context) Response {
	rows, err := s.repo.Rows(ctx, record.TableSettings)
	if err != nil {
		return s.internal("getSettings", err)
	}
	out := make([]record.Record, 0, len(rows))
	for _, r := range rows {
		if r.ID() != "" {
			out = append(out, r)
		}
	}
	return Response{Success: true, Data: out}
}

// setSetting upserts one setting, stamped as written by the API.
func (s *Service) setSetting(ctx context.Context, id, value string) Response {
	if id == "" {
		return fail(MsgSettingIDRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	row := record.Record{
		"id":        id,
		"value":     value,
		"updatedAt": record.FormatTime(s.now()),
		"updatedBy": "API",
	}
	found, err := s.repo.Replace(ctx, record.TableSettings, id, row)
	if err == nil && !found {
		err = s.repo.Append(ctx, record.TableSettings, row)
	}
	if err != nil {
		return s.internal("setSetting", err)
	}
	return Response{Success: true, ID: id}
}

func (s *Service) branding(ctx context.Context) Response {
	b := Branding{AppName: DefaultAppName, Subtitle: DefaultSubtitle}

	rows, err := s.repo.Rows(ctx, record.TableSettings)
	if err != nil {
		s.log.Warn("settings unreadable, default branding", "error", err)
		return Response{Success: true, Data: b}
	}
	for _, r := range rows {
		v := r.String("value")
		if v == "" {
			continue
		}
		switch r.ID() {
		case "branding_appName":
			b.AppName = v
		case "branding_subtitle":
			b.Subtitle = v
		}
	}
	return Response{Success: true, Data: b}
}

// Seed adds the default administrator to an empty users sheet.
func (s *Service) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.repo.Rows(ctx, record.TableUsers)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(rows) > 0 {
		return nil
	}

	admin := BuildRow(record.TableUsers, record.Record{
		"id":        "1",
		"nama":      "Admin",
		"phone":     "081234567890",
		"pin":       "1234",
		"jabatan":   "Administrator",
		"role":      record.RoleAdmin,
		"status":    record.StatusActive,
		"createdAt": record.FormatTime(s.now()),
	})
	if err := s.repo.Append(ctx, record.TableUsers, admin); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	s.log.Info("default admin seeded", "phone", "081234567890")
	return nil
}

func (s *Service) internal(action string, err error) Response {
	s.log.Error("action failed", "action", action, "error", err)
	return fail(err.Error())
}
