package client

import (
	"context"
	"fmt"
	"os"
	gosync "sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/sppgdatasystem/bgn/internal/app/client/config"
	"github.com/sppgdatasystem/bgn/internal/domain/audit"
	"github.com/sppgdatasystem/bgn/internal/domain/backup"
	"github.com/sppgdatasystem/bgn/internal/domain/lock"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/session"
	"github.com/sppgdatasystem/bgn/internal/domain/sync"
	"github.com/sppgdatasystem/bgn/internal/domain/user"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/remote"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/jsonfile"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/memory"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/sqlite"
)

// metaAPIURL хранит адрес сервиса, с которым устройство синхронизировалось
const metaAPIURL = "apiUrl"

// App собирает все компоненты клиента
type App struct {
	config  *config.Config
	log     *slog.Logger
	repo    record.Repository
	engine  *sync.Engine
	store   *record.Service
	audit   *audit.Log
	session *session.Service
	users   *user.Service
	locks   *lock.Manager
	backup  *backup.Service

	wg     gosync.WaitGroup
	mu     gosync.Mutex
	cancel context.CancelFunc
}

// New открывает локальное хранилище выбранного драйвера и собирает приложение
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	repo, err := openRepository(cfg, log)
	if err != nil {
		return nil, err
	}
	return NewWithDeps(cfg, repo, remote.New(cfg.RemoteURL, cfg.APIKey, log), log), nil
}

// NewWithDeps собирает приложение поверх готовых хранилища и удаленного сервиса
func NewWithDeps(cfg *config.Config, repo record.Repository, rem sync.Remote, log *slog.Logger) *App {
	engine := sync.NewEngine(rem, repo, cfg.Sync(), log)
	auditLog := audit.NewLog(repo, log)
	store := record.NewService(repo, auditLog, engine, log)
	sess := session.NewService(session.NewRepo(store, log), auditLog, log)

	auditLog.SetActorSource(sess)
	engine.SetSessionChecker(sess)

	return &App{
		config:  cfg,
		log:     log,
		repo:    repo,
		engine:  engine,
		store:   store,
		audit:   auditLog,
		session: sess,
		users:   user.NewService(store, user.NewValidator(), log),
		locks:   lock.NewManager(store, log, lock.WithTTL(cfg.LockTTLDuration())),
		backup:  backup.NewService(store, auditLog, log),
	}
}

func openRepository(cfg *config.Config, log *slog.Logger) (record.Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memory.NewTableRepository(), nil
	case config.DriverJSONFile:
		return jsonfile.New(cfg.TablesDir(), log)
	default:
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("ошибка создания каталога данных: %w", err)
		}
		return sqlite.New(cfg.SQLitePath(), log)
	}
}

// Init готовит устройство к работе: сброс при смене адреса сервиса,
// администратор и настройки по умолчанию, очистка просроченных блокировок
func (a *App) Init() error {
	if err := a.resetOnEndpointChange(); err != nil {
		return err
	}

	now := record.FormatTime(time.Now())
	if len(a.store.GetAll(record.TableUsers)) == 0 {
		if err := a.store.Replace(record.TableUsers, []record.Record{defaultAdmin(now)}); err != nil {
			return fmt.Errorf("ошибка создания администратора: %w", err)
		}
		a.log.Info("default admin created")
	}

	if len(a.store.GetAll(record.TableSettings)) == 0 {
		setting := record.Record{
			record.FieldID:        lock.SettingShowNoPegawai,
			"value":               "true",
			record.FieldUpdatedAt: now,
		}
		if err := a.store.Replace(record.TableSettings, []record.Record{setting}); err != nil {
			return fmt.Errorf("ошибка создания настроек: %w", err)
		}
	}

	if n, err := a.locks.SweepExpired(); err != nil {
		a.log.Warn("lock sweep failed", "error", err)
	} else if n > 0 {
		a.log.Info("expired locks removed", "count", n)
	}
	return nil
}

func (a *App) resetOnEndpointChange() error {
	current := a.config.RemoteURL
	saved, ok := a.store.GetByID(record.TableMeta, metaAPIURL)

	if ok && saved.String("value") != current {
		a.log.Warn("remote endpoint changed, clearing local data",
			"previous", saved.String("value"), "current", current)
		for _, table := range record.RemoteTables {
			if err := a.store.Replace(table, nil); err != nil {
				return fmt.Errorf("ошибка очистки %s: %w", table, err)
			}
		}
		if err := a.store.Replace(record.TableSession, nil); err != nil {
			return fmt.Errorf("ошибка очистки сессии: %w", err)
		}
		a.session.Reset()
	}

	meta := record.Record{record.FieldID: metaAPIURL, "value": current}
	return a.store.Replace(record.TableMeta, []record.Record{meta})
}

func defaultAdmin(createdAt string) record.Record {
	return record.Record{
		record.FieldID:        "1",
		"nama":                "Admin SPPG",
		"phone":               "081234567890",
		"pin":                 user.DefaultPIN,
		"noPegawai":           "ADM001",
		"jabatan":             "Administrator",
		"role":                record.RoleAdmin,
		"status":              record.StatusActive,
		record.FieldCreatedAt: createdAt,
	}
}

// Close останавливает автосинхронизацию, дожидается отправок и закрывает хранилище
func (a *App) Close() error {
	a.mu.Lock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.engine.Wait()
	return a.repo.Close()
}

func (a *App) Config() *config.Config { return a.config }
func (a *App) Store() record.Servicer { return a.store }
func (a *App) Audit() *audit.Log { return a.audit }
func (a *App) Session() session.Servicer { return a.session }
func (a *App) Users() user.Servicer { return a.users }
func (a *App) Locks() *lock.Manager { return a.locks }
func (a *App) Engine() *sync.Engine { return a.engine }
func (a *App) Backup() *backup.Service { return a.backup }
func (a *App) Logger() *slog.Logger { return a.log }
