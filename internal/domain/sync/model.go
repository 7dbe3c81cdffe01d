package sync

import (
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
)

// Status is the tri-state connectivity indicator.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusSyncing Status = "syncing"
)

// LoopTables are pulled on every background tick. users is pulled only at login.
var LoopTables = []string{record.TableProduksi, record.TableDistribusi, record.TableLogistik}

// PushTables are merged by PushAll.
var PushTables = []string{record.TableUsers, record.TableProduksi, record.TableDistribusi, record.TableLogistik}

// Config конфигурация движка синхронизации
type Config struct {
	Interval    time.Duration
	PullTimeout time.Duration
	PushTimeout time.Duration
	PingTimeout time.Duration
	LoopTables  []string
}

func DefaultConfig() Config {
	return Config{
		Interval:    30 * time.Second,
		PullTimeout: 30 * time.Second,
		PushTimeout: 5 * time.Second,
		PingTimeout: 10 * time.Second,
		LoopTables:  LoopTables,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.PullTimeout <= 0 {
		c.PullTimeout = def.PullTimeout
	}
	if c.PushTimeout <= 0 {
		c.PushTimeout = def.PushTimeout
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = def.PingTimeout
	}
	if len(c.LoopTables) == 0 {
		c.LoopTables = def.LoopTables
	}
	return c
}

// PushOutcome tells a confirmed write from one sent without an answer.
type PushOutcome string

const (
	PushConfirmed   PushOutcome = "confirmed"
	PushUnconfirmed PushOutcome = "unconfirmed"
)

type PushResult struct {
	Op      record.Op
	Table   string
	ID      string
	Outcome PushOutcome
}

type PullResult struct {
	Table string
	Count int
}

type PullOutcome struct {
	Count int
	Err   error
}

type MergeOutcome struct {
	Added int
	Err   error
}

// Stats статистика синхронизации
type Stats struct {
	Ticks             int       `json:"ticks"`
	SkippedTicks      int       `json:"skipped_ticks"`
	Pulls             int       `json:"pulls"`
	FailedPulls       int       `json:"failed_pulls"`
	PushesConfirmed   int       `json:"pushes_confirmed"`
	PushesUnconfirmed int       `json:"pushes_unconfirmed"`
	PushesFailed      int       `json:"pushes_failed"`
	LastSync          time.Time `json:"last_sync"`
	LastError         string    `json:"last_error,omitempty"`
}

// PingInfo is the remote's readiness answer.
type PingInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type Branding struct {
	AppName  string `json:"appName"`
	Subtitle string `json:"subtitle"`
}
