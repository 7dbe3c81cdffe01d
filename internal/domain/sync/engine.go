package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/exp/slog"
)

// Engine moves tables between the device and the remote service.
//
// Pull replaces a whole local table with the remote copy, so the last pull wins
// per table. Pushes are fire-and-forget from the store's point of view; a push
// whose answer does not arrive within PushTimeout is reported as unconfirmed.
type Engine struct {
	remote  Remote
	repo    record.Repository
	cfg     Config
	log     *slog.Logger
	session SessionChecker

	inFlight atomic.Bool
	pending  stdsync.WaitGroup

	mu        stdsync.RWMutex
	status    Status
	listeners []func(Status)
	stats     Stats
	now       func() time.Time
}

// NewEngine builds the engine. remote may be nil when no endpoint is configured.
func NewEngine(remote Remote, repo record.Repository, cfg Config, log *slog.Logger) *Engine {
	return &Engine{
		remote: remote,
		repo:   repo,
		cfg:    cfg.withDefaults(),
		log:    log.With("component", "sync"),
		status: StatusOffline,
		now:    time.Now,
	}
}

// SetSessionChecker wires the session that gates Run.
func (e *Engine) SetSessionChecker(s SessionChecker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = s
}

// OnStatus registers a listener called on every indicator change.
func (e *Engine) OnStatus(fn func(Status)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// Stats returns a copy of the counters.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) Configured() bool {
	return e.remote != nil && e.remote.Configured()
}

func (e *Engine) Pull(ctx context.Context, table string) (PullResult, error) {
	if !e.Configured() {
		return PullResult{Table: table}, ErrNotConfigured
	}
	if record.IsLocalOnly(table) {
		return PullResult{Table: table}, fmt.Errorf("%s: %w", table, ErrLocalOnly)
	}

	pctx, cancel := context.WithTimeout(ctx, e.cfg.PullTimeout)
	defer cancel()

	rows, err := e.remote.GetAll(pctx, table)
	if err == nil {
		err = e.repo.ReplaceAll(table, rows)
	}
	if err != nil {
		err = asTimeout(pctx, err)
		e.record(func(s *Stats) {
			s.FailedPulls++
			s.LastError = err.Error()
		})
		e.log.Warn("pull failed, local table kept", "table", table, "error", err)
		return PullResult{Table: table}, fmt.Errorf("pull %s: %w", table, err)
	}

	e.record(func(s *Stats) {
		s.Pulls++
		s.LastSync = e.now()
	})
	e.log.Debug("table pulled", "table", table, "count", len(rows))
	return PullResult{Table: table, Count: len(rows)}, nil
}

// PullAll pulls each table independently; one failure does not stop the rest.
func (e *Engine) PullAll(ctx context.Context, tables []string) map[string]PullOutcome {
	out := make(map[string]PullOutcome, len(tables))
	for _, t := range tables {
		res, err := e.Pull(ctx, t)
		out[t] = PullOutcome{Count: res.Count, Err: err}
	}
	return out
}

func (e *Engine) Push(ctx context.Context, op record.Op, table string, rec record.Record) (PushResult, error) {
	res := PushResult{Op: op, Table: table, ID: rec.ID()}
	if !e.Configured() {
		return res, ErrNotConfigured
	}
	if record.IsLocalOnly(table) {
		return res, fmt.Errorf("%s: %w", table, ErrLocalOnly)
	}

	pctx, cancel := context.WithTimeout(ctx, e.cfg.PushTimeout)
	defer cancel()

	item := stripInlinePhoto(rec)
	var err error
	switch op {
	case record.OpAdd:
		var id string
		id, err = e.remote.AddItem(pctx, table, item)
		if err == nil && id != "" {
			res.ID = id
		}
	case record.OpUpdate:
		err = e.remote.UpdateItem(pctx, table, rec.ID(), item)
	case record.OpDelete:
		err = e.remote.DeleteItem(pctx, table, rec.ID())
	default:
		return res, fmt.Errorf("unknown op %q", op)
	}

	if err != nil {
		if errors.Is(asTimeout(pctx, err), ErrTimeout) {
			res.Outcome = PushUnconfirmed
			e.record(func(s *Stats) { s.PushesUnconfirmed++ })
			return res, nil
		}
		e.record(func(s *Stats) {
			s.PushesFailed++
			s.LastError = err.Error()
		})
		return res, fmt.Errorf("push %s %s/%s: %w", op, table, rec.ID(), err)
	}

	res.Outcome = PushConfirmed
	e.record(func(s *Stats) { s.PushesConfirmed++ })
	return res, nil
}

// PushAsync forwards a store mutation without blocking. Wait flushes them.
func (e *Engine) PushAsync(op record.Op, table string, rec record.Record) {
	if !e.Configured() {
		e.log.Debug("remote not configured, change kept local", "op", op, "table", table)
		return
	}

	e.pending.Add(1)
	go func() {
		defer e.pending.Done()

		res, err := e.Push(context.Background(), op, table, rec)
		switch {
		case err != nil:
			e.log.Warn("push failed", "op", op, "table", table, "id", res.ID, "error", err)
		case res.Outcome == PushUnconfirmed:
			e.log.Info("push sent, unconfirmed", "op", op, "table", table, "id", res.ID)
		default:
			e.log.Debug("push confirmed", "op", op, "table", table, "id", res.ID)
		}
	}()
}

// Wait blocks until every PushAsync has finished.
func (e *Engine) Wait() {
	e.pending.Wait()
}

// AdditiveMerge sends items the remote has not seen. It never updates or
// deletes remote rows, so repeating it adds nothing.
func (e *Engine) AdditiveMerge(ctx context.Context, table string, items []record.Record) (int, error) {
	if !e.Configured() {
		return 0, ErrNotConfigured
	}
	if record.IsLocalOnly(table) {
		return 0, fmt.Errorf("%s: %w", table, ErrLocalOnly)
	}
	if len(items) == 0 {
		return 0, nil
	}

	mctx, cancel := context.WithTimeout(ctx, e.cfg.PullTimeout)
	defer cancel()

	payload := make([]record.Record, 0, len(items))
	for _, it := range items {
		payload = append(payload, stripInlinePhoto(it))
	}

	added, err := e.remote.Sync(mctx, table, payload)
	if err != nil {
		return 0, fmt.Errorf("merge %s: %w", table, asTimeout(mctx, err))
	}
	e.log.Info("merged", "table", table, "sent", len(items), "added", added)
	return added, nil
}

// PushAll merges every local row of tables into the remote.
func (e *Engine) PushAll(ctx context.Context, tables []string) map[string]MergeOutcome {
	out := make(map[string]MergeOutcome, len(tables))
	for _, t := range tables {
		rows, err := e.repo.Load(t)
		if err != nil {
			out[t] = MergeOutcome{Err: err}
			continue
		}
		added, err := e.AdditiveMerge(ctx, t, rows)
		out[t] = MergeOutcome{Added: added, Err: err}
	}
	return out
}

// PullSettings upserts every remote setting into the local table.
func (e *Engine) PullSettings(ctx context.Context) (int, error) {
	if !e.Configured() {
		return 0, ErrNotConfigured
	}

	pctx, cancel := context.WithTimeout(ctx, e.cfg.PullTimeout)
	defer cancel()

	remote, err := e.remote.GetSettings(pctx)
	if err != nil {
		return 0, fmt.Errorf("pull settings: %w", asTimeout(pctx, err))
	}

	local, err := e.repo.Load(record.TableSettings)
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(local))
	for i, r := range local {
		index[r.ID()] = i
	}
	for _, s := range remote {
		if s.ID == "" {
			continue
		}
		rec, err := record.Encode(s)
		if err != nil {
			continue
		}
		// a sparse remote row must not blank local metadata
		for k, v := range rec {
			if k != "value" && record.Stringify(v) == "" {
				delete(rec, k)
			}
		}
		if i, ok := index[s.ID]; ok {
			local[i] = local[i].Merge(rec)
			continue
		}
		index[s.ID] = len(local)
		local = append(local, rec)
	}

	if err := e.repo.ReplaceAll(record.TableSettings, local); err != nil {
		return 0, err
	}
	return len(remote), nil
}

// PushSettings sends branding and display settings. It stops at the first failure.
func (e *Engine) PushSettings(ctx context.Context) (int, error) {
	if !e.Configured() {
		return 0, ErrNotConfigured
	}

	local, err := e.repo.Load(record.TableSettings)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range local {
		id := r.ID()
		if !strings.HasPrefix(id, "branding_") && id != "showNoPegawai" {
			continue
		}
		pctx, cancel := context.WithTimeout(ctx, e.cfg.PushTimeout)
		err := e.remote.SetSetting(pctx, id, r.String("value"))
		err = asTimeout(pctx, err)
		cancel()
		if err != nil {
			return sent, fmt.Errorf("push setting %s: %w", id, err)
		}
		sent++
	}
	return sent, nil
}

// Ping checks the remote and moves the indicator accordingly.
func (e *Engine) Ping(ctx context.Context) (PingInfo, error) {
	if !e.Configured() {
		return PingInfo{}, ErrNotConfigured
	}

	pctx, cancel := context.WithTimeout(ctx, e.cfg.PingTimeout)
	defer cancel()

	info, err := e.remote.Ping(pctx)
	if err != nil {
		e.setStatus(StatusOffline)
		return PingInfo{}, fmt.Errorf("ping: %w", asTimeout(pctx, err))
	}
	e.setStatus(StatusOnline)
	return info, nil
}

func (e *Engine) Branding(ctx context.Context) (Branding, error) {
	if !e.Configured() {
		return Branding{}, ErrNotConfigured
	}
	pctx, cancel := context.WithTimeout(ctx, e.cfg.PullTimeout)
	defer cancel()

	b, err := e.remote.GetBranding(pctx)
	if err != nil {
		return Branding{}, asTimeout(pctx, err)
	}
	return b, nil
}

// ResetRemote wipes the remote operational tables in the name of actor.
func (e *Engine) ResetRemote(ctx context.Context, actor string) (string, error) {
	if !e.Configured() {
		return "", ErrNotConfigured
	}
	rctx, cancel := context.WithTimeout(ctx, e.cfg.PullTimeout)
	defer cancel()

	msg, err := e.remote.ResetData(rctx, actor)
	if err != nil {
		return "", fmt.Errorf("reset remote: %w", asTimeout(rctx, err))
	}
	e.log.Warn("remote data reset", "actor", actor)
	return msg, nil
}

// Run ticks every Interval until ctx is done. Ticks run only with a session.
// A tick still running when the next one fires makes that one skip.
func (e *Engine) Run(ctx context.Context) {
	e.log.Info("auto sync started", "interval", e.cfg.Interval)

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	var ticks stdsync.WaitGroup
	defer ticks.Wait()

	for {
		select {
		case <-ctx.Done():
			e.log.Info("auto sync stopped")
			return
		case <-ticker.C:
			if !e.sessionActive() {
				continue
			}
			ticks.Add(1)
			go func() {
				defer ticks.Done()
				e.Tick(ctx)
			}()
		}
	}
}

// Tick runs one guarded pull cycle over the loop tables. It returns false when
// another cycle is in flight.
func (e *Engine) Tick(ctx context.Context) bool {
	if !e.inFlight.CompareAndSwap(false, true) {
		e.record(func(s *Stats) { s.SkippedTicks++ })
		e.log.Debug("sync in flight, tick skipped")
		return false
	}
	defer e.inFlight.Store(false)

	e.setStatus(StatusSyncing)
	e.record(func(s *Stats) { s.Ticks++ })

	failed := false
	for _, t := range e.cfg.LoopTables {
		if _, err := e.Pull(ctx, t); err != nil {
			failed = true
		}
	}

	if failed {
		e.setStatus(StatusOffline)
	} else {
		e.setStatus(StatusOnline)
	}
	return true
}

// Syncing reports whether a tick is running.
func (e *Engine) Syncing() bool {
	return e.inFlight.Load()
}

func (e *Engine) sessionActive() bool {
	e.mu.RLock()
	s := e.session
	e.mu.RUnlock()
	return s != nil && s.Active()
}

func (e *Engine) setStatus(st Status) {
	e.mu.Lock()
	if e.status == st {
		e.mu.Unlock()
		return
	}
	e.status = st
	listeners := append([]func(Status){}, e.listeners...)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}

func (e *Engine) record(fn func(*Stats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.stats)
}

// asTimeout maps an expired context onto ErrTimeout.
func asTimeout(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

// stripInlinePhoto drops a data URL photo; the remote stores only file names.
func stripInlinePhoto(rec record.Record) record.Record {
	out := rec.Clone()
	if s, ok := out[record.FieldFoto].(string); ok && strings.HasPrefix(s, "data:image") {
		delete(out, record.FieldFoto)
	}
	return out
}
