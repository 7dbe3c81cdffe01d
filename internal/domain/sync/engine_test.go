package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

// MockRemote is a mock implementation of the Remote interface for testing
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Configured() bool { return true }

func (m *MockRemote) Ping(ctx context.Context) (PingInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).(PingInfo), args.Error(1)
}

func (m *MockRemote) GetAll(ctx context.Context, sheet string) ([]record.Record, error) {
	args := m.Called(ctx, sheet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]record.Record), args.Error(1)
}

func (m *MockRemote) AddItem(ctx context.Context, sheet string, item record.Record) (string, error) {
	args := m.Called(ctx, sheet, item)
	return args.String(0), args.Error(1)
}

func (m *MockRemote) UpdateItem(ctx context.Context, sheet, id string, item record.Record) error {
	args := m.Called(ctx, sheet, id, item)
	return args.Error(0)
}

func (m *MockRemote) DeleteItem(ctx context.Context, sheet, id string) error {
	args := m.Called(ctx, sheet, id)
	return args.Error(0)
}

func (m *MockRemote) Sync(ctx context.Context, sheet string, items []record.Record) (int, error) {
	args := m.Called(ctx, sheet, items)
	return args.Int(0), args.Error(1)
}

func (m *MockRemote) GetSettings(ctx context.Context) ([]record.Setting, error) {
	args := m.Called(ctx)
	return args.Get(0).([]record.Setting), args.Error(1)
}

func (m *MockRemote) SetSetting(ctx context.Context, id, value string) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *MockRemote) GetBranding(ctx context.Context) (Branding, error) {
	args := m.Called(ctx)
	return args.Get(0).(Branding), args.Error(1)
}

func (m *MockRemote) ResetData(ctx context.Context, user string) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

type sessionStub bool

func (s sessionStub) Active() bool { return bool(s) }

func newEngine(t *testing.T, cfg Config) (*Engine, *MockRemote, *memory.TableRepository) {
	t.Helper()
	remote := new(MockRemote)
	repo := memory.NewTableRepository()
	return NewEngine(remote, repo, cfg, slog.Default()), remote, repo
}

func TestEngine_NotConfigured(t *testing.T) {
	e := NewEngine(nil, memory.NewTableRepository(), Config{}, slog.Default())

	_, err := e.Pull(context.Background(), record.TableProduksi)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = e.Push(context.Background(), record.OpAdd, record.TableProduksi, record.Record{"id": "1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = e.Ping(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)

	e.PushAsync(record.OpAdd, record.TableProduksi, record.Record{"id": "1"})
	e.Wait()
}

func TestEngine_PullReplacesTable(t *testing.T) {
	e, remote, repo := newEngine(t, Config{})
	require.NoError(t, repo.Insert(record.TableDistribusi, record.Record{"id": "old"}))

	remote.On("GetAll", mock.Anything, record.TableDistribusi).
		Return([]record.Record{{"id": "r1"}, {"id": "r2"}}, nil)

	res, err := e.Pull(context.Background(), record.TableDistribusi)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)

	rows, _ := repo.Load(record.TableDistribusi)
	require.Len(t, rows, 2)
	assert.Equal(t, "r1", rows[0].ID())
	assert.Equal(t, 1, e.Stats().Pulls)
}

func TestEngine_PullFailureKeepsLocal(t *testing.T) {
	e, remote, repo := newEngine(t, Config{})
	require.NoError(t, repo.Insert(record.TableLogistik, record.Record{"id": "keep"}))

	remote.On("GetAll", mock.Anything, record.TableLogistik).Return(nil, ErrNetwork)

	_, err := e.Pull(context.Background(), record.TableLogistik)
	assert.ErrorIs(t, err, ErrNetwork)

	rows, _ := repo.Load(record.TableLogistik)
	require.Len(t, rows, 1)
	assert.Equal(t, "keep", rows[0].ID())
	assert.Equal(t, 1, e.Stats().FailedPulls)
}

func TestEngine_PullTimeout(t *testing.T) {
	e, remote, _ := newEngine(t, Config{PullTimeout: 20 * time.Millisecond})

	remote.On("GetAll", mock.Anything, record.TableProduksi).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(nil, context.DeadlineExceeded)

	_, err := e.Pull(context.Background(), record.TableProduksi)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestEngine_PullRejectsLocalOnly(t *testing.T) {
	e, remote, _ := newEngine(t, Config{})

	_, err := e.Pull(context.Background(), record.TableLocks)
	assert.ErrorIs(t, err, ErrLocalOnly)
	remote.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything)
}

func TestEngine_PushConfirmedStripsPhoto(t *testing.T) {
	e, remote, _ := newEngine(t, Config{})

	remote.On("AddItem", mock.Anything, record.TableProduksi, mock.MatchedBy(func(r record.Record) bool {
		_, hasFoto := r["foto"]
		return !hasFoto && r["step"] == "masak"
	})).Return("p1", nil)

	rec := record.Record{"id": "p1", "step": "masak", "foto": "data:image/jpeg;base64,AAAA"}
	res, err := e.Push(context.Background(), record.OpAdd, record.TableProduksi, rec)
	require.NoError(t, err)
	assert.Equal(t, PushConfirmed, res.Outcome)
	assert.Contains(t, rec, "foto", "caller record is not modified")
	assert.Equal(t, 1, e.Stats().PushesConfirmed)
}

func TestEngine_PushTimeoutIsUnconfirmed(t *testing.T) {
	e, remote, _ := newEngine(t, Config{PushTimeout: 20 * time.Millisecond})

	remote.On("UpdateItem", mock.Anything, record.TableDistribusi, "d1", mock.Anything).
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(context.DeadlineExceeded)

	res, err := e.Push(context.Background(), record.OpUpdate, record.TableDistribusi, record.Record{"id": "d1"})
	require.NoError(t, err)
	assert.Equal(t, PushUnconfirmed, res.Outcome)
	assert.Equal(t, 1, e.Stats().PushesUnconfirmed)
	assert.Zero(t, e.Stats().PushesConfirmed)
}

func TestEngine_PushRemoteRejection(t *testing.T) {
	e, remote, _ := newEngine(t, Config{})

	remote.On("DeleteItem", mock.Anything, record.TableLogistik, "l1").Return(ErrUnauthorized)

	_, err := e.Push(context.Background(), record.OpDelete, record.TableLogistik, record.Record{"id": "l1"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, e.Stats().PushesFailed)
}

func TestEngine_PushAsyncAndWait(t *testing.T) {
	e, remote, _ := newEngine(t, Config{})
	remote.On("AddItem", mock.Anything, record.TableProduksi, mock.Anything).Return("x", nil).Times(3)

	for i := 0; i < 3; i++ {
		e.PushAsync(record.OpAdd, record.TableProduksi, record.Record{"id": "x"})
	}
	e.Wait()

	remote.AssertExpectations(t)
	assert.Equal(t, 3, e.Stats().PushesConfirmed)
}

func TestEngine_AdditiveMerge(t *testing.T) {
	e, remote, repo := newEngine(t, Config{})
	require.NoError(t, repo.Insert(record.TableUsers, record.Record{"id": "u1"}))

	remote.On("Sync", mock.Anything, record.TableUsers, mock.Anything).Return(1, nil).Once()
	remote.On("Sync", mock.Anything, record.TableUsers, mock.Anything).Return(0, nil).Once()

	first := e.PushAll(context.Background(), []string{record.TableUsers})
	second := e.PushAll(context.Background(), []string{record.TableUsers})

	assert.Equal(t, MergeOutcome{Added: 1}, first[record.TableUsers])
	assert.Equal(t, MergeOutcome{Added: 0}, second[record.TableUsers])
}

func TestEngine_AdditiveMergeEmptyTableSkipsRemote(t *testing.T) {
	e, remote, _ := newEngine(t, Config{})

	added, err := e.AdditiveMerge(context.Background(), record.TableLogistik, nil)
	require.NoError(t, err)
	assert.Zero(t, added)
	remote.AssertNotCalled(t, "Sync", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_PullSettingsUpserts(t *testing.T) {
	e, remote, repo := newEngine(t, Config{})
	require.NoError(t, repo.Insert(record.TableSettings, record.Record{"id": "showNoPegawai", "value": "true"}))

	remote.On("GetSettings", mock.Anything).Return([]record.Setting{
		{ID: "showNoPegawai", Value: "false"},
		{ID: "branding_appName", Value: "SPPG"},
	}, nil)

	n, err := e.PullSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, _ := repo.Load(record.TableSettings)
	require.Len(t, rows, 2)
	assert.Equal(t, "false", rows[0]["value"])
	assert.Equal(t, "branding_appName", rows[1].ID())
}

func TestEngine_PullSettingsKeepsLocalMetadata(t *testing.T) {
	e, remote, repo := newEngine(t, Config{})
	require.NoError(t, repo.Insert(record.TableSettings, record.Record{
		"id":        "branding_appName",
		"value":     "Lama",
		"updatedAt": "2026-01-10T07:00:00.000Z",
		"updatedBy": "Admin SPPG",
	}))

	remote.On("GetSettings", mock.Anything).Return([]record.Setting{
		{ID: "branding_appName", Value: "SPPG Baru"},
	}, nil)

	_, err := e.PullSettings(context.Background())
	require.NoError(t, err)

	rows, _ := repo.Load(record.TableSettings)
	require.Len(t, rows, 1)
	assert.Equal(t, "SPPG Baru", rows[0]["value"])
	assert.Equal(t, "2026-01-10T07:00:00.000Z", rows[0]["updatedAt"])
	assert.Equal(t, "Admin SPPG", rows[0]["updatedBy"])
}

func TestEngine_PushSettingsSelectsBranding(t *testing.T) {
	e, remote, repo := newEngine(t, Config{})
	require.NoError(t, repo.ReplaceAll(record.TableSettings, []record.Record{
		{"id": "showNoPegawai", "value": "true"},
		{"id": "branding_subtitle", "value": "BGN"},
		{"id": "private", "value": "x"},
	}))

	remote.On("SetSetting", mock.Anything, "showNoPegawai", "true").Return(nil)
	remote.On("SetSetting", mock.Anything, "branding_subtitle", "BGN").Return(nil)

	n, err := e.PushSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	remote.AssertNotCalled(t, "SetSetting", mock.Anything, "private", mock.Anything)
}

func TestEngine_TickStatus(t *testing.T) {
	e, remote, _ := newEngine(t, Config{})

	var seen []Status
	e.OnStatus(func(s Status) { seen = append(seen, s) })

	remote.On("GetAll", mock.Anything, mock.Anything).Return([]record.Record{}, nil)
	assert.True(t, e.Tick(context.Background()))
	assert.Equal(t, StatusOnline, e.Status())
	assert.Equal(t, []Status{StatusSyncing, StatusOnline}, seen)
}

func TestEngine_TickFailureGoesOffline(t *testing.T) {
	e, remote, _ := newEngine(t, Config{})

	remote.On("GetAll", mock.Anything, record.TableProduksi).Return([]record.Record{}, nil)
	remote.On("GetAll", mock.Anything, record.TableDistribusi).Return(nil, ErrNetwork)
	remote.On("GetAll", mock.Anything, record.TableLogistik).Return([]record.Record{}, nil)

	e.Tick(context.Background())
	assert.Equal(t, StatusOffline, e.Status())
	remote.AssertNotCalled(t, "GetAll", mock.Anything, record.TableUsers)
}

func TestEngine_OverlappingTickIsSkipped(t *testing.T) {
	e, remote, _ := newEngine(t, Config{LoopTables: []string{record.TableProduksi}})

	release := make(chan struct{})
	remote.On("GetAll", mock.Anything, record.TableProduksi).
		Run(func(mock.Arguments) { <-release }).
		Return([]record.Record{}, nil)

	done := make(chan bool)
	go func() { done <- e.Tick(context.Background()) }()

	require.Eventually(t, e.Syncing, time.Second, time.Millisecond)
	assert.False(t, e.Tick(context.Background()))

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, 1, e.Stats().SkippedTicks)
	assert.Equal(t, 1, e.Stats().Ticks)
	remote.AssertNumberOfCalls(t, "GetAll", 1)
}

func TestEngine_RunRequiresSession(t *testing.T) {
	e, remote, _ := newEngine(t, Config{Interval: 5 * time.Millisecond, LoopTables: []string{record.TableProduksi}})
	e.SetSessionChecker(sessionStub(false))

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	e.Run(ctx)

	remote.AssertNotCalled(t, "GetAll", mock.Anything, mock.Anything)
}

func TestEngine_RunPullsWithSession(t *testing.T) {
	e, remote, _ := newEngine(t, Config{Interval: 5 * time.Millisecond, LoopTables: []string{record.TableProduksi}})
	e.SetSessionChecker(sessionStub(true))
	remote.On("GetAll", mock.Anything, record.TableProduksi).Return([]record.Record{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	e.Run(ctx)

	assert.GreaterOrEqual(t, e.Stats().Ticks, 1)
}

func TestEngine_Ping(t *testing.T) {
	e, remote, _ := newEngine(t, Config{})
	remote.On("Ping", mock.Anything).Return(PingInfo{}, errors.New("dial tcp: refused")).Once()
	remote.On("Ping", mock.Anything).Return(PingInfo{Message: "SPPG API Ready", Version: "2.0"}, nil).Once()

	_, err := e.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusOffline, e.Status())

	info, err := e.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.0", info.Version)
	assert.Equal(t, StatusOnline, e.Status())
}
