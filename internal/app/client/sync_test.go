package client

import (
	"context"
	"testing"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/sync"
	"github.com/sppgdatasystem/bgn/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRequest(nama, phone, pin, role string) user.RegisterRequest {
	return user.RegisterRequest{Nama: nama, Phone: phone, PIN: pin, Role: role}
}

func TestTwoDevices_PushThenPull(t *testing.T) {
	url, _ := newServer(t)
	a := newDevice(t, url, nil)
	b := newDevice(t, url, nil)
	ctx := context.Background()

	_, err := a.Login(ctx, "081234567890", "1234")
	require.NoError(t, err)
	_, err = b.Login(ctx, "081234567890", "1234")
	require.NoError(t, err)

	_, err = b.Engine().Pull(ctx, record.TableDistribusi)
	require.NoError(t, err)
	assert.Empty(t, b.Store().GetAll(record.TableDistribusi))

	added := a.Store().Add(record.TableDistribusi, record.Record{"sekolah": "SD Negeri 3", "jumlahBox": 40, "status": "pending"})
	a.Engine().Wait()
	assert.EqualValues(t, 1, a.Engine().Stats().PushesConfirmed)

	_, err = b.Engine().Pull(ctx, record.TableDistribusi)
	require.NoError(t, err)
	got, ok := b.Store().GetByID(record.TableDistribusi, added.ID())
	require.True(t, ok)
	assert.Equal(t, "SD Negeri 3", got["sekolah"])
}

func TestTwoDevices_UserRegisteredOnAIsLoginableOnB(t *testing.T) {
	url, _ := newServer(t)
	a := newDevice(t, url, nil)
	b := newDevice(t, url, nil)
	ctx := context.Background()

	_, err := a.Users().Register(userRequest("Budi Santoso", "081377778888", "2468", "petugas"))
	require.NoError(t, err)
	a.Engine().Wait()

	// Login на B сначала подтягивает список пользователей
	s, err := b.Login(ctx, "81377778888", "2468")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", s.Nama)
}

func TestSyncNow_MergesOfflineRecords(t *testing.T) {
	url, rows := newServer(t)
	a := newDevice(t, url, nil)
	ctx := context.Background()

	require.NoError(t, a.Store().Replace(record.TableProduksi, []record.Record{
		{"id": "p1", "step": "cuci"},
		{"id": "p2", "step": "masak"},
	}))

	report, err := a.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pushed[record.TableProduksi].Added)
	assert.Equal(t, sync.StatusOnline, report.Status)

	remoteRows, err := rows.Rows(ctx, record.TableProduksi)
	require.NoError(t, err)
	assert.Len(t, remoteRows, 2)

	// второй раз ничего не добавляется
	report, err = a.SyncNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Pushed[record.TableProduksi].Added)
}

func TestSyncNow_NotConfigured(t *testing.T) {
	a := newDevice(t, "", nil)

	_, err := a.SyncNow(context.Background())
	assert.ErrorIs(t, err, sync.ErrNotConfigured)
}

func TestResetRemoteData_Online(t *testing.T) {
	url, rows := newServer(t)
	a := newDevice(t, url, nil)
	ctx := context.Background()

	_, err := a.Login(ctx, "081234567890", "1234")
	require.NoError(t, err)
	a.Store().Add(record.TableLogistik, record.Record{"nama": "Beras", "berat": 25})
	a.Engine().Wait()

	res, err := a.ResetRemoteData(ctx, "1234")
	require.NoError(t, err)
	assert.True(t, res.Remote)
	assert.Contains(t, res.Message, "Data reset")

	remoteRows, err := rows.Rows(ctx, record.TableLogistik)
	require.NoError(t, err)
	assert.Empty(t, remoteRows)
	assert.Empty(t, a.Store().GetAll(record.TableLogistik))
}

func TestStartAutoSync_CloseStops(t *testing.T) {
	url, _ := newServer(t)
	a := newDevice(t, url, nil)

	a.StartAutoSync(context.Background())
	a.StartAutoSync(context.Background())
	require.NoError(t, a.Close())
}
