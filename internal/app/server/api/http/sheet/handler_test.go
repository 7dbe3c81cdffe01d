package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/sheet"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const apiKey = "SPPGDATA2026"

type MockService struct {
	mock.Mock
}

func (m *MockService) Query(ctx context.Context, req sheet.Request) sheet.Response {
	args := m.Called(ctx, req)
	return args.Get(0).(sheet.Response)
}

func (m *MockService) Command(ctx context.Context, req sheet.Request) sheet.Response {
	args := m.Called(ctx, req)
	return args.Get(0).(sheet.Response)
}

func (m *MockService) Seed(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setup(t *testing.T, svc sheet.Servicer) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc, slog.Default(), huma.Middlewares{}).SetupRoutes(api)
	return api
}

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestHandler_PingJSONAndJSONP(t *testing.T) {
	api := setup(t, sheet.NewService(memory.NewSheetRepository(), apiKey, slog.Default()))

	resp := api.Get("/exec?action=ping")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, contentTypeJSON, resp.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"SPPG API Ready","version":"2.0"}`, resp.Body.String())

	resp = api.Get("/exec?action=ping&callback=handle")
	assert.Equal(t, contentTypeJS, resp.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(resp.Body.String(), "handle({"))
	assert.True(t, strings.HasSuffix(resp.Body.String(), "})"))
}

func TestHandler_AddItemThenGetAll(t *testing.T) {
	api := setup(t, sheet.NewService(memory.NewSheetRepository(), apiKey, slog.Default()))

	q := url.Values{}
	q.Set("action", sheet.ActionAddItem)
	q.Set("sheet", record.TableProduksi)
	q.Set("apiKey", apiKey)
	q.Set("data", `{"id":"p1","step":"masak","fotoCount":2}`)

	resp := api.Get("/exec?" + q.Encode())
	require.Equal(t, http.StatusOK, resp.Code)
	out := decode(t, resp.Body.Bytes())
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "p1", out["id"])

	resp = api.Get("/exec?action=getAll&sheet=produksi")
	out = decode(t, resp.Body.Bytes())
	rows := out["data"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "masak", row["step"])
	assert.Equal(t, float64(2), row["fotoCount"])
	assert.Equal(t, "", row["label"])
}

func TestHandler_DoubleEncodedData(t *testing.T) {
	api := setup(t, sheet.NewService(memory.NewSheetRepository(), apiKey, slog.Default()))

	data := url.QueryEscape(`{"id":"l1","nama":"Beras"}`)
	resp := api.Get("/exec?action=addItem&sheet=logistik&apiKey=" + apiKey + "&data=" + url.QueryEscape(data))
	assert.Equal(t, true, decode(t, resp.Body.Bytes())["success"])
}

func TestHandler_BadDataParameter(t *testing.T) {
	svc := new(MockService)
	api := setup(t, svc)

	resp := api.Get("/exec?action=addItem&sheet=produksi&data=" + url.QueryEscape("{not json"))
	out := decode(t, resp.Body.Bytes())
	assert.Equal(t, false, out["success"])
	assert.Equal(t, sheet.MsgInvalidRequest, out["error"])
	svc.AssertNotCalled(t, "Query", mock.Anything, mock.Anything)
}

func TestHandler_CommandMapsBody(t *testing.T) {
	svc := new(MockService)
	want := sheet.Request{
		Action: sheet.ActionUpdate,
		Sheet:  record.TableDistribusi,
		ID:     "7",
		APIKey: apiKey,
		Item:   record.Record{"status": "delivered"},
	}
	svc.On("Command", mock.Anything, want).Return(sheet.Response{Success: true}).Once()
	api := setup(t, svc)

	resp := api.Post("/exec", map[string]any{
		"action": "update",
		"sheet":  "distribusi",
		"id":     7,
		"apiKey": apiKey,
		"data":   map[string]any{"status": "delivered"},
	})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true}`, resp.Body.String())
	svc.AssertExpectations(t)
}

func TestHandler_CommandPlainTextSync(t *testing.T) {
	api := setup(t, sheet.NewService(memory.NewSheetRepository(), apiKey, slog.Default()))

	body := `{"action":"sync","sheet":"produksi","apiKey":"` + apiKey + `","items":[{"id":"a"},{"id":"b"},{"id":"a"}]}`
	resp := api.Post("/exec", "Content-Type: text/plain", strings.NewReader(body))

	out := decode(t, resp.Body.Bytes())
	assert.Equal(t, true, out["success"])
	assert.Equal(t, float64(2), out["added"])
}

func TestHandler_CommandInvalidJSON(t *testing.T) {
	svc := new(MockService)
	api := setup(t, svc)

	resp := api.Post("/exec", "Content-Type: text/plain", strings.NewReader("{oops"))
	assert.JSONEq(t, `{"success":false,"error":"Invalid request"}`, resp.Body.String())
	svc.AssertNotCalled(t, "Command", mock.Anything, mock.Anything)
}
