package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

type pingOutput struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

func TestLogger_Middleware(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	mw := New(log)

	_, api := humatest.New(t)
	huma.Register(api, huma.Operation{
		OperationID: "exec",
		Method:      http.MethodGet,
		Path:        "/exec",
		Middlewares: huma.Middlewares{mw.Middleware()},
	}, func(_ context.Context, _ *struct{}) (*pingOutput, error) {
		out := &pingOutput{}
		out.Body.OK = true
		return out, nil
	})

	resp := api.Get("/exec?action=getAll&sheet=produksi&apiKey=secret")
	require.Equal(t, http.StatusOK, resp.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HTTP request", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/exec", entry["path"])
	assert.Equal(t, "getAll", entry["action"])
	assert.Equal(t, "produksi", entry["sheet"])
	assert.Equal(t, float64(200), entry["status"])
	assert.NotContains(t, buf.String(), "secret")
}
