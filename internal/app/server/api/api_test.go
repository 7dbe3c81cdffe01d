package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sppgdatasystem/bgn/internal/domain/sheet"
	"github.com/sppgdatasystem/bgn/internal/infrastructure/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestNew_Routes(t *testing.T) {
	svc := sheet.NewService(memory.NewSheetRepository(), "SPPGDATA2026", slog.Default())
	srv := httptest.NewServer(New(svc, "memory", slog.Default()))
	defer srv.Close()

	for _, path := range []string{"/healthz", "/exec?action=ping"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
