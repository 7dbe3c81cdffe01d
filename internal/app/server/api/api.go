// Маршруты сервиса таблиц:
//
//	GET  /exec     # чтение и запись через query-параметры, JSON или JSONP
//	POST /exec     # запись с JSON-телом, ключ API внутри тела
//	GET  /healthz  # состояние сервиса

package api

import (
	healthAPI "github.com/sppgdatasystem/bgn/internal/app/server/api/http/health"
	"github.com/sppgdatasystem/bgn/internal/app/server/api/http/middleware"
	"github.com/sppgdatasystem/bgn/internal/app/server/api/http/middleware/logger"
	sheetAPI "github.com/sppgdatasystem/bgn/internal/app/server/api/http/sheet"
	"github.com/sppgdatasystem/bgn/internal/domain/sheet"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

type Handlers struct {
	Health *healthAPI.Handler
	Sheet  *sheetAPI.Handler
}

// New создает *chi.Mux со всеми операциями через huma.Register
func New(svc sheet.Servicer, storageName string, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	config := huma.DefaultConfig("SPPG Sheets API", sheet.APIVersion)
	API := humachi.New(mux, config)

	h := handlers(svc, storageName, log)
	h.Health.SetupRoutes(API)
	h.Sheet.SetupRoutes(API)

	return mux
}

func handlers(svc sheet.Servicer, storageName string, log *slog.Logger) *Handlers {
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(storageName, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	sheetHandler := sheetAPI.NewHandler(svc, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health: healthHandler,
		Sheet:  sheetHandler,
	}
}
