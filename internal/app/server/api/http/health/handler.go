package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sppgdatasystem/bgn/internal/domain/sheet"
	"golang.org/x/exp/slog"
)

type Handler struct {
	storage    string
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(storage string, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		storage:    storage,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(_ context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	return &Output{
		Body: Response{
			Status:  "OK",
			Version: sheet.APIVersion,
			Storage: h.storage,
		},
	}, nil
}
