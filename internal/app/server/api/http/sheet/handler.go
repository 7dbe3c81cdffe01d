package sheet

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"github.com/sppgdatasystem/bgn/internal/domain/sheet"
	"golang.org/x/exp/slog"
)

type Handler struct {
	service    sheet.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service sheet.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.queryOp(), h.query)
	huma.Register(api, h.commandOp(), h.command)
}

func (h *Handler) query(ctx context.Context, in *queryInput) (*execOutput, error) {
	req := sheet.Request{
		Action: in.Action,
		Sheet:  in.Sheet,
		ID:     in.ID,
		APIKey: in.APIKey,
		Value:  in.Value,
	}

	if in.Data != "" {
		item, err := decodeItem(in.Data)
		if err != nil {
			h.log.Debug("bad data parameter", "action", in.Action, "error", err)
			return h.output(sheet.Response{Error: sheet.MsgInvalidRequest}, in.Callback)
		}
		req.Item = item
	}

	return h.output(h.service.Query(ctx, req), in.Callback)
}

func (h *Handler) command(ctx context.Context, in *commandInput) (*execOutput, error) {
	var body commandBody
	if err := json.Unmarshal(in.RawBody, &body); err != nil {
		h.log.Debug("bad command body", "error", err)
		return h.output(sheet.Response{Error: sheet.MsgInvalidRequest}, "")
	}

	resp := h.service.Command(ctx, sheet.Request{
		Action: body.Action,
		Sheet:  body.Sheet,
		ID:     record.Stringify(body.ID),
		APIKey: body.APIKey,
		User:   body.User,
		Item:   body.Data,
		Items:  body.Items,
	})
	return h.output(resp, "")
}

func (h *Handler) output(resp sheet.Response, callback string) (*execOutput, error) {
	body, ct, err := Render(resp, callback)
	if err != nil {
		h.log.Error("render failed", "error", err)
		return nil, huma.Error500InternalServerError("render failed")
	}
	return &execOutput{ContentType: ct, Body: body}, nil
}

// decodeItem accepts the data parameter once or twice url-encoded.
func decodeItem(raw string) (record.Record, error) {
	var item record.Record
	err := json.Unmarshal([]byte(raw), &item)
	if err == nil {
		return item, nil
	}
	unescaped, uerr := url.QueryUnescape(raw)
	if uerr != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(unescaped), &item); err != nil {
		return nil, err
	}
	return item, nil
}
