package sheet

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) queryOp() huma.Operation {
	return huma.Operation{
		OperationID: "sheet-query",
		Method:      http.MethodGet,
		Path:        "/exec",
		Summary:     "Read or write through query parameters (JSON or JSONP)",
		Tags:        []string{"sheets"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) commandOp() huma.Operation {
	return huma.Operation{
		OperationID: "sheet-command",
		Method:      http.MethodPost,
		Path:        "/exec",
		Summary:     "Write with a JSON body carrying the api key",
		Tags:        []string{"sheets"},
		Middlewares: h.middleware,
	}
}
