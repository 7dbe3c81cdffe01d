package sheet

import "github.com/sppgdatasystem/bgn/internal/domain/record"

type queryInput struct {
	Action   string `query:"action" doc:"ping, getAll, getBranding, getSettings, setSetting, addItem, updateItem, deleteItem"`
	Sheet    string `query:"sheet" doc:"Sheet name"`
	ID       string `query:"id" doc:"Record or setting id"`
	Data     string `query:"data" doc:"Record as url-encoded JSON"`
	APIKey   string `query:"apiKey" doc:"Required by writes"`
	Value    string `query:"value" doc:"Setting value"`
	Callback string `query:"callback" doc:"JSONP callback name"`
}

type commandInput struct {
	RawBody []byte
}

// commandBody is the JSON posted by devices. Some send it as text/plain.
type commandBody struct {
	APIKey string          `json:"apiKey"`
	Action string          `json:"action"`
	Sheet  string          `json:"sheet"`
	ID     any             `json:"id"`
	Data   record.Record   `json:"data"`
	Items  []record.Record `json:"items"`
	User   string          `json:"user"`
}

type execOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
