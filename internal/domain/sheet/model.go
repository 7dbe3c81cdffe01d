package sheet

import "github.com/sppgdatasystem/bgn/internal/domain/record"

// Actions of the query channel (GET).
const (
	ActionPing        = "ping"
	ActionGetAll      = "getAll"
	ActionGetBranding = "getBranding"
	ActionGetSettings = "getSettings"
	ActionSetSetting  = "setSetting"
	ActionAddItem     = "addItem"
	ActionUpdateItem  = "updateItem"
	ActionDeleteItem  = "deleteItem"
)

// Actions of the command channel (POST).
const (
	ActionAdd       = "add"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionSync      = "sync"
	ActionResetData = "resetData"
)

const (
	APIVersion   = "2.0"
	ReadyMessage = "SPPG API Ready"

	DefaultAppName  = "SPPG-MBG-BGN-INDONESIA"
	DefaultSubtitle = "Badan Gizi Nasional"
)

// Request is one call of either channel after transport decoding.
type Request struct {
	Action string
	Sheet  string
	ID     string
	APIKey string
	Value  string
	User   string
	Item   record.Record
	Items  []record.Record
}

// Response is the {success, ...} envelope every action answers with.
type Response struct {
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
	Version   string `json:"version,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
	ID        any    `json:"id,omitempty"`
	Added     *int   `json:"added,omitempty"`
	Data      any    `json:"data,omitempty"`
}

type Branding struct {
	AppName  string `json:"appName"`
	Subtitle string `json:"subtitle"`
}

func fail(msg string) Response {
	return Response{Success: false, Error: msg}
}

func ok() Response {
	return Response{Success: true}
}
