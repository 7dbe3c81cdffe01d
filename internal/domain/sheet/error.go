package sheet

// Messages of {success:false} replies. Devices match on some of them.
const (
	MsgInvalidAPIKey     = "Invalid API Key"
	MsgInvalidAction     = "Invalid action"
	MsgRecordNotFound    = "Record not found"
	MsgSheetNotFound     = "Sheet not found"
	MsgDuplicatePhone    = "User dengan phone ini sudah ada"
	MsgSettingIDRequired = "Setting ID required"
	MsgInvalidRequest    = "Invalid request"
)
