package record

// Repository persists ordered tables of records on the device.
//
// Load never surfaces a malformed payload as an error: backends drop what they
// cannot decode and return what is left. Errors are reserved for I/O failures.
type Repository interface {
	Load(table string) ([]Record, error)
	Insert(table string, rec Record) error
	// Put replaces the record with the given id in place. It reports false when
	// no such record exists.
	Put(table, id string, rec Record) (bool, error)
	Remove(table, id string) (bool, error)
	ReplaceAll(table string, recs []Record) error
	Close() error
}

// Auditor receives one entry per audited mutation.
type Auditor interface {
	Append(action, detail string) AuditEntry
}

// Op is the kind of mutation forwarded to the remote service.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Pusher forwards a local mutation to the remote service without blocking the caller.
type Pusher interface {
	PushAsync(op Op, table string, rec Record)
}
