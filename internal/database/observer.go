package database

// EventType identifies a point in the Database's operation lifecycle.
// Grounded on the teacher's internal/engine/observer.go, generalized
// from the lex/parse/plan/exec pipeline to also cover storage-warning
// and poison transitions this engine adds.
type EventType int

const (
	EventLexStart EventType = iota
	EventLexEnd
	EventParseStart
	EventParseEnd
	EventPlanStart
	EventPlanEnd
	EventExecStart
	EventExecEnd
	EventAppend
	EventStorageWarning
	EventPoisoned
)

func (e EventType) String() string {
	switch e {
	case EventLexStart:
		return "lex_start"
	case EventLexEnd:
		return "lex_end"
	case EventParseStart:
		return "parse_start"
	case EventParseEnd:
		return "parse_end"
	case EventPlanStart:
		return "plan_start"
	case EventPlanEnd:
		return "plan_end"
	case EventExecStart:
		return "exec_start"
	case EventExecEnd:
		return "exec_end"
	case EventAppend:
		return "append"
	case EventStorageWarning:
		return "storage_warning"
	case EventPoisoned:
		return "poisoned"
	default:
		return "unknown"
	}
}

// Event is one structured lifecycle notification.
type Event struct {
	Type      EventType
	Table     string
	BatchID   string
	Statement string
	Err       error
}

// Observer receives lifecycle events from a Database without the
// Database needing to know how (or whether) they are logged.
type Observer interface {
	Notify(Event)
}

// LoggingObserver forwards every event to a slog.Logger at a level
// appropriate to the event, mirroring the teacher's LoggingObserver.
type LoggingObserver struct {
	Log Logger
}

// Logger is the minimal slog-shaped surface LoggingObserver needs, kept
// narrow so callers can supply *slog.Logger directly without this
// package importing log/slog's full API surface into its public type.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

func (o *LoggingObserver) Notify(ev Event) {
	if o == nil || o.Log == nil {
		return
	}
	switch ev.Type {
	case EventStorageWarning:
		o.Log.Warn("storage warning", "table", ev.Table)
	case EventPoisoned:
		o.Log.Error("database poisoned", "table", ev.Table, "error", ev.Err)
	default:
		o.Log.Info(ev.Type.String(), "table", ev.Table, "batch", ev.BatchID)
	}
}

func (d *Database) notify(ev Event) {
	for _, o := range d.observers {
		o.Notify(ev)
	}
}
