package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end
	KindPoint                     // instant event
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity of an event.
// Lower values are coarser.
type Scope uint8

const (
	ScopeCommand  Scope = iota + 1 // CLI command or server request handler
	ScopePhase                     // driver phase: lex, check, validate, group
	ScopeRequest                   // one call to the remote validator
	ScopeDocument                  // per-document work
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopePhase:
		return "phase"
	case ScopeRequest:
		return "request"
	case ScopeDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string            // e.g. "validate", "api/checkResource", "file:msg.hl7"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
