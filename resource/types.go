package resource

// Handle is an opaque reference to a registered native resource.
// Handles are unique for the lifetime of the process and never reused.
// Handle 0 is reserved and always invalid.
type Handle uint64

// Kind is the closed category a handle belongs to. Kind mismatches are
// caught at lookup, never by runtime inspection of the stored value.
type Kind uint32

const (
	KindConfiguration Kind = iota + 1
	KindRegistry
	KindMediaEngine
	KindAPI
	KindPeerConnection
)

// String returns the kind name used in errors and logs.
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindRegistry:
		return "registry"
	case KindMediaEngine:
		return "media_engine"
	case KindAPI:
		return "api"
	case KindPeerConnection:
		return "peer_connection"
	default:
		return "unknown"
	}
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRetired
)

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	Kind   Kind
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Closer is optionally implemented by resource values that hold engine
// state needing explicit release (e.g. peer connections).
type Closer interface {
	Close() error
}
