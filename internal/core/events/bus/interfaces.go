package bus

import "time"

// Kind is the routing key of an Event.
type Kind string

const (
	// FieldAssigned is published after a field was given a new value.
	FieldAssigned Kind = "field.assigned"
	// CollectionEdited is published after a slice or list field was edited in place.
	CollectionEdited Kind = "collection.edited"
)

// Event describes one change made to a holder. Handlers treat it as read-only.
type Event struct {
	Kind       Kind
	HolderPath string
	Field      string
	// Value is the assigned value for FieldAssigned and nil otherwise.
	Value     any
	Label     string
	Timestamp time.Time
}

// Handler is called once per delivered event. Errors are joined and returned
// from Publish.
type (
	Handler func(event Event) error
	// Filter drops an event without error when it returns false.
	Filter func(event Event) bool
)

// Observer is told about every publish. Observers should return quickly.
type Observer interface {
	OnDelivered(kind Kind, handlers int, err error)
}

// Metrics are counted only while at least one observer is registered.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
}
