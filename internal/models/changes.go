package models

// EventKind - classification of a detected catalog change.
type EventKind string

const (
	// EventNew marks a product observed for the first time.
	EventNew EventKind = "NEW"
	// EventUpdate marks a tracked product whose variants changed.
	EventUpdate EventKind = "UPDATE"
)
