package models

// ModelType identifies one category of synchronizable data (one logical
// table). Every engine worker instance serves exactly one ModelType for its
// whole lifetime; the value is otherwise opaque to the engine and is only
// echoed to the server and the nudge handler.
type ModelType string

// String returns the raw type identifier.
func (t ModelType) String() string { return string(t) }
