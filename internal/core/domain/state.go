package domain

// SystemState tracks the assistant lifecycle. Transitions are owned by the
// orchestrator: Initialize moves Uninitialized through ModelLoading to one
// of the Ready states; the first successful ingestion moves Ready to
// ReadyIndexed. The indexed state is monotonic within a process.
type SystemState int

const (
	// StateUninitialized is the starting state; no model loaded.
	StateUninitialized SystemState = iota

	// StateModelLoading is the transient state while capabilities are
	// being verified.
	StateModelLoading

	// StateReady means the model is loaded but no index exists yet.
	StateReady

	// StateReadyIndexed means the model is loaded and the index holds at
	// least one chunk.
	StateReadyIndexed
)

// String returns a human-readable state name.
func (s SystemState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateModelLoading:
		return "loading model"
	case StateReady:
		return "ready (no index)"
	case StateReadyIndexed:
		return "ready (indexed)"
	default:
		return "unknown"
	}
}

// CanIngest reports whether ingestion is valid in this state.
func (s SystemState) CanIngest() bool {
	return s == StateReady || s == StateReadyIndexed
}

// CanQuery reports whether grounded queries are valid in this state.
func (s SystemState) CanQuery() bool {
	return s == StateReadyIndexed
}
