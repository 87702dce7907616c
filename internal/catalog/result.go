package catalog

// Result is the uniform envelope every data-access operation resolves to.
// Operations never return language-level errors to callers; failure travels
// through Success/Message only.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`

	// Diagnostic flags for the UI.
	Remote    bool `json:"remote,omitempty"`    // served by the hosted backend
	Fallback  bool `json:"fallback,omitempty"`  // read served from the local snapshot
	LocalOnly bool `json:"localOnly,omitempty"` // write applied only to local state
}

// OK builds a successful Result carrying data.
func OK(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail builds a failed Result with a human-readable reason.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
