package types

// ErrorEnvelope is the public error body: a flat message plus a machine code.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
