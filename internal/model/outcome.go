package model

// Status tags an Outcome with how the upstream call ended.
type Status string

const (
	StatusSuccess Status = "success"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

// Outcome is the uniform envelope for one upstream fetch: the call either
// succeeded with a value, timed out, or failed with a reason. Upstream
// failure never escapes as an error; it travels inside the Outcome.
type Outcome[T any] struct {
	Status Status `json:"status"`
	Value  T      `json:"value,omitzero"`
	Reason string `json:"reason,omitempty"`
}

func Success[T any](value T) Outcome[T] {
	return Outcome[T]{Status: StatusSuccess, Value: value}
}

func Timeout[T any]() Outcome[T] {
	return Outcome[T]{Status: StatusTimeout, Reason: "upstream call timed out"}
}

func Failure[T any](reason string) Outcome[T] {
	return Outcome[T]{Status: StatusError, Reason: reason}
}

// Failed reports whether the outcome is anything other than a success.
func (o Outcome[T]) Failed() bool {
	return o.Status != StatusSuccess
}
