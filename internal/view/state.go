// Package view holds the per-screen data lifecycle: a tagged state value and a
// resource that drives it from one fetch at a time.
package view

// Status is the phase of a screen's data
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is exactly one of idle, loading, success(Data) or error(Message).
// The zero value is idle.
type State[T any] struct {
	Status  Status
	Data    T
	Message string
}

// Idle returns the initial state
func Idle[T any]() State[T] {
	return State[T]{Status: StatusIdle}
}

// Loading returns a state with no data
func Loading[T any]() State[T] {
	return State[T]{Status: StatusLoading}
}

// Success carries a payload
func Success[T any](data T) State[T] {
	return State[T]{Status: StatusSuccess, Data: data}
}

// Failure carries the user-facing message. Data is always the zero value so a
// previous payload can never be shown as current.
func Failure[T any](message string) State[T] {
	return State[T]{Status: StatusError, Message: message}
}

func (s State[T]) IsIdle() bool    { return s.Status == StatusIdle }
func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }
func (s State[T]) IsError() bool   { return s.Status == StatusError }
