package listview

import (
	"errors"
	"strings"
)

// Status is the phase of a fetch slot.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// DefaultFailureMessage is shown when a failure carries no usable message.
const DefaultFailureMessage = "Error fetching movies"

// Page is one page of items returned by a Loader.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// Result is the tri-state outcome of a slot. Exactly one of the status
// specific fields is meaningful: Items/TotalPages on success, Message on
// failure.
type Result[T any] struct {
	Status     Status
	Items      []T
	TotalPages int
	Message    string
	// Seq identifies the fetch that produced this result.
	Seq uint64
}

func (r Result[T]) IsIdle() bool    { return r.Status == StatusIdle }
func (r Result[T]) IsLoading() bool { return r.Status == StatusLoading }
func (r Result[T]) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Result[T]) IsFailure() bool { return r.Status == StatusFailure }

// IsEmpty reports a successful fetch without items, which is not an error.
func (r Result[T]) IsEmpty() bool {
	return r.Status == StatusSuccess && len(r.Items) == 0
}

// PublicError is implemented by errors that carry a message safe to show to
// end users, such as an upstream status_message or a configuration problem.
type PublicError interface {
	error
	PublicMessage() string
}

// FailureMessage converts err into the text shown for a failed fetch.
func FailureMessage(err error) string {
	var pub PublicError
	if errors.As(err, &pub) {
		if msg := strings.TrimSpace(pub.PublicMessage()); msg != "" {
			return msg
		}
	}
	return DefaultFailureMessage
}
