package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/bucketlist/internal/client/client"
)

// Kind classifies a Failure.
type Kind string

const (
	// KindValidation is detected locally before any network call.
	KindValidation Kind = "validation"
	// KindAuth covers a missing, invalid or expired credential.
	KindAuth Kind = "auth"
	// KindNetwork means the request could not complete.
	KindNetwork Kind = "network"
	// KindServer is a rejection (non-2xx) or an unusable answer.
	KindServer Kind = "server"
)

const (
	MsgAuthRequired      = "authentication required"
	MsgSessionExpired    = "session expired, please log in again"
	MsgNetwork           = "network error, check your connection"
	MsgCanceled          = "request canceled"
	MsgUnexpectedReply   = "unexpected response from server"
	MsgPasswordsMismatch = "passwords do not match"
)

// Failure is the only error type services return. Message is meant for the
// user as is.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

func validation(msg string) *Failure {
	return &Failure{Kind: KindValidation, Message: msg}
}

// IsKind reports whether err is a Failure of kind k.
func IsKind(err error, k Kind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == k
}

// Result is the flattened outcome handed to presentation code.
type Result struct {
	Success bool
	Error   string
}

// AsResult turns an error returned by a service into a Result.
func AsResult(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	var f *Failure
	if !errors.As(translate(err), &f) {
		return Result{Error: err.Error()}
	}
	return Result{Error: f.Message}
}

// translate maps transport errors onto Failures. Failures pass through.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var f *Failure
	if errors.As(err, &f) {
		return f
	}

	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrAuthRequired):
		return &Failure{Kind: KindAuth, Message: MsgAuthRequired, Err: err}
	case errors.Is(err, client.ErrUnauthorized):
		return &Failure{Kind: KindAuth, Message: MsgSessionExpired, Err: err}
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: KindNetwork, Message: MsgNetwork, Err: err}
	case errors.Is(err, context.Canceled):
		return &Failure{Kind: KindNetwork, Message: MsgCanceled, Err: err}
	case errors.As(err, &apiErr):
		return &Failure{Kind: KindServer, Message: apiErr.Message, Err: err}
	default:
		return &Failure{Kind: KindServer, Message: MsgUnexpectedReply, Err: err}
	}
}
