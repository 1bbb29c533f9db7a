package services

import (
	"fmt"
)

// FailureKind classifies why an upstream call failed. It only feeds logs and
// metrics; callers see a single failure class.
type FailureKind string

const (
	FailureTransport FailureKind = "transport"
	FailureStatus    FailureKind = "status"
	FailureDecode    FailureKind = "decode"
	FailureShape     FailureKind = "shape"
	FailureAPI       FailureKind = "api"
	FailureCanceled  FailureKind = "canceled"
)

// UpstreamError is returned for every failed chat completion call.
type UpstreamError struct {
	Kind       FailureKind
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s failure (HTTP %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s failure: %v", e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
