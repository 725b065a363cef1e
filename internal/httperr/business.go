package httperr

import (
	"errors"
	"fmt"
	"strings"
)

// ===============================
// Downstream steps
// ===============================

const (
	StepDeviceDocument      = "device_document"
	StepClientNotification  = "client_notification"
	StepInvoiceDocument     = "invoice_document"
	StepInvoiceNotification = "invoice_notification"
)

// ===============================
// Validation
// ===============================

// ValidationError is a malformed or missing input. It is never retried
// automatically; the caller has to correct the request.
type ValidationError struct {
	Code    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Field)
	}
	return e.Code
}

func ErrValidation(code, field, message string) error {
	return &ValidationError{Code: code, Field: field, Message: message}
}

// ErrRequired reports a missing required field.
func ErrRequired(field string) error {
	return &ValidationError{
		Code:    "required_field",
		Field:   field,
		Message: field + " is required",
	}
}

// ===============================
// Not found
// ===============================

type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func ErrNotFound(entity, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// ===============================
// Conflict
// ===============================

// ConflictError means a unique key was taken between lookup and insert.
type ConflictError struct {
	Entity string
	Key    string
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Entity, e.Key)
}

func (e *ConflictError) Unwrap() error { return e.Err }

func ErrConflict(entity, key string, cause error) error {
	return &ConflictError{Entity: entity, Key: key, Err: cause}
}

// ===============================
// Invalid transition
// ===============================

type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	allowed := "none"
	if len(e.Allowed) > 0 {
		allowed = strings.Join(e.Allowed, ", ")
	}
	return fmt.Sprintf(
		"cannot move job card from %s to %s (allowed: %s)",
		e.From, e.To, allowed,
	)
}

// ===============================
// Downstream failure
// ===============================

// DownstreamFailure is a document or notification collaborator failure.
// Writes committed before the failing step stay committed.
type DownstreamFailure struct {
	Step      string
	JobCardID uint
	Err       error
}

func (e *DownstreamFailure) Error() string {
	return fmt.Sprintf("step %s failed for job card %d: %v", e.Step, e.JobCardID, e.Err)
}

func (e *DownstreamFailure) Unwrap() error { return e.Err }

func ErrDownstream(step string, jobCardID uint, cause error) error {
	return &DownstreamFailure{Step: step, JobCardID: jobCardID, Err: cause}
}

// ===============================
// Helpers
// ===============================

func IsValidation(err error, code string) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return code == "" || ve.Code == code
	}
	return false
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsInvalidTransition(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}

// FailedSteps lists the steps of every DownstreamFailure joined into err.
func FailedSteps(err error) []string {
	if err == nil {
		return nil
	}

	var steps []string
	var walk func(error)
	walk = func(e error) {
		if df, ok := e.(*DownstreamFailure); ok {
			steps = append(steps, df.Step)
			return
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)

	return steps
}
