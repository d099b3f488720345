package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of its message.
type Kind string

// Failure kinds understood by the HTTP boundary.
const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// Reason is a machine-readable sub-reason attached to a Kind.
type Reason string

// Known reasons.
const (
	ReasonInvalidPayload     Reason = "invalid_payload"
	ReasonIdentityRequired   Reason = "identity_required"
	ReasonInvalidRole        Reason = "invalid_role"
	ReasonAdminRequired      Reason = "admin_required"
	ReasonLeaderRequired     Reason = "club_leader_required"
	ReasonEventNotFound      Reason = "event_not_found"
	ReasonClubNotFound       Reason = "club_not_found"
	ReasonRegistrationAbsent Reason = "registration_not_found"
	ReasonMembershipAbsent   Reason = "membership_not_found"
	ReasonFlagNotFound       Reason = "flag_not_found"
	ReasonLeaderNotFound     Reason = "leader_not_found"
	ReasonAlreadyRegistered  Reason = "already_registered"
	ReasonCapacityExceeded   Reason = "capacity_exceeded"
	ReasonAlreadyMember      Reason = "already_member"
	ReasonAlreadyApproved    Reason = "already_approved"
	ReasonClubNameTaken      Reason = "club_name_taken"
	ReasonSeedDisabled       Reason = "seed_disabled"
)

// Error is the typed failure returned by services.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Details map[string]string
	Err     error
}

// New creates an error of the given kind and reason.
func New(kind Kind, reason Reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

// Wrap attaches a cause to a kind and reason.
func Wrap(err error, kind Kind, reason Reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and reason.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind && e.Reason == other.Reason
}

// WithDetails returns a copy carrying field-level details.
func (e *Error) WithDetails(details map[string]string) *Error {
	clone := *e
	clone.Details = details
	return &clone
}

// Validation builds a validation error.
func Validation(message string) *Error {
	return New(KindValidation, ReasonInvalidPayload, message)
}

// Forbidden builds a forbidden error with the given reason.
func Forbidden(reason Reason, message string) *Error {
	return New(KindForbidden, reason, message)
}

// NotFound builds a not found error with the given reason.
func NotFound(reason Reason, message string) *Error {
	return New(KindNotFound, reason, message)
}

// Conflict builds a conflict error with the given reason.
func Conflict(reason Reason, message string) *Error {
	return New(KindConflict, reason, message)
}

// KindOf reports the kind of err, or KindInternal when it is untyped.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ReasonOf reports the reason of err, or an empty reason when it is untyped.
func ReasonOf(err error) Reason {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}

// As extracts the typed error.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}
