package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campus-portal/campus-api/internal/apperrors"
)

var (
	// ErrEventNotFound indicates the referenced event does not exist.
	ErrEventNotFound = apperrors.NotFound(apperrors.ReasonEventNotFound, "event not found")
	// ErrClubNotFound indicates the club is missing or not visible to the caller.
	ErrClubNotFound = apperrors.NotFound(apperrors.ReasonClubNotFound, "club not found")
	// ErrRegistrationNotFound indicates the caller holds no seat at the event.
	ErrRegistrationNotFound = apperrors.NotFound(apperrors.ReasonRegistrationAbsent, "registration not found")
	// ErrPendingMembershipNotFound indicates there is no pending request to approve.
	ErrPendingMembershipNotFound = apperrors.NotFound(apperrors.ReasonMembershipAbsent, "pending membership not found")
	// ErrFlagNotFound indicates the flag does not exist.
	ErrFlagNotFound = apperrors.NotFound(apperrors.ReasonFlagNotFound, "flag not found")
	// ErrLeaderNotFound indicates there is no leader account for the identity.
	ErrLeaderNotFound = apperrors.NotFound(apperrors.ReasonLeaderNotFound, "leader account not found")
	// ErrAlreadyRegistered indicates the caller already holds a seat.
	ErrAlreadyRegistered = apperrors.Conflict(apperrors.ReasonAlreadyRegistered, "already registered for this event")
	// ErrCapacityExceeded indicates every seat is taken.
	ErrCapacityExceeded = apperrors.Conflict(apperrors.ReasonCapacityExceeded, "event is at capacity")
	// ErrLeaderAlreadyApproved indicates the leader account was approved earlier.
	ErrLeaderAlreadyApproved = apperrors.Conflict(apperrors.ReasonAlreadyApproved, "leader already approved")
	// ErrClubNameTaken indicates another club already uses the name.
	ErrClubNameTaken = apperrors.Conflict(apperrors.ReasonClubNameTaken, "club name already taken")
	// ErrInvalidFlagItemType indicates an unsupported flag target.
	ErrInvalidFlagItemType = apperrors.Validation("item_type must be event or announcement")
	// ErrFlagReasonRequired indicates an empty reason after sanitising.
	ErrFlagReasonRequired = apperrors.Validation("reason is required")
)

// validationError converts validator failures into a typed validation error with field details.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apperrors.Wrap(err, apperrors.KindValidation, apperrors.ReasonInvalidPayload, "invalid payload")
	}

	details := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[toSnake(fe.Field())] = fe.Tag()
	}
	return apperrors.Wrap(err, apperrors.KindValidation, apperrors.ReasonInvalidPayload, "invalid payload").WithDetails(details)
}

func toSnake(field string) string {
	runes := []rune(field)
	var b strings.Builder
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
