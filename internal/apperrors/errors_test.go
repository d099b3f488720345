package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campus-portal/campus-api/internal/apperrors"
)

func TestErrorIsMatchesKindAndReason(t *testing.T) {
	full := apperrors.Conflict(apperrors.ReasonCapacityExceeded, "event is full")
	wrapped := fmt.Errorf("register: %w", full)

	require.ErrorIs(t, wrapped, apperrors.Conflict(apperrors.ReasonCapacityExceeded, "different text"))
	require.NotErrorIs(t, wrapped, apperrors.Conflict(apperrors.ReasonAlreadyRegistered, "event is full"))
	require.Equal(t, apperrors.KindConflict, apperrors.KindOf(wrapped))
	require.Equal(t, apperrors.ReasonCapacityExceeded, apperrors.ReasonOf(wrapped))
}

func TestKindOfUntypedError(t *testing.T) {
	err := errors.New("boom")
	require.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	require.Empty(t, apperrors.ReasonOf(err))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := apperrors.Wrap(cause, apperrors.KindInternal, "", "persist failed")
	require.ErrorIs(t, err, cause)
	require.Equal(t, "persist failed: disk full", err.Error())
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	base := apperrors.Validation("invalid payload")
	detailed := base.WithDetails(map[string]string{"title": "required"})
	require.Nil(t, base.Details)
	require.Equal(t, "required", detailed.Details["title"])
	require.ErrorIs(t, detailed, base)
}
