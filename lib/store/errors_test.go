package store

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want RetCode
	}{
		{"nil", nil, RetCSuccess},
		{"plain store error", NewError(RetCNotFound, "person 1"), RetCNotFound},
		{"formatted", Errorf(RetCBadRequest, "gender %q", "x"), RetCBadRequest},
		{"internal with stack", Errorf(RetCInternalError, "dangling place %d", 3), RetCInternalError},
		{"wrapped", errors.Wrap(NewError(RetCConflict, "visit 10"), "users_1.json"), RetCConflict},
		{"double wrapped", errors.Wrapf(errors.Wrap(NewError(RetCNotFound, "x"), "a"), "b %d", 1), RetCNotFound},
		{"foreign error", errors.New("boom"), RetCInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewError(RetCNotFound, "")))
	assert.True(t, IsConflict(NewError(RetCConflict, "")))
	assert.True(t, IsBadRequest(NewError(RetCBadRequest, "")))
	assert.False(t, IsNotFound(nil))
	assert.Contains(t, NewError(RetCConflict, "visit 10").Error(), "Conflict")
	assert.Contains(t, NewError(RetCConflict, "visit 10").Error(), "visit 10")
}
