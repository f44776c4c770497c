package apperr

import (
	"errors"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassifiersSeeThroughWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "validation", err: Field("certificate_url", "required"), check: IsValidation},
		{name: "not found", err: NotFound("course", 7), check: IsNotFound},
		{name: "conflict", err: Conflict("already enrolled"), check: IsConflict},
		{name: "forbidden", err: Forbidden("not your course"), check: IsForbidden},
		{name: "backend", err: Backend("list", errors.New("dial tcp: refused")), check: IsBackend},
		{name: "parse", err: Backend("decode", &ParseError{Entity: "lesson", Field: "id", Reason: "missing"}), check: IsParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := pkgerrors.Wrap(tt.err, "handler")
			assert.True(t, tt.check(wrapped))
		})
	}
}

func TestValidationErrorMessages(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{{Field: "reason", Error: "required"}}}
	assert.Equal(t, "reason: required", err.Error())
	assert.Equal(t, map[string]string{"reason": "required"}, err.FieldMap())

	assert.Equal(t, "course 3 not found", NotFound("course", 3).Error())
	assert.Equal(t, "enrollment not found", NotFound("enrollment", nil).Error())
	assert.Nil(t, Backend("noop", nil))
}
