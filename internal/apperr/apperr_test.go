package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Violations: []FieldViolation{
		{Field: "name", Reason: "is required"},
		{Reason: "body must be a JSON object"},
	}}
	assert.Equal(t, "invalid request: name: is required; body must be a JSON object", err.Error())
	assert.True(t, err.Has("name"))
	assert.False(t, err.Has("title"))
}

func TestStorageWrapping(t *testing.T) {
	require.NoError(t, Storage("put", nil))

	cause := errors.New("throttled")
	err := fmt.Errorf("create: %w", Storage("put group", cause))

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "put group", se.Op)
	assert.ErrorIs(t, err, cause)
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, `group "g1" not found`, (&NotFoundError{Kind: "group", ID: "g1"}).Error())
}
