package dbal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{
			name:     "translation error",
			err:      &TranslationError{Position: 2, Message: "empty value list"},
			sentinel: ErrTranslation,
		},
		{
			name:     "capability error",
			err:      &CapabilityError{Dialect: "sqlserver", Feature: "OFFSET", Version: "10.50.0"},
			sentinel: ErrCapability,
		},
		{
			name:     "state error",
			err:      &StateError{Op: "query"},
			sentinel: ErrNotConnected,
		},
		{
			name:     "released error",
			err:      &ReleasedError{Op: "fetch"},
			sentinel: ErrReleased,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestExecutionError(t *testing.T) {
	cause := errors.New("syntax error near SELECT")
	err := &ExecutionError{Code: "42601", SQL: "SELEC 1", Cause: cause}

	assert.True(t, errors.Is(err, ErrExecution))
	assert.True(t, errors.Is(err, cause))

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "42601", execErr.Code)
	assert.Equal(t, "SELEC 1", execErr.SQL)

	assert.Contains(t, err.Error(), "42601")
	assert.Contains(t, err.Error(), "SELEC 1")
}

func TestExecutionError_NoCode(t *testing.T) {
	err := &ExecutionError{SQL: "SELECT 1", Cause: errors.New("broken pipe")}
	assert.NotContains(t, err.Error(), "[]")
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestTranslationError_Position(t *testing.T) {
	t.Run("positioned", func(t *testing.T) {
		err := &TranslationError{Position: 3, Value: 1.5, Message: "bad value"}
		assert.Contains(t, err.Error(), "argument 3")
	})

	t.Run("unpositioned", func(t *testing.T) {
		err := &TranslationError{Position: -1, Message: "bad sequence"}
		assert.NotContains(t, err.Error(), "argument")
	})
}

func TestCapabilityError_Message(t *testing.T) {
	t.Run("with version", func(t *testing.T) {
		err := &CapabilityError{Dialect: "sqlserver", Feature: "OFFSET", Version: "10.50.0"}
		assert.Equal(t, "dbal: sqlserver 10.50.0 does not support OFFSET", err.Error())
	})

	t.Run("without version", func(t *testing.T) {
		err := &CapabilityError{Dialect: "sqlserver", Feature: "interval literals"}
		assert.Equal(t, "dbal: sqlserver does not support interval literals", err.Error())
	})
}

func TestClassPredicates(t *testing.T) {
	assert.True(t, IsNotConnected(&StateError{Op: "ping"}))
	assert.True(t, IsTranslation(&TranslationError{Message: "x"}))
	assert.True(t, IsCapability(&CapabilityError{Dialect: "sqlite", Feature: "y"}))
	assert.True(t, IsReleased(&ReleasedError{Op: "seek"}))

	wrapped := fmt.Errorf("run failed: %w", &ReleasedError{Op: "count"})
	assert.True(t, IsReleased(wrapped))
	assert.False(t, IsTranslation(wrapped))
}
