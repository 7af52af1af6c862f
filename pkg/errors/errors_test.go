package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/alchemorsel/recipebook/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *apperrors.AppError
		want int
	}{
		{"validation", apperrors.NewValidationError("name is required"), http.StatusBadRequest},
		{"bad request", apperrors.NewBadRequestError("bad id"), http.StatusBadRequest},
		{"recipe not found", apperrors.NewRecipeNotFoundError(7), http.StatusNotFound},
		{"not found", apperrors.NewNotFoundError("Ingredient"), http.StatusNotFound},
		{"rate limited", apperrors.NewTooManyRequestsError(), http.StatusTooManyRequests},
		{"database", apperrors.NewDatabaseError("search recipes", stderrors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestNewDatabaseError_KeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")

	err := apperrors.NewDatabaseError("create recipe", cause)
	wrapped := fmt.Errorf("service: %w", err)

	assert.True(t, stderrors.Is(wrapped, cause))
	assert.True(t, apperrors.Is(wrapped, apperrors.CodeDatabaseError))
	assert.Equal(t, apperrors.CodeDatabaseError, apperrors.GetCode(wrapped))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, apperrors.Wrap(nil, "ignored"))
	})

	t.Run("app error passes through", func(t *testing.T) {
		original := apperrors.NewRecipeNotFoundError(3)
		assert.Same(t, original, apperrors.Wrap(fmt.Errorf("lookup: %w", original), "ignored"))
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		cause := stderrors.New("unexpected")
		wrapped := apperrors.Wrap(cause, "failed")
		require.NotNil(t, wrapped)
		assert.Equal(t, apperrors.CodeInternal, wrapped.Code)
		assert.ErrorIs(t, wrapped, cause)
	})
}

func TestNewValidationErrors(t *testing.T) {
	err := apperrors.NewValidationErrors([]apperrors.ValidationError{
		{Field: "name", Tag: "required", Message: "name is required"},
		{Field: "servingCapacity", Tag: "min", Message: "servingCapacity must be at least 1"},
	})

	assert.Equal(t, apperrors.CodeValidationFailed, err.Code)
	assert.Equal(t, "name is required; servingCapacity must be at least 1", err.Details)
	assert.Len(t, err.Metadata["validation_errors"], 2)
}

func TestToErrorResponse(t *testing.T) {
	resp := apperrors.ToErrorResponse(apperrors.NewRecipeNotFoundError(42), "req-1")

	assert.Equal(t, apperrors.CodeRecipeNotFound, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Equal(t, uint64(42), resp.Error.Metadata["recipe_id"])
	assert.NotEmpty(t, resp.Error.Timestamp)
}
