package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"vriksh/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	sentinel := apperrors.New(apperrors.KindNotFound, "plant not found")
	wrapped := fmt.Errorf("get plant: %w", sentinel)

	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, apperrors.Is(wrapped, apperrors.KindNotFound))
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(errors.New("boom")))
	assert.False(t, apperrors.Is(nil, apperrors.KindInternal))
}

func TestDataServiceKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.DataService("failed to list plants", cause)

	assert.Equal(t, apperrors.KindDataService, apperrors.KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to list plants: connection refused", err.Error())
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Name is required", apperrors.PublicMessage(apperrors.Validation("Name is required"), "fallback"))
	assert.Equal(t, "fallback", apperrors.PublicMessage(errors.New("raw"), "fallback"))
}
