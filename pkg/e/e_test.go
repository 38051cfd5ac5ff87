package e

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	err := Wrap("CategoryUseCase.Delete", Wrap("tx", ErrCategoryInUse))

	assert.Equal(t, ErrInUse, Kind(err))
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.Equal(t, "Category is in use and cannot be deleted", Message(err))
	assert.Equal(t, "CategoryUseCase.Delete: tx: Category is in use and cannot be deleted", err.Error())
}

func TestUnclassifiedError(t *testing.T) {
	err := fmt.Errorf("dial tcp: %w", errors.New("connection refused"))

	assert.Nil(t, Kind(err))
	assert.Equal(t, ErrInternalServerError.Error(), Message(err))
	assert.Nil(t, Kind(Wrap("op", ErrCacheMiss)))
}

func TestNewKeepsKind(t *testing.T) {
	err := New(ErrConflict, "already there")

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "already there", err.Error())
}
