package devutil_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attus74/devutil"
)

func TestSpecError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := devutil.NewSpecError("MachineName", "Recipe", "must be lower case")
		assert.Equal(t, `devutil: invalid spec field "MachineName" (value: Recipe): must be lower case`, err.Error())

		err = devutil.NewSpecError("Label", "", "must not be empty")
		assert.Equal(t, `devutil: invalid spec field "Label": must not be empty`, err.Error())
	})

	t.Run("IsSpecError", func(t *testing.T) {
		err := devutil.NewSpecError("Path", "x", "conflict")
		assert.True(t, errors.Is(err, devutil.ErrInvalidSpec))
		assert.True(t, devutil.IsSpecError(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, devutil.IsSpecError(devutil.ErrInvalidSpec))
		assert.False(t, devutil.IsSpecError(errors.New("other error")))
		assert.False(t, devutil.IsSpecError(nil))
	})
}

func TestModuleError(t *testing.T) {
	cause := errors.New("permission denied")
	err := devutil.NewModuleError("kitchen", "modules/custom/kitchen", "cannot create directory", cause)

	assert.Equal(t, "devutil: module kitchen (modules/custom/kitchen): cannot create directory: permission denied", err.Error())
	assert.ErrorIs(t, err, devutil.ErrModuleCreation)
	assert.ErrorIs(t, err, cause)
	assert.True(t, devutil.IsModuleError(fmt.Errorf("run: %w", err)))
	assert.False(t, devutil.IsModuleError(cause))
}

func TestPreconditionError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := devutil.NewPreconditionError("document", "memo", "bundle already exists")
		assert.Equal(t, "devutil: precondition failed for document.memo: bundle already exists", err.Error())

		err = devutil.NewPreconditionError("", "", "no owner")
		assert.Equal(t, "devutil: precondition failed: no owner", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := devutil.NewPreconditionError("document", "", "no bundles")
		assert.ErrorIs(t, err, devutil.ErrPrecondition)
		assert.True(t, devutil.IsPreconditionError(err))
		assert.False(t, devutil.IsPreconditionError(devutil.ErrInvalidSpec))
	})
}

func TestPatchError(t *testing.T) {
	cause := errors.New("unterminated string")
	err := devutil.NewPatchError("kitchen.module", "kitchen_theme", cause)

	assert.Equal(t, "devutil: cannot patch kitchen_theme in kitchen.module: unterminated string", err.Error())
	assert.ErrorIs(t, err, devutil.ErrPatchFailed)
	assert.ErrorIs(t, err, cause)
	assert.True(t, devutil.IsPatchError(err))
}

func TestDocumentError(t *testing.T) {
	err := devutil.NewDocumentError("", "empty name")
	assert.Equal(t, "devutil: malformed document: empty name", err.Error())
	assert.ErrorIs(t, err, devutil.ErrMalformedDocument)
	assert.True(t, devutil.IsDocumentError(err))

	err = devutil.NewDocumentError("RecipeForm", "duplicate member")
	assert.Contains(t, err.Error(), "RecipeForm")
}

func TestAggregateError(t *testing.T) {
	t.Run("NoErrors", func(t *testing.T) {
		assert.Nil(t, devutil.NewAggregateError())
		assert.Nil(t, devutil.NewAggregateError(nil, nil))
	})

	t.Run("SingleError", func(t *testing.T) {
		single := errors.New("single error")
		assert.Equal(t, single, devutil.NewAggregateError(nil, single))
	})

	t.Run("MultipleErrors", func(t *testing.T) {
		err1 := devutil.NewSpecError("Label", "", "empty")
		err2 := errors.New("error 2")
		err := devutil.NewAggregateError(err1, err2)

		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "multiple errors")
		assert.Contains(t, err.Error(), "error 2")
		assert.True(t, devutil.IsSpecError(err))
	})
}

func TestSentinelErrors(t *testing.T) {
	for _, err := range []error{
		devutil.ErrInvalidSpec,
		devutil.ErrModuleCreation,
		devutil.ErrPrecondition,
		devutil.ErrPatchFailed,
		devutil.ErrMalformedDocument,
	} {
		assert.Contains(t, err.Error(), "devutil: ")
	}
}
