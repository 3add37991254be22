package domainerrors_test

import (
	"errors"
	"fmt"
	"testing"

	dErrors "civicbridge/pkg/domain-errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := dErrors.New(dErrors.CodeBadRequest, "zip is required")

	assert.Equal(t, dErrors.CodeBadRequest, err.Code)
	assert.Equal(t, "bad_request: zip is required", err.Error())
	assert.Nil(t, errors.Unwrap(err))
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := dErrors.Wrap(cause, dErrors.CodeUpstreamUnavailable, "geocoder unreachable")

	assert.Equal(t, "upstream_unavailable: geocoder unreachable: connection refused", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestCodeOf(t *testing.T) {
	t.Run("domain error reports its code", func(t *testing.T) {
		err := dErrors.New(dErrors.CodeNotFound, "no such member")
		assert.Equal(t, dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	t.Run("wrapped domain error is found through the chain", func(t *testing.T) {
		inner := dErrors.New(dErrors.CodeResolutionFailed, "bad zip")
		outer := fmt.Errorf("lookup: %w", inner)
		assert.Equal(t, dErrors.CodeResolutionFailed, dErrors.CodeOf(outer))
	})

	t.Run("non-domain error reports internal", func(t *testing.T) {
		assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(errors.New("boom")))
	})
}

func TestIs(t *testing.T) {
	err := dErrors.Wrap(errors.New("model returned empty response"), dErrors.CodeExplainFailed, "completion failed")

	require.True(t, dErrors.Is(err, dErrors.CodeExplainFailed))
	assert.False(t, dErrors.Is(err, dErrors.CodeTimeout))
	assert.False(t, dErrors.Is(errors.New("boom"), dErrors.CodeExplainFailed))
}
