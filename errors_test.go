package offerdoc_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := offerdoc.Errorf(offerdoc.EINVALID, "url %q has no slug", "https://example.com/")

	assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
	assert.Equal(t, "url \"https://example.com/\" has no slug", offerdoc.ErrorMessage(err))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("scrape: %w", offerdoc.Errorf(offerdoc.EFETCH, "HTTP 503"))

	assert.Equal(t, offerdoc.EFETCH, offerdoc.ErrorCode(err))
	assert.Equal(t, "HTTP 503", offerdoc.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, offerdoc.EINTERNAL, offerdoc.ErrorCode(err))
	assert.Equal(t, "boom", offerdoc.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, offerdoc.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, offerdoc.ErrorMessage(nil))
}
