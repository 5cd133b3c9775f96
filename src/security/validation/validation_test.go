package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClientContentType(t *testing.T) {
	assert.NoError(t, ValidateClientContentType("text/csv"))
	assert.NoError(t, ValidateClientContentType("TEXT/CSV"))
	assert.NoError(t, ValidateClientContentType("text/csv; charset=utf-8"))
	assert.NoError(t, ValidateClientContentType("application/octet-stream"))

	err := ValidateClientContentType("application/pdf")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "hello world", StripUnprintable("hello\x00 world\x1b"))
	assert.Equal(t, "tabs\tand\nnewlines\r", StripUnprintable("tabs\tand\nnewlines\r"))
	assert.Equal(t, "acentuação €", StripUnprintable("acentuação €"))
}
