package fanlog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseKeyValue tests the override string parser
func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue(" level = debug ")
	require.NoError(t, err)
	assert.Equal(t, "level", key)
	assert.Equal(t, "debug", value)

	key, value, err = parseKeyValue("format={level}={msg}")
	require.NoError(t, err)
	assert.Equal(t, "format", key)
	assert.Equal(t, "{level}={msg}", value)

	_, _, err = parseKeyValue("novalue")
	assert.Error(t, err)
	_, _, err = parseKeyValue("=x")
	assert.Error(t, err)
}

func TestErrorHelpers(t *testing.T) {
	err := fmtErrorf("bad %d", 1)
	assert.EqualError(t, err, "fanlog: bad 1")
	assert.EqualError(t, fmtErrorf("fanlog: once"), "fanlog: once")

	wrapped := fmtErrorf("context: %w", ErrFileExists)
	assert.True(t, errors.Is(wrapped, ErrFileExists))

	a, b := errors.New("a"), errors.New("b")
	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, a, combineErrors(a, nil))
	assert.Equal(t, b, combineErrors(nil, b))
	combined := combineErrors(a, b)
	assert.EqualError(t, combined, "a; b")
	assert.True(t, errors.Is(combined, b))
}
