package core

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenOptions(t *testing.T) {
	opts := NewOpenOptions(OpenWrite, OpenCreate)
	assert.True(t, opts.Has(OpenWrite))
	assert.True(t, opts.Has(OpenCreate))
	assert.False(t, opts.Has(OpenRead))
	assert.Empty(t, NewOpenOptions())
}

func TestHasCopyOption(t *testing.T) {
	opts := []CopyOption{ReplaceExisting}
	assert.True(t, HasCopyOption(opts, ReplaceExisting))
	assert.False(t, HasCopyOption(opts, AtomicMove))
	assert.False(t, HasCopyOption(nil, ReplaceExisting))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "read", AccessRead.String())
	assert.Equal(t, "execute", AccessExecute.String())
	assert.Equal(t, "CREATE", EventCreate.String())
	assert.Equal(t, "OVERFLOW", EventOverflow.String())
	assert.Equal(t, "remote", FSTypeRemote.String())
}

func TestSentinelErrors(t *testing.T) {
	assert.True(t, errors.Is(ErrNotExist, fs.ErrNotExist))
	assert.True(t, errors.Is(ErrExist, fs.ErrExist))
	assert.True(t, errors.Is(ErrPermission, fs.ErrPermission))
	assert.True(t, errors.Is(ErrClosed, fs.ErrClosed))
	assert.NotEqual(t, ErrUnsupported, ErrDirectoryNotEmpty)
}
