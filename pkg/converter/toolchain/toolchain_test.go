package toolchain_test

import (
	"errors"
	"testing"

	"github.com/stackvity/keymap-converter/pkg/converter/toolchain"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	err := toolchain.Errorf("command %q is empty", "compile")
	assert.ErrorIs(t, err, toolchain.ErrCommandFailed)
	assert.Equal(t, `external command failed: command "compile" is empty`, err.Error())
}

func TestWrapCommandError(t *testing.T) {
	err := toolchain.WrapCommandError(toolchain.ErrCommandTimeout, "flash after %s", "30s")
	assert.ErrorIs(t, err, toolchain.ErrCommandFailed)
	assert.ErrorIs(t, err, toolchain.ErrCommandTimeout)
	assert.False(t, errors.Is(err, toolchain.ErrCommandNonZeroExit))
	assert.Contains(t, err.Error(), "flash after 30s")
}
