// --- START OF FINAL REVISED FILE pkg/converter/types_test.go ---
package converter_test

import (
	"testing"

	"github.com/stackvity/keymap-converter/pkg/converter"
	"github.com/stretchr/testify/assert"
)

// TestStatusConstants verifies the string values of Status constants.
func TestStatusConstants(t *testing.T) {
	assert.Equal(t, "pending", string(converter.StatusPending))
	assert.Equal(t, "processing", string(converter.StatusProcessing))
	assert.Equal(t, "success", string(converter.StatusSuccess))
	assert.Equal(t, "failed", string(converter.StatusFailed))
	assert.Equal(t, "skipped", string(converter.StatusSkipped))
	assert.Equal(t, "cached", string(converter.StatusCached))
}

// TestStepsOrder verifies the run order of the pipeline steps.
func TestStepsOrder(t *testing.T) {
	assert.Equal(t, []converter.Step{
		converter.StepRead, converter.StepTransform, converter.StepCatalog, converter.StepWrite,
		converter.StepCompile, converter.StepFlash, converter.StepCommit,
	}, converter.Steps())
}

// TestOutputFormatConstants verifies the string values of OutputFormat constants.
func TestOutputFormatConstants(t *testing.T) {
	assert.Equal(t, "text", string(converter.OutputFormatText))
	assert.Equal(t, "json", string(converter.OutputFormatJSON))
	assert.Equal(t, "yaml", string(converter.OutputFormatYAML))
}

// --- END OF FINAL REVISED FILE pkg/converter/types_test.go ---
