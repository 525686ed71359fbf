package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorPrinters(t *testing.T) {
	printers := GetColorPrinters()

	for _, name := range []string{"success", "error", "warning", "info", "primary"} {
		assert.NotNil(t, printers[name], name)
	}
}

func TestPrintSpinner_ReturnsStartedSpinner(t *testing.T) {
	spinner, err := PrintSpinner("working")
	require.NoError(t, err)
	require.NotNil(t, spinner)
	assert.True(t, spinner.IsActive)
	require.NoError(t, spinner.Stop())
}
