package commands

import (
	"testing"
	"time"

	"boca-cli/internal/app"
	"boca-cli/internal/setup"

	"github.com/stretchr/testify/require"
)

func TestBrowserFlagsOptions(t *testing.T) {
	opts, err := browserFlags{timeout: 5 * time.Second, execPath: "/usr/bin/chromium"}.options()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, opts.Timeout)
	require.True(t, opts.Headless)
	require.Equal(t, "/usr/bin/chromium", opts.ExecPath)

	opts, err = browserFlags{timeout: time.Second, headed: true}.options()
	require.NoError(t, err)
	require.False(t, opts.Headless)
}

func TestBrowserFlagsRejectTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		_, err := browserFlags{timeout: timeout}.options()
		var schemaErr *setup.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		require.Equal(t, []string{"timeout"}, schemaErr.Fields())
		require.Equal(t, app.ExitValidation, app.ExitCode(err))
	}
}

func TestNewInvokerRejectsTimeout(t *testing.T) {
	_, _, err := newInvoker(browserFlags{timeout: 0})
	require.Equal(t, app.ExitValidation, app.ExitCode(err))
	require.ErrorContains(t, err, "invalid setup: timeout: must be positive")
}
