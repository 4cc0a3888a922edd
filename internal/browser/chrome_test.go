package browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMoveDownload(t *testing.T) {
	tmp := t.TempDir()
	from := filepath.Join(tmp, "3f2a-guid")
	require.NoError(t, os.WriteFile(from, []byte("PK"), 0644))

	dir := filepath.Join(tmp, "problems", "nested")
	to, err := moveDownload(from, dir, "../A.zip")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "A.zip"), to)

	contents, err := os.ReadFile(to)
	require.NoError(t, err)
	require.Equal(t, "PK", string(contents))

	_, err = os.Stat(from)
	require.True(t, os.IsNotExist(err))
}

func TestMoveDownloadMissingSource(t *testing.T) {
	tmp := t.TempDir()
	_, err := moveDownload(filepath.Join(tmp, "missing"), tmp, "a.c")
	require.Error(t, err)
}

func TestJsString(t *testing.T) {
	require.Equal(t, `"select[name=\"problem\"]"`, jsString(`select[name="problem"]`))
	require.Equal(t, `"C++ 17"`, jsString("C++ 17"))
}

func TestOpenerFunc(t *testing.T) {
	boom := errors.New("boom")
	var opener Opener = OpenerFunc(func(ctx context.Context) (Session, error) {
		return nil, boom
	})
	_, err := opener.Open(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	require.True(t, opts.Headless)
	require.Positive(t, opts.Timeout)
	require.Less(t, opts.StepDelay, opts.Timeout)
}
