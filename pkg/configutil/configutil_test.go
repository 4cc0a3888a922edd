package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Url   string   `json:"url"`
	Limit int      `json:"limit"`
	Tags  []string `json:"tags"`
}

func TestLocalPath(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{name: "setup.json", expected: "setup.local.json"},
		{name: "dir/setup.json5", expected: filepath.Join("dir", "setup.local.json5")},
		{name: "dir/setup", expected: filepath.Join("dir", "setup.local")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expected, LocalPath(c.name))
		})
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "setup.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{
		// comments and trailing commas are fine
		url: "http://localhost/boca",
		limit: 3,
		tags: ["a"],
	}`), 0644))
	require.NoError(t, os.WriteFile(LocalPath(name), []byte(`{limit: 10}`), 0644))

	out, err := ReadConfig[sample](name)
	require.NoError(t, err)
	diff := cmp.Diff(sample{Url: "http://localhost/boca", Limit: 10, Tags: []string{"a"}}, out)
	require.Empty(t, diff)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "setup.json")
	require.NoError(t, os.WriteFile(LocalPath(name), []byte(`{"url": "http://x"}`), 0644))

	out, err := ReadConfig[sample](name)
	require.NoError(t, err)
	require.Equal(t, "http://x", out.Url)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[sample](filepath.Join(t.TempDir(), "setup.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "setup.json")
	require.NoError(t, os.WriteFile(name, []byte(`{url: `), 0644))

	_, err := ReadConfig[sample](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
