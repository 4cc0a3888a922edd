package output

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"boca-cli/internal/access"
	"boca-cli/internal/components/chrono"
	"boca-cli/internal/components/telemetry"
	"boca-cli/internal/setup"

	"github.com/stretchr/testify/require"
)

type language struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	secret    string
}

var at = time.Date(2024, 5, 1, 14, 0, 0, 0, time.UTC)

func newSink() *Sink {
	return NewSink(&telemetry.Recorder{}, chrono.FixedImpl{At: at})
}

func TestSinkHoldsLastResult(t *testing.T) {
	sink := newSink()
	_, ok := sink.Result()
	require.False(t, ok)

	sink.Set(access.GetLanguages, "admin", []language{{Id: "1"}})
	sink.Set(access.GetLanguage, "admin", language{Id: "2"})

	record, ok := sink.Result()
	require.True(t, ok)
	require.Equal(t, Record{
		Method:   access.GetLanguage,
		Username: "admin",
		At:       at,
		Value:    language{Id: "2"},
	}, record)
}

func TestPersistWithoutDestination(t *testing.T) {
	sink := newSink()
	sink.Set(access.GetLanguages, "admin", []language{})
	require.NoError(t, sink.Persist(context.Background(), setup.Config{}))
}

func TestPersistFileAndArchive(t *testing.T) {
	dir := t.TempDir()
	cfg := setup.Config{
		ResultFilePath: filepath.Join(dir, "out", "result.json"),
		ResultDbPath:   filepath.Join(dir, "archive.db"),
	}

	sink := newSink()
	sink.Set(access.GetLanguages, "admin", []language{{Id: "1", Name: "C", Extension: "c"}})
	require.NoError(t, sink.Persist(context.Background(), cfg))
	sink.Set(access.DeleteLanguage, "admin", language{Id: "1", Name: "C", Extension: "c"})
	require.NoError(t, sink.Persist(context.Background(), cfg))

	content, err := os.ReadFile(cfg.ResultFilePath)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"id\": \"1\",\n  \"name\": \"C\",\n  \"extension\": \"c\"\n}\n", string(content))

	archive, err := OpenArchive(context.Background(), cfg.ResultDbPath)
	require.NoError(t, err)
	defer archive.Close()

	all, err := archive.Recent(context.Background(), "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, access.DeleteLanguage, all[0].Method)
	require.Equal(t, at.Unix(), all[0].CreatedAt.Unix())

	listed, err := archive.Recent(context.Background(), access.GetLanguages, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	var languages []language
	require.NoError(t, json.Unmarshal(listed[0].Value, &languages))
	require.Equal(t, []language{{Id: "1", Name: "C", Extension: "c"}}, languages)
}

func TestWriteFileVoidResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	require.NoError(t, WriteFile(path, nil))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "null\n", string(content))
}

func TestRender(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, Render(&b, []language{
		{Id: "1", Name: "C", Extension: "c"},
		{Id: "2", Name: "Java", Extension: "java", secret: "x"},
	}))
	out := b.String()
	require.Contains(t, out, "EXTENSION")
	require.Contains(t, out, "Java")
	require.NotContains(t, out, "SECRET")

	b.Reset()
	require.NoError(t, Render(&b, &language{Id: "3", Name: "Python"}))
	require.Contains(t, b.String(), "Python")

	b.Reset()
	require.NoError(t, Render(&b, []language{}))
	require.Equal(t, "(empty)\n", b.String())

	b.Reset()
	require.NoError(t, Render(&b, nil))
	require.Equal(t, "(no result)\n", b.String())

	b.Reset()
	require.NoError(t, Render(&b, []string{"a", "b"}))
	require.Equal(t, "[\n  \"a\",\n  \"b\"\n]\n", b.String())
}
