package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"boca-cli/internal/access"
	"boca-cli/internal/boca"
	"boca-cli/internal/browser"
	"boca-cli/internal/components/chrono"
	"boca-cli/internal/components/telemetry"
	"boca-cli/internal/output"
	"boca-cli/internal/setup"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const base = "http://boca.test/boca"

// session serves static pages, the login form lands on landing.
type session struct {
	pages    map[string]string
	location string
	landing  string
	closed   bool
}

func (s *session) find(selector string) error {
	html, ok := s.pages[s.location]
	if !ok {
		return fmt.Errorf("no page at %s", s.location)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}
	if doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%s not found", selector)
	}
	return nil
}

func (s *session) Navigate(ctx context.Context, url string) error {
	s.location = url
	if _, ok := s.pages[url]; !ok {
		return fmt.Errorf("no page at %s", url)
	}
	return nil
}

func (s *session) Back(ctx context.Context) error {
	return errors.New("no history")
}

func (s *session) WaitReady(ctx context.Context, selector string) error {
	return s.find(selector)
}

func (s *session) Fill(ctx context.Context, selector, value string) error {
	return s.find(selector)
}

func (s *session) Select(ctx context.Context, selector, choice string) error {
	return s.find(selector)
}

func (s *session) SetChecked(ctx context.Context, selector string, checked bool) error {
	return s.find(selector)
}

func (s *session) SetFile(ctx context.Context, selector, path string) error {
	return s.find(selector)
}

func (s *session) Click(ctx context.Context, selector string) error {
	return s.find(selector)
}

func (s *session) Submit(ctx context.Context, selector string) error {
	err := s.find(selector)
	if err != nil {
		return err
	}
	if s.landing != "" {
		s.location = base + s.landing
	}
	return nil
}

func (s *session) Location(ctx context.Context) (string, error) {
	return s.location, nil
}

func (s *session) Content(ctx context.Context) (string, error) {
	html, ok := s.pages[s.location]
	if !ok {
		return "", fmt.Errorf("no page at %s", s.location)
	}
	return html, nil
}

func (s *session) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	return nil, nil
}

func (s *session) Download(ctx context.Context, selector, dir, filename string) (string, error) {
	return "", errors.New("downloads are not served")
}

func (s *session) Close() error {
	s.closed = true
	return nil
}

func menu(entries int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < entries; i++ {
		fmt.Fprintf(&b, `<a class="menu" href="#">%d</a>`, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

const loginForm = `<html><body><form>
<input type="text" name="name"><input type="password" name="password">
</form></body></html>`

// newSession serves a BOCA where every login lands in the section of role.
func newSession(role access.Role, entries int, pages map[string]string) *session {
	s := &session{
		pages: map[string]string{
			base + "/index.php": loginForm,
		},
		landing: "/" + role.Segment() + "/index.php",
	}
	s.pages[base+s.landing] = menu(entries)
	for path, html := range pages {
		s.pages[base+path] = html
	}
	return s
}

type opener struct {
	session *session
	opened  int
}

func (o *opener) Open(ctx context.Context) (browser.Session, error) {
	o.opened++
	return o.session, nil
}

func newInvoker(t testing.TB, o *opener) (Invoker, *output.Sink) {
	validator, err := setup.NewValidator()
	require.NoError(t, err)
	sink := output.NewSink(&telemetry.Recorder{}, chrono.FixedImpl{At: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	invoker := NewInvoker(validator, o, sink, &telemetry.Recorder{}, WithClientOptions(boca.WithSettle(0)))
	return invoker, sink
}

func rawSetup(extra map[string]any) map[string]any {
	raw := map[string]any{
		"config": map[string]any{"url": base},
		"login":  map[string]any{"username": "admin", "password": "boca"},
	}
	for k, v := range extra {
		raw[k] = v
	}
	return raw
}

const languagePage = `<html><body><form><table>
<tr><td>Language #</td><td>Name</td><td>Extension</td></tr>
<tr><td><a href="#">1</a></td><td>C</td><td>c</td></tr>
<tr><td><a href="#">2</a></td><td>Java</td><td>java</td></tr>
</table></form></body></html>`

func TestInvokeGetLanguages(t *testing.T) {
	o := &opener{session: newSession(access.RoleAdmin, 16, map[string]string{
		"/admin/language.php": languagePage,
	})}
	invoker, sink := newInvoker(t, o)

	resultPath := filepath.Join(t.TempDir(), "result.json")
	raw := rawSetup(nil)
	raw["config"].(map[string]any)["resultFilePath"] = resultPath

	out, err := invoker.Invoke(context.Background(), Request{Method: access.GetLanguages, Raw: raw})
	require.NoError(t, err)
	require.Equal(t, access.RoleAdmin, out.Role)
	require.Equal(t, []boca.Language{
		{Id: "1", Name: "C", Extension: "c"},
		{Id: "2", Name: "Java", Extension: "java"},
	}, out.Value)
	require.True(t, o.session.closed)

	record, ok := sink.Result()
	require.True(t, ok)
	require.Equal(t, access.GetLanguages, record.Method)
	require.Equal(t, "admin", record.Username)

	_, err = os.Stat(resultPath)
	require.NoError(t, err)
}

func TestInvokeForbiddenForKnownRole(t *testing.T) {
	o := &opener{session: newSession(access.RoleTeam, 8, nil)}
	invoker, _ := newInvoker(t, o)

	raw := rawSetup(map[string]any{
		"contest": map[string]any{
			"name":           "Finals",
			"startDate":      "2024-05-01 14:00",
			"endDate":        "2024-05-01 19:00",
			"mainSiteNumber": 1,
			"active":         true,
		},
	})
	_, err := invoker.Invoke(context.Background(), Request{
		Method: access.CreateContest,
		Raw:    raw,
		Role:   access.RoleTeam,
	})
	var permissionErr *PermissionError
	require.ErrorAs(t, err, &permissionErr)
	require.Equal(t, access.CategoryContests, permissionErr.Category)
	require.Zero(t, o.opened)
	require.Equal(t, ExitPermission, ExitCode(err))
}

func TestInvokeForbiddenAfterLogin(t *testing.T) {
	o := &opener{session: newSession(access.RoleAdmin, 16, nil)}
	invoker, sink := newInvoker(t, o)

	raw := rawSetup(map[string]any{
		"run": map[string]any{"problem": "A", "language": "C", "filePath": "a.c"},
	})
	out, err := invoker.Invoke(context.Background(), Request{Method: access.SubmitRun, Raw: raw})
	var permissionErr *PermissionError
	require.ErrorAs(t, err, &permissionErr)
	require.Equal(t, access.RoleAdmin, permissionErr.Role)
	require.Equal(t, access.RoleAdmin, out.Role)
	require.True(t, o.session.closed)

	_, ok := sink.Result()
	require.False(t, ok)
}

func TestInvokeInvalidSetupOpensNothing(t *testing.T) {
	o := &opener{session: newSession(access.RoleAdmin, 16, nil)}
	invoker, _ := newInvoker(t, o)

	_, err := invoker.Invoke(context.Background(), Request{
		Method: access.GetRun,
		Raw:    rawSetup(map[string]any{"run": map[string]any{"id": "forty two"}}),
	})
	var schemaErr *setup.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Contains(t, schemaErr.Fields(), "run.id")
	require.Zero(t, o.opened)
}

func TestInvokeRunNotFoundClosesSession(t *testing.T) {
	o := &opener{session: newSession(access.RoleAdmin, 16, map[string]string{
		"/admin/run.php": `<html><body><form><table>
<tr><td>Run #</td></tr>
<tr><td><a href="#">4</a></td><td>1</td><td>team1</td></tr>
</table></form></body></html>`,
	})}
	invoker, _ := newInvoker(t, o)

	_, err := invoker.Invoke(context.Background(), Request{
		Method: access.GetRun,
		Raw:    rawSetup(map[string]any{"run": map[string]any{"id": "42"}}),
	})
	var resourceErr *boca.ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, boca.NotFound, resourceErr.Kind)
	require.True(t, o.session.closed)
	require.Equal(t, ExitResource, ExitCode(err))
}

func TestInvokeTeamProblems(t *testing.T) {
	o := &opener{session: newSession(access.RoleTeam, 8, map[string]string{
		"/team/problem.php": `<html><body>
<table><tr><td>menu</td></tr></table>
<table>
<tr><td>Name</td><td>Basename</td><td>Fullname</td><td>Descfile</td></tr>
<tr><td>A</td><td>sum</td><td>Sum</td><td></td></tr>
</table></body></html>`,
	})}
	invoker, _ := newInvoker(t, o)

	out, err := invoker.Invoke(context.Background(), Request{Method: access.GetProblems, Raw: rawSetup(nil)})
	require.NoError(t, err)
	require.Equal(t, []boca.TeamProblem{{Id: "1", Name: "A", BaseName: "sum", FullName: "Sum"}}, out.Value)
}

func TestInvokeTeamDownloadRuns(t *testing.T) {
	o := &opener{session: newSession(access.RoleTeam, 8, map[string]string{
		"/team/run.php": `<html><body>
<table><tr><td>menu</td></tr></table>
<table><tr><td>clock</td></tr></table>
<table>
<tr><td>Run #</td><td>Time</td><td>Problem</td><td>Language</td><td>Answer</td><td>File</td></tr>
</table></body></html>`,
	})}
	invoker, _ := newInvoker(t, o)

	raw := rawSetup(nil)
	raw["config"].(map[string]any)["runPath"] = t.TempDir()
	out, err := invoker.Invoke(context.Background(), Request{Method: access.DownloadRuns, Raw: raw})
	require.NoError(t, err)
	require.Equal(t, access.RoleTeam, out.Role)
	require.Equal(t, []boca.Download{}, out.Value)
}

func TestResolveRole(t *testing.T) {
	o := &opener{session: newSession(access.RoleSystem, 3, nil)}
	invoker, _ := newInvoker(t, o)

	role, err := invoker.ResolveRole(context.Background(), rawSetup(nil))
	require.NoError(t, err)
	require.Equal(t, access.RoleSystem, role)
	require.True(t, o.session.closed)

	_, err = invoker.ResolveRole(context.Background(), map[string]any{"login": map[string]any{}})
	var schemaErr *setup.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, []string{"config.url", "login.username"}, schemaErr.Fields())
}

func TestEveryMethodHasHandler(t *testing.T) {
	for _, m := range access.All() {
		_, ok := handlers[m]
		require.True(t, ok, "%s has no handler", m)
	}
	require.Len(t, handlers, len(access.All()))
}

func TestExitCode(t *testing.T) {
	testCases := []struct {
		err      error
		expected int
	}{
		{err: nil, expected: ExitOk},
		{err: errors.New("browser crashed"), expected: ExitUnexpected},
		{err: fmt.Errorf("%w: setup.json", ErrConfigNotFound), expected: ExitConfigNotFound},
		{err: &setup.SchemaError{Method: access.GetRun}, expected: ExitValidation},
		{err: &boca.AuthError{Kind: boca.LoginFailed}, expected: ExitAuth},
		{err: fmt.Errorf("invoke: %w", &boca.ResourceError{Kind: boca.NotFound}), expected: ExitResource},
		{err: &PermissionError{Role: access.RoleTeam}, expected: ExitPermission},
		{err: access.ErrNoMethods, expected: ExitPermission},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, ExitCode(test.err), "%v", test.err)
	}
}

func TestLoadSetup(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadSetup(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, ErrConfigNotFound)
	require.Equal(t, ExitConfigNotFound, ExitCode(err))

	path := filepath.Join(dir, "setup.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// shared by the whole team
		config: {url: "http://localhost:8000/boca"},
		login: {username: "admin", password: ""},
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.local.json5"), []byte(`{
		login: {username: "admin", password: "secret"},
	}`), 0644))

	raw, err := LoadSetup(path)
	require.NoError(t, err)
	require.Equal(t, "secret", raw["login"].(map[string]any)["password"])
	require.Equal(t, "http://localhost:8000/boca", raw["config"].(map[string]any)["url"])
}
