package boca

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"boca-cli/internal/browser"
	"boca-cli/internal/components/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const testBase = "http://boca.test/boca"

// fakeDriver serves canned pages, actions that change server state are
// simulated by hooks keyed on the clicked selector.
type fakeDriver struct {
	pages     map[string]string
	redirects map[string]string
	location  string
	history   []string

	onClick  map[string]func(d *fakeDriver)
	onSubmit func(d *fakeDriver)

	filled    map[string]string
	selected  map[string]string
	checked   map[string]bool
	files     map[string]string
	clicks    []string
	downloads map[string]string
	cookies   []*http.Cookie

	navigations int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		pages:     map[string]string{},
		redirects: map[string]string{},
		onClick:   map[string]func(d *fakeDriver){},
		filled:    map[string]string{},
		selected:  map[string]string{},
		checked:   map[string]bool{},
		files:     map[string]string{},
		downloads: map[string]string{},
	}
}

func (d *fakeDriver) page(path, html string) {
	d.pages[testBase+path] = html
}

func (d *fakeDriver) doc() (*goquery.Document, error) {
	html, ok := d.pages[d.location]
	if !ok {
		return nil, fmt.Errorf("no page at %s", d.location)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (d *fakeDriver) find(selector string) error {
	doc, err := d.doc()
	if err != nil {
		return err
	}
	if doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%s not found on %s", selector, d.location)
	}
	return nil
}

func (d *fakeDriver) Navigate(ctx context.Context, url string) error {
	d.navigations++
	if d.location != "" {
		d.history = append(d.history, d.location)
	}
	if target, ok := d.redirects[url]; ok {
		url = target
	}
	d.location = url
	_, err := d.doc()
	return err
}

func (d *fakeDriver) Back(ctx context.Context) error {
	if len(d.history) == 0 {
		return fmt.Errorf("no history")
	}
	d.location = d.history[len(d.history)-1]
	d.history = d.history[:len(d.history)-1]
	return nil
}

func (d *fakeDriver) WaitReady(ctx context.Context, selector string) error {
	return d.find(selector)
}

func (d *fakeDriver) Fill(ctx context.Context, selector, value string) error {
	err := d.find(selector)
	if err != nil {
		return err
	}
	d.filled[selector] = value
	return nil
}

func (d *fakeDriver) Select(ctx context.Context, selector, choice string) error {
	doc, err := d.doc()
	if err != nil {
		return err
	}
	found := false
	doc.Find(selector + " option").Each(func(_ int, option *goquery.Selection) {
		if option.AttrOr("value", "") == choice || strings.TrimSpace(option.Text()) == choice {
			found = true
		}
	})
	if !found {
		return fmt.Errorf("select %q: %w", choice, browser.ErrNoOption)
	}
	d.selected[selector] = choice
	return nil
}

func (d *fakeDriver) SetChecked(ctx context.Context, selector string, checked bool) error {
	d.checked[selector] = checked
	return d.find(selector)
}

func (d *fakeDriver) SetFile(ctx context.Context, selector, path string) error {
	d.files[selector] = path
	return d.find(selector)
}

func (d *fakeDriver) Click(ctx context.Context, selector string) error {
	err := d.find(selector)
	if err != nil {
		return err
	}
	d.clicks = append(d.clicks, selector)
	if hook, ok := d.onClick[selector]; ok {
		hook(d)
	}
	return nil
}

func (d *fakeDriver) Submit(ctx context.Context, selector string) error {
	err := d.find(selector)
	if err != nil {
		return err
	}
	if d.onSubmit != nil {
		d.onSubmit(d)
	}
	return nil
}

func (d *fakeDriver) Location(ctx context.Context) (string, error) {
	return d.location, nil
}

func (d *fakeDriver) Content(ctx context.Context) (string, error) {
	html, ok := d.pages[d.location]
	if !ok {
		return "", fmt.Errorf("no page at %s", d.location)
	}
	return html, nil
}

func (d *fakeDriver) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	return d.cookies, nil
}

func (d *fakeDriver) Download(ctx context.Context, selector, dir, filename string) (string, error) {
	err := d.find(selector)
	if err != nil {
		return "", err
	}
	contents, ok := d.downloads[selector]
	if !ok {
		return "", fmt.Errorf("%s does not download anything", selector)
	}
	if filename == "" {
		filename = "download.bin"
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	return path, os.WriteFile(path, []byte(contents), 0644)
}

func newTestClient(t testing.TB, d *fakeDriver) *Client {
	c, err := NewClient(d, testBase, &telemetry.Recorder{}, WithSettle(0))
	require.NoError(t, err)
	return c
}

func menuPage(entries int) string {
	var b strings.Builder
	b.WriteString("<html><body><table><tr>")
	for i := 0; i < entries; i++ {
		fmt.Fprintf(&b, `<td><a class="menu" href="#">item %d</a></td>`, i)
	}
	b.WriteString("</tr></table></body></html>")
	return b.String()
}

const loginPage = `<html><body><form>
<input type="text" name="name"><input type="password" name="password">
</form></body></html>`

// signIn serves a login page that lands on the given role section.
func signIn(d *fakeDriver, segment string, entries int) {
	d.page(pathLogin, loginPage)
	d.page("/"+segment+"/index.php", menuPage(entries))
	d.onSubmit = func(d *fakeDriver) {
		d.location = testBase + "/" + segment + "/index.php"
	}
}
