// Package boca drives the BOCA web interface through a browser.Driver and
// turns its pages into typed results.
package boca

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"boca-cli/internal/access"
	"boca-cli/internal/browser"
	"boca-cli/internal/components/assert"
	"boca-cli/internal/components/telemetry"
	"boca-cli/internal/setup"
	"boca-cli/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_client_open     = "client.open"
	report_client_document = "client.document"
	report_client_fill     = "client.fill"
)

// Client is one signed in (or about to sign in) BOCA session. It is not safe
// for concurrent use, every call drives the same page.
type Client struct {
	driver   browser.Driver
	base     *url.URL
	tel      telemetry.API
	detector RoleDetector
	settle   time.Duration

	operator setup.Login
	role     access.Role
}

type Option func(c *Client)

// WithDetector replaces the strategy that infers a role from the landing page.
func WithDetector(detector RoleDetector) Option {
	return func(c *Client) {
		c.detector = detector
	}
}

// WithSettle sets how long login waits for BOCA to redirect before it
// inspects the location.
func WithSettle(settle time.Duration) Option {
	return func(c *Client) {
		c.settle = settle
	}
}

func NewClient(driver browser.Driver, baseUrl string, tel telemetry.API, opts ...Option) (*Client, error) {
	assert.NotNil(driver)
	assert.NotNil(tel)

	parsed, err := url.Parse(strings.TrimRight(baseUrl, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse boca url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("boca url %q is not absolute", baseUrl)
	}

	c := &Client{
		driver:   driver,
		base:     parsed,
		tel:      telemetry.NewScopedAPI("boca", tel),
		detector: DefaultDetector(),
		settle:   time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Role is the role resolved by ResolveRole, empty before.
func (c *Client) Role() access.Role {
	return c.role
}

// url resolves a page path (with an optional query) against the installation.
func (c *Client) url(path string) string {
	return c.base.String() + path
}

func withQuery(path string, pairs ...string) string {
	values := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		values.Set(pairs[i], pairs[i+1])
	}
	return path + "?" + values.Encode()
}

func (c *Client) open(ctx context.Context, path string) (*goquery.Document, error) {
	err := c.driver.Navigate(ctx, c.url(path))
	if err != nil {
		c.tel.ReportBroken(report_client_open, err, path)
		return nil, err
	}
	return c.document(ctx)
}

func (c *Client) document(ctx context.Context) (*goquery.Document, error) {
	content, err := c.driver.Content(ctx)
	if err != nil {
		c.tel.ReportBroken(report_client_document, err)
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		c.tel.ReportBroken(report_client_document, fmt.Errorf("parse: %w", err))
		return nil, err
	}
	return doc, nil
}

type fieldKind int

const (
	textField fieldKind = iota
	selectField
	checkField
	fileField
)

type formField struct {
	name  string
	value string
	kind  fieldKind
}

func text(name, value string) formField {
	return formField{name: name, value: value, kind: textField}
}

func choice(name, value string) formField {
	return formField{name: name, value: value, kind: selectField}
}

func check(name string, on bool) formField {
	return formField{name: name, value: strconv.FormatBool(on), kind: checkField}
}

func file(name, path string) formField {
	return formField{name: name, value: path, kind: fileField}
}

// form accumulates the fields of a partial update, unset values are skipped
// so BOCA keeps what it prefilled.
type form []formField

func (f *form) text(name, value string) {
	if value != "" {
		*f = append(*f, text(name, value))
	}
}

func (f *form) number(name string, value *int) {
	if value != nil {
		*f = append(*f, text(name, strconv.Itoa(*value)))
	}
}

func (f *form) check(name string, value *bool) {
	if value != nil {
		*f = append(*f, check(name, *value))
	}
}

func (f *form) choice(name, value string) {
	if value != "" {
		*f = append(*f, choice(name, value))
	}
}

func (f *form) yesNo(name string, value *bool) {
	if value != nil {
		*f = append(*f, choice(name, yesNoValue(*value)))
	}
}

func yesNoValue(on bool) string {
	if on {
		return "t"
	}
	return "f"
}

func fieldSelector(name string) string {
	return fmt.Sprintf(`[name="%s"]`, name)
}

func (c *Client) fill(ctx context.Context, fields []formField) error {
	for _, f := range fields {
		sel := fieldSelector(f.name)
		var err error
		switch f.kind {
		case textField:
			err = c.driver.Fill(ctx, sel, f.value)
		case selectField:
			err = c.driver.Select(ctx, sel, f.value)
		case checkField:
			err = c.driver.SetChecked(ctx, sel, f.value == "true")
		case fileField:
			err = c.driver.SetFile(ctx, sel, f.value)
		}
		if err != nil {
			c.tel.ReportBroken(report_client_fill, err, f.name)
			return err
		}
	}
	return nil
}

// formValue reads the value a form field was rendered with.
func formValue(doc *goquery.Document, name string) string {
	sel := doc.Find(fieldSelector(name)).First()
	switch goquery.NodeName(sel) {
	case "select":
		return selectedValue(sel)
	case "textarea":
		return htmlutil.CleanText(sel.Text())
	}
	if sel.AttrOr("type", "") == "checkbox" {
		_, checked := sel.Attr("checked")
		return yesNoValue(checked)
	}
	return sel.AttrOr("value", "")
}

func formInt(doc *goquery.Document, name string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(formValue(doc, name)))
	return n
}

func formBool(doc *goquery.Document, name string) bool {
	return isYes(formValue(doc, name))
}

// selectedValue is the value a select was rendered with, browsers fall back
// to the first option when none is marked selected.
func selectedValue(sel *goquery.Selection) string {
	option := sel.Find("option[selected]").First()
	if option.Length() == 0 {
		option = sel.Find("option").First()
	}
	if value, ok := option.Attr("value"); ok {
		return value
	}
	return htmlutil.CleanText(option.Text())
}

// optionLabel finds the option of a select whose value or label is choice
// and returns its label.
func optionLabel(doc *goquery.Document, selector, choice string) (string, bool) {
	label := ""
	found := false
	doc.Find(selector + " option").EachWithBreak(func(_ int, option *goquery.Selection) bool {
		text := htmlutil.CleanText(option.Text())
		if option.AttrOr("value", text) == choice || text == choice {
			label = text
			found = true
			return false
		}
		return true
	})
	return label, found
}
