package boca

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"boca-cli/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const report_client_remove = "client.remove"

// row is one scraped listing row.
type row struct {
	cells []string
	// position of the tr among its siblings, starting at 1
	nth int
	sel *goquery.Selection
}

// cell returns the text of column i, missing cells read as "".
func (r row) cell(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return r.cells[i]
}

func (r row) td(i int) *goquery.Selection {
	return r.sel.ChildrenFiltered("td").Eq(i)
}

// scrapeRows reads every row matched by selector that has at least one td.
func scrapeRows(doc *goquery.Document, selector string) []row {
	var rows []row
	doc.Find(selector).Each(func(_ int, tr *goquery.Selection) {
		values := htmlutil.TableRows(tr)
		if len(values) == 0 {
			return
		}
		rows = append(rows, row{
			cells: values[0],
			nth:   tr.Index() + 1,
			sel:   tr,
		})
	})
	return rows
}

var numeric = regexp.MustCompile(`^[0-9]+`)

// numberedRows drops header and filler rows, BOCA renders its headers
// with td cells too.
func numberedRows(rows []row, idColumn int) []row {
	out := rows[:0:0]
	for _, r := range rows {
		if numeric.MatchString(r.cell(idColumn)) {
			out = append(out, r)
		}
	}
	return out
}

// leadingNumber reads "12" out of cells like "12 (deleted)".
func leadingNumber(text string) string {
	return numeric.FindString(text)
}

// cellLink is a selector the browser can click for the first anchor of a
// scraped cell.
func cellLink(rowSelector string, r row, column int) string {
	return fmt.Sprintf("%s:nth-of-type(%d) > td:nth-of-type(%d) a", rowSelector, r.nth, column+1)
}

func isYes(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "t", "true", "1", "enabled", "active":
		return true
	}
	return false
}

// listing describes one BOCA page holding a table of resources.
type listing[T any] struct {
	resource string
	path     string
	rows     string
	id       int
	parse    func(r row) T
}

func (l listing[T]) scrape(doc *goquery.Document) ([]T, []row) {
	rows := numberedRows(scrapeRows(doc, l.rows), l.id)
	items := make([]T, len(rows))
	for i, r := range rows {
		items[i] = l.parse(r)
	}
	return items, rows
}

func (l listing[T]) all(ctx context.Context, c *Client) ([]T, error) {
	doc, err := c.open(ctx, l.path)
	if err != nil {
		return nil, err
	}
	items, _ := l.scrape(doc)
	return items, nil
}

func (l listing[T]) find(ctx context.Context, c *Client, key string) (T, row, error) {
	var zero T
	doc, err := c.open(ctx, l.path)
	if err != nil {
		return zero, row{}, err
	}
	items, rows := l.scrape(doc)
	for i, r := range rows {
		if leadingNumber(r.cell(l.id)) == key {
			return items[i], r, nil
		}
	}
	return zero, row{}, notFound(l.resource, key)
}

// each runs do for every ref in order and stops at the first failure. No refs
// yields an empty, non nil result.
func each[R, T any](ctx context.Context, refs []R, do func(context.Context, R) (T, error)) ([]T, error) {
	out := make([]T, 0, len(refs))
	for _, ref := range refs {
		item, err := do(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// saved looks key up again after a form was submitted.
func (l listing[T]) saved(ctx context.Context, c *Client, key string) (T, error) {
	item, _, err := l.find(ctx, c, key)
	if isNotFound(err) {
		var zero T
		return zero, operationFailed(l.resource, key, l.resource+" is not listed after saving")
	}
	return item, err
}

// remove clicks the number link of key's row, BOCA confirms and drops the
// row. The row as listed before is returned.
func (l listing[T]) remove(ctx context.Context, c *Client, key string) (T, error) {
	var zero T
	current, r, err := l.find(ctx, c, key)
	if err != nil {
		return zero, err
	}
	err = c.driver.Click(ctx, cellLink(l.rows, r, l.id))
	if err != nil {
		c.tel.ReportBroken(report_client_remove, err, l.resource, key)
		return zero, err
	}

	_, _, err = l.find(ctx, c, key)
	if err == nil {
		return zero, operationFailed(l.resource, key, l.resource+" is still listed after deleting")
	}
	if !isNotFound(err) {
		return zero, err
	}
	return current, nil
}
