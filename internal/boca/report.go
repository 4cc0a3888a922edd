package boca

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"boca-cli/internal/components/telemetry"
	"boca-cli/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const report_client_generate_report = "client.generate-report"

// report links open a popup, ex. onClick="window.open('report/score.php', ...)"
var popupTarget = regexp.MustCompile(`window\.open\(\s*['"]([^'"]+)['"]`)

var unsafeName = regexp.MustCompile(`[^a-z0-9]+`)

// reportFilename turns a report name into a file name that is not in taken
// yet, repeated names get a numeric suffix.
func reportFilename(name string, taken map[string]bool) string {
	slug := strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "report"
	}
	filename := slug + ".html"
	for n := 2; taken[filename]; n++ {
		filename = fmt.Sprintf("%s-%d.html", slug, n)
	}
	taken[filename] = true
	return filename
}

// reportLinks reads the report entries of the report page, popup links are
// resolved to the page they open.
func reportLinks(page *url.URL, doc *goquery.Document) []htmlutil.Anchor {
	var out []htmlutil.Anchor
	doc.Find(selReportLinks).Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		popup := popupTarget.FindStringSubmatch(a.AttrOr("onclick", ""))
		if popup == nil {
			popup = popupTarget.FindStringSubmatch(href)
		}
		if popup != nil {
			link, err := url.Parse(popup[1])
			if err != nil {
				return
			}
			out = append(out, htmlutil.Anchor{
				Name: htmlutil.CleanText(a.Text()),
				Url:  page.ResolveReference(link),
			})
			return
		}
		if href == "" || href == "#" || strings.HasPrefix(href, "javascript:") {
			return
		}
		out = append(out, htmlutil.GetAnchors(page, a)...)
	})
	return out
}

// GenerateReport saves every report linked from the report page into dir.
// The reports are fetched outside the browser with the session's cookies.
func (c *Client) GenerateReport(ctx context.Context, dir string) ([]Report, error) {
	doc, err := c.open(ctx, pathAdminReport)
	if err != nil {
		return nil, err
	}
	page, err := url.Parse(c.url(pathAdminReport))
	if err != nil {
		return nil, err
	}
	links := reportLinks(page, doc)
	if len(links) == 0 {
		return nil, operationFailed("report", pathAdminReport, "no reports are linked")
	}

	cookies, err := c.driver.Cookies(ctx)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetTimeout(30 * time.Second)
	httpClient.SetCookies(cookies)
	telemetry.InstrumentResty(httpClient, c.tel)

	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return nil, err
	}

	out := make([]Report, 0, len(links))
	taken := map[string]bool{}
	for _, link := range links {
		res, err := httpClient.R().
			SetContext(ctx).
			Get(link.Url.String())
		if err != nil {
			c.tel.ReportBroken(report_client_generate_report, err, link.Url.String())
			return nil, err
		}
		if res.IsError() {
			return nil, operationFailed("report", link.Name, fmt.Sprintf("BOCA answered %s", res.Status()))
		}

		path := filepath.Join(dir, reportFilename(link.Name, taken))
		err = os.WriteFile(path, res.Body(), 0644)
		if err != nil {
			return nil, err
		}
		out = append(out, Report{Name: link.Name, Path: path})
	}
	c.tel.ReportInfo("reports saved", "count", len(out), "dir", dir)
	return out, nil
}
