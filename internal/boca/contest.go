package boca

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"boca-cli/internal/setup"
	"boca-cli/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_client_create_contest = "client.create-contest"
	report_client_update_contest = "client.update-contest"
)

const dateLayout = "2006-01-02 15:04"

var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseDate(text string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", text)
}

type contestPickerEntry struct {
	id     string
	active bool
}

func contestPicker(doc *goquery.Document) []contestPickerEntry {
	var out []contestPickerEntry
	doc.Find(selContestPicker + " option").Each(func(_ int, option *goquery.Selection) {
		value := option.AttrOr("value", "")
		if leadingNumber(value) != value || value == "" {
			return
		}
		out = append(out, contestPickerEntry{
			id:     value,
			active: strings.Contains(htmlutil.CleanText(option.Text()), activeMarker),
		})
	})
	return out
}

func contestStart(doc *goquery.Document) time.Time {
	return time.Date(
		formInt(doc, fieldContestStartYear),
		time.Month(formInt(doc, fieldContestStartMonth)),
		formInt(doc, fieldContestStartDay),
		formInt(doc, fieldContestStartHour),
		formInt(doc, fieldContestStartMinute),
		0, 0, time.UTC,
	)
}

func contestFromForm(doc *goquery.Document, id string, active bool) Contest {
	start := contestStart(doc)
	end := start.Add(time.Duration(formInt(doc, fieldContestDuration)) * time.Minute)
	return Contest{
		Id:              id,
		Name:            formValue(doc, fieldContestName),
		StartDate:       start.Format(dateLayout),
		EndDate:         end.Format(dateLayout),
		StopAnswering:   formInt(doc, fieldContestLastMileAns),
		StopScoreboard:  formInt(doc, fieldContestLastMileScore),
		Penalty:         formInt(doc, fieldContestPenalty),
		MaxFileSize:     formInt(doc, fieldContestMaxFileSize),
		MainSiteUrl:     formValue(doc, fieldContestMainSiteUrl),
		MainSiteNumber:  formInt(doc, fieldContestMainSite),
		LocalSiteNumber: formInt(doc, fieldContestLocalSite),
		Active:          active,
	}
}

// contestForm turns the set fields of payload into form fields, start is the
// start date the contest currently has.
func contestForm(payload setup.Contest, start time.Time) (form, error) {
	var f form
	f.text(fieldContestName, payload.Name)

	if payload.StartDate != "" {
		parsed, err := parseDate(payload.StartDate)
		if err != nil {
			return nil, err
		}
		start = parsed
		f = append(f,
			text(fieldContestStartHour, strconv.Itoa(start.Hour())),
			text(fieldContestStartMinute, strconv.Itoa(start.Minute())),
			text(fieldContestStartDay, strconv.Itoa(start.Day())),
			text(fieldContestStartMonth, strconv.Itoa(int(start.Month()))),
			text(fieldContestStartYear, strconv.Itoa(start.Year())),
		)
	}
	if payload.EndDate != "" {
		end, err := parseDate(payload.EndDate)
		if err != nil {
			return nil, err
		}
		if !end.After(start) {
			return nil, fmt.Errorf("contest ends at %s, before it starts at %s", payload.EndDate, start.Format(dateLayout))
		}
		f = append(f, text(fieldContestDuration, strconv.Itoa(int(end.Sub(start).Minutes()))))
	}

	f.number(fieldContestLastMileAns, payload.StopAnswering)
	f.number(fieldContestLastMileScore, payload.StopScoreboard)
	f.number(fieldContestPenalty, payload.Penalty)
	f.number(fieldContestMaxFileSize, payload.MaxFileSize)
	f.text(fieldContestMainSiteUrl, payload.MainSiteUrl)
	f.number(fieldContestMainSite, payload.MainSiteNumber)
	f.number(fieldContestLocalSite, payload.LocalSiteNumber)
	return f, nil
}

func (c *Client) GetContests(ctx context.Context) ([]Contest, error) {
	doc, err := c.open(ctx, pathSystemContest)
	if err != nil {
		return nil, err
	}
	entries := contestPicker(doc)
	out := make([]Contest, 0, len(entries))
	for _, entry := range entries {
		contest, err := c.GetContest(ctx, setup.Ref{Id: entry.id})
		if err != nil {
			return nil, err
		}
		out = append(out, contest)
	}
	return out, nil
}

func (c *Client) GetContest(ctx context.Context, ref setup.Ref) (Contest, error) {
	doc, err := c.open(ctx, withQuery(pathSystemContest, "contest", ref.Id))
	if err != nil {
		return Contest{}, err
	}
	for _, entry := range contestPicker(doc) {
		if entry.id == ref.Id {
			return contestFromForm(doc, entry.id, entry.active), nil
		}
	}
	return Contest{}, notFound("contest", ref.Id)
}

func (c *Client) CreateContest(ctx context.Context, payload setup.Contest) (Contest, error) {
	doc, err := c.open(ctx, withQuery(pathSystemContest, "new", "1"))
	if err != nil {
		return Contest{}, err
	}
	id := formValue(doc, fieldContestNumber)
	if id == "" {
		c.tel.ReportBroken(report_client_create_contest, "new contest form has no number")
		return Contest{}, operationFailed("contest", "new", "BOCA did not open a new contest")
	}

	f, err := contestForm(payload, contestStart(doc))
	if err != nil {
		return Contest{}, operationFailed("contest", id, err.Error())
	}
	err = c.fill(ctx, f)
	if err != nil {
		return Contest{}, err
	}
	err = c.driver.Click(ctx, selSend)
	if err != nil {
		return Contest{}, err
	}

	if payload.Active != nil && *payload.Active {
		err = c.activate(ctx, id)
		if err != nil {
			return Contest{}, err
		}
	}

	contest, err := c.GetContest(ctx, setup.Ref{Id: id})
	if isNotFound(err) {
		return Contest{}, operationFailed("contest", id, "created contest is not listed")
	}
	if err != nil {
		return Contest{}, err
	}
	c.tel.ReportInfo("contest created", "id", id)
	return contest, nil
}

func (c *Client) UpdateContest(ctx context.Context, payload setup.Contest) (Contest, error) {
	current, err := c.GetContest(ctx, setup.Ref{Id: payload.Id})
	if err != nil {
		return Contest{}, err
	}
	start, _ := parseDate(current.StartDate)

	f, err := contestForm(payload, start)
	if err != nil {
		return Contest{}, operationFailed("contest", payload.Id, err.Error())
	}
	if len(f) > 0 {
		err = c.fill(ctx, f)
		if err != nil {
			return Contest{}, err
		}
		err = c.driver.Click(ctx, selSend)
		if err != nil {
			c.tel.ReportBroken(report_client_update_contest, err, payload.Id)
			return Contest{}, err
		}
	}
	if payload.Active != nil && *payload.Active && !current.Active {
		err = c.activate(ctx, payload.Id)
		if err != nil {
			return Contest{}, err
		}
	}
	return c.GetContest(ctx, setup.Ref{Id: payload.Id})
}

func (c *Client) activate(ctx context.Context, id string) error {
	err := c.driver.Navigate(ctx, c.url(withQuery(pathSystemContest, "contest", id)))
	if err != nil {
		return err
	}
	return c.driver.Click(ctx, selActivate)
}

func (c *Client) ActivateContest(ctx context.Context, ref setup.Ref) (Contest, error) {
	_, err := c.GetContest(ctx, ref)
	if err != nil {
		return Contest{}, err
	}
	err = c.driver.Click(ctx, selActivate)
	if err != nil {
		return Contest{}, err
	}
	contest, err := c.GetContest(ctx, ref)
	if err != nil {
		return Contest{}, err
	}
	if !contest.Active {
		return Contest{}, operationFailed("contest", ref.Id, "contest is not active after activation")
	}
	return contest, nil
}
