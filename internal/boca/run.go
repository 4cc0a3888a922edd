package boca

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"boca-cli/internal/browser"
	"boca-cli/internal/setup"
	"boca-cli/pkg/htmlutil"
)

const (
	report_client_download_run = "client.download-run"
	report_client_submit_run   = "client.submit-run"
)

var runListing = listing[Run]{
	resource: "run",
	path:     pathAdminRun,
	rows:     rowsAdminListing,
	id:       adminRunColumns.Id,
	parse: func(r row) Run {
		return Run{
			Id:       leadingNumber(r.cell(adminRunColumns.Id)),
			Site:     r.cell(adminRunColumns.Site),
			User:     r.cell(adminRunColumns.User),
			Time:     r.cell(adminRunColumns.Time),
			Problem:  r.cell(adminRunColumns.Problem),
			Language: r.cell(adminRunColumns.Language),
			Status:   r.cell(adminRunColumns.Status),
			Answer:   r.cell(adminRunColumns.Answer),
		}
	},
}

var teamRunListing = listing[TeamRun]{
	resource: "run",
	path:     pathTeamRun,
	rows:     rowsTeamRun,
	id:       teamRunColumns.Id,
	parse: func(r row) TeamRun {
		return TeamRun{
			Id:       leadingNumber(r.cell(teamRunColumns.Id)),
			Time:     r.cell(teamRunColumns.Time),
			Problem:  r.cell(teamRunColumns.Problem),
			Language: r.cell(teamRunColumns.Language),
			Answer:   r.cell(teamRunColumns.Answer),
			File:     htmlutil.CleanText(r.td(teamRunColumns.File).Find("a").First().Text()),
		}
	},
}

func (c *Client) GetRuns(ctx context.Context) ([]Run, error) {
	return runListing.all(ctx, c)
}

func (c *Client) GetRun(ctx context.Context, ref setup.Ref) (Run, error) {
	run, _, err := runListing.find(ctx, c, ref.Id)
	return run, err
}

func (c *Client) GetTeamRuns(ctx context.Context) ([]TeamRun, error) {
	return teamRunListing.all(ctx, c)
}

func (c *Client) GetTeamRun(ctx context.Context, ref setup.Ref) (TeamRun, error) {
	run, _, err := teamRunListing.find(ctx, c, ref.Id)
	return run, err
}

// saveRun opens the judge page of a listed run and saves its source, plus
// the outputs of the judge once the run was judged, into
// dir/user/problem/number_YES or _NO.
func (c *Client) saveRun(ctx context.Context, run Run, r row, dir string) (RunDownload, error) {
	err := c.driver.Click(ctx, cellLink(runListing.rows, r, adminRunColumns.Id))
	if err != nil {
		return RunDownload{}, err
	}
	doc, err := c.document(ctx)
	if err != nil {
		return RunDownload{}, err
	}

	status := selectedValue(doc.Find(selRunDetailStatus).First())
	label := "NO"
	if status == runStatusYes {
		label = "YES"
	}
	number := htmlutil.CleanText(doc.Find(selRunDetailNumber).First().Text())
	if number == "" {
		number = run.Id
	}

	out := RunDownload{
		Id:  run.Id,
		Dir: filepath.Join(dir, run.User, run.Problem, number+"_"+label),
	}

	source, err := c.driver.Download(ctx, selRunDetailSource, out.Dir, "")
	if err != nil {
		c.tel.ReportBroken(report_client_download_run, err, run.Id)
		return RunDownload{}, err
	}
	out.Files = append(out.Files, source)

	if status != runStatusPending {
		for _, output := range []struct{ selector, name string }{
			{selRunDetailStdout, "stdout.txt"},
			{selRunDetailStderr, "stderr.txt"},
		} {
			path, err := c.driver.Download(ctx, output.selector, out.Dir, output.name)
			if err != nil {
				c.tel.ReportBroken(report_client_download_run, err, run.Id, output.name)
				return RunDownload{}, err
			}
			out.Files = append(out.Files, path)
		}
	}

	err = c.driver.Back(ctx)
	if err != nil {
		return RunDownload{}, err
	}
	return out, nil
}

func (c *Client) DownloadRun(ctx context.Context, ref setup.Ref, dir string) (RunDownload, error) {
	run, r, err := runListing.find(ctx, c, ref.Id)
	if err != nil {
		return RunDownload{}, err
	}
	return c.saveRun(ctx, run, r, dir)
}

// DownloadRuns saves every listed run, see saveRun for the layout.
func (c *Client) DownloadRuns(ctx context.Context, dir string) ([]RunDownload, error) {
	runs, err := c.GetRuns(ctx)
	if err != nil {
		return nil, err
	}
	c.tel.ReportInfo("downloading runs", "count", len(runs))
	c.tel.ReportCount(report_client_download_run, int64(len(runs)))

	return each(ctx, runs, func(ctx context.Context, run Run) (RunDownload, error) {
		return c.DownloadRun(ctx, setup.Ref{Id: run.Id}, dir)
	})
}

// saveTeamRun downloads the source linked from a team run row as a flat
// file in dir, named after the link text.
func (c *Client) saveTeamRun(ctx context.Context, run TeamRun, r row, dir string) (Download, error) {
	name := run.File
	if name == "" {
		name = "file"
	}
	path, err := c.driver.Download(ctx, cellLink(rowsTeamRun, r, teamRunColumns.File), dir, name)
	if err != nil {
		c.tel.ReportBroken(report_client_download_run, err, run.Id)
		return Download{}, err
	}
	return Download{Path: path}, nil
}

func (c *Client) DownloadTeamRun(ctx context.Context, ref setup.Ref, dir string) (Download, error) {
	run, r, err := teamRunListing.find(ctx, c, ref.Id)
	if err != nil {
		return Download{}, err
	}
	return c.saveTeamRun(ctx, run, r, dir)
}

// DownloadTeamRuns saves the source of every run of the signed in team.
func (c *Client) DownloadTeamRuns(ctx context.Context, dir string) ([]Download, error) {
	doc, err := c.open(ctx, teamRunListing.path)
	if err != nil {
		return nil, err
	}
	runs, rows := teamRunListing.scrape(doc)
	c.tel.ReportInfo("downloading runs", "count", len(runs))
	c.tel.ReportCount(report_client_download_run, int64(len(runs)))

	out := make([]Download, 0, len(runs))
	for i, run := range runs {
		download, err := c.saveTeamRun(ctx, run, rows[i], dir)
		if err != nil {
			return nil, err
		}
		out = append(out, download)
	}
	return out, nil
}

// SubmitRun submits a source file as the signed in team and returns the
// refreshed run listing. The submission only counts as accepted when a new
// run for the same problem and language shows up.
func (c *Client) SubmitRun(ctx context.Context, payload setup.Run) ([]TeamRun, error) {
	doc, err := c.open(ctx, pathTeamRun)
	if err != nil {
		return nil, err
	}
	before, _ := teamRunListing.scrape(doc)
	seen := map[string]bool{}
	for _, run := range before {
		seen[run.Id] = true
	}

	problem, ok := optionLabel(doc, selRunProblem, payload.Problem)
	if !ok {
		return nil, notFound("problem", payload.Problem)
	}
	language, ok := optionLabel(doc, selRunLanguage, payload.Language)
	if !ok {
		return nil, notFound("language", payload.Language)
	}

	err = c.driver.Select(ctx, selRunProblem, payload.Problem)
	if errors.Is(err, browser.ErrNoOption) {
		return nil, notFound("problem", payload.Problem)
	}
	if err != nil {
		return nil, err
	}
	err = c.driver.Select(ctx, selRunLanguage, payload.Language)
	if errors.Is(err, browser.ErrNoOption) {
		return nil, notFound("language", payload.Language)
	}
	if err != nil {
		return nil, err
	}
	err = c.driver.SetFile(ctx, selRunSource, payload.FilePath)
	if err != nil {
		c.tel.ReportBroken(report_client_submit_run, err, payload.FilePath)
		return nil, err
	}
	err = c.driver.Click(ctx, selRunSubmit)
	if err != nil {
		c.tel.ReportBroken(report_client_submit_run, err)
		return nil, err
	}

	after, err := c.GetTeamRuns(ctx)
	if err != nil {
		return nil, err
	}
	for _, run := range after {
		if seen[run.Id] {
			continue
		}
		if matchesChoice(run.Problem, problem, payload.Problem) &&
			matchesChoice(run.Language, language, payload.Language) {
			c.tel.ReportInfo("run submitted", "id", run.Id, "problem", run.Problem)
			return after, nil
		}
	}
	return nil, operationFailed("run", filepath.Base(payload.FilePath), "no new run for the submitted problem and language")
}

func matchesChoice(cell string, candidates ...string) bool {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if strings.EqualFold(cell, candidate) || strings.HasPrefix(candidate, cell+" ") ||
			strings.HasPrefix(cell, candidate+" ") {
			return true
		}
	}
	return false
}
