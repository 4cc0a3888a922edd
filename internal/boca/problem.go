package boca

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"boca-cli/internal/setup"
)

const (
	report_client_toggle_problem   = "client.toggle-problem"
	report_client_download_problem = "client.download-problem"
)

var backgroundColor = regexp.MustCompile(`(?i)background(?:-color)?\s*:\s*#?([0-9a-f]{6})`)

var problemListing = listing[Problem]{
	resource: "problem",
	path:     pathAdminProblem,
	rows:     rowsAdminListing,
	id:       problemColumns.Id,
	parse: func(r row) Problem {
		name := r.cell(problemColumns.Name)
		deleted := strings.Contains(name, deletedMarker) ||
			strings.Contains(r.cell(problemColumns.Id), deletedMarker)
		name = strings.TrimSpace(strings.ReplaceAll(name, deletedMarker, ""))

		color := ""
		match := backgroundColor.FindStringSubmatch(r.td(problemColumns.Color).AttrOr("style", ""))
		if len(match) == 2 {
			color = strings.ToLower(match[1])
		}

		return Problem{
			Id:          leadingNumber(r.cell(problemColumns.Id)),
			Name:        name,
			FullName:    r.cell(problemColumns.FullName),
			BaseName:    r.cell(problemColumns.BaseName),
			DescFile:    r.cell(problemColumns.DescFile),
			PackageFile: r.cell(problemColumns.Package),
			ColorName:   r.cell(problemColumns.Color),
			Color:       color,
			Enabled:     isYes(r.cell(problemColumns.Enabled)),
			Deleted:     deleted,
		}
	},
}

func (c *Client) GetProblems(ctx context.Context) ([]Problem, error) {
	return problemListing.all(ctx, c)
}

func (c *Client) GetProblem(ctx context.Context, ref setup.Ref) (Problem, error) {
	problem, _, err := problemListing.find(ctx, c, ref.Id)
	return problem, err
}

func problemForm(payload setup.Problem) form {
	f := form{text(fieldProblemNumber, payload.Id)}
	f.text(fieldProblemName, payload.Name)
	if payload.FilePath != "" {
		f = append(f, file(fieldProblemPackage, payload.FilePath))
	}
	f.text(fieldProblemColorName, payload.ColorName)
	f.text(fieldProblemColor, payload.Color)
	return f
}

// CreateProblem uploads the problem package and returns the listed problem.
func (c *Client) CreateProblem(ctx context.Context, payload setup.Problem) (Problem, error) {
	err := c.driver.Navigate(ctx, c.url(pathAdminProblem))
	if err != nil {
		return Problem{}, err
	}
	err = c.fill(ctx, problemForm(payload))
	if err != nil {
		return Problem{}, err
	}
	err = c.driver.Click(ctx, selSend)
	if err != nil {
		return Problem{}, err
	}
	problem, err := problemListing.saved(ctx, c, payload.Id)
	if err != nil {
		return Problem{}, err
	}
	c.tel.ReportInfo("problem created", "id", problem.Id, "name", problem.Name)
	return problem, nil
}

func (c *Client) UpdateProblem(ctx context.Context, payload setup.Problem) (Problem, error) {
	current, _, err := problemListing.find(ctx, c, payload.Id)
	if err != nil {
		return Problem{}, err
	}
	if payload.Name == "" {
		payload.Name = current.Name
	}
	if payload.ColorName == "" {
		payload.ColorName = current.ColorName
	}
	if payload.Color == "" {
		payload.Color = current.Color
	}
	err = c.fill(ctx, problemForm(payload))
	if err != nil {
		return Problem{}, err
	}
	err = c.driver.Click(ctx, selSend)
	if err != nil {
		return Problem{}, err
	}
	return problemListing.saved(ctx, c, payload.Id)
}

// toggleProblem clicks the link in column of the problem's row unless the
// problem already is in the state reached reports. BOCA flips the state on
// every click.
func (c *Client) toggleProblem(ctx context.Context, id string, column int, reached func(Problem) bool, action string) (Problem, error) {
	current, r, err := problemListing.find(ctx, c, id)
	if err != nil {
		return Problem{}, err
	}
	if reached(current) {
		return current, nil
	}
	err = c.driver.Click(ctx, cellLink(problemListing.rows, r, column))
	if err != nil {
		c.tel.ReportBroken(report_client_toggle_problem, err, action, id)
		return Problem{}, err
	}

	after, _, err := problemListing.find(ctx, c, id)
	if err != nil {
		return Problem{}, err
	}
	if !reached(after) {
		return Problem{}, operationFailed("problem", id, action+" had no effect")
	}
	return after, nil
}

func (c *Client) DeleteProblem(ctx context.Context, ref setup.Ref) (Problem, error) {
	return c.toggleProblem(ctx, ref.Id, problemColumns.Id, func(p Problem) bool { return p.Deleted }, "delete")
}

func (c *Client) RestoreProblem(ctx context.Context, ref setup.Ref) (Problem, error) {
	return c.toggleProblem(ctx, ref.Id, problemColumns.Id, func(p Problem) bool { return !p.Deleted }, "restore")
}

func (c *Client) DisableProblem(ctx context.Context, ref setup.Ref) (Problem, error) {
	return c.toggleProblem(ctx, ref.Id, problemColumns.Enabled, func(p Problem) bool { return !p.Enabled }, "disable")
}

func (c *Client) EnableProblem(ctx context.Context, ref setup.Ref) (Problem, error) {
	return c.toggleProblem(ctx, ref.Id, problemColumns.Enabled, func(p Problem) bool { return p.Enabled }, "enable")
}

func (c *Client) DeleteProblems(ctx context.Context, refs []setup.Ref) ([]Problem, error) {
	return each(ctx, refs, c.DeleteProblem)
}

func (c *Client) RestoreProblems(ctx context.Context, refs []setup.Ref) ([]Problem, error) {
	return each(ctx, refs, c.RestoreProblem)
}

func (c *Client) DisableProblems(ctx context.Context, refs []setup.Ref) ([]Problem, error) {
	return each(ctx, refs, c.DisableProblem)
}

func (c *Client) EnableProblems(ctx context.Context, refs []setup.Ref) ([]Problem, error) {
	return each(ctx, refs, c.EnableProblem)
}

// DownloadProblem saves the package of a problem into dir.
func (c *Client) DownloadProblem(ctx context.Context, ref setup.Ref, dir string) (Download, error) {
	_, r, err := problemListing.find(ctx, c, ref.Id)
	if err != nil {
		return Download{}, err
	}
	path, err := c.driver.Download(ctx, cellLink(problemListing.rows, r, problemColumns.Package), dir, "")
	if err != nil {
		c.tel.ReportBroken(report_client_download_problem, err, ref.Id)
		return Download{}, err
	}
	return Download{Path: path}, nil
}

type teamProblemRow struct {
	problem TeamProblem
	row     row
}

// teamProblems lists the problems of the team view, numbered from 1 in the
// order BOCA shows them.
func (c *Client) teamProblems(ctx context.Context) ([]teamProblemRow, error) {
	doc, err := c.open(ctx, pathTeamProblem)
	if err != nil {
		return nil, err
	}
	rows := scrapeRows(doc, rowsTeamProblem)
	out := make([]teamProblemRow, 0, len(rows))
	for _, r := range rows {
		name := r.cell(teamProblemColumns.Name)
		if name == "" || name == teamProblemHeader {
			continue
		}
		out = append(out, teamProblemRow{
			problem: TeamProblem{
				Id:       strconv.Itoa(len(out) + 1),
				Name:     r.cell(teamProblemColumns.Name),
				BaseName: r.cell(teamProblemColumns.BaseName),
				FullName: r.cell(teamProblemColumns.FullName),
				DescFile: r.cell(teamProblemColumns.DescFile),
			},
			row: r,
		})
	}
	return out, nil
}

func (c *Client) findTeamProblem(ctx context.Context, id string) (teamProblemRow, error) {
	problems, err := c.teamProblems(ctx)
	if err != nil {
		return teamProblemRow{}, err
	}
	for _, p := range problems {
		if p.problem.Id == id {
			return p, nil
		}
	}
	return teamProblemRow{}, notFound("problem", id)
}

func (c *Client) GetTeamProblems(ctx context.Context) ([]TeamProblem, error) {
	problems, err := c.teamProblems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TeamProblem, len(problems))
	for i, p := range problems {
		out[i] = p.problem
	}
	return out, nil
}

func (c *Client) GetTeamProblem(ctx context.Context, ref setup.Ref) (TeamProblem, error) {
	p, err := c.findTeamProblem(ctx, ref.Id)
	return p.problem, err
}

// DownloadTeamProblem saves the statement a team can download into dir.
func (c *Client) DownloadTeamProblem(ctx context.Context, ref setup.Ref, dir string) (Download, error) {
	p, err := c.findTeamProblem(ctx, ref.Id)
	if err != nil {
		return Download{}, err
	}
	if p.problem.DescFile == "" {
		return Download{}, operationFailed("problem", ref.Id, "problem has no downloadable file")
	}
	path, err := c.driver.Download(ctx, cellLink(rowsTeamProblem, p.row, teamProblemColumns.DescFile), dir, "")
	if err != nil {
		c.tel.ReportBroken(report_client_download_problem, err, ref.Id)
		return Download{}, err
	}
	return Download{Path: path}, nil
}
