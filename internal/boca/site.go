package boca

import (
	"context"

	"boca-cli/internal/setup"
)

const report_client_site_action = "client.site-action"

var siteListing = listing[Site]{
	resource: "site",
	path:     pathAdminSite,
	rows:     rowsAdminListing,
	id:       siteColumns.Id,
	parse: func(r row) Site {
		return Site{
			Id:            leadingNumber(r.cell(siteColumns.Id)),
			Name:          r.cell(siteColumns.Name),
			Ip:            r.cell(siteColumns.Ip),
			Active:        isYes(r.cell(siteColumns.Active)),
			LoginsEnabled: isYes(r.cell(siteColumns.Logins)),
		}
	},
}

func sitePage(id string) string {
	return withQuery(pathAdminSite, "site", id)
}

func (c *Client) GetSites(ctx context.Context) ([]Site, error) {
	return siteListing.all(ctx, c)
}

// GetSite reads the listing row of a site and completes it with its form.
func (c *Client) GetSite(ctx context.Context, ref setup.Ref) (Site, error) {
	site, _, err := siteListing.find(ctx, c, ref.Id)
	if err != nil {
		return Site{}, err
	}
	doc, err := c.open(ctx, sitePage(ref.Id))
	if err != nil {
		return Site{}, err
	}

	site.Name = formValue(doc, fieldSiteName)
	site.Ip = formValue(doc, fieldSiteIp)
	site.Duration = formInt(doc, fieldSiteDuration)
	site.StopAnswering = formInt(doc, fieldSiteLastMileAns)
	site.StopScoreboard = formInt(doc, fieldSiteLastMileSc)
	site.ChiefJudge = formValue(doc, fieldSiteChiefJudge)
	site.Active = formBool(doc, fieldSiteActive)
	site.AutoEnd = formBool(doc, fieldSiteAutoEnd)
	site.AutoJudge = formBool(doc, fieldSiteAutoJudge)
	site.GlobalScore = formValue(doc, fieldSiteGlobalScore)
	site.ScoreLevel = formInt(doc, fieldSiteScoreLevel)
	return site, nil
}

func siteForm(payload setup.Site) form {
	var f form
	f.text(fieldSiteName, payload.Name)
	f.text(fieldSiteIp, payload.Ip)
	f.number(fieldSiteDuration, payload.Duration)
	f.number(fieldSiteLastMileAns, payload.StopAnswering)
	f.number(fieldSiteLastMileSc, payload.StopScoreboard)
	f.text(fieldSiteChiefJudge, payload.ChiefJudge)
	f.check(fieldSiteActive, payload.Active)
	f.check(fieldSiteAutoEnd, payload.AutoEnd)
	f.check(fieldSiteAutoJudge, payload.AutoJudge)
	f.text(fieldSiteGlobalScore, payload.GlobalScore)
	f.number(fieldSiteScoreLevel, payload.ScoreLevel)
	return f
}

func (c *Client) CreateSite(ctx context.Context, payload setup.Site) (Site, error) {
	err := c.driver.Navigate(ctx, c.url(sitePage("new")))
	if err != nil {
		return Site{}, err
	}
	f := append(form{text(fieldSiteNumber, payload.Id)}, siteForm(payload)...)
	err = c.fill(ctx, f)
	if err != nil {
		return Site{}, err
	}
	err = c.driver.Click(ctx, selSiteSend)
	if err != nil {
		return Site{}, err
	}

	site, err := c.GetSite(ctx, setup.Ref{Id: payload.Id})
	if isNotFound(err) {
		return Site{}, operationFailed("site", payload.Id, "site is not listed after saving")
	}
	return site, err
}

func (c *Client) UpdateSite(ctx context.Context, payload setup.Site) (Site, error) {
	_, _, err := siteListing.find(ctx, c, payload.Id)
	if err != nil {
		return Site{}, err
	}
	f := siteForm(payload)
	if len(f) > 0 {
		err = c.driver.Navigate(ctx, c.url(sitePage(payload.Id)))
		if err != nil {
			return Site{}, err
		}
		err = c.fill(ctx, f)
		if err != nil {
			return Site{}, err
		}
		err = c.driver.Click(ctx, selSiteSend)
		if err != nil {
			return Site{}, err
		}
	}
	return c.GetSite(ctx, setup.Ref{Id: payload.Id})
}

// siteAction opens the form of a site, clicks button and reads the site back.
func (c *Client) siteAction(ctx context.Context, ref setup.Ref, button, action string) (Site, error) {
	_, _, err := siteListing.find(ctx, c, ref.Id)
	if err != nil {
		return Site{}, err
	}
	err = c.driver.Navigate(ctx, c.url(sitePage(ref.Id)))
	if err != nil {
		return Site{}, err
	}
	err = c.driver.Click(ctx, button)
	if err != nil {
		c.tel.ReportBroken(report_client_site_action, err, action, ref.Id)
		return Site{}, err
	}
	return c.GetSite(ctx, ref)
}

func (c *Client) EnableLoginSite(ctx context.Context, ref setup.Ref) (Site, error) {
	site, err := c.siteAction(ctx, ref, selSiteEnableLogins, "enable logins")
	if err != nil {
		return Site{}, err
	}
	if !site.LoginsEnabled {
		return Site{}, operationFailed("site", ref.Id, "logins are still disabled")
	}
	return site, nil
}

func (c *Client) DisableLoginSite(ctx context.Context, ref setup.Ref) (Site, error) {
	site, err := c.siteAction(ctx, ref, selSiteDisableLogins, "disable logins")
	if err != nil {
		return Site{}, err
	}
	if site.LoginsEnabled {
		return Site{}, operationFailed("site", ref.Id, "logins are still enabled")
	}
	return site, nil
}

// ForceLogoffSite signs out every user of a site.
func (c *Client) ForceLogoffSite(ctx context.Context, ref setup.Ref) (Site, error) {
	return c.siteAction(ctx, ref, selSiteForceLogoff, "force logoff")
}
