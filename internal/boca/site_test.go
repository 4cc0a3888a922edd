package boca

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"boca-cli/internal/setup"

	"github.com/stretchr/testify/require"
)

func sitesPage(rows ...string) string {
	return `<html><body><form>
<table>
<tr><td>Site #</td><td>Name</td><td>IP</td><td>Active</td><td>Logins</td></tr>
` + strings.Join(rows, "\n") + `
</table>
</form></body></html>`
}

func siteRow(id, name, logins string) string {
	return fmt.Sprintf(`<tr><td><a href="site.php?site=%[1]s">%[1]s</a></td><td>%[2]s</td><td></td><td>Yes</td><td>%[3]s</td></tr>`, id, name, logins)
}

// siteEditor is the site form of siteEditPage renumbered and renamed.
func siteEditor(id, name string) string {
	return strings.NewReplacer(
		`name="sitenumber" value="1"`, `name="sitenumber" value="`+id+`"`,
		`name="sitename" value="Main"`, `name="sitename" value="`+name+`"`,
	).Replace(siteEditPage)
}

func TestCreateSite(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminSite+"?site=new", siteEditPage)
	d.onClick[selSiteSend] = func(d *fakeDriver) {
		d.page(pathAdminSite, sitesPage(siteRow("1", "Main", "Yes"), siteRow("2", "Remote", "No")))
		d.page(pathAdminSite+"?site=2", siteEditor("2", "Remote"))
	}
	c := newTestClient(t, d)

	inactive := false
	duration := 240
	site, err := c.CreateSite(context.Background(), setup.Site{
		Id:       "2",
		Name:     "Remote",
		Duration: &duration,
		Active:   &inactive,
	})
	require.NoError(t, err)
	require.Equal(t, "2", site.Id)
	require.Equal(t, "Remote", site.Name)
	require.False(t, site.LoginsEnabled)

	require.Equal(t, "2", d.filled[fieldSelector(fieldSiteNumber)])
	require.Equal(t, "Remote", d.filled[fieldSelector(fieldSiteName)])
	require.Equal(t, "240", d.filled[fieldSelector(fieldSiteDuration)])
	require.Equal(t, map[string]bool{fieldSelector(fieldSiteActive): false}, d.checked)
}

func TestCreateSiteNotListed(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminSite+"?site=new", siteEditPage)
	d.page(pathAdminSite, sitesPage(siteRow("1", "Main", "Yes")))
	c := newTestClient(t, d)

	_, err := c.CreateSite(context.Background(), setup.Site{Id: "2", Name: "Remote"})
	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, OperationFailed, resourceErr.Kind)
	require.Equal(t, "2", resourceErr.Key)
}

func TestUpdateSite(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminSite, sitesPage(siteRow("1", "Main", "Yes")))
	d.page(pathAdminSite+"?site=1", siteEditPage)
	d.onClick[selSiteSend] = func(d *fakeDriver) {
		d.page(pathAdminSite, sitesPage(siteRow("1", "Central", "Yes")))
		d.page(pathAdminSite+"?site=1", siteEditor("1", "Central"))
	}
	c := newTestClient(t, d)

	site, err := c.UpdateSite(context.Background(), setup.Site{Id: "1", Name: "Central"})
	require.NoError(t, err)
	require.Equal(t, "Central", site.Name)
	require.Equal(t, 300, site.Duration)
	require.Equal(t, []string{selSiteSend}, d.clicks)

	// nothing to change, the site is read back
	site, err = c.UpdateSite(context.Background(), setup.Site{Id: "1"})
	require.NoError(t, err)
	require.Equal(t, "Central", site.Name)
	require.Len(t, d.clicks, 1)

	_, err = c.UpdateSite(context.Background(), setup.Site{Id: "5", Name: "Nowhere"})
	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, NotFound, resourceErr.Kind)
}

func TestDisableLoginSite(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminSite, siteListingPage("Yes"))
	d.page(pathAdminSite+"?site=1", siteEditPage)
	d.onClick[selSiteDisableLogins] = func(d *fakeDriver) {
		d.page(pathAdminSite, siteListingPage("No"))
	}
	c := newTestClient(t, d)

	site, err := c.DisableLoginSite(context.Background(), setup.Ref{Id: "1"})
	require.NoError(t, err)
	require.False(t, site.LoginsEnabled)
	require.Equal(t, []string{selSiteDisableLogins}, d.clicks)
}

func TestDisableLoginSiteWithoutEffect(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminSite, siteListingPage("Yes"))
	d.page(pathAdminSite+"?site=1", siteEditPage)
	c := newTestClient(t, d)

	_, err := c.DisableLoginSite(context.Background(), setup.Ref{Id: "1"})
	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, OperationFailed, resourceErr.Kind)
	require.Equal(t, "1", resourceErr.Key)
}

func TestForceLogoffSite(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminSite, siteListingPage("Yes"))
	d.page(pathAdminSite+"?site=1", siteEditPage)
	c := newTestClient(t, d)

	site, err := c.ForceLogoffSite(context.Background(), setup.Ref{Id: "1"})
	require.NoError(t, err)
	require.Equal(t, "Main", site.Name)
	require.Equal(t, []string{selSiteForceLogoff}, d.clicks)

	_, err = c.ForceLogoffSite(context.Background(), setup.Ref{Id: "4"})
	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, NotFound, resourceErr.Kind)
	require.Len(t, d.clicks, 1)
}
