package boca

import (
	"context"
	"strings"
	"testing"

	"boca-cli/internal/setup"

	"github.com/stretchr/testify/require"
)

func languageListingPage(rows ...string) string {
	return `<html><body><form>
<table>
<tr><td>Language #</td><td>Name</td><td>Extension</td></tr>
` + strings.Join(rows, "\n") + `
</table>
<input name="langnumber"><input name="langname"><input name="langextension">
<input type="submit" name="Submit3" value="Send">
</form></body></html>`
}

const (
	languageC    = `<tr><td><a href="#">1</a></td><td>C</td><td>c</td></tr>`
	languageJava = `<tr><td><a href="#">2</a></td><td>Java</td><td>java</td></tr>`
	languageCpp  = `<tr><td><a href="#">3</a></td><td>C++</td><td>cpp</td></tr>`
)

func TestGetLanguages(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminLanguage, languageListingPage(languageC, languageJava))
	c := newTestClient(t, d)

	languages, err := c.GetLanguages(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Language{
		{Id: "1", Name: "C", Extension: "c"},
		{Id: "2", Name: "Java", Extension: "java"},
	}, languages)

	language, err := c.GetLanguage(context.Background(), setup.Ref{Id: "2"})
	require.NoError(t, err)
	require.Equal(t, "Java", language.Name)

	_, err = c.GetLanguage(context.Background(), setup.Ref{Id: "3"})
	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, NotFound, resourceErr.Kind)
}

func TestCreateLanguage(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminLanguage, languageListingPage(languageC, languageJava))
	d.onClick[selSend] = func(d *fakeDriver) {
		d.page(pathAdminLanguage, languageListingPage(languageC, languageJava, languageCpp))
	}
	c := newTestClient(t, d)

	language, err := c.CreateLanguage(context.Background(), setup.Language{Id: "3", Name: "C++", Extension: "cpp"})
	require.NoError(t, err)
	require.Equal(t, Language{Id: "3", Name: "C++", Extension: "cpp"}, language)
	require.Equal(t, "3", d.filled[fieldSelector(fieldLanguageNumber)])
	require.Equal(t, "C++", d.filled[fieldSelector(fieldLanguageName)])
	require.Equal(t, "cpp", d.filled[fieldSelector(fieldLanguageExtension)])
}

func TestCreateLanguageNotListed(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminLanguage, languageListingPage(languageC))
	c := newTestClient(t, d)

	_, err := c.CreateLanguage(context.Background(), setup.Language{Id: "3", Name: "C++", Extension: "cpp"})
	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, OperationFailed, resourceErr.Kind)
	require.Equal(t, "3", resourceErr.Key)
}

func TestUpdateLanguageKeepsListedValues(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminLanguage, languageListingPage(languageC, languageJava))
	d.onClick[selSend] = func(d *fakeDriver) {
		d.page(pathAdminLanguage, languageListingPage(languageC,
			`<tr><td><a href="#">2</a></td><td>Java</td><td>jav</td></tr>`))
	}
	c := newTestClient(t, d)

	language, err := c.UpdateLanguage(context.Background(), setup.Language{Id: "2", Extension: "jav"})
	require.NoError(t, err)
	require.Equal(t, Language{Id: "2", Name: "Java", Extension: "jav"}, language)
	require.Equal(t, "Java", d.filled[fieldSelector(fieldLanguageName)])
	require.Equal(t, "jav", d.filled[fieldSelector(fieldLanguageExtension)])

	_, err = c.UpdateLanguage(context.Background(), setup.Language{Id: "7", Name: "Go"})
	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, NotFound, resourceErr.Kind)
}

func TestDeleteLanguages(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminLanguage, languageListingPage(languageC, languageJava, languageCpp))
	d.onClick["form > table > tbody > tr:nth-of-type(4) > td:nth-of-type(1) a"] = func(d *fakeDriver) {
		d.page(pathAdminLanguage, languageListingPage(languageC, languageJava))
	}
	d.onClick["form > table > tbody > tr:nth-of-type(2) > td:nth-of-type(1) a"] = func(d *fakeDriver) {
		d.page(pathAdminLanguage, languageListingPage(languageJava))
	}
	c := newTestClient(t, d)

	deleted, err := c.DeleteLanguages(context.Background(), []setup.Ref{{Id: "3"}, {Id: "1"}})
	require.NoError(t, err)
	require.Equal(t, []Language{
		{Id: "3", Name: "C++", Extension: "cpp"},
		{Id: "1", Name: "C", Extension: "c"},
	}, deleted)
}

func TestDeleteLanguageStillListed(t *testing.T) {
	d := newFakeDriver()
	d.page(pathAdminLanguage, languageListingPage(languageC, languageJava))
	c := newTestClient(t, d)

	_, err := c.DeleteLanguage(context.Background(), setup.Ref{Id: "2"})
	var resourceErr *ResourceError
	require.ErrorAs(t, err, &resourceErr)
	require.Equal(t, OperationFailed, resourceErr.Kind)
	require.Len(t, d.clicks, 1)
}
