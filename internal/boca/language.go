package boca

import (
	"context"

	"boca-cli/internal/setup"
)

var languageListing = listing[Language]{
	resource: "language",
	path:     pathAdminLanguage,
	rows:     rowsAdminListing,
	id:       languageColumns.Id,
	parse: func(r row) Language {
		return Language{
			Id:        leadingNumber(r.cell(languageColumns.Id)),
			Name:      r.cell(languageColumns.Name),
			Extension: r.cell(languageColumns.Extension),
		}
	},
}

func (c *Client) GetLanguages(ctx context.Context) ([]Language, error) {
	return languageListing.all(ctx, c)
}

func (c *Client) GetLanguage(ctx context.Context, ref setup.Ref) (Language, error) {
	language, _, err := languageListing.find(ctx, c, ref.Id)
	return language, err
}

func (c *Client) submitLanguage(ctx context.Context, language Language) (Language, error) {
	err := c.fill(ctx, []formField{
		text(fieldLanguageNumber, language.Id),
		text(fieldLanguageName, language.Name),
		text(fieldLanguageExtension, language.Extension),
	})
	if err != nil {
		return Language{}, err
	}
	err = c.driver.Click(ctx, selSend)
	if err != nil {
		return Language{}, err
	}
	return languageListing.saved(ctx, c, language.Id)
}

func (c *Client) CreateLanguage(ctx context.Context, payload setup.Language) (Language, error) {
	err := c.driver.Navigate(ctx, c.url(pathAdminLanguage))
	if err != nil {
		return Language{}, err
	}
	return c.submitLanguage(ctx, Language{
		Id:        payload.Id,
		Name:      payload.Name,
		Extension: payload.Extension,
	})
}

func (c *Client) UpdateLanguage(ctx context.Context, payload setup.Language) (Language, error) {
	current, _, err := languageListing.find(ctx, c, payload.Id)
	if err != nil {
		return Language{}, err
	}
	if payload.Name != "" {
		current.Name = payload.Name
	}
	if payload.Extension != "" {
		current.Extension = payload.Extension
	}
	return c.submitLanguage(ctx, current)
}

func (c *Client) DeleteLanguage(ctx context.Context, ref setup.Ref) (Language, error) {
	return languageListing.remove(ctx, c, ref.Id)
}

func (c *Client) DeleteLanguages(ctx context.Context, refs []setup.Ref) ([]Language, error) {
	return each(ctx, refs, c.DeleteLanguage)
}
