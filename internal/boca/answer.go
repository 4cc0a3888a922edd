package boca

import (
	"context"

	"boca-cli/internal/setup"
)

var answerListing = listing[Answer]{
	resource: "answer",
	path:     pathAdminAnswer,
	rows:     rowsAdminListing,
	id:       answerColumns.Id,
	parse: func(r row) Answer {
		return Answer{
			Id:          leadingNumber(r.cell(answerColumns.Id)),
			Description: r.cell(answerColumns.Description),
			ShortName:   r.cell(answerColumns.ShortName),
			Yes:         isYes(r.cell(answerColumns.Yes)),
		}
	},
}

func (c *Client) GetAnswers(ctx context.Context) ([]Answer, error) {
	return answerListing.all(ctx, c)
}

func (c *Client) GetAnswer(ctx context.Context, ref setup.Ref) (Answer, error) {
	answer, _, err := answerListing.find(ctx, c, ref.Id)
	return answer, err
}

func (c *Client) submitAnswer(ctx context.Context, answer Answer) (Answer, error) {
	err := c.fill(ctx, []formField{
		text(fieldAnswerNumber, answer.Id),
		text(fieldAnswerName, answer.Description),
		text(fieldAnswerShort, answer.ShortName),
		choice(fieldAnswerYes, yesNoValue(answer.Yes)),
	})
	if err != nil {
		return Answer{}, err
	}
	err = c.driver.Click(ctx, selSend)
	if err != nil {
		return Answer{}, err
	}
	return answerListing.saved(ctx, c, answer.Id)
}

func (c *Client) CreateAnswer(ctx context.Context, payload setup.Answer) (Answer, error) {
	err := c.driver.Navigate(ctx, c.url(pathAdminAnswer))
	if err != nil {
		return Answer{}, err
	}
	answer := Answer{
		Id:          payload.Id,
		Description: payload.Description,
		ShortName:   payload.ShortName,
	}
	if payload.Yes != nil {
		answer.Yes = *payload.Yes
	}
	return c.submitAnswer(ctx, answer)
}

// UpdateAnswer resubmits the answer form with the listed values overridden by
// the set fields of payload.
func (c *Client) UpdateAnswer(ctx context.Context, payload setup.Answer) (Answer, error) {
	current, _, err := answerListing.find(ctx, c, payload.Id)
	if err != nil {
		return Answer{}, err
	}
	if payload.Description != "" {
		current.Description = payload.Description
	}
	if payload.ShortName != "" {
		current.ShortName = payload.ShortName
	}
	if payload.Yes != nil {
		current.Yes = *payload.Yes
	}
	return c.submitAnswer(ctx, current)
}

func (c *Client) DeleteAnswer(ctx context.Context, ref setup.Ref) (Answer, error) {
	return answerListing.remove(ctx, c, ref.Id)
}

func (c *Client) DeleteAnswers(ctx context.Context, refs []setup.Ref) ([]Answer, error) {
	return each(ctx, refs, c.DeleteAnswer)
}
