package client

import (
	"context"
	"errors"

	"github.com/a-h/insightengine/generator"
	"github.com/a-h/insightengine/models"
	"github.com/a-h/jsonapi"
)

// Summarizer generates summaries through a remote server, so that the
// terminal client can drive the same state controller as the dashboard.
type Summarizer struct {
	Client Client
}

// Generate maps failures onto the generator's kinds: anything that stops a
// well-formed response arriving is a request failure, and a response that
// doesn't decode to a valid summary is a parse failure.
func (s Summarizer) Generate(ctx context.Context, thesis string) (summary models.Summary, err error) {
	resp, err := s.Client.SummaryPost(ctx, models.SummaryPostRequest{Thesis: thesis})
	if err != nil {
		if errors.As(err, &jsonapi.InvalidJSONError{}) {
			return summary, &generator.Error{Kind: generator.KindParse, Err: err}
		}
		return summary, &generator.Error{Kind: generator.KindRequest, Err: err}
	}
	if err = resp.Summary.Validate(); err != nil {
		return summary, &generator.Error{Kind: generator.KindParse, Err: err}
	}
	return resp.Summary, nil
}
