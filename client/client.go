package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/insightengine/models"
	"github.com/a-h/jsonapi"
)

// ErrNoArchive is returned when the server isn't configured with a report
// archive, so the report listing isn't available.
var ErrNoArchive = errors.New("client: the server has no report archive")

func New(baseURL, apiKey string) Client {
	return Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type Client struct {
	baseURL string
	apiKey  string
}

func (c Client) opts() []jsonapi.Opt {
	return []jsonapi.Opt{jsonapi.WithRequestHeader("Authorization", c.apiKey)}
}

func (c Client) SummaryPost(ctx context.Context, req models.SummaryPostRequest) (resp models.SummaryPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("api", "summary").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.SummaryPostRequest, models.SummaryPostResponse](ctx, url, req, c.opts()...)
}

// ReportsGet lists archived reports, most recent first. A limit of zero uses
// the server's default.
func (c Client) ReportsGet(ctx context.Context, limit int) (resp models.ReportsGetResponse, err error) {
	ub := jsonapi.URL(c.baseURL).Path("api", "reports")
	if limit > 0 {
		ub = ub.Query(map[string]string{"limit": strconv.Itoa(limit)})
	}
	url, err := ub.String()
	if err != nil {
		return resp, err
	}
	resp, ok, err := jsonapi.Get[models.ReportsGetResponse](ctx, url, c.opts()...)
	if err != nil {
		return resp, err
	}
	if !ok {
		return resp, ErrNoArchive
	}
	return resp, nil
}

// ReportGet returns ok=false if the report doesn't exist.
func (c Client) ReportGet(ctx context.Context, id int64) (resp models.ReportGetResponse, ok bool, err error) {
	url, err := c.reportURL(id)
	if err != nil {
		return resp, false, err
	}
	return jsonapi.Get[models.ReportGetResponse](ctx, url, c.opts()...)
}

// ReportDelete returns ok=false if the report doesn't exist.
func (c Client) ReportDelete(ctx context.Context, id int64) (ok bool, err error) {
	url, err := c.reportURL(id)
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := jsonapi.Raw(req, c.opts()...)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	switch {
	case res.StatusCode == http.StatusNotFound:
		return false, nil
	case res.StatusCode < 200 || res.StatusCode > 299:
		body, _ := io.ReadAll(res.Body)
		return false, jsonapi.InvalidStatusError{Status: res.StatusCode, Body: string(body)}
	}
	return true, nil
}

func (c Client) reportURL(id int64) (string, error) {
	return jsonapi.URL(c.baseURL).Path("api", "reports", strconv.FormatInt(id, 10)).String()
}
