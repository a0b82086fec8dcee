package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/coilstock/internal/domain/models"
)

// Notifier delivers daily snapshots to an external consumer.
type Notifier interface {
	SendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error
}

// Client is a resty-backed Notifier that POSTs each snapshot as JSON to a
// configured URL.
type Client struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client for the given target URL.
func NewClient(url string) *Client {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &Client{
		httpClient: restyClient,
		url:        url,
	}
}

// errorResponse is the error body shape webhook receivers are expected to
// return on rejection.
type errorResponse struct {
	Error string `json:"error"`
}

// SendSnapshot posts the snapshot and fails on any non-2xx response.
func (c *Client) SendSnapshot(ctx context.Context, snapshot models.DailySnapshot) error {
	apiErr := new(errorResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(snapshot).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send snapshot webhook: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("snapshot webhook rejected: status=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}

	return nil
}
