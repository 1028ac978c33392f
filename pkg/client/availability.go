package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"permitdesk/pkg/logger"
)

// AvailabilityClient talks to the external park-capacity API. The returned
// slot count reflects capacity at the moment of the call; the bookings
// service stamps it onto a hold at creation time.
type AvailabilityClient struct {
	baseURL string
	http    *HTTPClient
}

type availabilityResponse struct {
	Product  string `json:"product"`
	TrekDate string `json:"trek_date"`
	Slots    int    `json:"slots"`
}

func NewAvailabilityClient(baseURL string, log *logger.Logger) *AvailabilityClient {
	return &AvailabilityClient{
		baseURL: baseURL,
		http:    NewHTTPClient(log),
	}
}

// Slots returns the open capacity for a product on a trekking date.
func (c *AvailabilityClient) Slots(ctx context.Context, product string, trekDate time.Time) (int, error) {
	endpoint := fmt.Sprintf("%s/api/v1/availability?product=%s&date=%s",
		c.baseURL,
		url.QueryEscape(product),
		trekDate.Format("2006-01-02"),
	)

	var resp availabilityResponse
	if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
		return 0, fmt.Errorf("failed to fetch availability: %w", err)
	}
	if resp.Slots < 0 {
		return 0, fmt.Errorf("availability API returned negative slots: %d", resp.Slots)
	}
	return resp.Slots, nil
}
