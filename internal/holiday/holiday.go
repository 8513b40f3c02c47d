package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
)

// DefaultBaseURL points at the public checkiday API.
const DefaultBaseURL = "https://api.checkiday.com"

// maxEvents caps how many holiday names a lookup returns.
const maxEvents = 5

// Client fetches the day's holidays from the checkiday widget endpoint.
// This is optional enrichment: callers treat any error as "no holidays".
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

type widgetResponse struct {
	Events []struct {
		Name string `json:"name"`
	} `json:"events"`
}

// Today returns up to five holiday names for the given local date.
func (c *Client) Today(ctx context.Context, date time.Time) ([]string, error) {
	q := url.Values{}
	q.Set("accept_terms_and_conditions", "true")
	q.Set("date", date.Format("01/02/2006"))
	endpoint := c.baseURL + "/widget?" + q.Encode()

	var payload widgetResponse
	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("checkiday status %d", resp.StatusCode)
			}
			return json.NewDecoder(resp.Body).Decode(&payload)
		},
		retry.Attempts(3),
		retry.Delay(200*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}

	names := make([]string, 0, maxEvents)
	for _, ev := range payload.Events {
		names = append(names, ev.Name)
		if len(names) == maxEvents {
			break
		}
	}
	return names, nil
}
