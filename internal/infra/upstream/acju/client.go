package acju

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/masjidclock/masjid-display/internal/domain/hijri"
)

const defaultBaseURL = "https://api.acju.lk/v1/hijri-calendar"

// Client fetches the ACJU hijri calendar. The upstream gateway parses the
// authority's published calendar and serves one entry per Gregorian day,
// with the month name still in its raw transliteration.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(url, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup retrieves the calendar entry for a Gregorian date. A nil result
// with nil error means the authority has no entry for the date.
func (c *Client) Lookup(ctx context.Context, gregorianDate string) (*hijri.ScrapeResult, error) {
	endpoint := fmt.Sprintf("%s?date=%s", c.baseURL, url.QueryEscape(gregorianDate))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build acju request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("acju request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("acju request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read acju response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode acju response: %w", err)
	}
	if raw.HijriDay == 0 || raw.HijriYear == 0 {
		return nil, nil
	}

	return &hijri.ScrapeResult{
		Day:            raw.HijriDay,
		MonthName:      raw.HijriMonthName,
		Year:           raw.HijriYear,
		MonthStartDate: raw.MonthStartDate,
		MonthEndDate:   raw.MonthEndDate,
		Raw:            body,
	}, nil
}

type apiResponse struct {
	HijriDay       int    `json:"hijriDay"`
	HijriMonthName string `json:"hijriMonthName"`
	HijriYear      int    `json:"hijriYear"`
	MonthStartDate string `json:"monthStartDate"`
	MonthEndDate   string `json:"monthEndDate"`
}

var _ hijri.AuthorityClient = (*Client)(nil)
