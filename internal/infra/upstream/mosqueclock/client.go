package mosqueclock

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
	"github.com/masjidclock/masjid-display/internal/domain/prayertimes"
)

const defaultBaseURL = "https://api.mosqueclock.app"

// Client talks to the MosqueClock zone API, which serves a complete daily
// schedule, iqamah times included, plus its own Hijri date.
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

// TimingsByZone fetches the full schedule for a zone. The returned record
// carries the raw upstream date; the engine normalizes it to the
// composite id scheme before caching.
func (c *Client) TimingsByZone(ctx context.Context, zone, gregorianDate string) (prayertimes.Record, error) {
	payload, err := c.fetch(ctx, zone, gregorianDate)
	if err != nil {
		return prayertimes.Record{}, err
	}
	return prayertimes.Record{
		Date:          payload.Date,
		FajrAzan:      payload.Azan.Fajr,
		DhuhrAzan:     payload.Azan.Dhuhr,
		AsrAzan:       payload.Azan.Asr,
		MaghribAzan:   payload.Azan.Maghrib,
		IshaAzan:      payload.Azan.Isha,
		JumuahAzan:    payload.Azan.Jumuah,
		FajrIqamah:    payload.Iqamah.Fajr,
		DhuhrIqamah:   payload.Iqamah.Dhuhr,
		AsrIqamah:     payload.Iqamah.Asr,
		MaghribIqamah: payload.Iqamah.Maghrib,
		IshaIqamah:    payload.Iqamah.Isha,
		Sunrise:       payload.Sunrise,
		HijriDate:     payload.HijriDate,
		Location:      payload.Location,
	}, nil
}

// HijriByZone fetches the Hijri date the zone API reports.
func (c *Client) HijriByZone(ctx context.Context, zone, gregorianDate string) (hijri.Date, error) {
	payload, err := c.fetch(ctx, zone, gregorianDate)
	if err != nil {
		return hijri.Date{}, err
	}
	h := payload.Hijri
	if h.Day < 1 || h.Day > 30 || h.Month < 1 || h.Month > 12 || h.Year <= 0 {
		return hijri.Date{}, fmt.Errorf("mosqueclock hijri date out of range: %+v", h)
	}
	return hijri.Date{Day: h.Day, Month: h.Month, Year: h.Year}, nil
}

func (c *Client) fetch(ctx context.Context, zone, gregorianDate string) (apiPayload, error) {
	endpoint := fmt.Sprintf("%s/api/v1/zones/%s/timings?date=%s",
		c.baseURL, url.PathEscape(zone), url.QueryEscape(gregorianDate))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apiPayload{}, fmt.Errorf("build mosqueclock request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apiPayload{}, fmt.Errorf("mosqueclock request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apiPayload{}, fmt.Errorf("mosqueclock request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiPayload{}, fmt.Errorf("read mosqueclock response: %w", err)
	}

	var raw apiPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiPayload{}, fmt.Errorf("decode mosqueclock response: %w", err)
	}
	return raw, nil
}

type apiPayload struct {
	Date      string    `json:"date"`
	Location  string    `json:"location"`
	Sunrise   string    `json:"sunrise"`
	HijriDate string    `json:"hijriDate"`
	Hijri     apiHijri  `json:"hijri"`
	Azan      apiTimes  `json:"azan"`
	Iqamah    apiIqamah `json:"iqamah"`
}

type apiHijri struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

type apiTimes struct {
	Fajr    string `json:"fajr"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
	Jumuah  string `json:"jumuah"`
}

type apiIqamah struct {
	Fajr    string `json:"fajr"`
	Dhuhr   string `json:"dhuhr"`
	Asr     string `json:"asr"`
	Maghrib string `json:"maghrib"`
	Isha    string `json:"isha"`
}

var (
	_ hijri.ZoneClient       = (*Client)(nil)
	_ prayertimes.ZoneClient = (*Client)(nil)
)
