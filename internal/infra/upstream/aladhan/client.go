package aladhan

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

const defaultBaseURL = "https://api.aladhan.com"

// Client talks to the Al Adhan REST API, which serves both azan timings
// and the Hijri date for a city.
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

// TimingsByCity fetches azan times for a city. The API does not supply
// iqamah times; callers derive them by offset.
func (c *Client) TimingsByCity(ctx context.Context, city, country, gregorianDate string) (prayertimes.AzanTimes, error) {
	data, err := c.fetch(ctx, city, country, gregorianDate)
	if err != nil {
		return prayertimes.AzanTimes{}, err
	}
	return prayertimes.AzanTimes{
		Fajr:      cleanClock(data.Timings.Fajr),
		Sunrise:   cleanClock(data.Timings.Sunrise),
		Dhuhr:     cleanClock(data.Timings.Dhuhr),
		Asr:       cleanClock(data.Timings.Asr),
		Maghrib:   cleanClock(data.Timings.Maghrib),
		Isha:      cleanClock(data.Timings.Isha),
		HijriDate: data.Date.Hijri.Date,
		Location:  city + ", " + country,
	}, nil
}

// HijriByCity fetches the Hijri date the API reports for a city.
func (c *Client) HijriByCity(ctx context.Context, city, country, gregorianDate string) (hijri.Date, error) {
	data, err := c.fetch(ctx, city, country, gregorianDate)
	if err != nil {
		return hijri.Date{}, err
	}
	h := data.Date.Hijri
	day, err := atoiField("day", h.Day)
	if err != nil {
		return hijri.Date{}, err
	}
	year, err := atoiField("year", h.Year)
	if err != nil {
		return hijri.Date{}, err
	}
	if h.Month.Number < 1 || h.Month.Number > 12 {
		return hijri.Date{}, fmt.Errorf("aladhan hijri month out of range: %d", h.Month.Number)
	}
	return hijri.Date{Day: day, Month: h.Month.Number, Year: year}, nil
}

func (c *Client) fetch(ctx context.Context, city, country, gregorianDate string) (apiData, error) {
	endpoint := fmt.Sprintf("%s/v1/timingsByCity/%s?city=%s&country=%s",
		c.baseURL, wireDate(gregorianDate), url.QueryEscape(city), url.QueryEscape(country))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apiData{}, fmt.Errorf("build aladhan request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apiData{}, fmt.Errorf("aladhan request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return apiData{}, fmt.Errorf("aladhan request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiData{}, fmt.Errorf("read aladhan response: %w", err)
	}

	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return apiData{}, fmt.Errorf("decode aladhan response: %w", err)
	}
	if raw.Code != http.StatusOK {
		return apiData{}, fmt.Errorf("aladhan api error: code=%d status=%s", raw.Code, raw.Status)
	}
	return raw.Data, nil
}

// wireDate converts YYYY-MM-DD to the DD-MM-YYYY the API expects.
func wireDate(iso string) string {
	parts := strings.SplitN(iso, "-", 3)
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// cleanClock strips the timezone suffix some deployments append,
// e.g. "04:43 (+0530)".
func cleanClock(raw string) string {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func atoiField(name, raw string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d", &n); err != nil {
		return 0, fmt.Errorf("aladhan hijri %s unparseable: %q", name, raw)
	}
	return n, nil
}

type apiResponse struct {
	Code   int     `json:"code"`
	Status string  `json:"status"`
	Data   apiData `json:"data"`
}

type apiData struct {
	Timings apiTimings  `json:"timings"`
	Date    apiDateInfo `json:"date"`
}

type apiTimings struct {
	Fajr    string `json:"Fajr"`
	Sunrise string `json:"Sunrise"`
	Dhuhr   string `json:"Dhuhr"`
	Asr     string `json:"Asr"`
	Maghrib string `json:"Maghrib"`
	Isha    string `json:"Isha"`
}

type apiDateInfo struct {
	Hijri apiHijri `json:"hijri"`
}

type apiHijri struct {
	Date  string   `json:"date"`
	Day   string   `json:"day"`
	Month apiMonth `json:"month"`
	Year  string   `json:"year"`
}

type apiMonth struct {
	Number int    `json:"number"`
	En     string `json:"en"`
}

var (
	_ hijri.RegionalClient       = (*Client)(nil)
	_ prayertimes.RegionalClient = (*Client)(nil)
)
