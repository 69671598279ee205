package calendarific

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://calendarific.com/api/v2"

type Holiday struct {
	Name        string
	Description string
	Date        time.Time
	CountryCode string
}

type holidaysResponse struct {
	Response struct {
		Holidays []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Date        struct {
				ISO string `json:"iso"`
			} `json:"date"`
		} `json:"holidays"`
	} `json:"response"`
}

// Client talks to the Calendarific holidays API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetHolidays returns the national holidays of a country for a year.
func (c *Client) GetHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	query.Set("country", countryCode)
	query.Set("year", strconv.Itoa(year))
	query.Set("type", "national")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/holidays?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build holidays request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to retrieve holidays. Status code: %d", resp.StatusCode)
	}

	var body holidaysResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode holidays response: %w", err)
	}

	holidays := make([]Holiday, 0, len(body.Response.Holidays))
	for _, h := range body.Response.Holidays {
		date, err := parseISODate(h.Date.ISO)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", h.Name, err)
		}
		holidays = append(holidays, Holiday{
			Name:        h.Name,
			Description: h.Description,
			Date:        date,
			CountryCode: countryCode,
		})
	}

	return holidays, nil
}

// parseISODate accepts both "2022-01-17" and full RFC3339 timestamps.
func parseISODate(value string) (time.Time, error) {
	if len(value) >= 10 {
		if t, err := time.Parse("2006-01-02", value[:10]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
