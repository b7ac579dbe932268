package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AmitAMahadik/ExAstra/internal/domain"
)

const searchPath = "/v1/search"

// Client resolves free-text place names through the geocoding API.
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log,
	}
}

// Search resolves query to the first matching place. The geocoder returns
// candidates ranked by relevance; the first one is consumed without a
// disambiguation step.
func (c *Client) Search(ctx context.Context, query string) (*domain.PlaceResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, domain.ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("name", trimmed)
	params.Set("count", "1")
	params.Set("format", "json")

	reqURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + searchPath + "?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build geocoding request: %w", err)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrGeocodingUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("geocoding API returned non-200 status",
			"status_code", resp.StatusCode,
			"query", trimmed,
		)
		return nil, fmt.Errorf("%w: status=%d", domain.ErrGeocodingUnavailable, resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %w", domain.ErrGeocodingUnavailable, err)
	}

	if len(searchResp.Results) == 0 {
		return nil, domain.ErrNoMatch
	}

	first := searchResp.Results[0]
	return &domain.PlaceResult{
		CanonicalName: canonicalName(first),
		Latitude:      first.Latitude,
		Longitude:     first.Longitude,
		TimezoneID:    first.Timezone,
	}, nil
}

func canonicalName(r searchResult) string {
	parts := []string{r.Name}
	if r.Admin1 != "" && r.Admin1 != r.Name {
		parts = append(parts, r.Admin1)
	}
	if r.Country != "" {
		parts = append(parts, r.Country)
	}
	return strings.Join(parts, ", ")
}
