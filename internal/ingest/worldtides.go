package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/httputil"
)

const worldTidesBaseURL = "https://www.worldtides.info/api/v3"

// DefaultTideHeight is used when no tide reading exists and the API is
// unreachable.
const DefaultTideHeight = 0.8

// TideStation labels tide readings; the nearest station with tide data.
const TideStation = "Cebu City"

// WorldTides API failure modes worth distinguishing in logs: a bad key and
// an exhausted credit quota both need operator action.
var (
	ErrAuthFailed    = errors.New("worldtides: authentication failed, check your API key")
	ErrQuotaExceeded = errors.New("worldtides: quota exceeded, purchase more credits")
	ErrNoHeights     = errors.New("worldtides: no tide heights in response")
)

// WorldTides fetches predicted tide heights for a fixed location. One
// request per call, no retry.
type WorldTides struct {
	baseURL   string
	apiKey    string
	latitude  float64
	longitude float64
	client    *http.Client
}

// NewWorldTides creates a WorldTides client. An empty baseURL selects the
// public API endpoint.
func NewWorldTides(baseURL, apiKey string, latitude, longitude float64) *WorldTides {
	if baseURL == "" {
		baseURL = worldTidesBaseURL
	}
	return &WorldTides{
		baseURL:   baseURL,
		apiKey:    apiKey,
		latitude:  latitude,
		longitude: longitude,
		client:    httputil.NewClient(),
	}
}

type worldTidesResponse struct {
	Heights []struct {
		Dt     int64   `json:"dt"`
		Height float64 `json:"height"`
	} `json:"heights"`
}

// Fetch requests today's predicted heights and returns the one closest to
// the current time.
func (w *WorldTides) Fetch(ctx context.Context) (float64, FetchStats, error) {
	var stats FetchStats
	now := clock.Now()

	params := url.Values{}
	params.Set("heights", "")
	params.Set("lat", fmt.Sprintf("%f", w.latitude))
	params.Set("lon", fmt.Sprintf("%f", w.longitude))
	params.Set("key", w.apiKey)
	params.Set("date", now.Format("2006-01-02"))
	params.Set("days", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, stats, fmt.Errorf("build request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, stats, fmt.Errorf("fetch heights: %w", err)
	}
	defer resp.Body.Close()

	stats.HTTPStatus = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, stats, fmt.Errorf("read body: %w", err)
	}
	stats.ResponseSize = len(body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return 0, stats, ErrAuthFailed
	case http.StatusPaymentRequired:
		return 0, stats, ErrQuotaExceeded
	default:
		return 0, stats, fmt.Errorf("fetch heights: status %d: %s", resp.StatusCode, string(body))
	}

	var data worldTidesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, stats, fmt.Errorf("unmarshal: %w", err)
	}
	if len(data.Heights) == 0 {
		return 0, stats, ErrNoHeights
	}

	nowUnix := now.Unix()
	closest := data.Heights[0]
	for _, h := range data.Heights[1:] {
		if math.Abs(float64(h.Dt-nowUnix)) < math.Abs(float64(closest.Dt-nowUnix)) {
			closest = h
		}
	}
	stats.RecordsParsed = len(data.Heights)

	return closest.Height, stats, nil
}
