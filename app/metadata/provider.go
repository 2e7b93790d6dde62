package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoResult is returned by a lookup that reached the provider but got nothing usable.
var ErrNoResult = errors.New("no result")

// Query is what every provider lookup receives.
type Query struct {
	Title string
	Year  int
}

// Provider describes one step of the cascade. NeedsKey providers with an empty
// Key are skipped without a request.
type Provider struct {
	Name     string
	Endpoint string
	NeedsKey bool
	Key      string
	Lookup   func(ctx context.Context, q Query) (Record, error)
}

func (p Provider) enabled() bool {
	return !p.NeedsKey || p.Key != ""
}

type Endpoints struct {
	TVMaze  string
	Jikan   string
	Kitsu   string
	AniList string
	TMDB    string
	OMDb    string
}

var DefaultEndpoints = Endpoints{
	TVMaze:  "https://api.tvmaze.com",
	Jikan:   "https://api.jikan.moe/v4",
	Kitsu:   "https://kitsu.io/api/edge",
	AniList: "https://graphql.anilist.co",
	TMDB:    "https://api.themoviedb.org/3",
	OMDb:    "https://www.omdbapi.com",
}

// fetcher performs single JSON requests bounded by a per-request timeout.
type fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
}

func (f *fetcher) getJSON(ctx context.Context, limiter *rate.Limiter, endpoint string, params url.Values, headers map[string]string, out any) error {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	return f.do(ctx, limiter, http.MethodGet, endpoint, nil, headers, out)
}

func (f *fetcher) postJSON(ctx context.Context, limiter *rate.Limiter, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json", "Accept": "application/json"}
	return f.do(ctx, limiter, http.MethodPost, endpoint, bytes.NewReader(body), headers, out)
}

func (f *fetcher) do(ctx context.Context, limiter *rate.Limiter, method, endpoint string, body io.Reader, headers map[string]string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
