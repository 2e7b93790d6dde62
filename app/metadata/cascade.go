package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/media-relay/app/media"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
	TMDBKey    string
	OMDbKey    string
	Endpoints  Endpoints
}

// Cascade resolves metadata by trying providers in a category dependent order.
type Cascade struct {
	fetcher   *fetcher
	endpoints Endpoints
	tmdbKey   string
	omdbKey   string
	limiters  map[string]*rate.Limiter
	group     singleflight.Group
}

func NewCascade(opts Options) *Cascade {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	endpoints := opts.Endpoints
	if endpoints == (Endpoints{}) {
		endpoints = DefaultEndpoints
	}

	return &Cascade{
		fetcher:   &fetcher{client: client, userAgent: opts.UserAgent, timeout: timeout},
		endpoints: endpoints,
		tmdbKey:   opts.TMDBKey,
		omdbKey:   opts.OMDbKey,
		limiters: map[string]*rate.Limiter{
			"Jikan":   rate.NewLimiter(rate.Limit(3), 1),
			"AniList": rate.NewLimiter(rate.Limit(1.5), 2),
			"Kitsu":   rate.NewLimiter(rate.Limit(5), 2),
			"TVMaze":  rate.NewLimiter(rate.Limit(5), 2),
			"TMDB":    rate.NewLimiter(rate.Limit(20), 4),
			"OMDb":    rate.NewLimiter(rate.Limit(5), 2),
		},
	}
}

func (c *Cascade) limiter(name string) *rate.Limiter {
	return c.limiters[name]
}

// Providers returns the lookup order for a category.
func (c *Cascade) Providers(category media.Category) []Provider {
	switch category {
	case media.CategoryAnime:
		return []Provider{c.jikan(), c.anilist(), c.kitsu(), c.tmdb(tmdbTV), c.tvmaze()}
	case media.CategoryKDrama, media.CategoryCDrama, media.CategoryJDrama,
		media.CategorySeries, media.CategoryEpisode:
		return []Provider{c.tvmaze(), c.tmdb(tmdbTV), c.omdb()}
	default:
		return []Provider{c.tvmaze(), c.tmdb(tmdbMovie), c.omdb()}
	}
}

// Resolve returns the first usable provider record, or NewRecord(title) when every
// provider fails. It never returns an error.
func (c *Cascade) Resolve(ctx context.Context, title string, year int, category media.Category) Record {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewRecord(title)
	}

	key := fmt.Sprintf("%s|%d|%s", strings.ToLower(title), year, category)
	v, _, _ := c.group.Do(key, func() (any, error) {
		return c.resolve(ctx, Query{Title: title, Year: year}, category), nil
	})

	return v.(Record)
}

func (c *Cascade) resolve(ctx context.Context, q Query, category media.Category) Record {
	for _, p := range c.Providers(category) {
		if !p.enabled() {
			slog.Debug("Metadata provider skipped, no API key", "provider", p.Name)
			continue
		}

		start := time.Now()
		rec, err := p.Lookup(ctx, q)
		if err != nil {
			slog.Debug("Metadata provider unavailable", "provider", p.Name, "title", q.Title, "error", err, "duration", time.Since(start))
			continue
		}

		slog.Info("Metadata resolved", "provider", p.Name, "title", q.Title, "match", rec.Title, "category", string(category))
		return rec
	}

	slog.Info("No metadata found, using defaults", "title", q.Title, "category", string(category))
	return NewRecord(q.Title)
}
