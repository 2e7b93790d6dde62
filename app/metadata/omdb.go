package metadata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type omdbTitle struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	IMDBRating string `json:"imdbRating"`
	Genre      string `json:"Genre"`
	Plot       string `json:"Plot"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Runtime    string `json:"Runtime"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
}

func (c *Cascade) omdb() Provider {
	endpoint := c.endpoints.OMDb + "/"

	return Provider{
		Name:     "OMDb",
		Endpoint: endpoint,
		NeedsKey: true,
		Key:      c.omdbKey,
		Lookup: func(ctx context.Context, q Query) (Record, error) {
			params := url.Values{
				"apikey": {c.omdbKey},
				"t":      {q.Title},
				"r":      {"json"},
			}
			if q.Year > 0 {
				params.Set("y", strconv.Itoa(q.Year))
			}

			var t omdbTitle
			if err := c.fetcher.getJSON(ctx, c.limiter("OMDb"), endpoint, params, nil, &t); err != nil {
				return Record{}, err
			}
			if t.Response != "True" {
				if t.Error != "" {
					return Record{}, fmt.Errorf("%w: %s", ErrNoResult, t.Error)
				}
				return Record{}, ErrNoResult
			}

			return Record{
				Title:    t.Title,
				Year:     yearPrefix(t.Year),
				Rating:   omdbValue(t.IMDBRating),
				Genres:   omdbValue(t.Genre),
				Overview: omdbValue(t.Plot),
				Director: omdbValue(t.Director),
				Cast:     omdbValue(t.Actors),
				Runtime:  omdbValue(t.Runtime),
				Language: omdbValue(t.Language),
				Country:  omdbValue(t.Country),
				Source:   "OMDb",
			}.withDefaults(q.Title), nil
		},
	}
}

// OMDb already uses "N/A" for missing values; map it to empty so defaults apply.
func omdbValue(v string) string {
	if v == NotAvailable {
		return ""
	}
	return v
}
