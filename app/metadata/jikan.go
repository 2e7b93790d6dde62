package metadata

import (
	"context"
	"net/url"
)

type jikanNamed struct {
	Name string `json:"name"`
}

type jikanSearch struct {
	Data []struct {
		Title        string `json:"title"`
		TitleEnglish string `json:"title_english"`
		Aired        struct {
			From string `json:"from"`
		} `json:"aired"`
		Score    float64      `json:"score"`
		Genres   []jikanNamed `json:"genres"`
		Synopsis string       `json:"synopsis"`
		Studios  []jikanNamed `json:"studios"`
		Duration string       `json:"duration"`
	} `json:"data"`
}

func names(items []jikanNamed) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func (c *Cascade) jikan() Provider {
	endpoint := c.endpoints.Jikan + "/anime"

	return Provider{
		Name:     "Jikan",
		Endpoint: endpoint,
		Lookup: func(ctx context.Context, q Query) (Record, error) {
			var result jikanSearch
			params := url.Values{"q": {q.Title}, "limit": {"1"}, "sfw": {"true"}}
			if err := c.fetcher.getJSON(ctx, c.limiter("Jikan"), endpoint, params, nil, &result); err != nil {
				return Record{}, err
			}
			if len(result.Data) == 0 {
				return Record{}, ErrNoResult
			}

			d := result.Data[0]
			title := d.TitleEnglish
			if title == "" {
				title = d.Title
			}
			duration := d.Duration
			if duration == "Unknown" {
				duration = ""
			}

			return Record{
				Title:    title,
				Year:     yearPrefix(d.Aired.From),
				Rating:   score(d.Score, 10),
				Genres:   joinFirst(names(d.Genres), 0),
				Overview: stripHTML(d.Synopsis),
				Director: joinFirst(names(d.Studios), 0),
				Runtime:  duration,
				Language: "Japanese",
				Country:  "Japan",
				Source:   "Jikan (MAL)",
			}.withDefaults(q.Title), nil
		},
	}
}
