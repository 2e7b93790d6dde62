package metadata

import (
	"context"
	"net/url"
)

type tvmazeShow struct {
	Name      string   `json:"name"`
	Premiered string   `json:"premiered"`
	Language  string   `json:"language"`
	Genres    []string `json:"genres"`
	Summary   string   `json:"summary"`
	Runtime   int      `json:"runtime"`
	AvgRun    int      `json:"averageRuntime"`
	Rating    struct {
		Average float64 `json:"average"`
	} `json:"rating"`
	Network    *tvmazeNetwork `json:"network"`
	WebChannel *tvmazeNetwork `json:"webChannel"`
}

type tvmazeNetwork struct {
	Country *struct {
		Name string `json:"name"`
	} `json:"country"`
}

func (c *Cascade) tvmaze() Provider {
	endpoint := c.endpoints.TVMaze + "/singlesearch/shows"

	return Provider{
		Name:     "TVMaze",
		Endpoint: endpoint,
		Lookup: func(ctx context.Context, q Query) (Record, error) {
			var show tvmazeShow
			params := url.Values{"q": {q.Title}}
			if err := c.fetcher.getJSON(ctx, c.limiter("TVMaze"), endpoint, params, nil, &show); err != nil {
				return Record{}, err
			}
			if show.Name == "" {
				return Record{}, ErrNoResult
			}

			runtime := show.AvgRun
			if runtime == 0 {
				runtime = show.Runtime
			}

			country := ""
			for _, n := range []*tvmazeNetwork{show.Network, show.WebChannel} {
				if n != nil && n.Country != nil && n.Country.Name != "" {
					country = n.Country.Name
					break
				}
			}

			return Record{
				Title:    show.Name,
				Year:     yearPrefix(show.Premiered),
				Rating:   score(show.Rating.Average, 10),
				Genres:   joinFirst(show.Genres, 0),
				Overview: stripHTML(show.Summary),
				Runtime:  minutes(runtime),
				Language: show.Language,
				Country:  country,
				Source:   "TVMaze",
			}.withDefaults(q.Title), nil
		},
	}
}
