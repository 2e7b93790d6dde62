package metadata

import (
	"context"
	"net/url"
	"strconv"
)

type kitsuSearch struct {
	Data []struct {
		Attributes struct {
			Titles         map[string]string `json:"titles"`
			CanonicalTitle string            `json:"canonicalTitle"`
			StartDate      string            `json:"startDate"`
			AverageRating  string            `json:"averageRating"`
			Synopsis       string            `json:"synopsis"`
			Description    string            `json:"description"`
			EpisodeLength  int               `json:"episodeLength"`
		} `json:"attributes"`
	} `json:"data"`
	Included []struct {
		Type       string `json:"type"`
		Attributes struct {
			Title string `json:"title"`
		} `json:"attributes"`
	} `json:"included"`
}

var kitsuHeaders = map[string]string{
	"Accept":       "application/vnd.api+json",
	"Content-Type": "application/vnd.api+json",
}

func (c *Cascade) kitsu() Provider {
	endpoint := c.endpoints.Kitsu + "/anime"

	return Provider{
		Name:     "Kitsu",
		Endpoint: endpoint,
		Lookup: func(ctx context.Context, q Query) (Record, error) {
			var result kitsuSearch
			params := url.Values{
				"filter[text]": {q.Title},
				"page[limit]":  {"1"},
				"include":      {"categories"},
			}
			if err := c.fetcher.getJSON(ctx, c.limiter("Kitsu"), endpoint, params, kitsuHeaders, &result); err != nil {
				return Record{}, err
			}
			if len(result.Data) == 0 {
				return Record{}, ErrNoResult
			}

			a := result.Data[0].Attributes
			title := a.Titles["en_jp"]
			if title == "" {
				title = a.CanonicalTitle
			}

			var categories []string
			for _, inc := range result.Included {
				if inc.Type == "categories" {
					categories = append(categories, inc.Attributes.Title)
				}
			}

			synopsis := a.Synopsis
			if synopsis == "" {
				synopsis = a.Description
			}

			// averageRating is a percentage string, e.g. "82.5"
			rating := ""
			if v, err := strconv.ParseFloat(a.AverageRating, 64); err == nil {
				rating = score(v, 100)
			}

			return Record{
				Title:    title,
				Year:     yearPrefix(a.StartDate),
				Rating:   rating,
				Genres:   joinFirst(categories, 4),
				Overview: stripHTML(synopsis),
				Runtime:  minutes(a.EpisodeLength),
				Language: "Japanese",
				Country:  "Japan",
				Source:   "Kitsu",
			}.withDefaults(q.Title), nil
		},
	}
}
