package metadata

import (
	"context"
	"strconv"
)

const anilistQuery = `query ($search: String) {
  Media(search: $search, type: ANIME) {
    title { english romaji }
    startDate { year }
    averageScore
    genres
    description(asHtml: false)
    studios(isMain: true) { nodes { name } }
    duration
    countryOfOrigin
  }
}`

type anilistResponse struct {
	Data struct {
		Media *struct {
			Title struct {
				English string `json:"english"`
				Romaji  string `json:"romaji"`
			} `json:"title"`
			StartDate struct {
				Year int `json:"year"`
			} `json:"startDate"`
			AverageScore int      `json:"averageScore"`
			Genres       []string `json:"genres"`
			Description  string   `json:"description"`
			Studios      struct {
				Nodes []struct {
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"studios"`
			Duration        int    `json:"duration"`
			CountryOfOrigin string `json:"countryOfOrigin"`
		} `json:"Media"`
	} `json:"data"`
}

func (c *Cascade) anilist() Provider {
	endpoint := c.endpoints.AniList

	return Provider{
		Name:     "AniList",
		Endpoint: endpoint,
		Lookup: func(ctx context.Context, q Query) (Record, error) {
			payload := map[string]any{
				"query":     anilistQuery,
				"variables": map[string]string{"search": q.Title},
			}

			var result anilistResponse
			if err := c.fetcher.postJSON(ctx, c.limiter("AniList"), endpoint, payload, &result); err != nil {
				return Record{}, err
			}
			media := result.Data.Media
			if media == nil {
				return Record{}, ErrNoResult
			}

			title := media.Title.English
			if title == "" {
				title = media.Title.Romaji
			}

			year := ""
			if media.StartDate.Year > 0 {
				year = strconv.Itoa(media.StartDate.Year)
			}

			studios := make([]string, 0, len(media.Studios.Nodes))
			for _, n := range media.Studios.Nodes {
				studios = append(studios, n.Name)
			}

			country := countryName(media.CountryOfOrigin)
			if country == "" {
				country = "Japan"
			}

			return Record{
				Title:    title,
				Year:     year,
				Rating:   score(float64(media.AverageScore), 100),
				Genres:   joinFirst(media.Genres, 4),
				Overview: stripHTML(media.Description),
				Director: joinFirst(studios, 0),
				Runtime:  minutes(media.Duration),
				Language: "Japanese",
				Country:  country,
				Source:   "AniList",
			}.withDefaults(q.Title), nil
		},
	}
}
