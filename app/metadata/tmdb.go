package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
)

type tmdbKind string

const (
	tmdbMovie tmdbKind = "movie"
	tmdbTV    tmdbKind = "tv"
)

type tmdbPerson struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type tmdbTitle struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	OriginalTitle    string   `json:"original_title"`
	Name             string   `json:"name"`
	OriginalName     string   `json:"original_name"`
	ReleaseDate      string   `json:"release_date"`
	FirstAirDate     string   `json:"first_air_date"`
	VoteAverage      float64  `json:"vote_average"`
	Overview         string   `json:"overview"`
	OriginalLanguage string   `json:"original_language"`
	Runtime          int      `json:"runtime"`
	EpisodeRunTime   []int    `json:"episode_run_time"`
	OriginCountry    []string `json:"origin_country"`
	Genres           []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ProductionCountries []struct {
		Name string `json:"name"`
	} `json:"production_countries"`
	Credits struct {
		Cast []tmdbPerson `json:"cast"`
		Crew []tmdbPerson `json:"crew"`
	} `json:"credits"`
}

type tmdbSearch struct {
	Results []tmdbTitle `json:"results"`
}

func (c *Cascade) tmdb(kind tmdbKind) Provider {
	name := fmt.Sprintf("TMDB(%s)", kind)
	searchEndpoint := fmt.Sprintf("%s/search/%s", c.endpoints.TMDB, kind)

	return Provider{
		Name:     name,
		Endpoint: searchEndpoint,
		NeedsKey: true,
		Key:      c.tmdbKey,
		Lookup: func(ctx context.Context, q Query) (Record, error) {
			params := url.Values{
				"api_key":  {c.tmdbKey},
				"query":    {q.Title},
				"language": {"en-US"},
			}
			if q.Year > 0 {
				if kind == tmdbMovie {
					params.Set("year", strconv.Itoa(q.Year))
				} else {
					params.Set("first_air_date_year", strconv.Itoa(q.Year))
				}
			}

			var search tmdbSearch
			if err := c.fetcher.getJSON(ctx, c.limiter("TMDB"), searchEndpoint, params, nil, &search); err != nil {
				return Record{}, err
			}
			if len(search.Results) == 0 {
				return Record{}, ErrNoResult
			}

			top := search.Results[0]
			detailEndpoint := fmt.Sprintf("%s/%s/%d", c.endpoints.TMDB, kind, top.ID)
			detailParams := url.Values{
				"api_key":            {c.tmdbKey},
				"language":           {"en-US"},
				"append_to_response": {"credits"},
			}

			var detail tmdbTitle
			if err := c.fetcher.getJSON(ctx, c.limiter("TMDB"), detailEndpoint, detailParams, nil, &detail); err != nil {
				slog.Debug("TMDB detail request failed, using search result", "id", top.ID, "error", err)
				detail = top
			}

			return tmdbRecord(kind, detail).withDefaults(q.Title), nil
		},
	}
}

func tmdbRecord(kind tmdbKind, d tmdbTitle) Record {
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	cast := make([]string, 0, 5)
	for _, p := range d.Credits.Cast {
		cast = append(cast, p.Name)
	}

	rec := Record{
		Rating:   score(d.VoteAverage, 10),
		Genres:   joinFirst(genres, 0),
		Overview: stripHTML(d.Overview),
		Cast:     joinFirst(cast, 5),
		Language: languageName(d.OriginalLanguage),
		Source:   "TMDB",
	}

	if kind == tmdbMovie {
		var directors []string
		for _, p := range d.Credits.Crew {
			if p.Job == "Director" {
				directors = append(directors, p.Name)
			}
		}

		rec.Title = firstNonEmpty(d.Title, d.OriginalTitle)
		rec.Year = yearPrefix(d.ReleaseDate)
		rec.Director = joinFirst(directors, 0)
		rec.Runtime = minutes(d.Runtime)
		if len(d.ProductionCountries) > 0 {
			rec.Country = d.ProductionCountries[0].Name
		}
		return rec
	}

	rec.Title = firstNonEmpty(d.Name, d.OriginalName)
	rec.Year = yearPrefix(d.FirstAirDate)
	if len(d.EpisodeRunTime) > 0 {
		rec.Runtime = minutes(d.EpisodeRunTime[0])
	}
	if len(d.OriginCountry) > 0 {
		rec.Country = countryName(d.OriginCountry[0])
	}
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
