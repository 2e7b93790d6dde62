package metadata

import (
	"strings"
)

const (
	NotAvailable = "N/A"
	NoSynopsis   = "No synopsis available."
	SourceNone   = "None"
)

// Record is the provider-independent metadata shape. Every field is always set;
// missing values hold NotAvailable.
type Record struct {
	Title    string
	Year     string
	Rating   string
	Genres   string
	Overview string
	Director string
	Cast     string
	Runtime  string
	Language string
	Country  string
	Source   string
}

// NewRecord returns the default record used when no provider answers.
func NewRecord(title string) Record {
	if strings.TrimSpace(title) == "" {
		title = "Unknown"
	}
	return Record{
		Title:    title,
		Year:     NotAvailable,
		Rating:   NotAvailable,
		Genres:   NotAvailable,
		Overview: NoSynopsis,
		Director: NotAvailable,
		Cast:     NotAvailable,
		Runtime:  NotAvailable,
		Language: NotAvailable,
		Country:  NotAvailable,
		Source:   SourceNone,
	}
}

func (r Record) IsDefault() bool {
	return r.Source == SourceNone
}

// withDefaults fills every empty field from NewRecord(title).
func (r Record) withDefaults(title string) Record {
	d := NewRecord(title)
	fill := func(field *string, fallback string) {
		if strings.TrimSpace(*field) == "" {
			*field = fallback
		}
	}
	fill(&r.Title, d.Title)
	fill(&r.Year, d.Year)
	fill(&r.Rating, d.Rating)
	fill(&r.Genres, d.Genres)
	fill(&r.Overview, d.Overview)
	fill(&r.Director, d.Director)
	fill(&r.Cast, d.Cast)
	fill(&r.Runtime, d.Runtime)
	fill(&r.Language, d.Language)
	fill(&r.Country, d.Country)
	fill(&r.Source, d.Source)
	return r
}
