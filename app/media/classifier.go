package media

import (
	"regexp"
)

type Category string

const (
	CategoryAnime  Category = "anime"
	CategoryKDrama Category = "kdrama"
	CategoryCDrama Category = "cdrama"
	CategoryJDrama Category = "jdrama"
	CategoryKMovie Category = "kmovie"
	CategoryJMovie Category = "jmovie"
	CategoryIndian Category = "indian"
	CategorySeries Category = "series"
	CategoryMovie  Category = "movie"

	// CategoryEpisode is accepted by metadata lookups as a type hint. Classify never returns it.
	CategoryEpisode Category = "episode"
)

// Categories lists every value Classify can return.
var Categories = []Category{
	CategoryAnime, CategoryKDrama, CategoryCDrama, CategoryJDrama,
	CategoryKMovie, CategoryJMovie, CategoryIndian, CategorySeries, CategoryMovie,
}

type keywordRule struct {
	category Category
	pattern  *regexp.Regexp
}

// Order is priority: the first matching rule wins.
var keywordRules = []keywordRule{
	{CategoryAnime, regexp.MustCompile(`(?i)\b(anime|ova|ona|oav)\b|アニメ`)},
	{CategoryKDrama, regexp.MustCompile(`(?i)kdrama|k-drama|korean[\s_.-]*drama`)},
	{CategoryCDrama, regexp.MustCompile(`(?i)cdrama|c-drama|chinese[\s_.-]*drama|华剧|陆剧`)},
	{CategoryJDrama, regexp.MustCompile(`(?i)jdrama|j-drama|japanese[\s_.-]*drama|ドラマ`)},
	{CategoryKMovie, regexp.MustCompile(`(?i)korean[\s_.-]*movie|k-?movie`)},
	{CategoryJMovie, regexp.MustCompile(`(?i)japanese[\s_.-]*movie|j-?movie`)},
	{CategoryIndian, regexp.MustCompile(`(?i)bollywood|tollywood|kollywood|mollywood|hindi|tamil|telugu|malayalam|kannada|bengali|marathi|punjabi`)},
}

// Classify maps a filename and its guess onto a content category.
func Classify(filename string, guess Guess) Category {
	for _, rule := range keywordRules {
		if rule.pattern.MatchString(filename) {
			return rule.category
		}
	}

	if guess.Type == TypeEpisode {
		return CategorySeries
	}
	return CategoryMovie
}
