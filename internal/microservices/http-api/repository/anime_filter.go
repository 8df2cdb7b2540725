package repository

import (
	"net/url"
	"strconv"
	"strings"

	"aniverse/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// MatchKind is how a filter value is compared against the column.
type MatchKind int

const (
	MatchExact MatchKind = iota
	// MatchAny keeps rows related to at least one of the given values.
	MatchAny
)

// FilterKey describes one recognised query key of the anime listing.
type FilterKey struct {
	Name  string
	Match MatchKind
}

// AnimeFilterKeys enumerates every query key the catalog understands.
// Keys outside this list are ignored.
var AnimeFilterKeys = []FilterKey{
	{Name: "studio", Match: MatchExact},
	{Name: "genres", Match: MatchAny},
	{Name: "status", Match: MatchExact},
	{Name: "age_rating", Match: MatchExact},
	{Name: "year", Match: MatchExact},
	{Name: "type", Match: MatchExact},
}

// AnimeFilter is the parsed form of the listing query. Zero values mean "not supplied".
type AnimeFilter struct {
	Studio    string
	Genres    []string
	Status    string
	AgeRating string
	Year      *int
	Type      string

	// Unsatisfiable is set when a supplied value can never match (a non-numeric year).
	Unsatisfiable bool
}

// ParseAnimeFilter reads the recognised keys from a query string.
// genres may be repeated: ?genres=Drama&genres=Comedy.
func ParseAnimeFilter(values url.Values) AnimeFilter {
	var f AnimeFilter
	for _, key := range AnimeFilterKeys {
		switch key.Name {
		case "studio":
			f.Studio = strings.TrimSpace(values.Get(key.Name))
		case "genres":
			for _, g := range values[key.Name] {
				if g = strings.TrimSpace(g); g != "" {
					f.Genres = append(f.Genres, g)
				}
			}
		case "status":
			f.Status = strings.TrimSpace(values.Get(key.Name))
		case "age_rating":
			f.AgeRating = strings.TrimSpace(values.Get(key.Name))
		case "type":
			f.Type = strings.TrimSpace(values.Get(key.Name))
		case "year":
			raw := strings.TrimSpace(values.Get(key.Name))
			if raw == "" {
				continue
			}
			year, err := strconv.Atoi(raw)
			if err != nil {
				f.Unsatisfiable = true
				continue
			}
			f.Year = &year
		}
	}
	return f
}

// IsEmpty reports whether no filter was supplied.
func (f AnimeFilter) IsEmpty() bool {
	return f.Studio == "" && len(f.Genres) == 0 && f.Status == "" && f.AgeRating == "" &&
		f.Year == nil && f.Type == "" && !f.Unsatisfiable
}

// Apply narrows db with every supplied filter, ANDed together.
func (f AnimeFilter) Apply(db *gorm.DB) *gorm.DB {
	if f.Unsatisfiable {
		return db.Where("1 = 0")
	}
	if f.Studio != "" {
		studios := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Studio{}).Select("id").Where("title = ?", f.Studio)
		db = db.Where("anime.studio_id IN (?)", studios)
	}
	if len(f.Genres) > 0 {
		// sub-select keeps each anime once even when it matches several genres
		tagged := db.Session(&gorm.Session{NewDB: true}).
			Table("anime_genres").
			Select("anime_genres.anime_id").
			Joins("JOIN genres ON genres.id = anime_genres.genre_id").
			Where("genres.title IN ?", f.Genres)
		db = db.Where("anime.id IN (?)", tagged)
	}
	if f.Status != "" {
		db = db.Where("anime.status = ?", f.Status)
	}
	if f.AgeRating != "" {
		db = db.Where("anime.age_rating = ?", f.AgeRating)
	}
	if f.Year != nil {
		db = db.Where("anime.year = ?", *f.Year)
	}
	if f.Type != "" {
		db = db.Where("anime.type = ?", f.Type)
	}
	return db
}
