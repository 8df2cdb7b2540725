package anilist

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"aniverse/internal/microservices/http-api/models"
)

// PageResponse is the data of a Page query.
type PageResponse struct {
	Page PageData `json:"Page"`
}

type PageData struct {
	PageInfo PageInfo    `json:"pageInfo"`
	Media    []MediaData `json:"media"`
}

type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

// MediaData is one anime entry as AniList returns it.
type MediaData struct {
	ID                int                `json:"id"`
	Title             TitleData          `json:"title"`
	Description       *string            `json:"description"`
	Format            string             `json:"format"` // TV, TV_SHORT, MOVIE, SPECIAL, OVA, ONA, MUSIC
	Status            string             `json:"status"` // FINISHED, RELEASING, NOT_YET_RELEASED, CANCELLED, HIATUS
	Episodes          *int               `json:"episodes"`
	Duration          *int               `json:"duration"` // minutes per episode
	IsAdult           bool               `json:"isAdult"`
	SeasonYear        *int               `json:"seasonYear"`
	StartDate         FuzzyDate          `json:"startDate"`
	CoverImage        CoverImage         `json:"coverImage"`
	Genres            []string           `json:"genres"`
	Studios           StudioConnection   `json:"studios"`
	NextAiringEpisode *NextAiringEpisode `json:"nextAiringEpisode"`
}

type TitleData struct {
	English *string `json:"english"`
	Romaji  *string `json:"romaji"`
	Native  *string `json:"native"`
}

type CoverImage struct {
	Large  *string `json:"large"`
	Medium *string `json:"medium"`
}

type FuzzyDate struct {
	Year *int `json:"year"`
}

type StudioConnection struct {
	Nodes []StudioNode `json:"nodes"`
}

type StudioNode struct {
	Name string `json:"name"`
}

type NextAiringEpisode struct {
	Episode int `json:"episode"`
}

// Age ratings written for imported anime; AniList only flags adult titles.
const (
	AgeRatingAdult   = "18+"
	AgeRatingGeneral = "PG-13"
)

// Imported is an AniList entry mapped onto the catalog.
type Imported struct {
	Anime  models.Anime
	Studio string
	Genres []string
}

// ToAnime maps an AniList entry onto the catalog. Entries without a title,
// a main studio, genres or a year cannot be stored and return an error.
func ToAnime(m MediaData) (*Imported, error) {
	title := firstNonEmpty(m.Title.English, m.Title.Romaji, m.Title.Native)
	if title == "" {
		return nil, fmt.Errorf("anime %d has no title", m.ID)
	}
	if len(m.Studios.Nodes) == 0 || m.Studios.Nodes[0].Name == "" {
		return nil, fmt.Errorf("anime %d (%s) has no main studio", m.ID, title)
	}
	if len(m.Genres) == 0 {
		return nil, fmt.Errorf("anime %d (%s) has no genres", m.ID, title)
	}

	year := m.StartDate.Year
	if m.SeasonYear != nil {
		year = m.SeasonYear
	}
	if year == nil {
		return nil, fmt.Errorf("anime %d (%s) has no year", m.ID, title)
	}

	a := models.Anime{
		Title:            truncate(title, 516),
		Image:            firstNonEmpty(m.CoverImage.Large, m.CoverImage.Medium),
		Type:             mapFormat(m.Format),
		Status:           mapStatus(m.Status),
		AgeRating:        AgeRatingGeneral,
		Year:             *year,
		Episodes:         clampUint16(m.Episodes),
		LengthOfEpisodes: clampUint16(m.Duration),
	}
	if m.Description != nil {
		a.Description = truncate(CleanDescription(*m.Description), 5000)
	}
	if m.IsAdult {
		a.AgeRating = AgeRatingAdult
	}

	// aired episodes: everything before the next one, or all of them once finished
	switch {
	case m.NextAiringEpisode != nil && m.NextAiringEpisode.Episode > 0:
		a.ReadyEpisodes = uint16(min(m.NextAiringEpisode.Episode-1, 32767))
	case m.Status == "FINISHED":
		a.ReadyEpisodes = a.Episodes
	}
	if a.Episodes > 0 && a.ReadyEpisodes > a.Episodes {
		a.ReadyEpisodes = a.Episodes
	}

	return &Imported{Anime: a, Studio: m.Studios.Nodes[0].Name, Genres: m.Genres}, nil
}

func mapStatus(status string) string {
	switch status {
	case "FINISHED":
		return "finished"
	case "RELEASING":
		return "ongoing"
	case "NOT_YET_RELEASED":
		return "announced"
	case "CANCELLED":
		return "cancelled"
	case "HIATUS":
		return "hiatus"
	default:
		return "ongoing"
	}
}

func mapFormat(format string) string {
	switch format {
	case "TV", "OVA", "ONA":
		return format
	case "TV_SHORT":
		return "TV Short"
	case "MOVIE":
		return "Movie"
	case "SPECIAL":
		return "Special"
	case "MUSIC":
		return "Music"
	default:
		return "TV"
	}
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// CleanDescription removes HTML tags and decodes entities
func CleanDescription(desc string) string {
	cleaned := htmlTag.ReplaceAllString(desc, "")
	cleaned = html.UnescapeString(cleaned)
	return strings.TrimSpace(cleaned)
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return strings.TrimSpace(*v)
		}
	}
	return ""
}

func clampUint16(v *int) uint16 {
	if v == nil || *v < 0 {
		return 0
	}
	return uint16(min(*v, 32767))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
