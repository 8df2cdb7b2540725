package dto

import (
	"aniverse/internal/microservices/http-api/models"
)

// AnimeRequest is the body of anime create and update. Studio and genres are titles.
type AnimeRequest struct {
	Image            string   `json:"image" binding:"max=255"`
	Title            string   `json:"title" binding:"required,max=516"`
	Description      string   `json:"description" binding:"required,min=100,max=5000"`
	Type             string   `json:"type" binding:"required,max=64"`
	Episodes         int      `json:"episodes" binding:"gte=0,lte=32767"`
	ReadyEpisodes    int      `json:"ready_episodes" binding:"gte=0,lte=32767,ltefield=Episodes"`
	LengthOfEpisodes int      `json:"length_of_episodes" binding:"gte=0,lte=32767"`
	Status           string   `json:"status" binding:"required,max=64"`
	AgeRating        string   `json:"age_rating" binding:"required,max=36"`
	Year             int      `json:"year" binding:"required,gte=1900,notfuture"`
	Studio           string   `json:"studio" binding:"required"`
	Genres           []string `json:"genres" binding:"required,min=1,dive,required"`
}

// ApplyTo copies the scalar fields; studio and genres are resolved by the service.
func (d AnimeRequest) ApplyTo(a *models.Anime) {
	a.Image = d.Image
	a.Title = d.Title
	a.Description = d.Description
	a.Type = d.Type
	a.Episodes = uint16(d.Episodes)
	a.ReadyEpisodes = uint16(d.ReadyEpisodes)
	a.LengthOfEpisodes = uint16(d.LengthOfEpisodes)
	a.Status = d.Status
	a.AgeRating = d.AgeRating
	a.Year = d.Year
}

// ShortAnimeResponse is the compact listing view.
type ShortAnimeResponse struct {
	Title  string `json:"title"`
	Image  string `json:"image"`
	Studio string `json:"studio"`
	Year   int    `json:"year"`
}

// FullAnimeResponse carries every field; studio and genres by title.
type FullAnimeResponse struct {
	ID               int64    `json:"id"`
	Image            string   `json:"image"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	Episodes         uint16   `json:"episodes"`
	ReadyEpisodes    uint16   `json:"ready_episodes"`
	LengthOfEpisodes uint16   `json:"length_of_episodes"`
	Status           string   `json:"status"`
	AgeRating        string   `json:"age_rating"`
	Year             int      `json:"year"`
	Studio           string   `json:"studio"`
	Genres           []string `json:"genres"`
}

func ToShortAnime(a models.Anime) ShortAnimeResponse {
	return ShortAnimeResponse{
		Title:  a.Title,
		Image:  a.Image,
		Studio: a.Studio.Title,
		Year:   a.Year,
	}
}

func ToFullAnime(a models.Anime) FullAnimeResponse {
	genres := make([]string, 0, len(a.Genres))
	for _, g := range a.Genres {
		genres = append(genres, g.Title)
	}
	return FullAnimeResponse{
		ID:               a.ID,
		Image:            a.Image,
		Title:            a.Title,
		Description:      a.Description,
		Type:             a.Type,
		Episodes:         a.Episodes,
		ReadyEpisodes:    a.ReadyEpisodes,
		LengthOfEpisodes: a.LengthOfEpisodes,
		Status:           a.Status,
		AgeRating:        a.AgeRating,
		Year:             a.Year,
		Studio:           a.Studio.Title,
		Genres:           genres,
	}
}
