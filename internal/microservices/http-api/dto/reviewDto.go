package dto

import (
	"time"

	"aniverse/internal/microservices/http-api/models"
)

type ReviewScores struct {
	Storyline   int    `json:"storyline" binding:"required,min=1,max=5"`
	Characters  int    `json:"characters" binding:"required,min=1,max=5"`
	Artwork     int    `json:"artwork" binding:"required,min=1,max=5"`
	SoundSeries int    `json:"sound_series" binding:"required,min=1,max=5"`
	FinalGrade  int    `json:"final_grade" binding:"required,min=1,max=5"`
	Text        string `json:"text" binding:"required,min=150,max=10000"`
}

func (s ReviewScores) ApplyTo(r *models.Review) {
	r.Storyline = s.Storyline
	r.Characters = s.Characters
	r.Artwork = s.Artwork
	r.SoundSeries = s.SoundSeries
	r.FinalGrade = s.FinalGrade
	r.Text = s.Text
}

// ReviewCreateRequest: anime by title; the author is the caller
type ReviewCreateRequest struct {
	Anime string `json:"anime" binding:"required"`
	ReviewScores
}

// ReviewUpdateRequest keeps the anime fixed
type ReviewUpdateRequest struct {
	ReviewScores
}

type ReviewResponse struct {
	ID          int64     `json:"id"`
	User        string    `json:"user"`
	Anime       string    `json:"anime"`
	Storyline   int       `json:"storyline"`
	Characters  int       `json:"characters"`
	Artwork     int       `json:"artwork"`
	SoundSeries int       `json:"sound_series"`
	FinalGrade  int       `json:"final_grade"`
	Text        string    `json:"text"`
	Date        time.Time `json:"date"`
}

func ToReview(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID,
		User:        r.Profile.Nickname,
		Anime:       r.Anime.Title,
		Storyline:   r.Storyline,
		Characters:  r.Characters,
		Artwork:     r.Artwork,
		SoundSeries: r.SoundSeries,
		FinalGrade:  r.FinalGrade,
		Text:        r.Text,
		Date:        r.Date,
	}
}
