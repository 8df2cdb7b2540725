package dto

import (
	"bytes"
	"fmt"
	"strconv"

	"aniverse/internal/microservices/http-api/models"
)

// RatingCreateRequest rates the anime named by for_anime.
type RatingCreateRequest struct {
	ForAnime string `json:"for_anime" binding:"required"`
	Rate     int    `json:"rate" binding:"required,min=1,max=10"`
}

type RatingUpdateRequest struct {
	Rate int `json:"rate" binding:"required,min=1,max=10"`
}

type RatingResponse struct {
	ID       int64  `json:"id"`
	ForAnime string `json:"for_anime"`
	ForUser  string `json:"for_user"`
	Rate     int    `json:"rate"`
}

func ToRating(r models.Rating) RatingResponse {
	return RatingResponse{
		ID:       r.ID,
		ForAnime: r.Anime.Title,
		ForUser:  r.Profile.Nickname,
		Rate:     r.Rate,
	}
}

// AverageRating is a decimal string with two places, e.g. "4.00".
type AverageRating struct {
	AverageRating string `json:"average_rating"`
}

func NewAverageRating(avg float64) AverageRating {
	return AverageRating{AverageRating: strconv.FormatFloat(avg, 'f', 2, 64)}
}

type RateCount struct {
	Rate  int
	Count int64
}

// RatingDistribution serialises as a JSON object keyed by rate, in ascending rate order.
type RatingDistribution []RateCount

func (d RatingDistribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rc := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"%d":%d`, rc.Rate, rc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
