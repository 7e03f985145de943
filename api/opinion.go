package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

func listOpinions(store Store, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opinions, err := store.Opinions()
		if err != nil {
			fatal(w, log, "Error getting opinions: %+v", err)
			return
		}

		if opinions == nil {
			opinions = []content.Opinion{}
		}

		avg := ""
		if len(opinions) > 0 {
			sum := 0
			for _, o := range opinions {
				sum += o.Rating
			}
			avg = fmt.Sprintf("%.1f", float64(sum)/float64(len(opinions)))
		}

		args{"opinions": opinions, "count": len(opinions), "avgRating": avg}.WriteJSON(w)
	}
}

func addOpinion(store Store, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Name   string `json:"name"`
			Email  string `json:"email"`
			Rating int    `json:"rating"`
			Text   string `json:"text"`
		}
		if readJSON(w, r, &payload) {
			return
		}

		payload.Name = strings.TrimSpace(payload.Name)
		payload.Email = strings.TrimSpace(payload.Email)
		payload.Text = strings.TrimSpace(payload.Text)

		switch {
		case payload.Name == "":
			http.Error(w, "Missing required field: name", http.StatusBadRequest)
			return
		case payload.Email == "":
			http.Error(w, "Missing required field: email", http.StatusBadRequest)
			return
		case payload.Text == "":
			http.Error(w, "Missing required field: text", http.StatusBadRequest)
			return
		case payload.Rating < 1 || payload.Rating > 5:
			http.Error(w, "Rating has to be between 1 and 5", http.StatusBadRequest)
			return
		}

		opinion := content.Opinion{
			ID:          uuid.NewString(),
			Name:        payload.Name,
			Email:       payload.Email,
			Rating:      payload.Rating,
			Stars:       content.RatingStars(payload.Rating),
			Text:        payload.Text,
			DateCreated: content.NowStamp(),
		}

		if err := store.AddOpinion(opinion); err != nil {
			fatal(w, log, "Error storing opinion: %+v", err)
			return
		}

		args{"opinion": opinion}.WriteJSON(w)
	}
}
