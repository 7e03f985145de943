package api

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

func postComment(policy Policy, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := content.ArticleID(chi.URLParam(r, "id"))

		var payload struct {
			Author string `json:"author"`
			Text   string `json:"text"`
		}
		if readJSON(w, r, &payload) {
			return
		}

		comment, status, err := policy.SubmitComment(r.Context(), id, payload.Author, payload.Text)
		if err != nil {
			if content.IsValidation(err) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}

			fatal(w, log, "Error storing comment for %s: %+v", id, err)
			return
		}

		args{"comment": comment, "status": status.String()}.WriteJSON(w)
	}
}
