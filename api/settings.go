package api

import (
	"net/http"

	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

func getSettings(store Store, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := store.Settings()
		if err != nil {
			fatal(w, log, "Error getting settings: %+v", err)
			return
		}

		args{"settings": settings}.WriteJSON(w)
	}
}

func putSettings(store Store, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings content.Settings
		if readJSON(w, r, &settings) {
			return
		}

		if err := store.SetSettings(settings); err != nil {
			fatal(w, log, "Error storing settings: %+v", err)
			return
		}

		args{"settings": settings}.WriteJSON(w)
	}
}
