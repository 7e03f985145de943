package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/urandom/arteef/log"
)

type args map[string]interface{}

func (a args) WriteJSON(w http.ResponseWriter) {
	b, err := json.Marshal(a)

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func fatal(w http.ResponseWriter, log log.Log, format string, v ...interface{}) {
	log.Printf(format, v...)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// intQuery reads a non-negative integer query parameter, falling back
// to def on absence or garbage.
func intQuery(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}

	return n
}

func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) (stop bool) {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return true
	}

	return false
}
