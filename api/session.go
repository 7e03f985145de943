package api

import (
	"net/http"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

func getSession(store Store, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := store.CurrentUser()
		if err != nil {
			if content.IsNoContent(err) {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}

			fatal(w, log, "Error getting current user: %+v", err)
			return
		}

		args{"user": user}.WriteJSON(w)
	}
}

// createSession accepts a google sign-in id token. The token is only
// decoded for its profile claims; the identity provider already
// verified it on the client.
func createSession(store Store, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Token string `json:"token"`
		}
		if readJSON(w, r, &payload) {
			return
		}

		claims := jwt.MapClaims{}
		if _, _, err := new(jwt.Parser).ParseUnverified(payload.Token, claims); err != nil {
			http.Error(w, "Invalid token", http.StatusBadRequest)
			return
		}

		user := content.User{
			Name:    stringClaim(claims, "name"),
			Email:   stringClaim(claims, "email"),
			Picture: stringClaim(claims, "picture"),
		}

		if user.Name == "" && user.Email == "" {
			http.Error(w, "Token carries no profile", http.StatusBadRequest)
			return
		}

		if err := store.SetCurrentUser(user); err != nil {
			fatal(w, log, "Error storing current user: %+v", err)
			return
		}

		args{"user": user}.WriteJSON(w)
	}
}

func deleteSession(store Store, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.ClearCurrentUser(); err != nil {
			fatal(w, log, "Error clearing current user: %+v", err)
			return
		}

		args{"success": true}.WriteJSON(w)
	}
}

func stringClaim(claims jwt.MapClaims, name string) string {
	if v, ok := claims[name].(string); ok {
		return v
	}

	return ""
}
