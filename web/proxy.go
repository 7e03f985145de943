package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/cors"
	"github.com/urandom/arteef/log"
)

var forwardedHeaders = []string{"Content-Type", "Accept", "Authorization"}

// Proxy forwards requests to the remote content api unchanged, adding
// CORS headers for browsers that cannot reach the api directly. An
// unreachable upstream yields a json error envelope instead of a
// hanging request, which callers treat like any other remote failure.
func Proxy(baseURL string, timeout time.Duration, logger log.Log) http.Handler {
	client := &http.Client{Timeout: timeout}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := baseURL + r.URL.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		var body io.Reader
		if r.Method != "GET" && r.Method != "HEAD" {
			body = r.Body
		}

		req, err := http.NewRequest(r.Method, target, body)
		if err != nil {
			proxyError(w, logger, http.StatusBadGateway, target, err)
			return
		}
		req = req.WithContext(r.Context())

		for _, h := range forwardedHeaders {
			if v := r.Header.Get(h); v != "" {
				req.Header.Set(h, v)
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			status := http.StatusBadGateway
			if isTimeout(err) {
				status = http.StatusGatewayTimeout
			}

			proxyError(w, logger, status, target, err)
			return
		}
		defer resp.Body.Close()

		if v := resp.Header.Get("Content-Type"); v != "" {
			w.Header().Set("Content-Type", v)
		}
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(resp.StatusCode)

		if _, err := io.Copy(w, resp.Body); err != nil {
			logger.Printf("Error copying proxy response from %s: %+v", target, err)
		}
	})

	return cors.New(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}).Handler(handler)
}

func proxyError(w http.ResponseWriter, logger log.Log, status int, target string, err error) {
	logger.Printf("Error proxying to %s: %+v", target, err)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(map[string]string{
		"error":     "upstream request failed",
		"targetUrl": target,
		"details":   err.Error(),
	})
}

func isTimeout(err error) bool {
	type timeouter interface {
		Timeout() bool
	}

	if t, ok := err.(timeouter); ok && t.Timeout() {
		return true
	}

	if u, ok := err.(*url.Error); ok && u.Timeout() {
		return true
	}

	return strings.Contains(err.Error(), "Client.Timeout")
}
