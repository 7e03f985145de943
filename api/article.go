package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

func listArticles(policy Policy, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset := intQuery(r, "offset", 0)
		pageSize := intQuery(r, "max", 0)

		page, paging, provenance := policy.Articles(r.Context(), offset, pageSize)

		args{
			"articles": page.Articles,
			"meta":     page.Meta,
			"paging":   paging,
			"source":   provenance,
		}.WriteJSON(w)
	}
}

func getArticle(policy Policy, commentPageSize int, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := content.ArticleID(chi.URLParam(r, "id"))
		cOffset := intQuery(r, "cOffset", 0)
		cLimit := intQuery(r, "cMax", commentPageSize)

		detail, err := policy.Article(r.Context(), id, cOffset, cLimit)
		if err != nil {
			if content.IsNoContent(err) {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}

			fatal(w, log, "Error getting article %s: %+v", id, err)
			return
		}

		comments := detail.Comments
		if comments == nil {
			comments = []content.Comment{}
		}

		args{
			"article":  detail.Article,
			"comments": comments,
			"commentPaging": content.PagingFor(
				cOffset, cLimit,
				detail.CommentsTotal, detail.TotalKnown, len(comments),
			),
			"source": detail.Provenance,
		}.WriteJSON(w)
	}
}

type articlePayload struct {
	content.Article
	// AllowLocal is the explicit confirmation that a create may be
	// persisted locally when the remote endpoint is unreachable.
	AllowLocal bool `json:"allowLocal"`
}

func createArticle(policy Policy, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload articlePayload
		if readJSON(w, r, &payload) {
			return
		}

		if field, missing := missingArticleField(payload.Article); missing {
			http.Error(w, "Missing required field: "+field, http.StatusBadRequest)
			return
		}

		article, status, err := policy.CreateArticle(r.Context(), payload.Article, payload.AllowLocal)
		if err != nil {
			upstreamError(w, log, "creating article", err)
			return
		}

		args{"article": article, "status": status.String()}.WriteJSON(w)
	}
}

func updateArticle(policy Policy, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := content.ArticleID(chi.URLParam(r, "id"))

		var payload articlePayload
		if readJSON(w, r, &payload) {
			return
		}

		if field, missing := missingArticleField(payload.Article); missing {
			http.Error(w, "Missing required field: "+field, http.StatusBadRequest)
			return
		}

		article, err := policy.UpdateArticle(r.Context(), id, payload.Article)
		if err != nil {
			if content.IsNoContent(err) {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}

			upstreamError(w, log, "updating article "+id.String(), err)
			return
		}

		args{"article": article}.WriteJSON(w)
	}
}

func deleteArticle(policy Policy, log log.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := content.ArticleID(chi.URLParam(r, "id"))

		// Deletion mutates nothing without an explicit confirmation.
		if r.URL.Query().Get("confirm") != "true" {
			http.Error(w, "Confirmation required", http.StatusBadRequest)
			return
		}

		if err := policy.DeleteArticle(r.Context(), id); err != nil {
			if content.IsNoContent(err) {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}

			upstreamError(w, log, "deleting article "+id.String(), err)
			return
		}

		args{"success": true}.WriteJSON(w)
	}
}

func missingArticleField(article content.Article) (string, bool) {
	switch {
	case strings.TrimSpace(article.Title) == "":
		return "title", true
	case strings.TrimSpace(article.Author) == "":
		return "author", true
	case strings.TrimSpace(article.Content) == "":
		return "content", true
	}

	return "", false
}

// upstreamError reports a failed remote write. Timeouts map to gateway
// timeout, everything else to bad gateway, mirroring the proxy
// boundary so callers treat both identically.
func upstreamError(w http.ResponseWriter, log log.Log, op string, err error) {
	log.Printf("Error %s: %+v", op, err)

	status := http.StatusBadGateway
	if content.IsTimeout(err) {
		status = http.StatusGatewayTimeout
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	args{"error": "Error " + op}.WriteJSON(w)
}
