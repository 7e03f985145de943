package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/urandom/arteef/config"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/content/acquire"
	"github.com/urandom/arteef/log"
)

// Policy is the acquisition policy behind the article routes.
type Policy interface {
	Articles(ctx context.Context, offset, pageSize int) (content.PageResult, content.Paging, content.Provenance)
	Article(ctx context.Context, id content.ArticleID, cOffset, cLimit int) (acquire.Detail, error)
	SubmitComment(ctx context.Context, id content.ArticleID, author, text string) (content.Comment, acquire.Status, error)
	CreateArticle(ctx context.Context, article content.Article, allowLocal bool) (content.Article, acquire.Status, error)
	UpdateArticle(ctx context.Context, id content.ArticleID, article content.Article) (content.Article, error)
	DeleteArticle(ctx context.Context, id content.ArticleID) error
	ResetCooldown()
}

// Store is the slice of the local store serving the peripheral routes.
type Store interface {
	Opinions() ([]content.Opinion, error)
	AddOpinion(opinion content.Opinion) error

	CurrentUser() (content.User, error)
	SetCurrentUser(user content.User) error
	ClearCurrentUser() error

	Settings() (content.Settings, error)
	SetSettings(settings content.Settings) error
}

// Mux creates the json api handler consumed by the frontend.
func Mux(policy Policy, store Store, cfg config.Config, log log.Log) http.Handler {
	mux := chi.NewRouter()

	mux.Get("/article", listArticles(policy, log))
	mux.Post("/article", createArticle(policy, log))
	mux.Get("/article/{id}", getArticle(policy, cfg.Content.CommentPageSize, log))
	mux.Put("/article/{id}", updateArticle(policy, log))
	mux.Delete("/article/{id}", deleteArticle(policy, log))
	mux.Post("/article/{id}/comment", postComment(policy, log))

	mux.Post("/retry", resetCooldown(policy))

	mux.Get("/opinion", listOpinions(store, log))
	mux.Post("/opinion", addOpinion(store, log))

	mux.Get("/session", getSession(store, log))
	mux.Post("/session", createSession(store, log))
	mux.Delete("/session", deleteSession(store, log))

	mux.Get("/settings", getSettings(store, log))
	mux.Put("/settings", putSettings(store, log))

	return mux
}

// resetCooldown is the manual retry affordance. It clears the cooldown
// so the next acquisition attempts the remote client again.
func resetCooldown(policy Policy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		policy.ResetCooldown()

		args{"success": true}.WriteJSON(w)
	}
}
