package acquire

import (
	"context"
	"time"

	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

type loggingRemote struct {
	Remote

	log log.Log
}

// LoggingRemote wraps a remote client, recording call durations.
func LoggingRemote(remote Remote, log log.Log) Remote {
	return loggingRemote{Remote: remote, log: log}
}

func (r loggingRemote) ListArticles(ctx context.Context, offset, limit int, tag string) (content.PageResult, error) {
	start := time.Now()

	res, err := r.Remote.ListArticles(ctx, offset, limit, tag)

	r.log.Infof("remote.ListArticles took %s", time.Now().Sub(start))

	return res, err
}

func (r loggingRemote) GetArticle(ctx context.Context, id content.ArticleID) (content.Article, error) {
	start := time.Now()

	article, err := r.Remote.GetArticle(ctx, id)

	r.log.Infof("remote.GetArticle took %s", time.Now().Sub(start))

	return article, err
}

func (r loggingRemote) CreateArticle(ctx context.Context, article content.Article) (content.Article, error) {
	start := time.Now()

	created, err := r.Remote.CreateArticle(ctx, article)

	r.log.Infof("remote.CreateArticle took %s", time.Now().Sub(start))

	return created, err
}

func (r loggingRemote) UpdateArticle(ctx context.Context, id content.ArticleID, article content.Article) (content.Article, error) {
	start := time.Now()

	updated, err := r.Remote.UpdateArticle(ctx, id, article)

	r.log.Infof("remote.UpdateArticle took %s", time.Now().Sub(start))

	return updated, err
}

func (r loggingRemote) DeleteArticle(ctx context.Context, id content.ArticleID) error {
	start := time.Now()

	err := r.Remote.DeleteArticle(ctx, id)

	r.log.Infof("remote.DeleteArticle took %s", time.Now().Sub(start))

	return err
}

func (r loggingRemote) ListComments(ctx context.Context, id content.ArticleID, offset, limit int) ([]content.Comment, int, bool, error) {
	start := time.Now()

	comments, total, known, err := r.Remote.ListComments(ctx, id, offset, limit)

	r.log.Infof("remote.ListComments took %s", time.Now().Sub(start))

	return comments, total, known, err
}

func (r loggingRemote) PostComment(ctx context.Context, id content.ArticleID, comment content.Comment) (content.Comment, error) {
	start := time.Now()

	created, err := r.Remote.PostComment(ctx, id, comment)

	r.log.Infof("remote.PostComment took %s", time.Now().Sub(start))

	return created, err
}
