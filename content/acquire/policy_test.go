package acquire

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/urandom/arteef/config"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/content/acquire/mock_acquire"
	"github.com/urandom/arteef/content/store"
	"github.com/urandom/arteef/log"
)

func TestArticlesFromValidCache(t *testing.T) {
	p, _, _, s := testPolicy(t)

	cached := []content.Article{
		{ID: "1", Title: "one"}, {ID: "2", Title: "two"},
		{ID: "3", Title: "three"}, {ID: "4", Title: "four"},
		{ID: "5", Title: "five"}, {ID: "6", Title: "six"},
	}
	if err := s.SaveFullArticleCache(cached); err != nil {
		t.Fatal(err)
	}

	res, paging, provenance := p.Articles(context.Background(), 0, 2)

	if provenance != content.ProvenanceCache {
		t.Errorf("provenance = %s, want cache", provenance)
	}
	if diff := deep.Equal(res.Articles, cached[:2]); diff != nil {
		t.Errorf("articles = %v", diff)
	}
	if res.Meta.TotalCount != 6 {
		t.Errorf("totalCount = %d, want 6", res.Meta.TotalCount)
	}
	want := content.Paging{HasNext: true, NextOffset: 2}
	if diff := deep.Equal(paging, want); diff != nil {
		t.Errorf("paging = %v", diff)
	}
}

func TestArticlesRemote(t *testing.T) {
	p, remote, _, _ := testPolicy(t)

	res := content.PageResult{
		Articles: []content.Article{{ID: "1", Title: "one"}},
		Meta:     content.PageMeta{TotalCount: 9},
	}
	remote.EXPECT().ListArticles(gomock.Any(), 0, 4, "unit").Return(res, nil)

	got, paging, provenance := p.Articles(context.Background(), 0, 4)

	if provenance != content.ProvenanceRemote {
		t.Errorf("provenance = %s, want remote", provenance)
	}
	if diff := deep.Equal(got.Articles, res.Articles); diff != nil {
		t.Errorf("articles = %v", diff)
	}
	if !paging.HasNext || paging.NextOffset != 4 {
		t.Errorf("paging = %+v, want next page at 4", paging)
	}
}

func TestArticlesRemoteRetriesOnce(t *testing.T) {
	p, remote, _, _ := testPolicy(t)

	res := content.PageResult{
		Articles: []content.Article{{ID: "1", Title: "one"}},
		Meta:     content.PageMeta{TotalCount: 1},
	}

	gomock.InOrder(
		remote.EXPECT().ListArticles(gomock.Any(), 0, 4, "unit").
			Return(content.PageResult{}, networkError("listing articles")),
		remote.EXPECT().ListArticles(gomock.Any(), 0, 4, "unit").Return(res, nil),
	)

	_, _, provenance := p.Articles(context.Background(), 0, 4)

	if provenance != content.ProvenanceRemote {
		t.Errorf("provenance = %s, want remote after retry", provenance)
	}

	// The retry succeeded, so no cooldown survives.
	until, _ := p.store.CooldownUntil()
	if !until.IsZero() {
		t.Errorf("cooldown = %v, want cleared", until)
	}
}

func TestArticlesCooldownSkipsRemote(t *testing.T) {
	p, _, fallback, s := testPolicy(t)

	if err := s.SetCooldown(2 * time.Minute); err != nil {
		t.Fatal(err)
	}

	list := []content.Article{{ID: "1", Title: "mirrored"}}
	fallback.EXPECT().LoadFullList(gomock.Any()).Return(list, nil)

	res, _, provenance := p.Articles(context.Background(), 0, 4)

	if provenance != content.ProvenanceFallback {
		t.Errorf("provenance = %s, want fallback", provenance)
	}
	if diff := deep.Equal(res.Articles, list); diff != nil {
		t.Errorf("articles = %v", diff)
	}

	// The fallback list repopulates the article cache.
	cached, valid, err := s.FullArticleCache()
	if err != nil || !valid {
		t.Fatalf("FullArticleCache() = valid %v, error %v; want valid", valid, err)
	}
	if diff := deep.Equal(cached, list); diff != nil {
		t.Errorf("cached = %v", diff)
	}
}

func TestArticlesRemoteFailureArmsCooldown(t *testing.T) {
	p, remote, fallback, s := testPolicy(t)

	remote.EXPECT().ListArticles(gomock.Any(), 0, 4, "unit").
		Return(content.PageResult{}, networkError("listing articles")).Times(2)
	fallback.EXPECT().LoadFullList(gomock.Any()).
		Return([]content.Article{{ID: "1"}}, nil)

	_, _, provenance := p.Articles(context.Background(), 0, 4)

	if provenance != content.ProvenanceFallback {
		t.Errorf("provenance = %s, want fallback", provenance)
	}

	until, err := s.CooldownUntil()
	if err != nil {
		t.Fatal(err)
	}
	if until.IsZero() {
		t.Error("cooldown not armed after remote failure")
	}
}

func TestArticlesPageReplayDuringOutage(t *testing.T) {
	p, remote, _, _ := testPolicy(t)

	res := content.PageResult{
		Articles: []content.Article{{ID: "5", Title: "five"}},
		Meta:     content.PageMeta{TotalCount: 9},
	}

	gomock.InOrder(
		remote.EXPECT().ListArticles(gomock.Any(), 4, 4, "unit").Return(res, nil),
		remote.EXPECT().ListArticles(gomock.Any(), 4, 4, "unit").
			Return(content.PageResult{}, networkError("listing articles")).Times(2),
	)

	if _, _, provenance := p.Articles(context.Background(), 4, 4); provenance != content.ProvenanceRemote {
		t.Fatalf("provenance = %s, want remote", provenance)
	}

	got, _, provenance := p.Articles(context.Background(), 4, 4)

	if provenance != content.ProvenanceCache {
		t.Errorf("provenance = %s, want cache replay", provenance)
	}
	if diff := deep.Equal(got.Articles, res.Articles); diff != nil {
		t.Errorf("articles = %v", diff)
	}
}

func TestArticlesEverySourceFails(t *testing.T) {
	p, remote, fallback, _ := testPolicy(t)

	remote.EXPECT().ListArticles(gomock.Any(), 0, 4, "unit").
		Return(content.PageResult{}, networkError("listing articles")).Times(2)
	fallback.EXPECT().LoadFullList(gomock.Any()).
		Return(nil, errors.New("no fallback source available"))

	res, paging, provenance := p.Articles(context.Background(), 0, 4)

	if provenance != content.ProvenanceEmpty {
		t.Errorf("provenance = %s, want empty", provenance)
	}
	if len(res.Articles) != 0 || res.Meta.TotalCount != 0 {
		t.Errorf("result = %+v, want empty page", res)
	}
	if paging.HasNext || paging.HasPrev {
		t.Errorf("paging = %+v, want no navigation", paging)
	}
}

func TestArticlesMergesLocalDrafts(t *testing.T) {
	p, _, _, s := testPolicy(t)

	cached := []content.Article{
		{ID: "1", Title: "one"}, {ID: "local-a", Title: "stale copy"},
		{ID: "2", Title: "two"},
	}
	if err := s.SaveFullArticleCache(cached); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertLocalArticle(content.Article{ID: "local-a", Title: "draft"}); err != nil {
		t.Fatal(err)
	}

	res, _, _ := p.Articles(context.Background(), 0, 2)

	// The draft leads the page, its stale cached copy is dropped, and
	// the page stays within the requested size.
	if len(res.Articles) != 2 {
		t.Fatalf("len(articles) = %d, want 2", len(res.Articles))
	}
	if res.Articles[0].ID != "local-a" || res.Articles[0].Title != "draft" {
		t.Errorf("articles[0] = %+v, want the local draft", res.Articles[0])
	}
	if res.Articles[1].ID != "1" {
		t.Errorf("articles[1] = %+v, want the first remote article", res.Articles[1])
	}
	if res.Meta.TotalCount != 4 {
		t.Errorf("totalCount = %d, want 4", res.Meta.TotalCount)
	}
}

func TestArticlesLocalsOnlyOnFirstPage(t *testing.T) {
	p, _, _, s := testPolicy(t)

	cached := []content.Article{
		{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"},
	}
	if err := s.SaveFullArticleCache(cached); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertLocalArticle(content.Article{ID: "local-a", Title: "draft"}); err != nil {
		t.Fatal(err)
	}

	res, _, _ := p.Articles(context.Background(), 2, 2)

	if diff := deep.Equal(res.Articles, cached[2:]); diff != nil {
		t.Errorf("articles = %v", diff)
	}
}

func TestArticleLocal(t *testing.T) {
	p, _, _, s := testPolicy(t)

	draft := content.Article{ID: "local-a", Title: "draft", Author: "me", Content: "text"}
	if err := s.UpsertLocalArticle(draft); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendLocalComment(draft.ID, content.Comment{ID: "c1", Author: "me", Text: "note"}); err != nil {
		t.Fatal(err)
	}

	detail, err := p.Article(context.Background(), draft.ID, 0, 10)
	if err != nil {
		t.Fatalf("Article() error = %v", err)
	}

	if detail.Provenance != content.ProvenanceLocal {
		t.Errorf("provenance = %s, want local", detail.Provenance)
	}
	if detail.Article.Title != "draft" || !detail.Article.Local {
		t.Errorf("article = %+v", detail.Article)
	}
	if len(detail.Comments) != 1 || detail.CommentsTotal != 1 {
		t.Errorf("comments = %v total %d, want the stored note", detail.Comments, detail.CommentsTotal)
	}
}

func TestArticleRemoteCommentsDegrade(t *testing.T) {
	p, remote, _, _ := testPolicy(t)

	article := content.Article{ID: "7", Title: "seven"}
	remote.EXPECT().GetArticle(gomock.Any(), content.ArticleID("7")).Return(article, nil)
	remote.EXPECT().ListComments(gomock.Any(), content.ArticleID("7"), 0, 10).
		Return(nil, 0, false, networkError("listing comments of 7"))

	detail, err := p.Article(context.Background(), "7", 0, 10)
	if err != nil {
		t.Fatalf("Article() error = %v", err)
	}

	if detail.Provenance != content.ProvenanceRemote {
		t.Errorf("provenance = %s, want remote", detail.Provenance)
	}
	if len(detail.Comments) != 0 || detail.CommentsTotal != 0 {
		t.Errorf("comments = %v total %d, want empty", detail.Comments, detail.CommentsTotal)
	}
}

func TestArticleFallbackSearch(t *testing.T) {
	p, remote, fallback, _ := testPolicy(t)

	remote.EXPECT().GetArticle(gomock.Any(), content.ArticleID("7")).
		Return(content.Article{}, networkError("getting article 7"))
	fallback.EXPECT().LoadFullList(gomock.Any()).
		Return([]content.Article{{ID: "6"}, {ID: "7", Title: "seven"}}, nil)

	detail, err := p.Article(context.Background(), "7", 0, 10)
	if err != nil {
		t.Fatalf("Article() error = %v", err)
	}

	if detail.Provenance != content.ProvenanceFallback {
		t.Errorf("provenance = %s, want fallback", detail.Provenance)
	}
	if detail.Article.Title != "seven" {
		t.Errorf("article = %+v", detail.Article)
	}
}

func TestArticleAbsentEverywhere(t *testing.T) {
	p, remote, fallback, _ := testPolicy(t)

	remote.EXPECT().GetArticle(gomock.Any(), content.ArticleID("7")).
		Return(content.Article{}, networkError("getting article 7"))
	fallback.EXPECT().LoadFullList(gomock.Any()).
		Return(nil, errors.New("no fallback source available"))

	_, err := p.Article(context.Background(), "7", 0, 10)
	if !content.IsNoContent(err) {
		t.Errorf("Article() error = %v, want no content", err)
	}
}

func TestSubmitCommentValidation(t *testing.T) {
	p, _, _, _ := testPolicy(t)

	_, _, err := p.SubmitComment(context.Background(), "7", "  ", "hello")
	if !content.IsValidation(err) {
		t.Errorf("SubmitComment() error = %v, want validation", err)
	}

	_, _, err = p.SubmitComment(context.Background(), "7", "me", "\t\n")
	if !content.IsValidation(err) {
		t.Errorf("SubmitComment() error = %v, want validation", err)
	}
}

func TestSubmitCommentLocalArticle(t *testing.T) {
	p, _, _, s := testPolicy(t)

	comment, status, err := p.SubmitComment(context.Background(), "local-a", "me", "note")
	if err != nil {
		t.Fatalf("SubmitComment() error = %v", err)
	}
	if status != StatusLocalOnly {
		t.Errorf("status = %s, want local", status)
	}
	if !comment.Local || comment.Author != "me" || comment.Text != "note" {
		t.Errorf("comment = %+v", comment)
	}

	stored, _ := s.LocalComments("local-a")
	if len(stored) != 1 {
		t.Errorf("LocalComments() = %v, want one stored comment", stored)
	}
}

func TestSubmitCommentRemoteFailureKeepsItLocally(t *testing.T) {
	p, remote, _, s := testPolicy(t)

	remote.EXPECT().PostComment(gomock.Any(), content.ArticleID("7"), gomock.Any()).
		Return(content.Comment{}, networkError("posting comment to 7"))

	comment, status, err := p.SubmitComment(context.Background(), "7", "me", "hello")
	if err != nil {
		t.Fatalf("SubmitComment() error = %v", err)
	}
	if status != StatusLocalOnly || !comment.Local {
		t.Errorf("status = %s local = %v, want a local comment", status, comment.Local)
	}

	stored, _ := s.LocalComments("7")
	if len(stored) != 1 || !stored[0].Local {
		t.Errorf("LocalComments() = %v, want the kept comment", stored)
	}

	// A failed comment write is not evidence the read path is down.
	until, _ := s.CooldownUntil()
	if !until.IsZero() {
		t.Errorf("cooldown = %v, want unarmed", until)
	}
}

func TestCreateArticle(t *testing.T) {
	p, remote, _, _ := testPolicy(t)

	created := content.Article{ID: "9", Title: "fresh", Tags: []string{"unit"}}
	remote.EXPECT().CreateArticle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a content.Article) (content.Article, error) {
			if diff := deep.Equal(a.Tags, []string{"unit"}); diff != nil {
				t.Errorf("tags = %v", diff)
			}
			return created, nil
		})

	got, status, err := p.CreateArticle(context.Background(), content.Article{Title: "fresh"}, false)
	if err != nil {
		t.Fatalf("CreateArticle() error = %v", err)
	}
	if status != StatusAccepted {
		t.Errorf("status = %s, want ok", status)
	}
	if diff := deep.Equal(got, created); diff != nil {
		t.Errorf("CreateArticle() = %v", diff)
	}
}

func TestCreateArticleLocalFallback(t *testing.T) {
	p, remote, _, s := testPolicy(t)

	remote.EXPECT().CreateArticle(gomock.Any(), gomock.Any()).
		Return(content.Article{}, networkError("creating article")).Times(2)

	// Without explicit permission the failure propagates.
	if _, _, err := p.CreateArticle(context.Background(), content.Article{Title: "draft"}, false); err == nil {
		t.Error("CreateArticle() error = nil, want the remote failure")
	}

	article, status, err := p.CreateArticle(context.Background(), content.Article{Title: "draft"}, true)
	if err != nil {
		t.Fatalf("CreateArticle() error = %v", err)
	}
	if status != StatusLocalOnly {
		t.Errorf("status = %s, want local", status)
	}
	if !article.ID.Local() || !article.Local || article.DateCreated == "" {
		t.Errorf("article = %+v, want a stamped local draft", article)
	}

	stored, _ := s.LocalArticles()
	if len(stored) != 1 {
		t.Errorf("LocalArticles() = %v, want the kept draft", stored)
	}
}

func TestCreateArticleHTTPErrorNeverDegrades(t *testing.T) {
	p, remote, _, s := testPolicy(t)

	remote.EXPECT().CreateArticle(gomock.Any(), gomock.Any()).
		Return(content.Article{}, content.RemoteError{Kind: content.KindHTTP, Status: 400, Op: "creating article"})

	if _, _, err := p.CreateArticle(context.Background(), content.Article{Title: "draft"}, true); err == nil {
		t.Error("CreateArticle() error = nil, want the rejection")
	}

	stored, _ := s.LocalArticles()
	if len(stored) != 0 {
		t.Errorf("LocalArticles() = %v, want nothing kept after a rejection", stored)
	}
}

func TestUpdateArticleLocalKeepsDateCreated(t *testing.T) {
	p, _, _, s := testPolicy(t)

	if err := s.UpsertLocalArticle(content.Article{ID: "local-a", Title: "draft", DateCreated: "2024-03-01T12:00:00Z"}); err != nil {
		t.Fatal(err)
	}

	updated, err := p.UpdateArticle(context.Background(), "local-a", content.Article{Title: "edited"})
	if err != nil {
		t.Fatalf("UpdateArticle() error = %v", err)
	}

	if updated.Title != "edited" || updated.DateCreated != "2024-03-01T12:00:00Z" {
		t.Errorf("UpdateArticle() = %+v", updated)
	}
}

func TestDeleteArticleLocalPurgesComments(t *testing.T) {
	p, _, _, s := testPolicy(t)

	if err := s.UpsertLocalArticle(content.Article{ID: "local-a", Title: "draft"}); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendLocalComment("local-a", content.Comment{Author: "me", Text: "note"}); err != nil {
		t.Fatal(err)
	}

	if err := p.DeleteArticle(context.Background(), "local-a"); err != nil {
		t.Fatalf("DeleteArticle() error = %v", err)
	}

	if _, err := s.LocalArticle("local-a"); !content.IsNoContent(err) {
		t.Errorf("LocalArticle() error = %v, want no content", err)
	}
	comments, _ := s.LocalComments("local-a")
	if len(comments) != 0 {
		t.Errorf("LocalComments() = %v, want empty", comments)
	}
}

func TestResetCooldown(t *testing.T) {
	p, _, _, s := testPolicy(t)

	if err := s.SetCooldown(2 * time.Minute); err != nil {
		t.Fatal(err)
	}

	p.ResetCooldown()

	if !p.remoteAllowed() {
		t.Error("remoteAllowed() = false after reset")
	}
}

func networkError(op string) content.RemoteError {
	return content.RemoteError{Kind: content.KindNetwork, Op: op, Cause: errors.New("connection refused")}
}

func testPolicy(t *testing.T) (*Policy, *mock_acquire.MockRemote, *mock_acquire.MockFallback, *store.Store) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	dir, err := ioutil.TempDir("", "arteef-policy")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	logger := log.WithStd(ioutil.Discard, "", 0)

	s, err := store.Open(filepath.Join(dir, "test.db"), 24*time.Hour, logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	remote := mock_acquire.NewMockRemote(ctrl)
	fallback := mock_acquire.NewMockFallback(ctrl)

	cfg := config.Config{}
	cfg.Remote.Tag = "unit"
	cfg.Content.PageSize = 4
	cfg.Content.CommentPageSize = 10
	cfg.Content.Converted.CacheTTL = time.Hour
	cfg.Content.Converted.Cooldown = 2 * time.Minute

	p := New(remote, fallback, s, cfg, logger)
	p.retryDelay = 0

	return p, remote, fallback, s
}
