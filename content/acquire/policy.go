package acquire

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/urandom/arteef/config"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

// Remote is the remote content client consulted by the policy.
type Remote interface {
	ListArticles(ctx context.Context, offset, limit int, tag string) (content.PageResult, error)
	GetArticle(ctx context.Context, id content.ArticleID) (content.Article, error)
	CreateArticle(ctx context.Context, article content.Article) (content.Article, error)
	UpdateArticle(ctx context.Context, id content.ArticleID, article content.Article) (content.Article, error)
	DeleteArticle(ctx context.Context, id content.ArticleID) error
	ListComments(ctx context.Context, id content.ArticleID, offset, limit int) ([]content.Comment, int, bool, error)
	PostComment(ctx context.Context, id content.ArticleID, comment content.Comment) (content.Comment, error)
}

// Fallback provides the full article collection when the remote client
// is unusable.
type Fallback interface {
	LoadFullList(ctx context.Context) ([]content.Article, error)
}

// Store is the subset of the local store the policy relies on.
type Store interface {
	LocalArticles() ([]content.Article, error)
	LocalArticle(id content.ArticleID) (content.Article, error)
	UpsertLocalArticle(article content.Article) error
	DeleteLocalArticle(id content.ArticleID) error

	LocalComments(id content.ArticleID) ([]content.Comment, error)
	AppendLocalComment(id content.ArticleID, comment content.Comment) error
	DeleteLocalComments(id content.ArticleID) error

	FullArticleCache() ([]content.Article, bool, error)
	SaveFullArticleCache(articles []content.Article) error

	CooldownUntil() (time.Time, error)
	SetCooldown(d time.Duration) error
	ClearCooldown() error
}

// Status is the outcome of a write that may degrade to local-only
// persistence.
type Status int

const (
	StatusAccepted Status = iota
	StatusLocalOnly
)

func (s Status) String() string {
	if s == StatusLocalOnly {
		return "local"
	}
	return "ok"
}

// Detail is the result of a single article acquisition, comments
// included best-effort.
type Detail struct {
	Article       content.Article
	Comments      []content.Comment
	CommentsTotal int
	TotalKnown    bool
	Provenance    content.Provenance
}

// Policy decides which of cache, remote client, fallback chain and
// local drafts to consult for a request, in what order, recording
// failures as a cooldown so a known-dead endpoint is not hammered.
// Remote failures never propagate from the read paths; they degrade to
// a lower-priority source.
type Policy struct {
	remote   Remote
	fallback Fallback
	store    Store

	// pages replays the last good page response per offset during an
	// outage, when the full-list cache is not available.
	pages *gocache.Cache

	tag             string
	pageSize        int
	commentPageSize int
	cooldown        time.Duration
	enrich          bool
	retryDelay      time.Duration

	log log.Log
}

func New(remote Remote, fallback Fallback, store Store, cfg config.Config, log log.Log) *Policy {
	return &Policy{
		remote:          remote,
		fallback:        fallback,
		store:           store,
		pages:           gocache.New(cfg.Content.Converted.CacheTTL, 10*time.Minute),
		tag:             cfg.Remote.Tag,
		pageSize:        cfg.Content.PageSize,
		commentPageSize: cfg.Content.CommentPageSize,
		cooldown:        cfg.Content.Converted.Cooldown,
		enrich:          cfg.Content.EnrichArticles,
		retryDelay:      250 * time.Millisecond,
		log:             log,
	}
}

// Articles acquires one page of the article listing. A valid full-list
// cache short-circuits everything, the remote client is skipped while
// the cooldown is armed, and the fallback chain repopulates the cache.
// Local drafts are merged in front of page 0, deduplicated by id. The
// page is never longer than the requested size.
func (p *Policy) Articles(ctx context.Context, offset, pageSize int) (content.PageResult, content.Paging, content.Provenance) {
	if pageSize <= 0 {
		pageSize = p.pageSize
	}
	if offset < 0 {
		offset = 0
	}

	locals := p.localArticles()

	if articles, valid := p.cachedList(); valid {
		return p.finish(slicePage(articles, offset, pageSize), locals, offset, pageSize, true, content.ProvenanceCache)
	}

	if p.remoteAllowed() {
		for attempt := 0; attempt < 2; attempt++ {
			res, err := p.remote.ListArticles(ctx, offset, pageSize, p.tag)
			if err == nil {
				p.clearCooldown()

				if p.enrich {
					p.enrichArticles(ctx, res.Articles)
				}

				p.pages.Set(pageKey(offset), res, gocache.DefaultExpiration)

				known := res.Meta.TotalCount > 0 || len(res.Articles) == 0
				return p.finish(res, locals, offset, pageSize, known, content.ProvenanceRemote)
			}

			p.log.Infof("Remote article listing failed (attempt %d): %v", attempt+1, err)
			p.armCooldown()

			if attempt == 0 && !p.pause(ctx) {
				break
			}
		}
	}

	if v, ok := p.pages.Get(pageKey(offset)); ok {
		if res, ok := v.(content.PageResult); ok {
			return p.finish(res, locals, offset, pageSize, true, content.ProvenanceCache)
		}
	}

	if articles, err := p.fallback.LoadFullList(ctx); err == nil {
		if err := p.store.SaveFullArticleCache(articles); err != nil {
			p.log.Printf("Persisting fallback article list: %+v", err)
		}

		return p.finish(slicePage(articles, offset, pageSize), locals, offset, pageSize, true, content.ProvenanceFallback)
	} else {
		p.log.Infof("Fallback chain exhausted: %v", err)
	}

	empty := content.PageResult{Articles: []content.Article{}, Meta: content.PageMeta{Offset: offset}}
	return p.finish(empty, locals, offset, pageSize, true, content.ProvenanceEmpty)
}

// Article acquires a single article. Local ids resolve exclusively
// from the local store. A failing comment fetch degrades to an empty
// comment list instead of failing the whole detail. Returns
// content.ErrNoContent when the article is absent from every source.
func (p *Policy) Article(ctx context.Context, id content.ArticleID, cOffset, cLimit int) (Detail, error) {
	if cLimit <= 0 {
		cLimit = p.commentPageSize
	}
	if cOffset < 0 {
		cOffset = 0
	}

	if id.Local() {
		article, err := p.store.LocalArticle(id)
		if err != nil {
			return Detail{}, err
		}

		comments := p.localComments(id)

		return Detail{
			Article:       article,
			Comments:      sliceComments(comments, cOffset, cLimit),
			CommentsTotal: len(comments),
			TotalKnown:    true,
			Provenance:    content.ProvenanceLocal,
		}, nil
	}

	if p.remoteAllowed() {
		article, err := p.remote.GetArticle(ctx, id)
		if err == nil {
			p.clearCooldown()

			comments, total, known, cErr := p.remote.ListComments(ctx, id, cOffset, cLimit)
			if cErr != nil {
				p.log.Infof("Loading comments of %s: %v", id, cErr)
				comments, total, known = nil, 0, true
			}

			return Detail{
				Article:       article,
				Comments:      comments,
				CommentsTotal: total,
				TotalKnown:    known,
				Provenance:    content.ProvenanceRemote,
			}, nil
		}

		p.log.Infof("Remote article %s failed: %v", id, err)
		p.armCooldown()
	}

	articles, valid := p.cachedList()
	provenance := content.ProvenanceCache

	if !valid {
		list, err := p.fallback.LoadFullList(ctx)
		if err != nil {
			p.log.Infof("Fallback chain exhausted looking for %s: %v", id, err)
			return Detail{}, errors.Wrapf(content.ErrNoContent, "article %s", id)
		}

		if err := p.store.SaveFullArticleCache(list); err != nil {
			p.log.Printf("Persisting fallback article list: %+v", err)
		}

		articles = list
		provenance = content.ProvenanceFallback
	}

	for _, a := range articles {
		if a.ID == id {
			comments := p.localComments(id)

			return Detail{
				Article:       a,
				Comments:      sliceComments(comments, cOffset, cLimit),
				CommentsTotal: len(comments),
				TotalKnown:    true,
				Provenance:    provenance,
			}, nil
		}
	}

	return Detail{}, errors.Wrapf(content.ErrNoContent, "article %s", id)
}

// SubmitComment validates and stores a comment. Comments on local
// articles never touch the network; a failed remote write keeps the
// comment locally, tagged as such. A comment is never silently lost.
func (p *Policy) SubmitComment(ctx context.Context, id content.ArticleID, author, text string) (content.Comment, Status, error) {
	author = strings.TrimSpace(author)
	text = strings.TrimSpace(text)

	if author == "" {
		return content.Comment{}, StatusAccepted, content.ValidationError{Field: "author"}
	}
	if text == "" {
		return content.Comment{}, StatusAccepted, content.ValidationError{Field: "text"}
	}

	comment := content.Comment{
		ID:          uuid.NewString(),
		ArticleID:   id,
		Author:      author,
		Text:        text,
		DateCreated: content.NowStamp(),
	}

	if id.Local() {
		comment.Local = true

		if err := p.store.AppendLocalComment(id, comment); err != nil {
			return content.Comment{}, StatusAccepted, err
		}

		return comment, StatusLocalOnly, nil
	}

	created, err := p.remote.PostComment(ctx, id, comment)
	if err == nil {
		p.clearCooldown()
		return created, StatusAccepted, nil
	}

	p.log.Infof("Posting comment to %s failed, keeping it locally: %v", id, err)

	comment.Local = true
	if sErr := p.store.AppendLocalComment(id, comment); sErr != nil {
		return content.Comment{}, StatusAccepted, sErr
	}

	return comment, StatusLocalOnly, nil
}

// CreateArticle stores a new article remotely, stamping it with the
// project tag. When the remote endpoint is unreachable and the caller
// explicitly allowed it, the article is kept locally instead of losing
// the input.
func (p *Policy) CreateArticle(ctx context.Context, article content.Article, allowLocal bool) (content.Article, Status, error) {
	article.Tags = p.withTag(article.Tags)

	created, err := p.remote.CreateArticle(ctx, article)
	if err == nil {
		p.clearCooldown()
		return created, StatusAccepted, nil
	}

	if !allowLocal || !connectivityFailure(err) {
		return content.Article{}, StatusAccepted, err
	}

	p.log.Infof("Remote article creation failed, keeping it locally: %v", err)

	article.ID = content.ArticleID(content.LocalPrefix + uuid.NewString())
	article.DateCreated = content.NowStamp()
	article.Local = true

	if sErr := p.store.UpsertLocalArticle(article); sErr != nil {
		return content.Article{}, StatusAccepted, sErr
	}

	return article, StatusLocalOnly, nil
}

// UpdateArticle edits an article. Local articles are updated in the
// store and never sent to the remote client.
func (p *Policy) UpdateArticle(ctx context.Context, id content.ArticleID, article content.Article) (content.Article, error) {
	article.Tags = p.withTag(article.Tags)

	if id.Local() {
		existing, err := p.store.LocalArticle(id)
		if err != nil {
			return content.Article{}, err
		}

		article.ID = id
		if article.DateCreated == "" {
			article.DateCreated = existing.DateCreated
		}

		if err := p.store.UpsertLocalArticle(article); err != nil {
			return content.Article{}, err
		}

		return article, nil
	}

	updated, err := p.remote.UpdateArticle(ctx, id, article)
	if err != nil {
		return content.Article{}, err
	}

	p.clearCooldown()
	return updated, nil
}

// DeleteArticle removes an article. Deleting a local article also
// purges its locally stored comments.
func (p *Policy) DeleteArticle(ctx context.Context, id content.ArticleID) error {
	if id.Local() {
		return p.store.DeleteLocalArticle(id)
	}

	if err := p.remote.DeleteArticle(ctx, id); err != nil {
		return err
	}

	p.clearCooldown()

	// Comments kept locally for a remote article are no longer
	// reachable once it is gone.
	if err := p.store.DeleteLocalComments(id); err != nil {
		p.log.Printf("Purging local comments of %s: %+v", id, err)
	}

	return nil
}

// ResetCooldown clears the cooldown marker so a user-initiated retry
// attempts the remote client again.
func (p *Policy) ResetCooldown() {
	if err := p.store.ClearCooldown(); err != nil {
		p.log.Printf("Clearing cooldown: %+v", err)
	}
}

func (p *Policy) remoteAllowed() bool {
	until, err := p.store.CooldownUntil()
	if err != nil {
		p.log.Printf("Reading cooldown: %+v", err)
		return true
	}

	return !time.Now().Before(until)
}

func (p *Policy) armCooldown() {
	if err := p.store.SetCooldown(p.cooldown); err != nil {
		p.log.Printf("Arming cooldown: %+v", err)
	}
}

func (p *Policy) clearCooldown() {
	if err := p.store.ClearCooldown(); err != nil {
		p.log.Printf("Clearing cooldown: %+v", err)
	}
}

func (p *Policy) cachedList() ([]content.Article, bool) {
	articles, valid, err := p.store.FullArticleCache()
	if err != nil {
		p.log.Printf("Reading article cache: %+v", err)
		return nil, false
	}

	return articles, valid
}

func (p *Policy) localArticles() []content.Article {
	articles, err := p.store.LocalArticles()
	if err != nil {
		p.log.Printf("Reading local articles: %+v", err)
		return nil
	}

	return articles
}

func (p *Policy) localComments(id content.ArticleID) []content.Comment {
	comments, err := p.store.LocalComments(id)
	if err != nil {
		p.log.Printf("Reading local comments of %s: %+v", id, err)
		return nil
	}

	return comments
}

func (p *Policy) enrichArticles(ctx context.Context, articles []content.Article) {
	for i := range articles {
		if strings.TrimSpace(articles[i].Content) != "" {
			continue
		}

		detail, err := p.remote.GetArticle(ctx, articles[i].ID)
		if err != nil {
			p.log.Debugf("Enriching article %s: %v", articles[i].ID, err)
			continue
		}

		articles[i].Content = detail.Content
	}
}

// finish merges local drafts into the page, bounds it to the page size
// and derives paging hints.
func (p *Policy) finish(
	res content.PageResult,
	locals []content.Article,
	offset, pageSize int,
	totalKnown bool,
	provenance content.Provenance,
) (content.PageResult, content.Paging, content.Provenance) {
	got := len(res.Articles)
	total := res.Meta.TotalCount
	if !totalKnown && total < got {
		total = offset + got
	}

	if len(locals) > 0 {
		localIDs := make(map[content.ArticleID]bool, len(locals))
		for _, l := range locals {
			localIDs[l.ID] = true
		}

		kept := make([]content.Article, 0, len(res.Articles))
		for _, a := range res.Articles {
			if !localIDs[a.ID] {
				kept = append(kept, a)
			}
		}

		if offset == 0 {
			res.Articles = append(append([]content.Article{}, locals...), kept...)
		} else {
			res.Articles = kept
		}

		total += len(locals)
	}

	if len(res.Articles) > pageSize {
		res.Articles = res.Articles[:pageSize]
	}

	res.Meta.Offset = offset
	res.Meta.TotalCount = total

	return res, content.PagingFor(offset, pageSize, total, totalKnown, got), provenance
}

func (p *Policy) withTag(tags []string) []string {
	if p.tag == "" {
		return tags
	}

	for _, t := range tags {
		if t == p.tag {
			return tags
		}
	}

	return append(tags, p.tag)
}

// pause waits out the retry delay, reporting false when the request
// was cancelled meanwhile.
func (p *Policy) pause(ctx context.Context) bool {
	if p.retryDelay == 0 {
		return true
	}

	select {
	case <-ctx.Done():
		return false
	case <-time.After(p.retryDelay):
		return true
	}
}

func connectivityFailure(err error) bool {
	return content.IsNetwork(err) || content.IsTimeout(err)
}

func pageKey(offset int) string {
	return strconv.Itoa(offset)
}

func slicePage(articles []content.Article, offset, pageSize int) content.PageResult {
	total := len(articles)

	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	return content.PageResult{
		Articles: articles[offset:end],
		Meta:     content.PageMeta{TotalCount: total, Offset: offset},
	}
}

func sliceComments(comments []content.Comment, offset, limit int) []content.Comment {
	total := len(comments)

	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return comments[offset:end]
}
