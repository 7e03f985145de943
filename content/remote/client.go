package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/urandom/arteef/config"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

// Client performs time-bounded calls against the remote content API.
// Failures are classified into content.RemoteError kinds. The client
// never retries on its own; retry policy lives with the acquisition
// policy.
type Client struct {
	baseURL string

	read  *http.Client
	write *http.Client

	readTimeout  timeoutSetter
	writeTimeout timeoutSetter

	log log.Log
}

type timeoutSetter func(ctx context.Context) (context.Context, context.CancelFunc)

func New(cfg config.Config, log log.Log) Client {
	connect := cfg.Timeout.Converted.Connect
	read := cfg.Content.Converted.ReadTimeout
	write := cfg.Content.Converted.WriteTimeout

	return Client{
		baseURL: cfg.Remote.BaseURL,
		read:    NewTimeoutClient(connect, read),
		write:   NewTimeoutClient(connect, write),
		readTimeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, read)
		},
		writeTimeout: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, write)
		},
		log: log,
	}
}

// ListArticles fetches one page of the article collection, optionally
// filtered by tag. A response without an articles array is malformed.
func (c Client) ListArticles(ctx context.Context, offset, limit int, tag string) (content.PageResult, error) {
	v := url.Values{}
	v.Set("max", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(offset))
	if tag != "" {
		v.Set("tag", tag)
	}

	var data struct {
		Articles json.RawMessage  `json:"articles"`
		Meta     content.PageMeta `json:"meta"`
	}

	op := "listing articles"
	if err := c.request(ctx, c.read, c.readTimeout, op, "GET", "/article?"+v.Encode(), nil, &data); err != nil {
		return content.PageResult{}, err
	}

	if data.Articles == nil {
		return content.PageResult{}, content.RemoteError{
			Kind:  content.KindMalformed,
			Op:    op,
			Cause: errors.New("response carries no articles array"),
		}
	}

	var articles []content.Article
	if err := json.Unmarshal(data.Articles, &articles); err != nil {
		return content.PageResult{}, content.RemoteError{Kind: content.KindMalformed, Op: op, Cause: err}
	}

	res := content.PageResult{Articles: articles, Meta: data.Meta}
	res.Meta.Offset = offset

	return res, nil
}

// GetArticle fetches a single article.
func (c Client) GetArticle(ctx context.Context, id content.ArticleID) (content.Article, error) {
	if id.Local() {
		return content.Article{}, errors.Errorf("local article id %s sent to remote client", id)
	}

	var article content.Article

	err := c.request(ctx, c.read, c.readTimeout, "getting article "+id.String(), "GET", "/article/"+url.PathEscape(id.String()), nil, &article)
	if err != nil {
		return content.Article{}, err
	}

	return article, nil
}

// CreateArticle posts a new article and returns the stored version.
func (c Client) CreateArticle(ctx context.Context, article content.Article) (content.Article, error) {
	var created content.Article

	err := c.request(ctx, c.write, c.writeTimeout, "creating article", "POST", "/article", article, &created)
	if err != nil {
		return content.Article{}, err
	}

	return created, nil
}

// UpdateArticle replaces an existing article.
func (c Client) UpdateArticle(ctx context.Context, id content.ArticleID, article content.Article) (content.Article, error) {
	if id.Local() {
		return content.Article{}, errors.Errorf("local article id %s sent to remote client", id)
	}

	var updated content.Article

	err := c.request(ctx, c.write, c.writeTimeout, "updating article "+id.String(), "PUT", "/article/"+url.PathEscape(id.String()), article, &updated)
	if err != nil {
		return content.Article{}, err
	}

	return updated, nil
}

// DeleteArticle removes an article from the remote collection.
func (c Client) DeleteArticle(ctx context.Context, id content.ArticleID) error {
	if id.Local() {
		return errors.Errorf("local article id %s sent to remote client", id)
	}

	return c.request(ctx, c.write, c.writeTimeout, "deleting article "+id.String(), "DELETE", "/article/"+url.PathEscape(id.String()), nil, nil)
}

// ListComments fetches one page of an article's comments. The remote
// API sometimes returns a bare array, and sometimes an object with a
// comments array and paging meta; a known total is reported only for
// the latter.
func (c Client) ListComments(ctx context.Context, id content.ArticleID, offset, limit int) ([]content.Comment, int, bool, error) {
	if id.Local() {
		return nil, 0, false, errors.Errorf("local article id %s sent to remote client", id)
	}

	v := url.Values{}
	v.Set("max", strconv.Itoa(limit))
	v.Set("offset", strconv.Itoa(offset))

	var raw json.RawMessage

	op := fmt.Sprintf("listing comments of %s", id)
	path := "/article/" + url.PathEscape(id.String()) + "/comment?" + v.Encode()
	if err := c.request(ctx, c.read, c.readTimeout, op, "GET", path, nil, &raw); err != nil {
		return nil, 0, false, err
	}

	var comments []content.Comment
	if err := json.Unmarshal(raw, &comments); err == nil {
		return comments, len(comments), false, nil
	}

	var data struct {
		Comments []content.Comment `json:"comments"`
		Meta     *struct {
			TotalCount int `json:"totalCount"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, 0, false, content.RemoteError{Kind: content.KindMalformed, Op: op, Cause: err}
	}

	if data.Meta != nil {
		return data.Comments, data.Meta.TotalCount, true, nil
	}

	return data.Comments, len(data.Comments), false, nil
}

// PostComment stores a new comment under an article.
func (c Client) PostComment(ctx context.Context, id content.ArticleID, comment content.Comment) (content.Comment, error) {
	if id.Local() {
		return content.Comment{}, errors.Errorf("local article id %s sent to remote client", id)
	}

	payload := struct {
		Author string `json:"author"`
		Text   string `json:"text"`
	}{comment.Author, comment.Text}

	var created content.Comment

	path := "/article/" + url.PathEscape(id.String()) + "/comment"
	err := c.request(ctx, c.write, c.writeTimeout, "posting comment to "+id.String(), "POST", path, payload, &created)
	if err != nil {
		return content.Comment{}, err
	}

	return created, nil
}

func (c Client) request(
	ctx context.Context,
	client *http.Client,
	timeout timeoutSetter,
	op, method, path string,
	body, out interface{},
) error {
	ctx, cancel := timeout(ctx)
	defer cancel()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrapf(err, "marshaling %s request", op)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrapf(err, "creating %s request", op)
	}
	req = req.WithContext(ctx)

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		kind := content.KindNetwork
		if isTimeout(ctx, err) {
			kind = content.KindTimeout
		}

		c.log.Debugf("Remote %s failed: %v", op, err)
		return content.RemoteError{Kind: kind, Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return content.RemoteError{Kind: content.KindHTTP, Status: resp.StatusCode, Op: op}
	}

	if out == nil {
		return nil
	}

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		kind := content.KindNetwork
		if isTimeout(ctx, err) {
			kind = content.KindTimeout
		}
		return content.RemoteError{Kind: kind, Op: op, Cause: err}
	}

	if err := json.Unmarshal(b, out); err != nil {
		return content.RemoteError{Kind: content.KindMalformed, Op: op, Cause: err}
	}

	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if ctx.Err() == context.DeadlineExceeded {
		return true
	}

	type timeouter interface {
		Timeout() bool
	}

	if t, ok := err.(timeouter); ok && t.Timeout() {
		return true
	}

	return false
}
