package fallback

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

// Chain is the ordered list of alternative full article list
// providers, consulted only when the remote client is unusable. The
// bundled document comes first, mirrored copies after it. The first
// source yielding a non-empty article list wins.
type Chain struct {
	sources []string
	client  *http.Client
	log     log.Log
}

func New(sources []string, timeout time.Duration, log log.Log) Chain {
	return Chain{
		sources: sources,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// LoadFullList tries each source in order and returns the first
// usable full article collection. It fails only when every source
// fails or yields an empty or malformed payload.
func (c Chain) LoadFullList(ctx context.Context) ([]content.Article, error) {
	for _, source := range c.sources {
		articles, err := c.load(ctx, source)
		if err != nil {
			c.log.Infof("Fallback source %s unusable: %v", source, err)
			continue
		}

		if len(articles) == 0 {
			c.log.Infof("Fallback source %s is empty", source)
			continue
		}

		return articles, nil
	}

	return nil, errors.New("no fallback source available")
}

func (c Chain) load(ctx context.Context, source string) ([]content.Article, error) {
	var b []byte
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		b, err = c.fetch(ctx, source)
	} else {
		b, err = readFile(source)
	}

	if err != nil {
		return nil, err
	}

	return parseDocument(b)
}

func (c Chain) fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequest("GET", source, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "creating request for %s", source)
	}
	req = req.WithContext(ctx)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", source)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("fetching %s: http status %d", source, resp.StatusCode)
	}

	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", source)
	}

	return b, nil
}

func readFile(path string) ([]byte, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("fallback document %s does not exist", path)
		}
		return nil, errors.Wrapf(err, "reading fallback document %s", path)
	}

	return b, nil
}

// parseDocument accepts either a bare article array, or an object with
// an articles field.
func parseDocument(b []byte) ([]content.Article, error) {
	var articles []content.Article
	if err := json.Unmarshal(b, &articles); err == nil {
		return articles, nil
	}

	var doc struct {
		Articles []content.Article `json:"articles"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing fallback document")
	}

	return doc.Articles, nil
}
