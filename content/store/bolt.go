package store

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
	"github.com/urandom/arteef/content"
	"github.com/urandom/arteef/log"
)

// Store is the thin key/value persistence that survives restarts. It
// holds the locally authored articles and comments, the full article
// list cache, the remote cooldown marker, visitor opinions, the
// session user and the UI settings.
//
// Values are serialized json. A value that fails to deserialize is
// logged and read back as absent, never surfaced to the caller.
type Store struct {
	db  *bolt.DB
	ttl time.Duration
	log log.Log

	now func() time.Time
}

var (
	articlesBucket = []byte("local-articles")
	commentsBucket = []byte("local-comments")
	cacheBucket    = []byte("article-cache")
	stateBucket    = []byte("state")
	opinionsBucket = []byte("opinions")

	articlesKey  = []byte("articles")
	cachePayload = []byte("payload")
	cacheStamp   = []byte("fetched-at")
	cooldownKey  = []byte("cooldown-until")
	userKey      = []byte("current-user")
	settingsKey  = []byte("settings")
	opinionsKey  = []byte("opinions")
)

func Open(path string, cacheTTL time.Duration, log log.Log) (*Store, error) {
	db, err := bolt.Open(path, 0660, nil)

	if err != nil {
		return nil, errors.Wrapf(err, "opening bolt storage %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{
			articlesBucket, commentsBucket, cacheBucket,
			stateBucket, opinionsBucket,
		} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating storage buckets")
	}

	return &Store{db: db, ttl: cacheTTL, log: log, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// decode unmarshals a stored value, treating corrupted data as absent.
func (s *Store) decode(key string, b []byte, v interface{}) bool {
	if b == nil {
		return false
	}

	if err := json.Unmarshal(b, v); err != nil {
		s.log.Printf("Discarding corrupted storage value %s: %+v", key, err)
		return false
	}

	return true
}

// LocalArticles returns the locally authored articles, newest first.
func (s *Store) LocalArticles() ([]content.Article, error) {
	var articles []content.Article

	err := s.db.View(func(tx *bolt.Tx) error {
		s.decode("local-articles", tx.Bucket(articlesBucket).Get(articlesKey), &articles)
		return nil
	})

	if err != nil {
		return nil, errors.Wrap(err, "reading local articles")
	}

	return articles, nil
}

// LocalArticle looks up a single locally authored article.
func (s *Store) LocalArticle(id content.ArticleID) (content.Article, error) {
	articles, err := s.LocalArticles()
	if err != nil {
		return content.Article{}, err
	}

	for _, a := range articles {
		if a.ID == id {
			return a, nil
		}
	}

	return content.Article{}, errors.Wrapf(content.ErrNoContent, "local article %s", id)
}

// UpsertLocalArticle stores a locally authored article, prepending new
// ones so the list stays newest first. The read and write happen in a
// single transaction to avoid lost updates.
func (s *Store) UpsertLocalArticle(article content.Article) error {
	article.Local = true

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)

		var articles []content.Article
		s.decode("local-articles", b.Get(articlesKey), &articles)

		found := false
		for i := range articles {
			if articles[i].ID == article.ID {
				articles[i] = article
				found = true
				break
			}
		}
		if !found {
			articles = append([]content.Article{article}, articles...)
		}

		data, err := json.Marshal(articles)
		if err != nil {
			return err
		}

		return b.Put(articlesKey, data)
	})

	if err != nil {
		return errors.Wrapf(err, "storing local article %s", article.ID)
	}

	return nil
}

// DeleteLocalArticle removes a local article together with its
// comments.
func (s *Store) DeleteLocalArticle(id content.ArticleID) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(articlesBucket)

		var articles []content.Article
		s.decode("local-articles", b.Get(articlesKey), &articles)

		kept := articles[:0]
		for _, a := range articles {
			if a.ID != id {
				kept = append(kept, a)
			}
		}

		data, err := json.Marshal(kept)
		if err != nil {
			return err
		}

		if err := b.Put(articlesKey, data); err != nil {
			return err
		}

		return tx.Bucket(commentsBucket).Delete([]byte(id))
	})

	if err != nil {
		return errors.Wrapf(err, "deleting local article %s", id)
	}

	return nil
}

// LocalComments returns the locally stored comments for an article,
// newest first.
func (s *Store) LocalComments(id content.ArticleID) ([]content.Comment, error) {
	var comments []content.Comment

	err := s.db.View(func(tx *bolt.Tx) error {
		s.decode("local-comments", tx.Bucket(commentsBucket).Get([]byte(id)), &comments)
		return nil
	})

	if err != nil {
		return nil, errors.Wrapf(err, "reading local comments for %s", id)
	}

	return comments, nil
}

// AppendLocalComment prepends a comment to the article's local comment
// list within a single transaction.
func (s *Store) AppendLocalComment(id content.ArticleID, comment content.Comment) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(commentsBucket)

		var comments []content.Comment
		s.decode("local-comments", b.Get([]byte(id)), &comments)

		comments = append([]content.Comment{comment}, comments...)

		data, err := json.Marshal(comments)
		if err != nil {
			return err
		}

		return b.Put([]byte(id), data)
	})

	if err != nil {
		return errors.Wrapf(err, "storing local comment for %s", id)
	}

	return nil
}

// DeleteLocalComments drops every locally stored comment of an
// article.
func (s *Store) DeleteLocalComments(id content.ArticleID) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(commentsBucket).Delete([]byte(id))
	})

	if err != nil {
		return errors.Wrapf(err, "deleting local comments for %s", id)
	}

	return nil
}

// FullArticleCache returns the persisted full article list snapshot.
// The snapshot is valid only while its age is within the configured
// ttl.
func (s *Store) FullArticleCache() ([]content.Article, bool, error) {
	var articles []content.Article
	var stamp time.Time

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(cacheBucket)

		if !s.decode("article-cache", b.Get(cachePayload), &articles) {
			return nil
		}

		if v := b.Get(cacheStamp); v != nil && len(v) == 8 {
			stamp = time.Unix(0, int64(binary.LittleEndian.Uint64(v)))
		}

		return nil
	})

	if err != nil {
		return nil, false, errors.Wrap(err, "reading article cache")
	}

	if articles == nil || stamp.IsZero() {
		return nil, false, nil
	}

	return articles, s.now().Sub(stamp) < s.ttl, nil
}

// SaveFullArticleCache persists the full article list snapshot,
// stamping it with the current time.
func (s *Store) SaveFullArticleCache(articles []content.Article) error {
	data, err := json.Marshal(articles)
	if err != nil {
		return errors.Wrap(err, "marshaling article cache")
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(cacheBucket)

		if err := b.Put(cachePayload, data); err != nil {
			return err
		}

		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(s.now().UnixNano()))

		return b.Put(cacheStamp, buf)
	})

	if err != nil {
		return errors.Wrap(err, "writing article cache")
	}

	return nil
}

// CooldownUntil returns the instant before which the remote client
// should not be attempted. The zero time means no cooldown is armed.
func (s *Store) CooldownUntil() (time.Time, error) {
	var until time.Time

	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(stateBucket).Get(cooldownKey); v != nil && len(v) == 8 {
			until = time.Unix(0, int64(binary.LittleEndian.Uint64(v)))
		}

		return nil
	})

	if err != nil {
		return time.Time{}, errors.Wrap(err, "reading cooldown marker")
	}

	return until, nil
}

// SetCooldown arms the cooldown marker for the given duration.
func (s *Store) SetCooldown(d time.Duration) error {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(s.now().Add(d).UnixNano()))

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(cooldownKey, buf)
	})

	if err != nil {
		return errors.Wrap(err, "writing cooldown marker")
	}

	return nil
}

// ClearCooldown removes the cooldown marker.
func (s *Store) ClearCooldown() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Delete(cooldownKey)
	})

	if err != nil {
		return errors.Wrap(err, "clearing cooldown marker")
	}

	return nil
}

// Opinions returns the stored visitor opinions, newest first.
func (s *Store) Opinions() ([]content.Opinion, error) {
	var opinions []content.Opinion

	err := s.db.View(func(tx *bolt.Tx) error {
		s.decode("opinions", tx.Bucket(opinionsBucket).Get(opinionsKey), &opinions)
		return nil
	})

	if err != nil {
		return nil, errors.Wrap(err, "reading opinions")
	}

	return opinions, nil
}

// AddOpinion prepends a visitor opinion.
func (s *Store) AddOpinion(opinion content.Opinion) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(opinionsBucket)

		var opinions []content.Opinion
		s.decode("opinions", b.Get(opinionsKey), &opinions)

		opinions = append([]content.Opinion{opinion}, opinions...)

		data, err := json.Marshal(opinions)
		if err != nil {
			return err
		}

		return b.Put(opinionsKey, data)
	})

	if err != nil {
		return errors.Wrap(err, "storing opinion")
	}

	return nil
}

// CurrentUser returns the session user, or ErrNoContent when nobody is
// signed in.
func (s *Store) CurrentUser() (content.User, error) {
	var user content.User
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		found = s.decode("current-user", tx.Bucket(stateBucket).Get(userKey), &user)
		return nil
	})

	if err != nil {
		return content.User{}, errors.Wrap(err, "reading current user")
	}

	if !found {
		return content.User{}, errors.WithMessage(content.ErrNoContent, "current user")
	}

	return user, nil
}

// SetCurrentUser stores the session user.
func (s *Store) SetCurrentUser(user content.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(err, "marshaling current user")
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(userKey, data)
	})

	if err != nil {
		return errors.Wrap(err, "writing current user")
	}

	return nil
}

// ClearCurrentUser signs the session user out.
func (s *Store) ClearCurrentUser() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Delete(userKey)
	})

	if err != nil {
		return errors.Wrap(err, "clearing current user")
	}

	return nil
}

// Settings returns the stored UI preferences.
func (s *Store) Settings() (content.Settings, error) {
	var settings content.Settings

	err := s.db.View(func(tx *bolt.Tx) error {
		s.decode("settings", tx.Bucket(stateBucket).Get(settingsKey), &settings)
		return nil
	})

	if err != nil {
		return content.Settings{}, errors.Wrap(err, "reading settings")
	}

	return settings, nil
}

// SetSettings stores the UI preferences.
func (s *Store) SetSettings(settings content.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return errors.Wrap(err, "marshaling settings")
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(settingsKey, data)
	})

	if err != nil {
		return errors.Wrap(err, "writing settings")
	}

	return nil
}
