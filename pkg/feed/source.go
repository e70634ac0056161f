package feed

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"feed-frame/pkg/pager"
)

// Source serves a collection's items in listing order and moves their media
// between S3 and a local cache directory. Item ids are the S3 object keys.
type Source struct {
	client   s3iface.S3API
	cacheDir string
	coll     Collection

	mu       sync.RWMutex
	keys     []string // full key listing, fetched once per collection
	loaded   int      // how many keys have been exposed as items so far
	complete bool     // loaded == len(keys)
}

// NewSource builds a source for the collection, with credentials and region
// taken from the environment.
func NewSource(coll Collection, cacheDir string) (*Source, error) {
	sess, err := sessionFromEnv()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cacheDir, os.ModePerm); err != nil {
		return nil, err
	}
	return &Source{client: s3.New(sess), cacheDir: cacheDir, coll: coll}, nil
}

// newSourceWithClient wires an explicit client; used by tests.
func newSourceWithClient(coll Collection, cacheDir string, client s3iface.S3API) *Source {
	return &Source{client: client, cacheDir: cacheDir, coll: coll}
}

// sessionFromEnv initialises an AWS session from the standard environment
// variables, failing loudly when any are missing.
func sessionFromEnv() (*session.Session, error) {
	region := os.Getenv("AWS_DEFAULT_REGION")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")

	if region == "" || accessKey == "" || secretKey == "" {
		return nil, errors.New("missing one or more required environment variables: AWS_DEFAULT_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY")
	}

	return session.NewSession(&aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKey, secretKey, ""),
	})
}

// Collection returns the collection this source serves.
func (s *Source) Collection() Collection {
	return s.coll
}

// NewMetaCache builds a metadata cache sharing this source's client and bucket.
func (s *Source) NewMetaCache() *MetaCache {
	return NewMetaCache(s.client, s.coll.Bucket)
}

// Items returns the currently exposed page of items.
func (s *Source) Items() []pager.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsLocked()
}

func (s *Source) itemsLocked() []pager.Item {
	items := make([]pager.Item, s.loaded)
	for i := 0; i < s.loaded; i++ {
		items[i] = pager.Item{ID: s.keys[i]}
	}
	return items
}

// LoadMore exposes up to count further keys as items and returns the full
// item slice plus whether the end of the collection has been reached.
// The key listing is fetched from S3 on the first call and cached for the
// lifetime of the source; the feed is append-only within a session.
func (s *Source) LoadMore(count int) ([]pager.Item, bool, error) {
	log.Printf("LoadMore called | collection=%s | count=%d", s.coll.Title, count)
	if count <= 0 {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.itemsLocked(), s.complete, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys == nil {
		keys, err := s.listKeys()
		if err != nil {
			return nil, false, err
		}
		s.keys = keys
	}

	s.loaded += count
	if s.loaded >= len(s.keys) {
		s.loaded = len(s.keys)
		s.complete = true
	}

	log.Printf("LoadMore completed | exposed=%d/%d | reachedEnd=%t", s.loaded, len(s.keys), s.complete)
	return s.itemsLocked(), s.complete, nil
}

// listKeys fetches every playable object key under the collection prefix.
func (s *Source) listKeys() ([]string, error) {
	listInput := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.coll.Bucket),
		Prefix: aws.String(s.coll.Prefix),
	}

	var keys []string
	err := s.client.ListObjectsV2Pages(listInput, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			if obj.Key == nil || strings.HasSuffix(*obj.Key, "/") {
				continue // skip empty keys or "directories"
			}
			if !isVideoKey(*obj.Key) {
				continue
			}
			keys = append(keys, *obj.Key)
		}
		return !lastPage
	})
	if err != nil {
		return nil, err
	}

	log.Printf("listKeys completed | collection=%s | found=%d key(s)", s.coll.Title, len(keys))
	return keys, nil
}

// isVideoKey filters the listing down to playable media.
func isVideoKey(key string) bool {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".mp4", ".mov", ".webm", ".mpg", ".mpeg":
		return true
	default:
		return false
	}
}

// FetchMedia downloads the item's media into the cache directory and returns
// the local path. Already cached media is reused without touching S3.
func (s *Source) FetchMedia(itemID string) (string, error) {
	localPath := s.LocalPath(itemID)
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	result, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.coll.Bucket),
		Key:    aws.String(itemID),
	})
	if err != nil {
		return "", fmt.Errorf("failed to download %s: %w", itemID, err)
	}
	defer result.Body.Close()

	if err := os.MkdirAll(s.cacheDir, os.ModePerm); err != nil {
		return "", err
	}
	outFile, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", localPath, err)
	}

	_, err = io.Copy(outFile, result.Body)
	outFile.Close()
	if err != nil {
		os.Remove(localPath) // do not leave a truncated file behind
		return "", fmt.Errorf("failed to write file %s: %w", localPath, err)
	}

	log.Printf("FetchMedia completed | key=%s | path=%s", itemID, localPath)
	return localPath, nil
}

// RemoveMedia deletes the item's cached media, if present.
func (s *Source) RemoveMedia(itemID string) error {
	localPath := s.LocalPath(itemID)
	if err := os.Remove(localPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	log.Printf("RemoveMedia: removed %s", localPath)
	return nil
}

// LocalPath returns where the item's media lives once cached.
func (s *Source) LocalPath(itemID string) string {
	return filepath.Join(s.cacheDir, filepath.Base(itemID))
}

// ClearCache removes every cached media file. Called on startup so stale
// clips from a previous run do not pile up.
func (s *Source) ClearCache() {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("ClearCache: failed to read %s: %v", s.cacheDir, err)
		}
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.cacheDir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("ClearCache: failed to remove %s: %v", path, err)
		}
	}
}
