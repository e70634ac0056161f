package feed

import (
	"log"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// ItemMeta is the lightweight metadata warmed ahead of playback. Warming it
// is far cheaper than materializing a clip, so the prefetch radius is wider
// than the keep radius.
type ItemMeta struct {
	SizeBytes    int64
	ContentType  string
	LastModified time.Time
}

// MetaCache warms and serves per-item metadata via S3 HeadObject. Safe for
// concurrent use; the screen warms in a goroutine while reads happen on the
// render loop.
type MetaCache struct {
	client s3iface.S3API
	bucket string

	mu      sync.RWMutex
	entries map[string]ItemMeta
}

// NewMetaCache creates a metadata cache for the given bucket.
func NewMetaCache(client s3iface.S3API, bucket string) *MetaCache {
	return &MetaCache{
		client:  client,
		bucket:  bucket,
		entries: make(map[string]ItemMeta),
	}
}

// Warm fetches metadata for the given item ids, skipping entries it already
// holds. Individual failures are logged and skipped; a later warm retries
// them.
func (c *MetaCache) Warm(itemIDs []string) {
	warmed := 0
	for _, id := range itemIDs {
		c.mu.RLock()
		_, known := c.entries[id]
		c.mu.RUnlock()
		if known {
			continue
		}

		head, err := c.client.HeadObject(&s3.HeadObjectInput{
			Bucket: aws.String(c.bucket),
			Key:    aws.String(id),
		})
		if err != nil {
			log.Printf("MetaCache: head failed for %s: %v", id, err)
			continue
		}

		meta := ItemMeta{}
		if head.ContentLength != nil {
			meta.SizeBytes = *head.ContentLength
		}
		if head.ContentType != nil {
			meta.ContentType = *head.ContentType
		}
		if head.LastModified != nil {
			meta.LastModified = *head.LastModified
		}

		c.mu.Lock()
		c.entries[id] = meta
		c.mu.Unlock()
		warmed++
	}

	if warmed > 0 {
		log.Printf("MetaCache: warmed %d entrie(s)", warmed)
	}
}

// Get returns the warmed metadata for an item, if present.
func (c *MetaCache) Get(itemID string) (ItemMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.entries[itemID]
	return meta, ok
}

// Len returns how many entries are warmed.
func (c *MetaCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Forget drops entries for items that left the feed, keeping the cache from
// growing across collection switches.
func (c *MetaCache) Forget(itemIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range itemIDs {
		delete(c.entries, id)
	}
}
