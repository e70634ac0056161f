package feed

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves a fixed set of objects, paginating listings in pages of two
// to exercise the pages callback.
type fakeS3 struct {
	s3iface.S3API
	keys     []string
	bodies   map[string][]byte
	getCalls int
	headErr  error
}

func (f *fakeS3) ListObjectsV2Pages(in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool) error {
	const pageSize = 2
	var matched []string
	for _, k := range f.keys {
		if strings.HasPrefix(k, aws.StringValue(in.Prefix)) {
			matched = append(matched, k)
		}
	}
	for start := 0; start < len(matched); start += pageSize {
		end := start + pageSize
		if end > len(matched) {
			end = len(matched)
		}
		page := &s3.ListObjectsV2Output{}
		for _, k := range matched[start:end] {
			page.Contents = append(page.Contents, &s3.Object{Key: aws.String(k)})
		}
		if !fn(page, end == len(matched)) {
			break
		}
	}
	return nil
}

func (f *fakeS3) GetObject(in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
	f.getCalls++
	body, ok := f.bodies[aws.StringValue(in.Key)]
	if !ok {
		return nil, fmt.Errorf("no such key %s", aws.StringValue(in.Key))
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(body)),
	}, nil
}

func (f *fakeS3) HeadObject(in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	body, ok := f.bodies[aws.StringValue(in.Key)]
	if !ok {
		return nil, fmt.Errorf("no such key %s", aws.StringValue(in.Key))
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String("video/mp4"),
		LastModified:  aws.Time(time.Unix(1700000000, 0)),
	}, nil
}

func testCollection() Collection {
	return Collection{ID: "t", Title: "Test", Bucket: "feed-frame", Prefix: "clips"}
}

func newFakeSource(t *testing.T) (*Source, *fakeS3) {
	t.Helper()
	client := &fakeS3{
		keys: []string{
			"clips/", // directory marker, skipped
			"clips/one.mp4",
			"clips/two.mov",
			"clips/notes.txt", // not media, skipped
			"clips/three.mp4",
			"clips/four.webm",
			"clips/five.mp4",
			"other/six.mp4", // different prefix
		},
		bodies: map[string][]byte{
			"clips/one.mp4":   []byte("one-bytes"),
			"clips/two.mov":   []byte("two-bytes"),
			"clips/three.mp4": []byte("three-bytes"),
			"clips/four.webm": []byte("four-bytes"),
			"clips/five.mp4":  []byte("five-bytes"),
		},
	}
	return newSourceWithClient(testCollection(), t.TempDir(), client), client
}

func TestLoadMorePages(t *testing.T) {
	src, _ := newFakeSource(t)

	items, end, err := src.LoadMore(2)
	require.NoError(t, err)
	assert.False(t, end)
	require.Len(t, items, 2)
	assert.Equal(t, "clips/one.mp4", items[0].ID)
	assert.Equal(t, "clips/two.mov", items[1].ID)

	// Items are append-only within a session: the next page keeps order.
	items, end, err = src.LoadMore(2)
	require.NoError(t, err)
	assert.False(t, end)
	require.Len(t, items, 4)
	assert.Equal(t, "clips/three.mp4", items[2].ID)

	items, end, err = src.LoadMore(10)
	require.NoError(t, err)
	assert.True(t, end)
	assert.Len(t, items, 5, "markers, non-media and foreign prefixes filtered out")
}

func TestLoadMoreNonPositiveCount(t *testing.T) {
	src, _ := newFakeSource(t)

	items, end, err := src.LoadMore(0)
	require.NoError(t, err)
	assert.False(t, end)
	assert.Empty(t, items)
}

func TestFetchMediaCachesLocally(t *testing.T) {
	src, client := newFakeSource(t)

	path, err := src.FetchMedia("clips/one.mp4")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("one-bytes"), data)
	assert.Equal(t, "one.mp4", filepath.Base(path))

	// Second fetch is served from disk.
	_, err = src.FetchMedia("clips/one.mp4")
	require.NoError(t, err)
	assert.Equal(t, 1, client.getCalls)
}

func TestFetchMediaUnknownKey(t *testing.T) {
	src, _ := newFakeSource(t)

	_, err := src.FetchMedia("clips/missing.mp4")
	assert.Error(t, err)
	_, statErr := os.Stat(src.LocalPath("clips/missing.mp4"))
	assert.True(t, os.IsNotExist(statErr), "no truncated file left behind")
}

func TestRemoveMedia(t *testing.T) {
	src, _ := newFakeSource(t)

	path, err := src.FetchMedia("clips/two.mov")
	require.NoError(t, err)

	require.NoError(t, src.RemoveMedia("clips/two.mov"))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Removing again is fine.
	assert.NoError(t, src.RemoveMedia("clips/two.mov"))
}

func TestClearCache(t *testing.T) {
	src, _ := newFakeSource(t)

	_, err := src.FetchMedia("clips/one.mp4")
	require.NoError(t, err)
	_, err = src.FetchMedia("clips/two.mov")
	require.NoError(t, err)

	src.ClearCache()
	entries, err := os.ReadDir(filepath.Dir(src.LocalPath("clips/one.mp4")))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIsVideoKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"clips/a.mp4", true},
		{"clips/a.MOV", true},
		{"clips/a.webm", true},
		{"clips/a.mpeg", true},
		{"clips/a.txt", false},
		{"clips/a", false},
	}
	for _, tt := range tests {
		if got := isVideoKey(tt.key); got != tt.want {
			t.Errorf("isVideoKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
