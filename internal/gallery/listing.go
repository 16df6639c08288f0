// Package gallery is the core of pixvault: folder and image listing with a
// freshness window, thumbnail materialization, and pagination over a remote
// object store. Everything here sits behind the auth gate — the presentation
// layer must not call in before the gate grants.
package gallery

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/nmurali/pixvault/internal/logger"
	"github.com/nmurali/pixvault/internal/storage"
)

// FolderEntry is one immediate child "directory" under a prefix.
type FolderEntry struct {
	// Name is the last path segment, e.g. "ceremony".
	Name string `json:"name"`
	// Path is the full prefix including its trailing separator,
	// e.g. "wedding/ceremony/".
	Path string `json:"path"`
}

// ImageEntry is one displayable image object.
type ImageEntry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	// Filename is the last path segment of Key.
	Filename string `json:"filename"`
}

// Crumb is one segment of a breadcrumb trail.
type Crumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Config holds the gallery tunables; see DefaultConfig for the stock values.
type Config struct {
	// MaxKeys caps image listings; entries beyond it are silently
	// omitted (a stated limitation, not an error).
	MaxKeys int

	// ListingTTL is the freshness window for folder and image listings.
	ListingTTL time.Duration

	// ThumbnailTTL is the freshness window for generated thumbnails.
	ThumbnailTTL time.Duration

	// PreviewBound and FullscreenBound are the maximum pixel dimensions
	// of the two thumbnail variants.
	PreviewBound    int
	FullscreenBound int

	// Extensions is the recognized image suffix list, matched
	// case-insensitively against object keys.
	Extensions []string

	// Clock supplies "now" for cache expiry. nil means time.Now.
	Clock func() time.Time
}

// DefaultConfig returns the stock gallery settings.
func DefaultConfig() *Config {
	return &Config{
		MaxKeys:         1000,
		ListingTTL:      5 * time.Minute,
		ThumbnailTTL:    time.Hour,
		PreviewBound:    300,
		FullscreenBound: 1440,
		Extensions:      []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"},
	}
}

type imageListing struct {
	entries   []ImageEntry
	truncated bool
}

// Service projects bucket state into folder and image listings and
// materializes thumbnails. It is safe for concurrent use; the caches are
// process-wide and shared across sessions.
type Service struct {
	store storage.Store
	cfg   Config
	log   *logger.Logger

	folders *ttlCache[[]FolderEntry]
	images  *ttlCache[imageListing]
	thumbs  *ttlCache[[]byte]
}

// NewService builds a Service over store. nil cfg means DefaultConfig.
func NewService(store storage.Store, cfg *Config, log *logger.Logger) *Service {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.New(nil)
	}
	return &Service{
		store:   store,
		cfg:     *cfg,
		log:     log,
		folders: newTTLCache[[]FolderEntry](cfg.ListingTTL, cfg.Clock),
		images:  newTTLCache[imageListing](cfg.ListingTTL, cfg.Clock),
		thumbs:  newTTLCache[[]byte](cfg.ThumbnailTTL, cfg.Clock),
	}
}

// ListFolders returns the immediate child folders under prefix, ordered as
// the backend lists them. Gateway failures degrade to an empty slice with a
// logged warning — the caller shows no items rather than an error page.
func (s *Service) ListFolders(ctx context.Context, bucket, prefix string) []FolderEntry {
	entries, err := s.folders.do(cacheKey(bucket, prefix), func() ([]FolderEntry, error) {
		res, err := s.store.List(ctx, bucket, storage.ListOptions{
			Prefix:    prefix,
			Delimited: true,
		})
		if err != nil {
			return nil, err
		}

		folders := make([]FolderEntry, 0, len(res.Prefixes))
		for _, p := range res.Prefixes {
			folders = append(folders, FolderEntry{
				Name: lastSegment(p),
				Path: p,
			})
		}
		return folders, nil
	})
	if err != nil {
		s.log.WarnWith("folder listing degraded to empty", err, map[string]interface{}{
			"bucket": bucket,
			"prefix": prefix,
		})
		return nil
	}
	return entries
}

// ListImages returns the image objects under prefix, newest first, capped at
// MaxKeys. The bool reports whether the cap truncated the listing. Only keys
// with a recognized extension and a strictly positive size are surfaced.
// Gateway failures degrade to an empty slice with a logged warning.
func (s *Service) ListImages(ctx context.Context, bucket, prefix string) ([]ImageEntry, bool) {
	listing, err := s.images.do(cacheKey(bucket, prefix), func() (imageListing, error) {
		res, err := s.store.List(ctx, bucket, storage.ListOptions{
			Prefix:  prefix,
			MaxKeys: s.cfg.MaxKeys,
		})
		if err != nil {
			return imageListing{}, err
		}

		entries := make([]ImageEntry, 0, len(res.Objects))
		for _, obj := range res.Objects {
			if obj.Size <= 0 || !s.isImageKey(obj.Key) {
				continue
			}
			entries = append(entries, ImageEntry{
				Key:          obj.Key,
				Size:         obj.Size,
				LastModified: obj.LastModified,
				Filename:     lastSegment(obj.Key),
			})
		}

		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].LastModified.After(entries[j].LastModified)
		})
		return imageListing{entries: entries, truncated: res.Truncated}, nil
	})
	if err != nil {
		s.log.WarnWith("image listing degraded to empty", err, map[string]interface{}{
			"bucket": bucket,
			"prefix": prefix,
		})
		return nil, false
	}
	return listing.entries, listing.truncated
}

// Breadcrumbs splits prefix into a trail of (segment, cumulative prefix)
// pairs, e.g. "wedding/ceremony/" → [(wedding, wedding/), (ceremony,
// wedding/ceremony/)]. An empty prefix yields an empty trail.
func Breadcrumbs(prefix string) []Crumb {
	trimmed := strings.Trim(prefix, "/")
	if trimmed == "" {
		return nil
	}

	parts := strings.Split(trimmed, "/")
	crumbs := make([]Crumb, 0, len(parts))
	path := ""
	for _, part := range parts {
		path += part + "/"
		crumbs = append(crumbs, Crumb{Name: part, Path: path})
	}
	return crumbs
}

// isImageKey reports whether key carries one of the recognized image
// extensions, case-insensitively.
func (s *Service) isImageKey(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range s.cfg.Extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// lastSegment returns the final path segment of a key or prefix.
func lastSegment(key string) string {
	key = strings.TrimSuffix(key, "/")
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}

// cacheKey joins cache key parts with a separator that cannot appear in
// bucket names.
func cacheKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}
