package storage

import "time"

// ObjectInfo describes a single object stored in a bucket.
type ObjectInfo struct {
	// Key is the full object path within the bucket (e.g. "wedding/cover.jpg").
	Key string

	// Size is the byte size of the object.
	Size int64

	// ETag is the object's entity tag / hash, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time
}

// ListResult holds one page of a bucket listing.
type ListResult struct {
	// Prefixes are the immediate child "directories" under the requested
	// prefix. Only populated for delimited listings. Each entry keeps its
	// trailing separator.
	Prefixes []string

	// Objects are the concrete objects under the requested prefix.
	Objects []ObjectInfo

	// Truncated is true when MaxKeys cut the listing short; entries past
	// the cap are silently omitted.
	Truncated bool
}

// ListOptions controls how List filters and caps results.
type ListOptions struct {
	// Prefix restricts results to objects whose key starts with this string.
	// Use "" to list from the bucket root.
	Prefix string

	// Delimited, when true, groups keys at the next "/" after the prefix
	// and reports each distinct group once in ListResult.Prefixes. When
	// false, all objects under the prefix are listed recursively.
	Delimited bool

	// MaxKeys caps the number of object entries returned. 0 means no cap.
	MaxKeys int
}
