package domain

import "errors"

var (
	// ErrCacheMiss is returned by MetadataCache.Get when no live entry
	// exists for a URL. The fetch pipeline treats it (and any other read
	// error) as a miss and proceeds to fetch.
	ErrCacheMiss = errors.New("metadata cache: miss")

	// ErrFetchTimeout marks a page fetch that exceeded its deadline, as
	// opposed to a generic network failure.
	ErrFetchTimeout = errors.New("fetch: timed out")

	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("record not found")
)
