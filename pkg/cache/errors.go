package cache

import "errors"

// Sentinel errors for caching operations.
var (
	// ErrCacheMiss is returned by helpers that treat absence as an
	// error; [Cache.Get] itself reports misses through its bool.
	ErrCacheMiss = errors.New("cache miss")

	// ErrClosed is returned when a backend is used after Close.
	ErrClosed = errors.New("cache closed")
)
