package cachekey

import (
	"fmt"
	"net/http"
)

// Key identifies one cached response snapshot. It is the undecoded
// request URI (path plus query string) used verbatim, so differently
// encoded spellings of the same path are distinct cache entries.
type Key string

var errorEmptyKey = fmt.Errorf("Cache key is empty")

// FromRequest returns the cache key for a request.
func FromRequest(r *http.Request) Key {
	return Key(r.URL.RequestURI())
}

// Parse validates an externally supplied key string, e.g. one given
// on an administrative purge call.
func Parse(s string) (Key, error) {
	if s == "" {
		return "", errorEmptyKey
	}
	return Key(s), nil
}

func (k Key) String() string {
	return string(k)
}
