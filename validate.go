package alwaysserve

import (
	"fmt"
	"net/http"
	"time"
)

// etag returns the validator for a file of the given size and
// modification time, in the form "<size>-<mtime in milliseconds>".
// Two files with identical size and timestamp get the same tag, so this
// is a weak validator: it detects size or timestamp changes, not
// content changes at identical size and time.
func etag(size int64, modTime time.Time) string {
	return fmt.Sprintf("%d-%d", size, modTime.UnixMilli())
}

// isModified reports whether a full response is needed, given the
// validators on the request and the candidate response headers.
//
// An If-None-Match token is compared byte for byte against the ETag.
// If-Modified-Since is checked next; an unparseable date is ignored.
// The date comparison is less-or-equal at second granularity, matching
// the resolution of HTTP dates.
func isModified(reqHeader, resHeader http.Header) bool {
	if noneMatch := reqHeader.Get("If-None-Match"); noneMatch != "" {
		if noneMatch == resHeader.Get("ETag") {
			return false
		}
	}
	if modifiedSince := reqHeader.Get("If-Modified-Since"); modifiedSince != "" {
		if lastModified := resHeader.Get("Last-Modified"); lastModified != "" {
			since, err := http.ParseTime(modifiedSince)
			if err != nil {
				return true
			}
			modified, err := http.ParseTime(lastModified)
			if err == nil && !modified.After(since) {
				return false
			}
		}
	}
	return true
}
