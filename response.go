package alwaysserve

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// buildHeaders assembles the full header set for a resolved file.
func buildHeaders(filename string, info os.FileInfo, maxAge time.Duration) http.Header {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(http.Header)
	header.Set("Content-Type", contentType)
	header.Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	header.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int64(maxAge.Seconds())))
	header.Set("ETag", etag(info.Size(), info.ModTime()))
	return header
}

// stripContentHeaders removes all headers describing the body.
// A 304 must not re-assert a body description, so every header whose
// name begins with "Content" is dropped before sending one.
func stripContentHeaders(header http.Header) {
	for name := range header {
		if strings.HasPrefix(name, "Content") {
			header.Del(name)
		}
	}
}

// copyHeadersTo copies the headers from one http.Header to another.
func copyHeadersTo(dst, src http.Header) {
	for name, values := range src {
		for _, value := range values {
			dst.Set(name, value)
		}
	}
}
