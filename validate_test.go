package alwaysserve

import (
	"net/http"
	"testing"
	"time"
)

func TestEtagFormat(t *testing.T) {
	modTime := time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)
	want := "1234-1664625600000"
	if got := etag(1234, modTime); got != want {
		t.Errorf("etag is %s, expected %s", got, want)
	}
}

func headersWith(m map[string]string) http.Header {
	h := make(http.Header)
	for name, value := range m {
		h.Set(name, value)
	}
	return h
}

func TestIsModified(t *testing.T) {
	lastModified := time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC)
	resHeader := headersWith(map[string]string{
		"ETag":          "11-1664625600000",
		"Last-Modified": lastModified.Format(http.TimeFormat),
	})

	tests := []struct {
		name string
		req  map[string]string
		want bool
	}{
		{"no validators", nil, true},
		{"matching etag", map[string]string{"If-None-Match": "11-1664625600000"}, false},
		{"different etag", map[string]string{"If-None-Match": "12-1664625600000"}, true},
		{"modified since at boundary", map[string]string{"If-Modified-Since": lastModified.Format(http.TimeFormat)}, false},
		{"modified since later", map[string]string{"If-Modified-Since": lastModified.Add(time.Hour).Format(http.TimeFormat)}, false},
		{"modified since earlier", map[string]string{"If-Modified-Since": lastModified.Add(-time.Hour).Format(http.TimeFormat)}, true},
		{"unparseable date ignored", map[string]string{"If-Modified-Since": "yesterday-ish"}, true},
		{
			"etag match wins over earlier date",
			map[string]string{
				"If-None-Match":     "11-1664625600000",
				"If-Modified-Since": lastModified.Add(-time.Hour).Format(http.TimeFormat),
			},
			false,
		},
	}
	for _, tc := range tests {
		if got := isModified(headersWith(tc.req), resHeader); got != tc.want {
			t.Errorf("%s: isModified is %v, expected %v", tc.name, got, tc.want)
		}
	}
}

func TestIsModifiedWithoutLastModified(t *testing.T) {
	resHeader := headersWith(map[string]string{"ETag": "11-1664625600000"})
	reqHeader := headersWith(map[string]string{
		"If-Modified-Since": time.Now().UTC().Format(http.TimeFormat),
	})
	if !isModified(reqHeader, resHeader) {
		t.Error("Expected modified when response has no Last-Modified")
	}
}
