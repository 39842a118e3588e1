package alwaysserve

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestResolveRejectsTraversal(t *testing.T) {
	paths := []string{
		"/../etc/passwd",
		"/a/../../b",
		"/%2e%2e/secret",
		"/a/%2E%2E/b",
		"/..%2fconfig",
		"/..",
	}
	for _, p := range paths {
		if _, err := resolve("/srv/www", p, []string{"index.html"}); err == nil {
			t.Errorf("Expected %s to be rejected", p)
		}
	}
}

func TestResolveAllowsDotsInNames(t *testing.T) {
	paths := []string{"/app..js", "/releases/v1..2/notes.txt", "/.well-known/health"}
	for _, p := range paths {
		if _, err := resolve("/srv/www", p, []string{"index.html"}); err != nil {
			t.Errorf("Expected %s to be allowed: %v", p, err)
		}
	}
}

func TestResolveJoinsRoot(t *testing.T) {
	got, err := resolve("/srv/www", "/css/site.css", []string{"index.html"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join("/srv/www", "css", "site.css")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolved to %v, expected %v", got, want)
	}
}

func TestResolveDecodesEscapes(t *testing.T) {
	got, err := resolve("/srv/www", "/my%20file.txt", []string{"index.html"})
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != filepath.Join("/srv/www", "my file.txt") {
		t.Errorf("Resolved to %v", got)
	}
}

func TestResolveTrailingSlash(t *testing.T) {
	got, err := resolve("/srv/www", "/docs/", []string{"default.htm", "index.html"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join("/srv/www", "docs", "default.htm"),
		filepath.Join("/srv/www", "docs", "index.html"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolved to %v, expected %v", got, want)
	}
}

func TestResolveRejectsBadEscape(t *testing.T) {
	if _, err := resolve("/srv/www", "/bad%zzescape", []string{"index.html"}); err == nil {
		t.Error("Expected invalid escape to be rejected")
	}
}
