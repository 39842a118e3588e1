package cachekey

import (
	"net/http/httptest"
	"testing"
)

func TestFromRequestIncludesQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/assets/app.js?v=3", nil)
	if key := FromRequest(r); key.String() != "/assets/app.js?v=3" {
		t.Errorf("Key is %s", key)
	}
}

func TestFromRequestKeepsEncoding(t *testing.T) {
	r := httptest.NewRequest("GET", "/my%20file.txt", nil)
	if key := FromRequest(r); key.String() != "/my%20file.txt" {
		t.Errorf("Key is %s", key)
	}
}

func TestParseRejectsEmpty(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Error("Expected error for empty key")
	}
}

func TestParse(t *testing.T) {
	key, err := Parse("/index.html")
	if err != nil {
		t.Fatal(err)
	}
	if key.String() != "/index.html" {
		t.Errorf("Key is %s", key)
	}
}
