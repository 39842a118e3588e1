package snapshot

import (
	"net/http"
	"testing"
)

func TestSnapshotSurvivesStorage(t *testing.T) {
	header := make(http.Header)
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Content-Length", "11")
	header.Set("ETag", "11-1664625600000")
	snap := Snapshot{
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       []byte("Hello world"),
	}

	bytes, err := ToBytes(snap)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := FromBytes(bytes)
	if err != nil {
		t.Fatal(err)
	}

	if restored.StatusCode != http.StatusOK {
		t.Errorf("Status is %d", restored.StatusCode)
	}
	if string(restored.Body) != "Hello world" {
		t.Errorf("Body is %s", restored.Body)
	}
	for name := range header {
		if restored.Header.Get(name) != header.Get(name) {
			t.Errorf("Header %s is %q, expected %q", name, restored.Header.Get(name), header.Get(name))
		}
	}
}

func TestFromBytesRejectsGarbage(t *testing.T) {
	if _, err := FromBytes([]byte("not a response")); err == nil {
		t.Error("Expected error for malformed snapshot")
	}
}
