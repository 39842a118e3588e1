package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Snapshot is a previously computed response: status, headers, and the
// full body as read from disk. A snapshot is never mutated after
// creation; the cache replaces entries wholesale.
type Snapshot struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ToBytes converts a snapshot to a byte slice.
// It returns the HTTP/1.1 representation of the response.
func ToBytes(s Snapshot) ([]byte, error) {
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "HTTP/1.1 %d %s\r\n", s.StatusCode, http.StatusText(s.StatusCode))
	if err := s.Header.Write(buf); err != nil {
		return nil, err
	}
	buf.WriteString("\r\n")
	buf.Write(s.Body)
	return buf.Bytes(), nil
}

// FromBytes converts a byte slice back to a snapshot.
func FromBytes(b []byte) (Snapshot, error) {
	res, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(b)), nil)
	if err != nil {
		return Snapshot{}, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       body,
	}, nil
}
