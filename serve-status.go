package alwaysserve

import "fmt"

type ServeStatusStatus string

const (
	ServeStatusHit = "hit"
	ServeStatusFwd = "fwd"
)

type ServeStatusFwdReason string

const (
	// The response cache was disabled for this instance.
	ServeStatusFwdBypass = "bypass"

	// The request carried validators, so the cache was skipped and
	// the file revalidated against the filesystem.
	ServeStatusFwdRequest = "request"

	// The cache did not contain a snapshot for the request key.
	ServeStatusFwdMiss = "miss"
)

// ServeStatus describes how a response was produced, reported to the
// client in the Serve-Status header.
type ServeStatus struct {
	status    ServeStatusStatus
	detail    string
	fwdReason ServeStatusFwdReason
}

func (s *ServeStatus) Hit() {
	s.status = ServeStatusHit
}

func (s *ServeStatus) Forward(reason ServeStatusFwdReason) {
	s.status = ServeStatusFwd
	s.fwdReason = reason
}

func (s *ServeStatus) Detail(detail string) {
	s.detail = detail
}

func (s *ServeStatus) IsHit() bool {
	return s.status == ServeStatusHit
}

func (s *ServeStatus) String() string {
	status := fmt.Sprintf("Always-Serve; %s", s.status)
	if s.status == "fwd" && s.fwdReason != "" {
		status = fmt.Sprintf("%s=%s", status, s.fwdReason)
	}
	if s.detail != "" {
		status = status + "; detail=" + s.detail
	}
	return status
}
