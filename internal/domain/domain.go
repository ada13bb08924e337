package domain

import (
	"fmt"
	"time"
)

type Outcome string

const (
	OutcomeValid     Outcome = "valid"
	OutcomeInvalid   Outcome = "invalid"
	OutcomeUnchecked Outcome = "unchecked"
)

type Reason string

const (
	ReasonNone              Reason = ""
	ReasonTimeout           Reason = "timeout"
	ReasonConnectionError   Reason = "connection_error"
	ReasonHTTPStatus        Reason = "http_status"
	ReasonMalformedURL      Reason = "malformed_url"
	ReasonUnsupportedScheme Reason = "unsupported_scheme"
	ReasonTooManyRedirects  Reason = "too_many_redirects"
	ReasonInternal          Reason = "internal"
	ReasonCancelled         Reason = "cancelled"
)

// Verdict is the classification of a single link. Reason is only set when
// Outcome is not OutcomeValid.
type Verdict struct {
	Link       Link
	Outcome    Outcome
	Reason     Reason
	StatusCode int
	Method     string
	Err        error
	Elapsed    time.Duration
}

func Valid(link Link, status int) Verdict {
	return Verdict{Link: link, Outcome: OutcomeValid, StatusCode: status}
}

func Invalid(link Link, reason Reason, err error) Verdict {
	return Verdict{Link: link, Outcome: OutcomeInvalid, Reason: reason, Err: err}
}

func InvalidStatus(link Link, status int) Verdict {
	return Verdict{Link: link, Outcome: OutcomeInvalid, Reason: ReasonHTTPStatus, StatusCode: status}
}

func Unchecked(link Link, err error) Verdict {
	return Verdict{Link: link, Outcome: OutcomeUnchecked, Reason: ReasonCancelled, Err: err}
}

func (v Verdict) IsInvalid() bool {
	return v.Outcome == OutcomeInvalid
}

// Detail renders the reason in a human readable form, e.g. "http_status(404)".
func (v Verdict) Detail() string {
	switch {
	case v.Outcome == OutcomeValid:
		return "ok"
	case v.Reason == ReasonHTTPStatus:
		return fmt.Sprintf("%s(%d)", v.Reason, v.StatusCode)
	default:
		return string(v.Reason)
	}
}

type BlobKind int

const (
	// BlobText is arbitrary text that links are extracted from.
	BlobText BlobKind = iota
	// BlobList holds one link per line and skips extraction.
	BlobList
)

type Blob struct {
	Name string
	Data []byte
	Kind BlobKind
}
