package pixeldrain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies the outcome of a failed operation.
type Kind int

const (
	KindGeneric Kind = iota
	KindInvalidReference
	KindUnauthorized
	KindNotFound
	KindRateLimited
	KindVirusDetected
	KindLocalIO
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidReference:
		return "invalid reference"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not found"
	case KindRateLimited:
		return "rate limited"
	case KindVirusDetected:
		return "virus detected"
	case KindLocalIO:
		return "local I/O error"
	default:
		return "error"
	}
}

// Error is the outcome of a failed API operation. Every non-success HTTP
// status the client can receive maps to exactly one Kind.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	CaptchaURL string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the outcome kind from an error. Errors that are not API
// errors classify as KindGeneric.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindGeneric
}

// CaptchaURLOf extracts the captcha challenge URL carried by a rate-limited
// or virus-flagged outcome, or "" when the error carries none.
func CaptchaURLOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.CaptchaURL
	}
	return ""
}

// apiMessage is the JSON error body the pixeldrain API returns alongside
// non-success statuses.
type apiMessage struct {
	Success    bool   `json:"success"`
	Value      string `json:"value"`
	Message    string `json:"message"`
	CaptchaURL string `json:"captcha_url"`
}

const (
	markerRateLimited   = "rate_limited_captcha_required"
	markerVirusDetected = "virus_detected_captcha_required"
)

// classifyResponse maps a non-2xx status and its body to an outcome. The
// mapping is total: every status resolves to exactly one kind. fileID is
// used to build the viewer URL surfaced with captcha outcomes.
func classifyResponse(statusCode int, body []byte, fileID string) *Error {
	var msg apiMessage
	_ = json.Unmarshal(body, &msg)

	captchaURL := msg.CaptchaURL
	if captchaURL == "" && fileID != "" {
		captchaURL = ViewerURL(fileID)
	}

	switch statusCode {
	case http.StatusNotFound:
		message := msg.Message
		if message == "" {
			message = "the file could not be found"
		}
		return &Error{Kind: KindNotFound, StatusCode: statusCode, Message: message}

	case http.StatusUnauthorized:
		message := msg.Message
		if message == "" {
			message = "missing or invalid API key"
		}
		return &Error{Kind: KindUnauthorized, StatusCode: statusCode, Message: message}

	case http.StatusForbidden:
		switch {
		case strings.Contains(msg.Value, markerRateLimited):
			return &Error{
				Kind:       KindRateLimited,
				StatusCode: statusCode,
				Message:    nonEmpty(msg.Message, "rate limited, captcha required"),
				CaptchaURL: captchaURL,
			}
		case strings.Contains(msg.Value, markerVirusDetected):
			return &Error{
				Kind:       KindVirusDetected,
				StatusCode: statusCode,
				Message:    nonEmpty(msg.Message, "virus detected") + "; visit the file's page to confirm the download manually",
				CaptchaURL: captchaURL,
			}
		default:
			return &Error{
				Kind:       KindUnauthorized,
				StatusCode: statusCode,
				Message:    nonEmpty(msg.Message, "access forbidden"),
			}
		}

	case http.StatusTooManyRequests:
		return &Error{
			Kind:       KindRateLimited,
			StatusCode: statusCode,
			Message:    nonEmpty(msg.Message, "rate limited, captcha required"),
			CaptchaURL: captchaURL,
		}

	default:
		message := msg.Message
		if message == "" {
			message = strings.TrimSpace(string(body))
		}
		return &Error{Kind: KindGeneric, StatusCode: statusCode, Message: message}
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
