package apiclient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/butcherdesk/internal/client/credentials"
)

// Kind classifies client failures.
type Kind int

const (
	// KindRequestFailed covers non-401 failures, a 401 on an already replayed
	// request, a 401 with no refresh token, and transport errors.
	KindRequestFailed Kind = iota + 1
	// KindRefreshFailed means the refresh endpoint rejected the refresh token.
	// Stored credentials have been cleared; the user must sign in again.
	KindRefreshFailed
	// KindAuthExpired is the 401 that starts a refresh. Never returned to callers.
	KindAuthExpired
	// KindStorageUnavailable means the credential store could not be written.
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindRequestFailed:
		return "request failed"
	case KindRefreshFailed:
		return "token refresh failed"
	case KindAuthExpired:
		return "access token expired"
	case KindStorageUnavailable:
		return "credential storage unavailable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrRequestFailed = errors.New("request failed")
	ErrRefreshFailed = errors.New("token refresh failed")
	ErrAuthExpired   = errors.New("access token expired")

	errNoAccessInResponse = errors.New("response carries no access token")
)

// Error is the failure returned by every client call.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Method != "" {
		fmt.Fprintf(&b, ": %s %s", e.Method, e.Path)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return e.Kind == KindRequestFailed
	case ErrRefreshFailed:
		return e.Kind == KindRefreshFailed
	case ErrAuthExpired:
		return e.Kind == KindAuthExpired
	case credentials.ErrStorageUnavailable:
		return e.Kind == KindStorageUnavailable
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
