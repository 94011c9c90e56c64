package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
)

// AuthError is returned when GitHub rejects the credential.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("GitHub rejected the token (bad or missing credential). "+
		"Check GITHUB_PERSONAL_ACCESS_TOKEN is set and not expired: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// RateLimitError is returned when the API quota is exhausted.
type RateLimitError struct {
	// Reset is when the quota is restored. Zero if GitHub did not say.
	Reset time.Time
	Err   error
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return fmt.Sprintf("GitHub API rate limit exceeded. Please wait before trying again: %v", e.Err)
	}
	return fmt.Sprintf("GitHub API rate limit exceeded, resets at %s. Please wait before trying again: %v",
		e.Reset.Local().Format(time.RFC1123), e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// AccessError is returned when the token cannot see the organization or resource.
type AccessError struct {
	Org string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access denied for organization %q. Possible causes: "+
		"the token lacks the 'repo' (or 'public_repo') and 'read:org' scopes, "+
		"the organization name is incorrect, "+
		"or the token has no access to this organization: %v", e.Org, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

// classify maps a go-github error to AuthError, RateLimitError or AccessError.
// Anything else is wrapped with the action that failed.
func classify(err error, org, action string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{Reset: rateErr.Rate.Reset.Time, Err: err}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		reset := time.Time{}
		if d := abuseErr.GetRetryAfter(); d > 0 {
			reset = time.Now().Add(d)
		}
		return &RateLimitError{Reset: reset, Err: err}
	}
	var twoFactorErr *github.TwoFactorAuthError
	if errors.As(err, &twoFactorErr) {
		return &AuthError{Err: err}
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return &AuthError{Err: err}
		case http.StatusForbidden:
			if strings.Contains(strings.ToLower(respErr.Message), "rate limit exceeded") {
				return &RateLimitError{Err: err}
			}
			return &AccessError{Org: org, Err: err}
		case http.StatusNotFound:
			return &AccessError{Org: org, Err: err}
		}
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
