// Package authtoken attaches the application's auth token to outgoing
// requests the same way the browser client does: the token persisted under
// StorageKey is sent in the HeaderName header.
package authtoken

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	HeaderName = "AUTH"
	StorageKey = "authToken"
)

// Source yields the token to attach. An empty token means none.
type Source interface {
	Token(ctx context.Context) (string, error)
}

// StaticSource always returns the same token.
type StaticSource string

func (s StaticSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// Expired reports whether token is a JWT whose exp claim is before now.
// Tokens that are not JWTs, or carry no exp, never expire.
func Expired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(now)
}

// Transport is an http.RoundTripper setting the auth header from Source.
type Transport struct {
	Base   http.RoundTripper
	Source Source

	now func() time.Time
}

func NewTransport(base http.RoundTripper, src Source) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{Base: base, Source: src, now: time.Now}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil || req.Header.Get(HeaderName) != "" {
		return t.Base.RoundTrip(req)
	}

	token, err := t.Source.Token(req.Context())
	if err != nil {
		return nil, errors.Wrap(err, "failed to get auth token")
	}

	if token == "" {
		return t.Base.RoundTrip(req)
	}

	now := time.Now
	if t.now != nil {
		now = t.now
	}

	if Expired(token, now()) {
		klog.V(4).Infof("Not attaching expired auth token to %s", req.URL)
		return t.Base.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set(HeaderName, token)

	return t.Base.RoundTrip(req)
}
