package util

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ResolveURL resolves ref against base. Absolute refs are returned unchanged.
func ResolveURL(base, ref string) (string, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return "", errors.Wrapf(err, "invalid url %q", ref)
	}

	if r.IsAbs() {
		return r.String(), nil
	}

	b, err := url.Parse(strings.TrimSuffix(base, "/"))
	if err != nil {
		return "", errors.Wrapf(err, "invalid base url %q", base)
	}

	if !strings.HasPrefix(r.Path, "/") && r.Path != "" {
		r.Path = "/" + r.Path
	}

	return b.ResolveReference(&url.URL{
		Path:     b.Path + r.Path,
		RawQuery: r.RawQuery,
		Fragment: r.Fragment,
	}).String(), nil
}

// SameURL reports whether a and b address the same resource. An empty path
// equals "/" and scheme/host comparison is case-insensitive.
func SameURL(a, b string) bool {
	ua, errA := url.Parse(strings.TrimSpace(a))
	ub, errB := url.Parse(strings.TrimSpace(b))

	if errA != nil || errB != nil {
		return a == b
	}

	return strings.EqualFold(ua.Scheme, ub.Scheme) &&
		strings.EqualFold(ua.Host, ub.Host) &&
		normalizePath(ua.Path) == normalizePath(ub.Path) &&
		ua.RawQuery == ub.RawQuery
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}

	return p
}

// IsBaseURL reports whether s can prefix navigation paths: an http(s) URL
// with a host and without query or fragment.
func IsBaseURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != "" && u.RawQuery == "" && u.Fragment == ""
}
