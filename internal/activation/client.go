// Package activation reads activation links from the application's debug
// endpoint so suites can activate freshly registered accounts.
package activation

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/internal/authtoken"
	"github.com/chaty-app/chaty-e2e/internal/version"
)

const (
	LinkPath     = "/debug/active-link"
	ActivatePath = "/callback/activate/"
)

// NotFoundError is returned when no activation link exists for a user.
type NotFoundError struct {
	Username string
}

func (e *NotFoundError) Error() string {
	return "no activation link for user " + e.Username
}

type Options struct {
	BaseURL string
	// Timeout bounds how long Token waits for the link to appear.
	Timeout  time.Duration
	Interval time.Duration
	// TokenSource, when set, authenticates requests like the browser client does.
	TokenSource authtoken.Source
}

type Client struct {
	opts       Options
	httpClient *http.Client
}

func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	if opts.Interval == 0 {
		opts.Interval = 500 * time.Millisecond
	}

	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	return &Client{
		opts: opts,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: authtoken.NewTransport(nil, opts.TokenSource),
		},
	}
}

// Links returns every pending activation link keyed by username.
func (c *Client) Links(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+LinkPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch activation links")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read activation links")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("activation links request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return ParseLinks(body)
}

// ParseLinks decodes the endpoint payload. The endpoint answers with a JSON
// string holding the debug rendering of a username to link map; a plain JSON
// object is accepted too.
func ParseLinks(body []byte) (map[string]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.Errorf("invalid activation links payload: %s", string(body))
	}

	doc := gjson.ParseBytes(body)
	if doc.Type == gjson.String {
		if !gjson.Valid(doc.Str) {
			return nil, errors.Errorf("invalid activation links map: %s", doc.Str)
		}

		doc = gjson.Parse(doc.Str)
	}

	if !doc.IsObject() {
		return nil, errors.Errorf("activation links payload is not a map: %s", doc.Raw)
	}

	links := map[string]string{}

	doc.ForEach(func(key, value gjson.Result) bool {
		links[key.String()] = value.String()
		return true
	})

	return links, nil
}

// TokenFromLink returns the activation token carried by link. A bare token is
// returned unchanged.
func TokenFromLink(link string) string {
	if i := strings.LastIndex(link, "/activate/"); i >= 0 {
		link = link[i+len("/activate/"):]
	}

	if i := strings.IndexAny(link, "?#"); i >= 0 {
		link = link[:i]
	}

	return strings.TrimSuffix(link, "/")
}

// Token waits for the activation link of username and returns its token.
func (c *Client) Token(ctx context.Context, username string) (string, error) {
	var (
		token   string
		lastErr error
	)

	err := wait.PollUntilContextTimeout(ctx, c.opts.Interval, c.opts.Timeout, true, func(ctx context.Context) (bool, error) {
		links, err := c.Links(ctx)
		if err != nil {
			klog.V(4).Infof("Activation links not ready: %v", err)
			lastErr = err

			return false, nil
		}

		link, ok := links[username]
		if !ok || link == "" {
			lastErr = &NotFoundError{Username: username}
			return false, nil
		}

		token = TokenFromLink(link)

		return true, nil
	})
	if err != nil {
		if ctx.Err() != nil || lastErr == nil {
			return "", errors.Wrapf(err, "waiting for activation link of %s", username)
		}

		return "", lastErr
	}

	return token, nil
}

// ActivationURL returns the callback url activating token.
func (c *Client) ActivationURL(token string) string {
	return c.opts.BaseURL + ActivatePath + token
}
