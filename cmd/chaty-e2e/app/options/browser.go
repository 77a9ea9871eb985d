package options

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/chaty-app/chaty-e2e/internal/session/pwsession"
)

type BrowserOptions struct {
	Browser           string
	Headed            bool
	SlowMo            time.Duration
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	AuthToken         string
	Headers           map[string]string
}

func NewBrowserOptions() *BrowserOptions {
	return &BrowserOptions{
		Browser:           pwsession.BrowserChromium,
		NavigationTimeout: 30 * time.Second,
		ActionTimeout:     5 * time.Second,
		Headers:           map[string]string{},
	}
}

func (o *BrowserOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Browser, "browser", o.Browser, "browser engine: chromium, firefox or webkit")
	fs.BoolVar(&o.Headed, "headed", o.Headed, "show the browser window")
	fs.DurationVar(&o.SlowMo, "slow-mo", o.SlowMo, "delay between browser operations")
	fs.DurationVar(&o.NavigationTimeout, "navigation-timeout", o.NavigationTimeout, "page load timeout")
	fs.DurationVar(&o.ActionTimeout, "action-timeout", o.ActionTimeout, "timeout of a single fill or click")
	fs.StringVar(&o.AuthToken, "auth-token", o.AuthToken, "auth token seeded into browser storage before each session")
	fs.StringToStringVar(&o.Headers, "header", o.Headers, "extra http header as name=value; may be repeated")
}

func (o *BrowserOptions) Validate() error {
	switch o.Browser {
	case pwsession.BrowserChromium, pwsession.BrowserFirefox, pwsession.BrowserWebkit:
	default:
		return errors.Errorf("unsupported browser %q", o.Browser)
	}

	if o.NavigationTimeout <= 0 || o.ActionTimeout <= 0 {
		return errors.New("browser timeouts must be positive")
	}

	return nil
}

func (o *BrowserOptions) Config() pwsession.Options {
	return pwsession.Options{
		Browser:           o.Browser,
		Headless:          !o.Headed,
		SlowMo:            o.SlowMo,
		NavigationTimeout: o.NavigationTimeout,
		ActionTimeout:     o.ActionTimeout,
		ExtraHTTPHeaders:  o.Headers,
		AuthToken:         o.AuthToken,
	}
}
