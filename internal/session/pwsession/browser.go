// Package pwsession implements session.Factory on top of playwright-go.
package pwsession

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/internal/authtoken"
	"github.com/chaty-app/chaty-e2e/internal/session"
)

const (
	BrowserChromium = "chromium"
	BrowserFirefox  = "firefox"
	BrowserWebkit   = "webkit"
)

// Options configures the launched browser and every context created from it.
type Options struct {
	Browser           string
	Headless          bool
	SlowMo            time.Duration
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	// ExtraHTTPHeaders are sent with every request of every session.
	ExtraHTTPHeaders map[string]string
	// AuthToken is seeded into local storage before any page script runs,
	// so the client attaches it like a logged-in browser would.
	AuthToken string
}

func (o *Options) applyDefaults() {
	if o.Browser == "" {
		o.Browser = BrowserChromium
	}

	if o.NavigationTimeout == 0 {
		o.NavigationTimeout = 30 * time.Second
	}

	if o.ActionTimeout == 0 {
		o.ActionTimeout = 5 * time.Second
	}
}

// Launcher owns a playwright driver and one browser process.
type Launcher struct {
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
}

var _ session.Factory = &Launcher{}

// Install downloads the driver and the given browser binaries.
func Install(browser string) error {
	if browser == "" {
		browser = BrowserChromium
	}

	return errors.Wrap(playwright.Install(&playwright.RunOptions{
		Browsers: []string{browser},
	}), "failed to install playwright")
}

// Launch starts the playwright driver and the configured browser.
func Launch(opts Options) (*Launcher, error) {
	opts.applyDefaults()

	pw, err := playwright.Run()
	if err != nil {
		return nil, errors.Wrap(err, "failed to start playwright")
	}

	var bt playwright.BrowserType

	switch opts.Browser {
	case BrowserChromium:
		bt = pw.Chromium
	case BrowserFirefox:
		bt = pw.Firefox
	case BrowserWebkit:
		bt = pw.WebKit
	default:
		_ = pw.Stop()
		return nil, errors.Errorf("unsupported browser %q", opts.Browser)
	}

	browser, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, errors.Wrapf(err, "failed to launch %s", opts.Browser)
	}

	klog.Infof("Launched %s (headless=%t, version %s)", opts.Browser, opts.Headless, browser.Version())

	return &Launcher{opts: opts, pw: pw, browser: browser}, nil
}

// NewSession creates an isolated browser context with a single page.
func (l *Launcher) NewSession(_ context.Context) (session.Session, error) {
	bctx, err := l.browser.NewContext(playwright.BrowserNewContextOptions{
		ExtraHttpHeaders: l.opts.ExtraHTTPHeaders,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create browser context")
	}

	if l.opts.AuthToken != "" {
		script := fmt.Sprintf("window.localStorage.setItem(%q, %q);", authtoken.StorageKey, l.opts.AuthToken)
		if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(script)}); err != nil {
			_ = bctx.Close()
			return nil, errors.Wrap(err, "failed to seed auth token")
		}
	}

	bctx.SetDefaultNavigationTimeout(float64(l.opts.NavigationTimeout.Milliseconds()))
	bctx.SetDefaultTimeout(float64(l.opts.ActionTimeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, errors.Wrap(err, "failed to open page")
	}

	return &pageSession{opts: l.opts, bctx: bctx, page: page}, nil
}

// Close shuts the browser and the driver down.
func (l *Launcher) Close() error {
	var errs []error

	if err := l.browser.Close(); err != nil {
		errs = append(errs, errors.Wrap(err, "failed to close browser"))
	}

	if err := l.pw.Stop(); err != nil {
		errs = append(errs, errors.Wrap(err, "failed to stop playwright"))
	}

	return utilerrors.NewAggregate(errs)
}
