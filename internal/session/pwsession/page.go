package pwsession

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/playwright-community/playwright-go"

	"github.com/chaty-app/chaty-e2e/internal/session"
)

type pageSession struct {
	opts Options
	bctx playwright.BrowserContext
	page playwright.Page
}

// timeoutMs caps the playwright timeout by the context deadline so a blocking
// driver call never outlives the caller.
func (s *pageSession) timeoutMs(ctx context.Context, def float64) float64 {
	if deadline, ok := ctx.Deadline(); ok {
		remaining := float64(time.Until(deadline).Milliseconds())
		if remaining < def {
			if remaining < 1 {
				return 1
			}

			return remaining
		}
	}

	return def
}

func (s *pageSession) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(s.timeoutMs(ctx, float64(s.opts.NavigationTimeout.Milliseconds()))),
		WaitUntil: playwright.WaitUntilStateLoad,
	})

	return errors.Wrapf(err, "goto %s", url)
}

func (s *pageSession) locate(loc session.Locator) playwright.Locator {
	switch {
	case loc.Label != "":
		return s.page.GetByLabel(loc.Label, playwright.PageGetByLabelOptions{
			Exact: playwright.Bool(loc.Exact),
		})
	case loc.Role != "":
		opts := playwright.PageGetByRoleOptions{
			Exact: playwright.Bool(loc.Exact),
		}
		if loc.Name != "" {
			opts.Name = loc.Name
		}

		return s.page.GetByRole(playwright.AriaRole(loc.Role), opts)
	default:
		return s.page.GetByText(loc.Text, playwright.PageGetByTextOptions{
			Exact: playwright.Bool(loc.Exact),
		})
	}
}

func (s *pageSession) Fill(ctx context.Context, loc session.Locator, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.locate(loc).First().Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(s.timeoutMs(ctx, float64(s.opts.ActionTimeout.Milliseconds()))),
	})

	return errors.Wrapf(err, "fill %s", loc)
}

func (s *pageSession) Click(ctx context.Context, loc session.Locator) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.locate(loc).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(s.timeoutMs(ctx, float64(s.opts.ActionTimeout.Milliseconds()))),
	})

	return errors.Wrapf(err, "click %s", loc)
}

func (s *pageSession) IsVisible(ctx context.Context, loc session.Locator) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	visible, err := s.locate(loc).First().IsVisible()
	if err != nil {
		return false, errors.Wrapf(err, "check visibility of %s", loc)
	}

	return visible, nil
}

func (s *pageSession) URL() string {
	return s.page.URL()
}

func (s *pageSession) Close() error {
	if err := s.page.Close(); err != nil {
		_ = s.bctx.Close()
		return errors.Wrap(err, "failed to close page")
	}

	return errors.Wrap(s.bctx.Close(), "failed to close browser context")
}
