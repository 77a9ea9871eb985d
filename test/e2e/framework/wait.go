package framework

import (
	"context"
	"fmt"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive,stylecheck
	"k8s.io/apimachinery/pkg/util/wait"
)

// WaitOptions configures the wait behavior.
type WaitOptions struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultWaitOptions provides sensible defaults for waiting.
var DefaultWaitOptions = WaitOptions{
	Timeout:  2 * time.Minute,
	Interval: 2 * time.Second,
}

func applyDefaults(opts *WaitOptions) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultWaitOptions.Timeout
	}
	if opts.Interval == 0 {
		opts.Interval = DefaultWaitOptions.Interval
	}
}

// WaitForApplication waits until the login page of the application answers.
func WaitForApplication(ctx context.Context, baseURL string, opts WaitOptions) error {
	applyDefaults(&opts)

	client := &http.Client{Timeout: 10 * time.Second}

	var lastErr error

	err := wait.PollUntilContextTimeout(ctx, opts.Interval, opts.Timeout, true, func(ctx context.Context) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/login", nil)
		if err != nil {
			return false, err
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			GinkgoWriter.Printf("Warning: application not reachable yet: %v\n", err)
			return false, nil
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("GET /login returned %d", resp.StatusCode)
			return false, nil
		}

		return true, nil
	})
	if err != nil && lastErr != nil {
		return fmt.Errorf("timeout waiting for %s (last error: %w)", baseURL, lastErr)
	}

	return err
}
