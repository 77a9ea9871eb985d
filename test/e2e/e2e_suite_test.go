package e2e_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chaty-app/chaty-e2e/test/e2e/framework"
)

var (
	cfg    *framework.Config
	runner *framework.Runner
)

func TestE2E(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "E2E Suite")
}

var _ = BeforeSuite(func() {
	cfg = framework.NewConfigFromEnv()
	if cfg.BaseURL == "" {
		Skip("E2E_BASE_URL is not set")
	}

	GinkgoWriter.Printf("Waiting for %s\n", cfg.BaseURL)
	Expect(framework.WaitForApplication(context.Background(), cfg.BaseURL, framework.WaitOptions{})).To(Succeed())

	var err error
	runner, err = framework.NewRunner(cfg)
	Expect(err).NotTo(HaveOccurred(), "Failed to launch browser, run `chaty-e2e install` first")
})

var _ = AfterSuite(func() {
	if runner != nil {
		Expect(runner.Close()).To(Succeed())
	}

	GinkgoWriter.Println("E2E test suite completed")
})
