package e2e_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chaty-app/chaty-e2e/internal/activation"
	"github.com/chaty-app/chaty-e2e/internal/report"
)

var _ = Describe("Auth flows", Ordered, Label("auth"), func() {
	var first *report.Report

	It("should pass every shipped suite", func(ctx SpecContext) {
		runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		r, err := runner.Run(runCtx)
		Expect(err).NotTo(HaveOccurred())

		GinkgoWriter.Println(report.Text(r))
		Expect(r.Failed).To(BeZero())
		Expect(r.Skipped).To(BeZero())

		first = r
	})

	It("should reproduce the same outcomes with fresh seed data", func(ctx SpecContext) {
		Expect(first).NotTo(BeNil())

		runCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		second, err := runner.Run(runCtx)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.RunID).NotTo(Equal(first.RunID))

		equal, diff, err := report.Compare(first, second)
		Expect(err).NotTo(HaveOccurred())
		Expect(equal).To(BeTrue(), diff)
	})

	It("should expose pending activation links", func(ctx SpecContext) {
		By("Registering an account without activating it")
		r, err := runner.Run(ctx, filepath.Join(cfg.SuitesDir, "register.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.OK()).To(BeTrue())

		By("Reading the debug activation endpoint")
		links, err := activation.NewClient(activation.Options{BaseURL: cfg.BaseURL}).Links(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(links).NotTo(BeEmpty())
	})
})
