package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"k8s.io/klog/v2"

	"github.com/chaty-app/chaty-e2e/cmd/chaty-e2e/app/cmd"
)

func main() {
	klog.InitFlags(nil)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		klog.Info("Received shutdown signal, cancelling run")
		cancel()
	}()

	code := cmd.Execute(ctx)

	cancel()
	klog.Flush()
	os.Exit(code)
}
