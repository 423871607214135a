package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wdk/amazon-connect-foundation/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.DefaultRuntime(), os.Args[1:])
	stop()
	os.Exit(code)
}
