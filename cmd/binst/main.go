package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/tacogips/binst/internal/build"
	"github.com/tacogips/binst/internal/cli"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	build.Set(version, gitCommit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli.Execute(ctx)
}
