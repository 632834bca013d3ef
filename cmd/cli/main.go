package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kidslabs/catalog/internal/buildinfo"
	"github.com/kidslabs/catalog/internal/cli"
	"github.com/kidslabs/catalog/internal/flagx"
	"github.com/kidslabs/catalog/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg, os.Stdout, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.Run(ctx, flagx.StripArgs(os.Args[1:], config.FlagNames))
	stop()

	os.Exit(code)
}
