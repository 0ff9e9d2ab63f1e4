package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitrinex/vitrinex/internal/buildinfo"
	"github.com/vitrinex/vitrinex/internal/client/cli"
	"github.com/vitrinex/vitrinex/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, err := cli.NewApp(ctx, cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
