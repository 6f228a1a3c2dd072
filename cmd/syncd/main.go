package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/opstream/ordersync/app/syncd"
)

func main() {
	once := flag.Bool("once", false, "run a single sync cycle and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := syncd.Initialize(ctx)

	if *once {
		err := app.RunOnce(ctx)
		app.Close()
		if err != nil {
			os.Exit(1)
		}
		return
	}

	app.SetupServer()
	app.Start(ctx)
}
