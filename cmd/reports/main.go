package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	csvreports "github.com/opstream/ordersync/app/reports"
	"github.com/opstream/ordersync/pkg/reports"
)

func main() {
	report := flag.String("report", "all", "report to export: all, "+strings.Join(reports.AliasNames(), ", "))
	out := flag.String("out", "", "output directory, overrides OUTPUT_DIRECTORY")
	limit := flag.Int("limit", 3, "row limit for the top-N reports")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := csvreports.Initialize(ctx, *out, *limit)

	err := app.Run(ctx, *report)
	app.Close()
	if err != nil {
		os.Exit(1)
	}
}
