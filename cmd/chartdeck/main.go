// Command chartdeck renders the car-sales analytics dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chartdeck/chartdeck/cmd"
	"github.com/chartdeck/chartdeck/internal/contract"
	"github.com/chartdeck/chartdeck/internal/runstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd.SetRunManager(runstore.Manager)
	err := cmd.Execute(ctx)

	stop()
	runstore.CloseRunStore()
	contract.SyncLogger()
	if err != nil {
		contract.LogFatal("chartdeck failed", err)
	}
}
