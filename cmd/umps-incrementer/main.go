// Command umps-incrementer runs the C10 persistent-counter service (spec
// §4.8) as a replier behind a ROUTER/DEALER request/reply proxy.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/uofuseismo/umps/internal/config"
	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/proxy"
	"github.com/uofuseismo/umps/internal/services/incrementer"
	"github.com/uofuseismo/umps/internal/uerrors"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// workerBackendAddress is the proxy-internal address the incrementer's
// own replier dials into; only the proxy's frontend (incINI.BackendAddress)
// is ever advertised to requestors.
const workerBackendAddress = "inproc://umps-incrementer-workers"

func main() {
	iniPath := flag.String("ini", "umps.ini", "Path to the [Incrementer] INI configuration")
	configPath := flag.String("config", "umps.yaml", "Path to the ambient YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := ulogging.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	logger := ulogging.Get().WithComponent("umps-incrementer")

	incINI, err := config.LoadIncrementerSection(*iniPath)
	if err != nil {
		logger.Error("failed to load Incrementer section", err)
		os.Exit(1)
	}
	if incINI.SQLite3FileName == "" || incINI.BackendAddress == "" {
		logger.Error("Incrementer.sqlite3FileName and backendAddress are required", nil)
		os.Exit(1)
	}

	counter, err := incrementer.Open(incINI.SQLite3FileName, false)
	if err != nil {
		logger.Error("failed to open counter store", err)
		os.Exit(1)
	}
	defer counter.Close()

	for _, item := range incrementer.DefaultItems {
		if err := counter.AddItem(item, incINI.InitialValue, int64(incINI.Increment)); err != nil {
			if uerrors.Is(err, uerrors.InvalidArgument) {
				// item already seeded on a prior boot.
				continue
			}
			logger.Error("failed to seed default item", err, "item", item)
			os.Exit(1)
		}
	}

	ctx := messaging.NewContext(cfg.Context.IOThreads)
	defer ctx.Close()

	relay := proxy.NewRequestReplyProxy(logger)
	if err := relay.Initialize(ctx, incINI.BackendAddress, workerBackendAddress); err != nil {
		logger.Error("failed to bind request/reply proxy", err)
		os.Exit(1)
	}
	if err := relay.Start(); err != nil {
		logger.Error("failed to start request/reply proxy", err)
		os.Exit(1)
	}
	defer relay.Stop()

	svc := incrementer.NewService(counter, logger)
	if err := svc.Start(ctx, workerBackendAddress, true); err != nil {
		logger.Error("failed to start incrementer service", err)
		os.Exit(1)
	}
	defer svc.Stop()

	logger.Info("umps-incrementer started", "address", incINI.BackendAddress)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("umps-incrementer shutting down")
}
