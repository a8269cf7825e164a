// Command umps-operator runs the C8 connection-info service: the
// well-known address every other module and requestor asks "what is
// broadcasting, and where" (spec §4.6).
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uofuseismo/umps/internal/authentication"
	"github.com/uofuseismo/umps/internal/authentication/zap"
	"github.com/uofuseismo/umps/internal/config"
	"github.com/uofuseismo/umps/internal/messaging"
	"github.com/uofuseismo/umps/internal/messaging/proxy"
	"github.com/uofuseismo/umps/internal/services/command"
	"github.com/uofuseismo/umps/internal/services/connectioninfo"
	"github.com/uofuseismo/umps/internal/ulogging"
)

// moduleRegistryWorkerAddress is the proxy-internal address the module
// registry's own RemoteService replier dials into; only the proxy's
// frontend (moduleRegistryINI.Address) is advertised to modules.
const moduleRegistryWorkerAddress = "inproc://umps-module-registry-workers"

func main() {
	iniPath := flag.String("ini", "umps.ini", "Path to the [uOperator] INI configuration")
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
	logger := ulogging.Get().WithComponent("umps-operator")

	operatorINI, err := config.LoadOperatorSection(*iniPath)
	if err != nil {
		logger.Error("failed to load uOperator section", err)
		os.Exit(1)
	}
	if operatorINI.Address == "" {
		logger.Error("uOperator.address is empty", nil)
		os.Exit(1)
	}

	authenticator := authentication.NewMemoryAuthenticator()
	securityLevel := authentication.Grasslands
	zapService := zap.NewService(authenticator, securityLevel, logger)
	if err := zapService.Start(); err != nil {
		logger.Error("failed to start ZAP service", err)
		os.Exit(1)
	}
	defer zapService.Stop(0)

	ctx := messaging.NewContext(cfg.Context.IOThreads)
	defer ctx.Close()

	registry := connectioninfo.NewRegistry()
	svc := connectioninfo.NewService(registry, logger)
	if err := svc.Start(ctx, operatorINI.Address); err != nil {
		logger.Error("failed to start connection info service", err)
		os.Exit(1)
	}
	defer svc.Stop()

	moduleRegistryINI, err := config.LoadModuleRegistrySection(*iniPath)
	if err != nil {
		logger.Error("failed to load uModuleRegistry section", err)
		os.Exit(1)
	}
	var moduleRegistry *command.Registry
	var liveness *command.LivenessChecker
	if moduleRegistryINI.Address != "" {
		if moduleRegistryINI.SQLite3FileName == "" {
			logger.Error("uModuleRegistry.sqlite3FileName is empty", nil)
			os.Exit(1)
		}
		moduleRegistry, err = command.Open(moduleRegistryINI.SQLite3FileName, false)
		if err != nil {
			logger.Error("failed to open module registry store", err)
			os.Exit(1)
		}
		defer moduleRegistry.Close()

		relay := proxy.NewRequestReplyProxy(logger)
		if err := relay.Initialize(ctx, moduleRegistryINI.Address, moduleRegistryWorkerAddress); err != nil {
			logger.Error("failed to bind module registration proxy", err)
			os.Exit(1)
		}
		if err := relay.Start(); err != nil {
			logger.Error("failed to start module registration proxy", err)
			os.Exit(1)
		}
		defer relay.Stop()

		remote := command.NewRemoteService(moduleRegistry, logger)
		if err := remote.Start(ctx, moduleRegistryWorkerAddress, true); err != nil {
			logger.Error("failed to start module registration service", err)
			os.Exit(1)
		}
		defer remote.Stop()

		liveness = command.NewLivenessChecker(
			moduleRegistry,
			time.Duration(moduleRegistryINI.SweepIntervalMS)*time.Millisecond,
			moduleRegistryINI.EvictionMultiplier,
			logger,
		)
		liveness.Start()
		defer liveness.Stop()

		logger.Info("module registration service started", "address", moduleRegistryINI.Address)
	}

	logger.Info("umps-operator started", "address", operatorINI.Address)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("umps-operator shutting down")
}
