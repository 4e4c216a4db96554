package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-vault-envelope/internal/app"
	"github.com/MKhiriev/go-vault-envelope/internal/config"
	"github.com/MKhiriev/go-vault-envelope/internal/logger"
	"github.com/MKhiriev/go-vault-envelope/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(buildInfo)

	log := logger.NewLogger("vault-blobserver")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	log.Debug().
		Str("storage", cfg.Storage.Backend).
		Str("http", cfg.Server.HTTPAddress).
		Str("grpc", cfg.Server.GRPCAddress).
		Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	server, err := app.NewServer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating blob server")
	}

	if err = server.Run(ctx); err != nil {
		log.Error().Err(err).Msg("blob server stopped with error")
		stop()
		os.Exit(1)
	}
}
