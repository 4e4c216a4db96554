package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-vault-envelope/internal/cli"
	"github.com/MKhiriev/go-vault-envelope/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	code := cli.Execute(ctx, cli.NewRootCommand(cli.DefaultOptions(buildInfo)))

	stop()
	os.Exit(code)
}
