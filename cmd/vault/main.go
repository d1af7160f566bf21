package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-pass-vault/internal/client"
	"github.com/MKhiriev/go-pass-vault/internal/config"
	"github.com/MKhiriev/go-pass-vault/internal/logger"
	"github.com/MKhiriev/go-pass-vault/internal/service"
	"github.com/MKhiriev/go-pass-vault/internal/store"
	"github.com/MKhiriev/go-pass-vault/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, args, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "vault: error getting configs:", err)
		return client.ExitUser
	}

	log, err := logger.NewFileLogger("vault", cfg.App.LogFile).WithLevel(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "vault: init logger:", err)
		return client.ExitUser
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Err(err).Msg("open security record store")
		fmt.Fprintln(os.Stderr, "vault: open store:", err)
		return client.ExitInternal
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Err(err).Msg("migrate security record store")
		fmt.Fprintln(os.Stderr, "vault: migrate store:", err)
		return client.ExitInternal
	}

	engine, err := service.NewEngine(cfg, store.NewRepositories(db, log).SecurityRecords, log)
	if err != nil {
		log.Err(err).Msg("create engine")
		fmt.Fprintln(os.Stderr, "vault:", err)
		return client.ExitInternal
	}

	app := client.NewApp(engine, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err = app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "vault:", err)
	}
	return client.ExitCode(err)
}
