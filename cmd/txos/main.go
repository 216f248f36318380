package main

import (
	"github.com/linagelabs/txos/internal/application/marketindex"
	"github.com/linagelabs/txos/internal/application/profileservice"
	"github.com/linagelabs/txos/internal/application/txbuilder"
	"github.com/linagelabs/txos/internal/infrastructure/database"
	"github.com/linagelabs/txos/internal/infrastructure/http/clients"
	"github.com/linagelabs/txos/internal/infrastructure/rpc"
	"github.com/linagelabs/txos/internal/repositories/prefsrepo"
	"github.com/linagelabs/txos/internal/server"
	"github.com/linagelabs/txos/pkg/config"
	"github.com/linagelabs/txos/pkg/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log = logger.NewWithConfig(cfg.Logger)

	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.ShutDown()

	prefsRepo := prefsrepo.New(db)

	suiClient, err := rpc.NewSuiClient(&cfg.Sui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize ledger RPC client")
	}
	aggregatorClient := clients.NewAggregatorClient(cfg.Aggregator, log)

	txBuilderService := txbuilder.New(suiClient, aggregatorClient, cfg.Sui, log)
	profileService := profileservice.New(suiClient, cfg.Sui, log)
	marketService := marketindex.New(suiClient, cfg.Sui, log)

	srv := server.New(cfg, txBuilderService, profileService, marketService, prefsRepo, log)
	srv.Start()
}
