package main

import (
	"fmt"
	"os"

	"github.com/DRSN-tech/shop-admin/internal/app"
	config "github.com/DRSN-tech/shop-admin/internal/cfg"
	"github.com/DRSN-tech/shop-admin/pkg/logger"
)

//	@title			Shop Admin API
//	@version		1.0
//	@description	Административный API магазина: категории, товары, заказы, пользователи и настройки.
//	@BasePath		/api/v1

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewZapLogger(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		_ = log.Sync()
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
