package main

import (
	"os"

	"github.com/DRSN-tech/petshop-backend/internal/app"
	config "github.com/DRSN-tech/petshop-backend/internal/cfg"
	"github.com/DRSN-tech/petshop-backend/pkg/logger"
)

func main() {
	bootLog := logger.Must(logger.New(""))

	cfg, err := config.Load(bootLog)
	if err != nil {
		bootLog.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		bootLog.Errorf(err, "failed to initialize logger")
		os.Exit(1)
	}
	defer log.Sync()

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Sync()
		os.Exit(1)
	}
}
