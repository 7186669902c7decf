package main

import (
	"saraf-backend/internal/config"
	"saraf-backend/internal/database"
	"saraf-backend/internal/logger"
	"saraf-backend/internal/server"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)
	database.Init(cfg)

	app := server.New(cfg)

	logger.L.Info("server listening on port ", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.L.Fatal(err)
	}
}
