package main

import (
	"context"
	"motorpool/config"
	"motorpool/di"
	"motorpool/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	consumer := di.InitializeConsumer()
	go consumer.Run(context.Background())

	http := di.InitializeService()
	http.Serve()
}
