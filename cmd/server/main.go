package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"

	"geotrackd/config"
	"geotrackd/module/core"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := config.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	db, driver, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	if amqpConn != nil {
		defer func() { _ = amqpConn.Close() }()
	}

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	if mqttClient != nil {
		defer mqttClient.Disconnect(250)
	}

	coreModule, err := core.Build(context.Background(), db, driver, amqpConn, mqttClient, logger)
	if err != nil {
		log.Fatalf("core module: %v", err)
	}

	if err := coreModule.StartSubscribers(); err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.Default()

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	health.Register(r)

	coreModule.RegisterRoutes(r.Group("/api"))

	logger.Info("listening", "port", cfg.HTTPPort, "driver", driver)
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatalf("server: %v", err)
	}
}
