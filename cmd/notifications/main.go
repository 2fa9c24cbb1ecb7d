package main

import (
	"homestay/internal/notifications/consumer"
	"homestay/internal/notifications/handler"
	"homestay/internal/notifications/repository"
	"homestay/internal/notifications/service"
	usersrepo "homestay/internal/users/repository"
	"homestay/pkg/app"
	"homestay/pkg/config"
	"homestay/pkg/kafka"
	kafka_middleware "homestay/pkg/kafka/middleware"
	"homestay/pkg/metrics"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Notifications service")
	m := metrics.New()
	notificationService := service.NewNotificationService(
		repository.NewMongoNotificationRepository(cfg),
		usersrepo.NewMongoUserRepository(cfg),
		m,
		cfg,
	)

	serverApp := app.NewApplication(cfg, m)
	if cfg.EventsEnabled {
		initConsumer(cfg, m, serverApp, notificationService)
	}
	serverApp.SetApp(handler.NewNotificationHandler(notificationService, cfg.Log))
	serverApp.Run()
}

func initConsumer(cfg *config.Config, m *metrics.Metrics, serverApp *app.Application, svc service.NotificationService) {
	c, err := kafka.NewConsumer(
		cfg.Kafka,
		cfg.Kafka.BookingEventsTopic,
		cfg.Kafka.NotificationsGroupID,
		cfg.Kafka.BookingEventsDLQTopic,
		consumer.NewBookingEventHandler(svc, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		c.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		c.Use(kafka_middleware.NewMetrics(m.Registry()).ConsumerMiddleware())
	}

	serverApp.AddWorker(c.Start)
	serverApp.OnShutdown(func() {
		if err := c.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	})
	cfg.Log.Info("Consuming booking events",
		"topic", cfg.Kafka.BookingEventsTopic,
		"group_id", cfg.Kafka.NotificationsGroupID,
	)
}
