package main

import (
	"homestay/internal/bookings/events"
	"homestay/internal/bookings/handler"
	"homestay/internal/bookings/repository"
	"homestay/internal/bookings/service"
	"homestay/internal/bookings/validator"
	listingsrepo "homestay/internal/listings/repository"
	notificationsrepo "homestay/internal/notifications/repository"
	notificationsservice "homestay/internal/notifications/service"
	usersrepo "homestay/internal/users/repository"
	"homestay/pkg/app"
	"homestay/pkg/config"
	"homestay/pkg/kafka"
	kafka_middleware "homestay/pkg/kafka/middleware"
	"homestay/pkg/metrics"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")
	m := metrics.New()
	serverApp := app.NewApplication(cfg, m)

	publisher := initPublisher(cfg, m, serverApp)
	bookingService := initServices(cfg, m, publisher)
	serverApp.OnShutdown(bookingService.Drain)

	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

// initPublisher sends booking events to Kafka when events are enabled and
// otherwise writes notifications in-process.
func initPublisher(cfg *config.Config, m *metrics.Metrics, serverApp *app.Application) service.EventPublisher {
	if !cfg.EventsEnabled {
		notifications := notificationsservice.NewNotificationService(
			notificationsrepo.NewMongoNotificationRepository(cfg),
			usersrepo.NewMongoUserRepository(cfg),
			m,
			cfg,
		)
		cfg.Log.Info("Booking events delivered in-process")
		return events.NewLocalPublisher(notifications.HandleBookingEvent)
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.Kafka.BookingEventsTopic, cfg.Kafka.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if cfg.Kafka.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.NewMetrics(m.Registry()).ProducerMiddleware())
	}
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	})

	cfg.Log.Info("Booking events published to Kafka", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer, ServiceName)
}

func initServices(cfg *config.Config, m *metrics.Metrics, publisher service.EventPublisher) service.BookingService {
	bookingService := service.NewBookingService(
		repository.NewMongoBookingRepository(cfg),
		repository.NewBookingLockRepository(cfg),
		listingsrepo.NewMongoListingRepository(cfg),
		usersrepo.NewMongoUserRepository(cfg),
		validator.NewBookingValidator(cfg.Log),
		cfg,
		service.WithMetrics(m),
		service.WithPublisher(publisher),
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
