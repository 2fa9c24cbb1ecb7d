package main

import (
	bookingsrepo "homestay/internal/bookings/repository"
	listingshandler "homestay/internal/listings/handler"
	listingsrepo "homestay/internal/listings/repository"
	listingsservice "homestay/internal/listings/service"
	listingsvalidator "homestay/internal/listings/validator"
	reviewshandler "homestay/internal/reviews/handler"
	reviewsrepo "homestay/internal/reviews/repository"
	reviewsservice "homestay/internal/reviews/service"
	reviewsvalidator "homestay/internal/reviews/validator"
	usersrepo "homestay/internal/users/repository"
	"homestay/pkg/app"
	"homestay/pkg/config"
	"homestay/pkg/metrics"
)

const ServiceName = "listings"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Listings service")
	listingRepo := listingsrepo.NewMongoListingRepository(cfg)

	listingService := listingsservice.NewListingService(
		listingRepo,
		listingsvalidator.NewListingValidator(cfg.Log),
		cfg,
	)
	reviewService := reviewsservice.NewReviewService(
		reviewsrepo.NewMongoReviewRepository(cfg),
		bookingsrepo.NewMongoBookingRepository(cfg),
		listingRepo,
		usersrepo.NewMongoUserRepository(cfg),
		reviewsvalidator.NewReviewValidator(cfg.Log),
		cfg,
	)
	cfg.Log.Info("Listing and review services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg, metrics.New())
	serverApp.SetApp(
		listingshandler.NewListingHandler(listingService, cfg.Log),
		reviewshandler.NewReviewHandler(reviewService, cfg.Log),
	)
	serverApp.Run()
}
