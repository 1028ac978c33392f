package main

import (
	"permitdesk/internal/bookings/handler"
	"permitdesk/internal/bookings/repository"
	"permitdesk/internal/bookings/service"
	bookingvalidator "permitdesk/internal/bookings/validator"
	"permitdesk/pkg/app"
	"permitdesk/pkg/client"
	"permitdesk/pkg/config"
	"permitdesk/pkg/kafka"
	kafka_config "permitdesk/pkg/kafka/config"
)

func main() {
	cfg := config.Load("bookings")
	cfg.SetMongo()

	producer, err := kafka.NewProducer(kafka_config.Load(cfg.KafkaBrokers), cfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer func() { _ = producer.Close() }()

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	holdRepo := repository.NewMongoHoldLockRepository(cfg)
	availabilityAPI := client.NewAvailabilityClient(cfg.AvailabilityAPIBaseURL, cfg.Log)

	bookingService := service.NewBookingService(
		cfg,
		bookingRepo,
		holdRepo,
		bookingvalidator.NewBookingValidator(),
		producer,
		availabilityAPI,
	)

	application := app.NewApplication(cfg)
	application.SetApp(handler.NewBookingHandler(cfg, bookingService))
	application.Run()
}
