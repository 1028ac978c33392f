package main

import (
	"context"

	"permitdesk/internal/availability"
	"permitdesk/internal/bookings/repository"
	"permitdesk/pkg/app"
	"permitdesk/pkg/client"
	"permitdesk/pkg/config"
	"permitdesk/pkg/kafka"
	kafka_config "permitdesk/pkg/kafka/config"
)

func main() {
	cfg := config.Load("availability")
	cfg.SetMongo()

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	availabilityAPI := client.NewAvailabilityClient(cfg.AvailabilityAPIBaseURL, cfg.Log)
	worker := availability.NewWorker(cfg, bookingRepo, availabilityAPI)

	consumer, err := kafka.NewConsumer(
		kafka_config.Load(cfg.KafkaBrokers),
		cfg.AvailabilityTopic,
		cfg.AvailabilityGroupID,
		cfg.AvailabilityTopic+".dlq",
		worker.HandleMessage,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer func() { _ = consumer.Close() }()

	application := app.NewApplication(cfg)
	application.SetApp(availability.NewStatusHandler(worker))
	application.AddWorker("availability-consumer", func(ctx context.Context) error {
		return consumer.Start(ctx)
	})
	application.AddWorker("availability-poller", worker.Poll)
	application.Run()
}
