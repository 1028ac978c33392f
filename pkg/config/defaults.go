package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "permitdesk"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultKafkaBrokers           = "localhost:9092"
	DefaultBookingEventsTopic     = "permitdesk.booking-events"
	DefaultAvailabilityTopic      = "permitdesk.availability"
	DefaultAvailabilityGroupID    = "permitdesk-availability"
	DefaultAvailabilityAPIBaseURL = "http://localhost:8090"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Deposit threshold as a fraction of the booking total.
	DefaultDepositFraction = 0.30

	// "Low availability" means fewer open slots than this.
	DefaultLowAvailabilitySlots = 40

	// Bookings within this many calendar days of their trek date and not
	// fully settled are "top-up due".
	DefaultTopUpWindowDays = 45

	DefaultDashboardRefreshInterval = 30 * time.Second
	DefaultAvailabilityPollInterval = 5 * time.Minute

	DefaultHoldLockTTL = 10 * time.Second

	DefaultPaginationLimit = 100
)
