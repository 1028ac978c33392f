package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvKafkaBrokers           = "KAFKA_BROKERS"
	EnvBookingEventsTopic     = "BOOKING_EVENTS_TOPIC"
	EnvAvailabilityTopic      = "AVAILABILITY_TOPIC"
	EnvAvailabilityGroupID    = "AVAILABILITY_GROUP_ID"
	EnvAvailabilityAPIBaseURL = "AVAILABILITY_API_BASE_URL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDepositFraction          = "DEPOSIT_FRACTION"
	EnvLowAvailabilitySlots     = "LOW_AVAILABILITY_SLOTS"
	EnvTopUpWindowDays          = "TOP_UP_WINDOW_DAYS"
	EnvDashboardRefreshInterval = "DASHBOARD_REFRESH_INTERVAL"
	EnvAvailabilityPollInterval = "AVAILABILITY_POLL_INTERVAL"
	EnvHoldLockTTL              = "HOLD_LOCK_TTL"
)
