package common

import "time"

const (
	// AppName identifies adthand to the notification server and in logs.
	AppName = "adthand"

	// SocketPath is the well-known control channel. It is intentionally
	// not configurable: clients and the daemon must agree without any
	// shared configuration.
	SocketPath = "/tmp/adthand"

	// DefaultCity and DefaultCountry are used when the config omits them.
	DefaultCity    = "Toronto"
	DefaultCountry = "Canada"

	// DefaultAPIURL is the Aladhan prayer timings API.
	DefaultAPIURL = "https://api.aladhan.com/v1"

	// DefaultRetryDelay is the fixed delay between failed fetch attempts.
	DefaultRetryDelay = 10 * time.Second

	// DefaultNotificationSummary and DefaultNotificationTimeout describe
	// the desktop notification raised when an event fires.
	DefaultNotificationSummary = "Adthan"
	DefaultNotificationTimeout = 6 * time.Second
)
