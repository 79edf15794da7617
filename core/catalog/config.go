package catalog

// Config holds configuration for the storefront HTTP client.
type Config struct {
	// TimeoutSeconds bounds every storefront request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"psn-value/1.0"`
}
