package server

import "strconv"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BasePath prefixes every API route.
	BasePath string `mapstructure:"base_path" default:"/api"`
}

// IsValidPort checks that Port is a usable TCP port number.
func (c Config) IsValidPort() bool {
	p, err := strconv.Atoi(c.Port)
	return err == nil && p > 0 && p <= 65535
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}
