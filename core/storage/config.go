package storage

import "strings"

// Config holds configuration for the storage provider.
type Config struct {
	// Enabled turns on thumbnail mirroring and catalog snapshots.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket is the name of the bucket objects are written to.
	Bucket string `mapstructure:"bucket" default:"psn-value"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// PublicBaseURL is the address clients use to read mirrored objects.
	// When empty it is derived from Endpoint and Bucket.
	PublicBaseURL string `mapstructure:"public_base_url" default:""`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// ObjectURL returns the public address of an object in the configured bucket.
func (c Config) ObjectURL(objectName string) string {
	base := strings.TrimRight(c.PublicBaseURL, "/")
	if base == "" {
		endpoint := c.Endpoint
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			scheme := "http://"
			if c.UseSSL {
				scheme = "https://"
			}
			endpoint = scheme + endpoint
		}
		base = strings.TrimRight(endpoint, "/") + "/" + c.Bucket
	}
	return base + "/" + strings.TrimLeft(objectName, "/")
}
