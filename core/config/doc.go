// Package config provides configuration management for psn-value.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of each
// partial configuration.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials for thumbnails and catalog snapshots
//   - Log: Logging level and format
//   - Catalog: storefront client timeout and user agent
//   - Sync: default rating, minimum price, thumbnail tag, insert delay
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.MinimumPrice)
package config
