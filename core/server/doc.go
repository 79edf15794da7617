// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines
// the configuration structure and its validation: the listen port, the API
// key guarding every route and the base path the features mount under.
package server
