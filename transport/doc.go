// Package transport performs the actual HTTP requests against the Advanced
// API and maps every outcome - success envelope, API-level error envelope,
// transport failure - into the Result type. It is invoked exclusively
// through the resilience executor and never retries on its own.
package transport
