// Package app wires the report cleaner together: it loads configuration,
// initializes logging and OpenTelemetry, builds the services and mounts
// the HTTP handlers on a chi router.
//
// Middleware order is RequestID, RealIP, tracing, StructuredLogger,
// Recoverer, SecurityHeaders, CORS, rate limiting and Timeout. Upload
// routes additionally cap the body size and require multipart bodies.
//
// Run serves until its context is cancelled and then shuts the server
// down gracefully and flushes telemetry. The package never calls
// os.Exit; initialization errors are returned to main.
package app
