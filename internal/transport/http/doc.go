// Package http implements the HTTP handlers of the report cleaner.
//
// Handlers stay thin: they parse the multipart upload and form values,
// validate the form with go-playground/validator, call the services
// layer and render the result with go-chi/render. Every failure goes
// through the shared ErrorHandler so clients receive RFC 7807 problem
// details.
//
//	POST /api/v1/reports/process  files, mode, format -> JSON body or attachment
//	POST /api/v1/reports/detect   files               -> layout of the first file
//	GET  /api/health[/live|/ready], /api/version
//	GET  /metrics
package http
