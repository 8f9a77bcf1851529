// Package services sits between the HTTP handlers and the processing
// packages. ReportService turns uploaded files into a cleaned report:
// it validates the uploads, decodes each one with gridloader, runs the
// dataprocessing pipeline and records a trace span and run metrics.
// HealthService answers the health, liveness, readiness and version
// endpoints.
//
// Services take their collaborators through constructors and accept a
// context.Context on every call so handlers can cancel long runs.
package services
