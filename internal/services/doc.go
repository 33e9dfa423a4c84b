// Package services defines the error taxonomy shared across the intake
// pipeline and the HTTP surface.
//
// Components tag failures with one of the exported sentinel errors via Wrap,
// and the API layer maps the tag to an HTTP status and a stable category
// string. Keeping classification in one place means no handler ever has to
// inspect error text to decide how to respond.
package services
