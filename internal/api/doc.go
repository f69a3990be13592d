// Package api provides the HTTP handlers for the service: account
// registration and login, category and card management, review sessions, and
// the share workflow. Handlers translate between the JSON wire format and the
// service layer, mapping service errors to sanitized HTTP responses.
package api
