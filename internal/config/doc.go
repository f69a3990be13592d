// Package config loads and validates application configuration from the
// environment. Settings are grouped by concern (server, database, auth,
// review, task) and every group is validated on load so the rest of the
// application can assume a well-formed Config.
package config
