// Package domain contains the core entities of the braindump application:
// users, categories, cards, per-user card placements, and share contracts.
//
// Entities validate themselves on construction and expose the state
// transitions the rest of the application is allowed to perform. Persistence
// is handled elsewhere (see the store package); everything in this package is
// plain data plus transition rules.
package domain
