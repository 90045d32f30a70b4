// Package services defines interface [Service] for the music catalog server
// HTTP API and its concrete implementation [CatalogClient].
//
// The client covers the five endpoint groups the terminal UI consumes:
// library listings, external catalog search, the add-to-collection import,
// the per-song stream/fetch endpoints, and the health probe used to decide
// whether the client is offline.
package services
