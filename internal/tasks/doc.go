// Package tasks implements the user-initiated catalog workflows.
//
// The core abstraction is [Engine], which orchestrates the two multi-step
// operations of the client: searching the external catalog and importing a
// search result into an artist's collection. Each workflow calls the catalog
// service once per invocation and converts every asynchronous failure into a
// user-visible notification or an error the results surface renders inline;
// nothing propagates silently.
package tasks
