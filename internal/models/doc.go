// Package models defines the data model for the strum catalog client.
//
// All types are lightweight DTOs mirroring the catalog server's JSON:
//   - [Artist] / [Song] : entries in the local collection, used by the
//     library views and playback
//   - [SearchResult] : a candidate song from the external catalog search;
//     exists only for the lifetime of one search response and is identified
//     by source + source URL (results carry no stable server ID)
//   - [DownloadRequest] / [ImportResult] : the wire types of the
//     add-to-collection endpoint
//
// None of these are persisted by the client; the offline cache index keeps
// its own minimal schema in internal/cache.
package models
