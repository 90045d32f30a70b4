package models

import "fmt"

// Artist represents an artist in the local collection.
type Artist struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	SongCount   int    `json:"song_count"`
}

// Song represents a locally stored song that can be streamed or fetched.
type Song struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ArtistID int    `json:"artist_id"`
	Artist   string `json:"artist,omitempty"`
	Duration string `json:"duration,omitempty"` // Display string, e.g. "3:42"
}

// SearchResult represents one candidate song returned by the catalog search.
//
// Immutable once received. Thumbnail and Duration are optional.
type SearchResult struct {
	Name      string `json:"name"`
	Artist    string `json:"artist"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Source    string `json:"source"`
	SourceURL string `json:"source_url"`
}

// Key returns the identity of a search result. Results have no stable server
// ID, so source plus source URL is the identity used for display and
// request construction.
func (r SearchResult) Key() string {
	return fmt.Sprintf("%s|%s", r.Source, r.SourceURL)
}

// DownloadRequest is the request body of the add-to-collection endpoint.
// One per add action; never retried automatically.
type DownloadRequest struct {
	SongName  string `json:"song_name"`
	SourceURL string `json:"source_url"`
	Source    string `json:"source"`
}

// ImportResult is the response body of the add-to-collection endpoint.
type ImportResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
