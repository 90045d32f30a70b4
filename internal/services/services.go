package services

import (
	"context"
	"io"

	"github.com/redcliffe/strum/internal/models"
)

// Service defines the interface for a music catalog server.
type Service interface {
	// ListArtists retrieves all artists in the local collection.
	ListArtists(ctx context.Context) ([]models.Artist, error)

	// ListSongs retrieves the songs of one artist.
	ListSongs(ctx context.Context, artistID int) ([]models.Song, error)

	// SearchSongs queries the external catalog scoped by query and artist
	// name. An empty result set is not an error. A server-side search
	// failure is reported as an error wrapping shared.ErrServerRejected
	// with the server-supplied message.
	SearchSongs(ctx context.Context, query, artist string) ([]models.SearchResult, error)

	// ImportSong asks the server to import one search result into the
	// artist's collection. The returned result may carry Success=false
	// with a server-supplied message; the error return covers transport
	// and decoding failures only.
	ImportSong(ctx context.Context, artistID int, req models.DownloadRequest) (*models.ImportResult, error)

	// StreamURL returns the playable stream endpoint for a stored song.
	StreamURL(songID int) string

	// FetchSong streams the raw song file into w and reports bytes written.
	FetchSong(ctx context.Context, songID int, w io.Writer) (int64, error)

	// Healthy reports whether the server is reachable right now. Used at
	// playback-failure time to pick the offline-specific message.
	Healthy(ctx context.Context) bool

	// Name returns the name of the service for display
	Name() string
}
