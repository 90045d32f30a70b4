package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redcliffe/strum/internal/models"
	"github.com/redcliffe/strum/internal/notify"
	"github.com/redcliffe/strum/internal/services"
	"github.com/redcliffe/strum/internal/shared"
)

// DefaultReloadDelay is how long a successful import waits before refreshing
// the song listing, so the success notification stays readable.
const DefaultReloadDelay = 1500 * time.Millisecond

// DownloadOutcome tells the caller what to do with the results surface after
// an add-to-collection attempt.
type DownloadOutcome struct {
	Success       bool
	CloseSurface  bool // Close the search results surface
	ReloadPending bool // A catalog reload has been scheduled
}

// Opts contains the dependencies for creating an Engine.
type Opts struct {
	Catalog     services.Service
	Notifier    *notify.Service
	Logger      *log.Logger
	ReloadDelay time.Duration
	OnReload    func() // Invoked once per successful import, after ReloadDelay
}

// Engine orchestrates the search and download workflows.
type Engine struct {
	catalog     services.Service
	notifier    *notify.Service
	logger      *log.Logger
	reloadDelay time.Duration
	onReload    func()
}

// NewEngine creates a workflow engine with the provided dependencies.
func NewEngine(opts Opts) *Engine {
	if opts.ReloadDelay <= 0 {
		opts.ReloadDelay = DefaultReloadDelay
	}
	return &Engine{
		catalog:     opts.Catalog,
		notifier:    opts.Notifier,
		logger:      opts.Logger,
		reloadDelay: opts.ReloadDelay,
		onReload:    opts.OnReload,
	}
}

// Search issues one catalog search scoped by query and artist name.
//
// An empty or all-whitespace query is rejected before any network call with
// an error wrapping shared.ErrEmptyQuery. A server-side failure surfaces as
// an error wrapping shared.ErrServerRejected carrying the server message;
// transport and decode failures wrap shared.ErrAPIRequest. All three are
// meant to be rendered inline in the results surface, not as notifications.
// An empty result list is a valid response, not an error.
func (e *Engine) Search(ctx context.Context, query, artistName string) ([]models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: please enter a search term", shared.ErrEmptyQuery)
	}

	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	results, err := e.catalog.SearchSongs(ctx, query, artistName)
	if err != nil {
		if e.logger != nil {
			e.logger.Error("search failed", "query", query, "error", err)
		}
		return nil, err
	}

	return results, nil
}

// Download imports one search result into the artist's collection.
//
// A pending info notification is shown for the whole request and dismissed on
// resolution. Exactly one import call is issued per invocation; concurrent
// identical requests for the same song are not deduplicated. On success the
// outcome closes the results surface and a catalog reload fires after the
// configured delay; on any failure the surface stays open and nothing is
// scheduled.
func (e *Engine) Download(ctx context.Context, artistID int, song models.SearchResult) DownloadOutcome {
	pending := e.notifier.Push(notify.Info, fmt.Sprintf("Downloading song %q...", song.Name), notify.Manual)
	defer e.notifier.Dismiss(pending)

	if e.catalog == nil {
		e.notifier.Error("Error downloading song. Please try again.")
		return DownloadOutcome{}
	}

	result, err := e.catalog.ImportSong(ctx, artistID, models.DownloadRequest{
		SongName:  song.Name,
		SourceURL: song.SourceURL,
		Source:    song.Source,
	})
	if err != nil {
		if e.logger != nil {
			e.logger.Error("import failed", "song", song.Name, "artist_id", artistID, "error", err)
		}
		e.notifier.Error("Error downloading song. Please try again.")
		return DownloadOutcome{}
	}

	if !result.Success {
		message := result.Error
		if message == "" {
			message = "Unknown error adding song"
		}
		e.notifier.Error(fmt.Sprintf("Error: %s", message))
		return DownloadOutcome{}
	}

	e.notifier.Success(fmt.Sprintf("Song %q was added successfully.", song.Name))

	if e.onReload != nil {
		time.AfterFunc(e.reloadDelay, e.onReload)
	}

	return DownloadOutcome{Success: true, CloseSurface: true, ReloadPending: e.onReload != nil}
}
