package ui

import (
	"github.com/redcliffe/strum/internal/models"
	"github.com/redcliffe/strum/internal/tasks"
)

// artistsFetchedMsg carries the artist listing response.
type artistsFetchedMsg struct {
	artists []models.Artist
	err     error
}

// songsFetchedMsg carries one artist's song listing response.
type songsFetchedMsg struct {
	artistID int
	songs    []models.Song
	err      error
}

// searchFinishedMsg carries a catalog search response together with the
// surface token the request was issued under.
type searchFinishedMsg struct {
	token   string
	results []models.SearchResult
	err     error
}

// downloadFinishedMsg carries the outcome of an add-to-collection attempt.
type downloadFinishedMsg struct {
	outcome tasks.DownloadOutcome
}

// reloadMsg triggers a full refetch of the current song listing. Sent by the
// workflow engine's reload timer after a successful import.
type reloadMsg struct{}

// stateChangedMsg signals that state owned outside the event loop changed
// (notification expiry, playback completion) and the view must redraw.
type stateChangedMsg struct{}
