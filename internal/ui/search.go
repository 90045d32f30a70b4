package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/redcliffe/strum/internal/models"
	"github.com/redcliffe/strum/internal/shared"
)

// surfaceState enumerates the render states of the search results surface.
type surfaceState int

const (
	surfaceClosed surfaceState = iota
	surfaceLoading
	surfaceResults
	surfaceEmpty
	surfaceError
)

// searchSurface is the results-presentation surface of the search workflow.
//
// Every time the surface opens it gets a fresh generation token; responses
// are matched against it so a reply to an abandoned request cannot overwrite
// the current contents.
type searchSurface struct {
	state   surfaceState
	token   string
	query   string
	results list.Model
	message string // Inline validation or error text
}

// open puts the surface in the loading state under a new token and returns
// the token the request must carry.
func (s *searchSurface) open(query string) string {
	s.state = surfaceLoading
	s.token = shared.GenerateID()
	s.query = query
	s.message = ""
	return s.token
}

// close resets the surface and invalidates any in-flight request.
func (s *searchSurface) close() {
	s.state = surfaceClosed
	s.token = ""
	s.message = ""
}

// resolve applies a search response to the surface. Responses carrying a
// stale token are discarded.
func (s *searchSurface) resolve(msg searchFinishedMsg, width, height int) {
	if msg.token != s.token || s.state == surfaceClosed {
		return
	}

	if msg.err != nil {
		s.state = surfaceError
		switch {
		case errors.Is(msg.err, shared.ErrEmptyQuery):
			s.message = "Please enter a search term"
		case errors.Is(msg.err, shared.ErrServerRejected):
			s.message = serverMessage(msg.err)
		default:
			s.message = "Error searching for songs. Please try again."
		}
		return
	}

	if len(msg.results) == 0 {
		s.state = surfaceEmpty
		return
	}

	items := make([]list.Item, len(msg.results))
	for i, r := range msg.results {
		items[i] = resultItem{result: r}
	}
	s.results = list.New(items, list.NewDefaultDelegate(), 0, 0)
	s.results.Title = fmt.Sprintf("Results for '%s'", s.query)
	s.results.SetSize(width-4, height-10)
	s.state = surfaceResults
}

// selected returns the highlighted search result, if any.
func (s *searchSurface) selected() (models.SearchResult, bool) {
	if s.state != surfaceResults {
		return models.SearchResult{}, false
	}
	item := s.results.SelectedItem()
	if item == nil {
		return models.SearchResult{}, false
	}
	ri, ok := item.(resultItem)
	if !ok {
		return models.SearchResult{}, false
	}
	return ri.result, true
}

func (s *searchSurface) view() string {
	switch s.state {
	case surfaceLoading:
		return styles.help.Render("Searching...")
	case surfaceEmpty:
		return styles.warn.Render("No songs found. Try a different search term.")
	case surfaceError:
		return styles.err.Render(s.message)
	case surfaceResults:
		return s.results.View()
	default:
		return ""
	}
}

// serverMessage strips the sentinel prefix from a wrapped server error,
// leaving the server-supplied text.
func serverMessage(err error) string {
	msg := err.Error()
	prefix := shared.ErrServerRejected.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
