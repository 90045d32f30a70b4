// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/redcliffe/strum/internal/models"
)

// MockService is a configurable test double for [services.Service].
type MockService struct {
	mu sync.Mutex

	Artists       []models.Artist
	Songs         map[int][]models.Song
	SearchResults []models.SearchResult
	SearchErr     error
	ImportResult  *models.ImportResult
	ImportErr     error
	Reachable     bool
	BaseURL       string

	SearchCalls int
	ImportCalls int
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) ListArtists(ctx context.Context) ([]models.Artist, error) {
	return m.Artists, nil
}

func (m *MockService) ListSongs(ctx context.Context, artistID int) ([]models.Song, error) {
	if songs, ok := m.Songs[artistID]; ok {
		return songs, nil
	}
	return nil, fmt.Errorf("artist not found")
}

func (m *MockService) SearchSongs(ctx context.Context, query, artist string) ([]models.SearchResult, error) {
	m.mu.Lock()
	m.SearchCalls++
	m.mu.Unlock()

	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchResults, nil
}

func (m *MockService) ImportSong(ctx context.Context, artistID int, req models.DownloadRequest) (*models.ImportResult, error) {
	m.mu.Lock()
	m.ImportCalls++
	m.mu.Unlock()

	if m.ImportErr != nil {
		return nil, m.ImportErr
	}
	if m.ImportResult != nil {
		return m.ImportResult, nil
	}
	return &models.ImportResult{Success: true}, nil
}

func (m *MockService) StreamURL(songID int) string {
	return fmt.Sprintf("%s/play/%d", m.BaseURL, songID)
}

func (m *MockService) FetchSong(ctx context.Context, songID int, w io.Writer) (int64, error) {
	n, err := w.Write([]byte("audio"))
	return int64(n), err
}

func (m *MockService) Healthy(ctx context.Context) bool { return m.Reachable }

// Calls returns the recorded search and import call counts.
func (m *MockService) Calls() (search, imports int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SearchCalls, m.ImportCalls
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
