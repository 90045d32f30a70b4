// HTTP implementation of [Service] for the catalog server API.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redcliffe/strum/internal/models"
	"github.com/redcliffe/strum/internal/shared"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "http://127.0.0.1:5000"
	defaultSearchRate = 5.0
	healthTimeout     = 2 * time.Second
)

// CatalogClient implements [Service] against the catalog server's HTTP API.
//
// Search requests are rate limited. When OAuth2 client-credentials are
// configured the underlying client attaches a bearer token to every request.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOpts contains configuration options for creating a CatalogClient.
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	SearchRate float64

	// Optional client-credentials auth for the admin import endpoint.
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// NewCatalogClient creates a new catalog API client.
func NewCatalogClient(ctx context.Context, opts ClientOpts) *CatalogClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.SearchRate <= 0 {
		opts.SearchRate = defaultSearchRate
	}

	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	if opts.ClientID != "" && opts.ClientSecret != "" && opts.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		}
		client = cc.Client(ctx)
	}

	return &CatalogClient{
		baseURL:    opts.BaseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(opts.SearchRate), 1),
	}
}

func (c *CatalogClient) Name() string {
	return "catalog"
}

// get performs a GET request and decodes the JSON response into result.
func (c *CatalogClient) get(ctx context.Context, path string, result any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}

// do performs an HTTP request against the API and returns the response body.
// Non-2xx statuses are reported as errors wrapping shared.ErrAPIRequest.
func (c *CatalogClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return body, nil
}

// ListArtists retrieves all artists in the collection.
func (c *CatalogClient) ListArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	if err := c.get(ctx, "/api/artists", &artists); err != nil {
		return nil, err
	}
	return artists, nil
}

// ListSongs retrieves the songs of one artist.
func (c *CatalogClient) ListSongs(ctx context.Context, artistID int) ([]models.Song, error) {
	var songs []models.Song
	if err := c.get(ctx, fmt.Sprintf("/api/artists/%d/songs", artistID), &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// SearchSongs queries the external catalog search endpoint.
//
// The endpoint answers with either a JSON array of results or an object
// carrying an "error" field; the latter becomes an error wrapping
// shared.ErrServerRejected so callers can render the message inline.
func (c *CatalogClient) SearchSongs(ctx context.Context, query, artist string) ([]models.SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("artist", artist)

	body, err := c.do(ctx, http.MethodGet, "/api/search_songs?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var results []models.SearchResult
	if err := json.Unmarshal(body, &results); err == nil {
		return results, nil
	}

	var failure struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &failure); err == nil && failure.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrServerRejected, failure.Error)
	}

	return nil, fmt.Errorf("%w: unexpected search response", shared.ErrAPIRequest)
}

// ImportSong posts a download request to the artist-scoped import endpoint.
func (c *CatalogClient) ImportSong(ctx context.Context, artistID int, req models.DownloadRequest) (*models.ImportResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/download/%d", artistID), payload)
	if err != nil {
		return nil, err
	}

	var result models.ImportResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return &result, nil
}

// StreamURL returns the deterministic per-song stream endpoint.
func (c *CatalogClient) StreamURL(songID int) string {
	return fmt.Sprintf("%s/play/%d", c.baseURL, songID)
}

// FetchSong streams the raw song file into w.
func (c *CatalogClient) FetchSong(ctx context.Context, songID int, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/download/%d", c.baseURL, songID), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: transfer interrupted: %v", shared.ErrAPIRequest, err)
	}

	return n, nil
}

// Healthy probes the server's health endpoint with a short deadline.
//
// Called at playback-failure time, not at play time: a cached song can keep
// playing through an outage, so connectivity only matters once something
// goes wrong.
func (c *CatalogClient) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
