package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrEmptyQuery      = fmt.Errorf("search query is empty")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Transport errors: the catalog server could not be reached or
	// answered with a non-OK status.
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Application errors: the server answered but rejected the operation.
	ErrServerRejected = fmt.Errorf("server rejected request")
	ErrArtistNotFound = fmt.Errorf("artist not found")
	ErrSongNotFound   = fmt.Errorf("song not found")

	// Playback errors
	ErrPlaybackFailed = fmt.Errorf("playback failed")
	ErrOffline        = fmt.Errorf("client is offline")
)
