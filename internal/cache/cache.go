// Package cache implements the offline asset cache.
//
// A background [Worker] is registered once at startup; it pulls song IDs off
// a queue, fetches their audio files, and records them in a sqlite index.
// Playback resolves songs through [Registry.Path] first, which is why a
// previously played song keeps working while the server is unreachable. The
// rest of the application treats the cache as opaque.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/redcliffe/strum/internal/services"
	"golang.org/x/time/rate"
)

const schema = `
CREATE TABLE IF NOT EXISTS cached_songs (
	song_id INTEGER PRIMARY KEY,
	path TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	cached_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// Registry is the sqlite-backed index of locally cached audio files.
type Registry struct {
	db  *sql.DB
	dir string
}

// NewRegistry creates the cache index, bootstrapping the schema and the
// cache directory.
func NewRegistry(db *sql.DB, dir string) (*Registry, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Registry{db: db, dir: dir}, nil
}

// Path returns the local file for a cached song. A stale index row whose
// file has been removed from disk reports a miss.
func (r *Registry) Path(songID int) (string, bool) {
	var path string
	err := r.db.QueryRow("SELECT path FROM cached_songs WHERE song_id = ?", songID).Scan(&path)
	if err != nil {
		return "", false
	}

	if _, err := os.Stat(path); err != nil {
		return "", false
	}

	return path, true
}

// Contains reports whether a song is cached.
func (r *Registry) Contains(songID int) bool {
	_, ok := r.Path(songID)
	return ok
}

// record indexes a cached file. Re-caching the same song is silently ignored
// via the primary key constraint.
func (r *Registry) record(songID int, path string, size int64) error {
	_, err := r.db.Exec(
		"INSERT INTO cached_songs (song_id, path, size_bytes) VALUES (?, ?, ?)",
		songID, path, size,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") || strings.Contains(err.Error(), "PRIMARY KEY") {
			return nil
		}
		return fmt.Errorf("failed to index cached song: %w", err)
	}
	return nil
}

// Worker caches song files in the background.
type Worker struct {
	registry *Registry
	catalog  services.Service
	limiter  *rate.Limiter
	logger   *log.Logger
	queue    chan int
	once     sync.Once
}

// NewWorker creates a cache worker. rateLimit caps fetches per second.
func NewWorker(registry *Registry, catalog services.Service, rateLimit float64, logger *log.Logger) *Worker {
	if rateLimit <= 0 {
		rateLimit = 1.0
	}
	return &Worker{
		registry: registry,
		catalog:  catalog,
		limiter:  rate.NewLimiter(rate.Limit(rateLimit), 1),
		logger:   logger,
		queue:    make(chan int, 32),
	}
}

// Register starts the background goroutine. Subsequent calls are no-ops; the
// worker runs until ctx is cancelled.
func (w *Worker) Register(ctx context.Context) {
	w.once.Do(func() {
		go w.run(ctx)
	})
}

// Enqueue requests caching of a song. Never blocks; a full queue drops the
// request, the song will be re-enqueued next time it is played.
func (w *Worker) Enqueue(songID int) {
	select {
	case w.queue <- songID:
	default:
	}
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case songID := <-w.queue:
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			if err := w.cacheSong(ctx, songID); err != nil && w.logger != nil {
				w.logger.Warn("failed to cache song", "song_id", songID, "error", err)
			}
		}
	}
}

// cacheSong fetches one song file into the cache directory and indexes it.
func (w *Worker) cacheSong(ctx context.Context, songID int) error {
	if w.registry.Contains(songID) {
		return nil
	}

	path := filepath.Join(w.registry.dir, fmt.Sprintf("%d.mp3", songID))

	f, err := os.CreateTemp(w.registry.dir, fmt.Sprintf("%d-*.part", songID))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}

	n, err := w.catalog.FetchSong(ctx, songID, f)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to fetch song: %w", err)
	}

	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("failed to move cache file: %w", err)
	}

	if err := w.registry.record(songID, path, n); err != nil {
		return err
	}

	if w.logger != nil {
		w.logger.Info("cached song", "song_id", songID, "bytes", n)
	}
	return nil
}
