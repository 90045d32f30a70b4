package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redcliffe/strum/internal/shared"
	tu "github.com/redcliffe/strum/internal/testing"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// An in-memory database exists per connection; pin the pool to one.
	shared.ConfigureDatabase(db, 1, 1)
	t.Cleanup(func() { db.Close() })

	registry, err := NewRegistry(db, t.TempDir())
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	return registry
}

func TestRegistry(t *testing.T) {
	t.Run("Miss On Empty Index", func(t *testing.T) {
		registry := newTestRegistry(t)

		if _, ok := registry.Path(1); ok {
			t.Error("expected miss on empty index")
		}
		if registry.Contains(1) {
			t.Error("expected Contains false on empty index")
		}
	})

	t.Run("Record Then Hit", func(t *testing.T) {
		registry := newTestRegistry(t)

		path := filepath.Join(registry.dir, "5.mp3")
		if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if err := registry.record(5, path, 5); err != nil {
			t.Fatalf("failed to record: %v", err)
		}

		got, ok := registry.Path(5)
		if !ok || got != path {
			t.Errorf("expected hit at %s, got %s (ok=%v)", path, got, ok)
		}
	})

	t.Run("Duplicate Record Is Ignored", func(t *testing.T) {
		registry := newTestRegistry(t)

		path := filepath.Join(registry.dir, "5.mp3")
		if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if err := registry.record(5, path, 5); err != nil {
			t.Fatalf("first record failed: %v", err)
		}
		if err := registry.record(5, path, 5); err != nil {
			t.Errorf("second record should be a no-op, got %v", err)
		}
	})

	t.Run("Stale Row Reports Miss", func(t *testing.T) {
		registry := newTestRegistry(t)

		path := filepath.Join(registry.dir, "9.mp3")
		if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if err := registry.record(9, path, 5); err != nil {
			t.Fatalf("failed to record: %v", err)
		}
		os.Remove(path)

		if _, ok := registry.Path(9); ok {
			t.Error("expected miss for an indexed file missing on disk")
		}
	})
}

func TestWorker(t *testing.T) {
	t.Run("Caches Enqueued Song", func(t *testing.T) {
		registry := newTestRegistry(t)
		svc := &tu.MockService{}
		worker := NewWorker(registry, svc, 100, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		worker.Register(ctx)
		worker.Enqueue(3)

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) && !registry.Contains(3) {
			time.Sleep(10 * time.Millisecond)
		}

		path, ok := registry.Path(3)
		if !ok {
			t.Fatal("expected song to be cached")
		}
		content := tu.MustReadFile(t, path)
		if content != "audio" {
			t.Errorf("unexpected cached content: %q", content)
		}

		// No .part files left behind.
		entries, err := os.ReadDir(registry.dir)
		if err != nil {
			t.Fatalf("failed to read cache dir: %v", err)
		}
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".part" {
				t.Errorf("leftover partial file: %s", e.Name())
			}
		}
	})

	t.Run("Already Cached Song Is Skipped", func(t *testing.T) {
		registry := newTestRegistry(t)
		svc := &tu.MockService{}
		worker := NewWorker(registry, svc, 100, nil)

		path := filepath.Join(registry.dir, "3.mp3")
		if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if err := registry.record(3, path, 3); err != nil {
			t.Fatalf("failed to record: %v", err)
		}

		if err := worker.cacheSong(context.Background(), 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if content := tu.MustReadFile(t, path); content != "old" {
			t.Errorf("cached file was overwritten: %q", content)
		}
	})

	t.Run("Register Is Idempotent", func(t *testing.T) {
		registry := newTestRegistry(t)
		worker := NewWorker(registry, &tu.MockService{}, 100, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		worker.Register(ctx)
		worker.Register(ctx)
		worker.Enqueue(1)

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) && !registry.Contains(1) {
			time.Sleep(10 * time.Millisecond)
		}
		if !registry.Contains(1) {
			t.Error("expected song to be cached")
		}
	})

	t.Run("Full Queue Drops Without Blocking", func(t *testing.T) {
		registry := newTestRegistry(t)
		worker := NewWorker(registry, &tu.MockService{}, 100, nil)

		// Worker never registered, so the queue only drains by capacity.
		done := make(chan struct{})
		go func() {
			for i := 0; i < 100; i++ {
				worker.Enqueue(i)
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Enqueue blocked on a full queue")
		}
	})
}
