package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redcliffe/strum/internal/models"
	"github.com/redcliffe/strum/internal/notify"
	"github.com/redcliffe/strum/internal/shared"
	tu "github.com/redcliffe/strum/internal/testing"
)

// notificationLog records every stack snapshot after a mutation.
type notificationLog struct {
	mu        sync.Mutex
	snapshots [][]notify.Notification
}

func (l *notificationLog) attach(s *notify.Service) {
	s.SetOnChange(func() {
		l.mu.Lock()
		l.snapshots = append(l.snapshots, s.Stack())
		l.mu.Unlock()
	})
}

func (l *notificationLog) all() [][]notify.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshots
}

func newEngine(svc *tu.MockService, onReload func()) (*Engine, *notify.Service) {
	notifier := notify.NewService(time.Hour)
	engine := NewEngine(Opts{
		Catalog:     svc,
		Notifier:    notifier,
		ReloadDelay: 10 * time.Millisecond,
		OnReload:    onReload,
	})
	return engine, notifier
}

func TestSearch(t *testing.T) {
	t.Run("Empty Query Issues No Network Call", func(t *testing.T) {
		for _, query := range []string{"", "   ", "\t\n"} {
			svc := &tu.MockService{}
			engine, _ := newEngine(svc, nil)

			_, err := engine.Search(context.Background(), query, "Artist")

			if !errors.Is(err, shared.ErrEmptyQuery) {
				t.Errorf("query %q: expected ErrEmptyQuery, got %v", query, err)
			}
			if searches, _ := svc.Calls(); searches != 0 {
				t.Errorf("query %q: expected no search call, got %d", query, searches)
			}
		}
	})

	t.Run("Returns Results", func(t *testing.T) {
		svc := &tu.MockService{
			SearchResults: []models.SearchResult{
				{Name: "Dusty Roads", Artist: "June Hollow", Source: "jamendo", SourceURL: "https://x/1"},
			},
		}
		engine, _ := newEngine(svc, nil)

		results, err := engine.Search(context.Background(), "dusty", "June Hollow")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results) != 1 || results[0].Name != "Dusty Roads" {
			t.Errorf("unexpected results: %+v", results)
		}
	})

	t.Run("Empty Result Set Is Not An Error", func(t *testing.T) {
		svc := &tu.MockService{SearchResults: []models.SearchResult{}}
		engine, _ := newEngine(svc, nil)

		results, err := engine.Search(context.Background(), "nothing", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected empty results, got %d", len(results))
		}
	})

	t.Run("Server Rejection Passes Through", func(t *testing.T) {
		svc := &tu.MockService{
			SearchErr: fmt.Errorf("%w: rate limited", shared.ErrServerRejected),
		}
		engine, _ := newEngine(svc, nil)

		_, err := engine.Search(context.Background(), "anything", "")
		if !errors.Is(err, shared.ErrServerRejected) {
			t.Errorf("expected ErrServerRejected, got %v", err)
		}
	})
}

func TestDownload(t *testing.T) {
	song := models.SearchResult{Name: "Fireside", SourceURL: "https://x/y", Source: "yt"}

	t.Run("Success Sequence", func(t *testing.T) {
		var reloads atomic.Int32
		svc := &tu.MockService{ImportResult: &models.ImportResult{Success: true}}
		engine, notifier := newEngine(svc, func() { reloads.Add(1) })

		log := &notificationLog{}
		log.attach(notifier)

		outcome := engine.Download(context.Background(), 7, song)

		if !outcome.Success || !outcome.CloseSurface {
			t.Errorf("expected success outcome closing the surface, got %+v", outcome)
		}
		if !outcome.ReloadPending {
			t.Error("expected a reload to be pending")
		}

		// Pending info notification first, success after, pending
		// dismissed by the time the call returns.
		snapshots := log.all()
		if len(snapshots) == 0 {
			t.Fatal("expected notification activity")
		}
		first := snapshots[0]
		if len(first) != 1 || first[0].Severity != notify.Info {
			t.Fatalf("expected pending info notification first, got %+v", first)
		}
		if !strings.Contains(first[0].Message, `Downloading song "Fireside"`) {
			t.Errorf("unexpected pending message: %q", first[0].Message)
		}

		final := notifier.Stack()
		if len(final) != 1 {
			t.Fatalf("expected exactly one notification after resolution, got %d", len(final))
		}
		if final[0].Severity != notify.Success {
			t.Errorf("expected success severity, got %v", final[0].Severity)
		}
		if !strings.Contains(final[0].Message, `"Fireside" was added successfully`) {
			t.Errorf("unexpected success message: %q", final[0].Message)
		}

		// Exactly one reload, after the configured delay.
		if reloads.Load() != 0 {
			t.Error("reload must not fire before the delay")
		}
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) && reloads.Load() == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		time.Sleep(30 * time.Millisecond)
		if got := reloads.Load(); got != 1 {
			t.Errorf("expected exactly one reload, got %d", got)
		}

		if _, imports := svc.Calls(); imports != 1 {
			t.Errorf("expected exactly one import call, got %d", imports)
		}
	})

	t.Run("Application Failure", func(t *testing.T) {
		var reloads atomic.Int32
		svc := &tu.MockService{ImportResult: &models.ImportResult{Success: false, Error: "quota exceeded"}}
		engine, notifier := newEngine(svc, func() { reloads.Add(1) })

		outcome := engine.Download(context.Background(), 7, song)

		if outcome.Success || outcome.CloseSurface || outcome.ReloadPending {
			t.Errorf("expected failure outcome keeping the surface, got %+v", outcome)
		}

		stack := notifier.Stack()
		if len(stack) != 1 {
			t.Fatalf("expected exactly one error notification, got %d", len(stack))
		}
		if stack[0].Severity != notify.Error {
			t.Errorf("expected error severity, got %v", stack[0].Severity)
		}
		if !strings.Contains(stack[0].Message, "quota exceeded") {
			t.Errorf("expected server message in notification, got %q", stack[0].Message)
		}

		time.Sleep(50 * time.Millisecond)
		if reloads.Load() != 0 {
			t.Error("failed download must not schedule a reload")
		}
	})

	t.Run("Application Failure Without Message", func(t *testing.T) {
		svc := &tu.MockService{ImportResult: &models.ImportResult{Success: false}}
		engine, notifier := newEngine(svc, nil)

		engine.Download(context.Background(), 7, song)

		stack := notifier.Stack()
		if len(stack) != 1 || !strings.Contains(stack[0].Message, "Unknown error adding song") {
			t.Errorf("expected generic failure message, got %+v", stack)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		svc := &tu.MockService{ImportErr: fmt.Errorf("%w: connection refused", shared.ErrAPIRequest)}
		engine, notifier := newEngine(svc, nil)

		outcome := engine.Download(context.Background(), 7, song)

		if outcome.Success || outcome.CloseSurface {
			t.Errorf("expected failure outcome, got %+v", outcome)
		}
		stack := notifier.Stack()
		if len(stack) != 1 || !strings.Contains(stack[0].Message, "Error downloading song") {
			t.Errorf("expected generic transport message, got %+v", stack)
		}
	})

	t.Run("Concurrent Identical Requests Are Not Deduplicated", func(t *testing.T) {
		svc := &tu.MockService{ImportResult: &models.ImportResult{Success: true}}
		engine, _ := newEngine(svc, nil)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				engine.Download(context.Background(), 7, song)
			}()
		}
		wg.Wait()

		if _, imports := svc.Calls(); imports != 2 {
			t.Errorf("expected two import calls for two invocations, got %d", imports)
		}
	})
}
