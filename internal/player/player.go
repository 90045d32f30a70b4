// Package player owns the single active playback session.
//
// At most one song is audible at a time. The session slot is mutated only by
// [Controller.Play] and the completion callback, both under the controller's
// mutex; a signal from a superseded session is detected by comparing session
// pointers against the active slot and ignored.
package player

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/redcliffe/strum/internal/notify"
)

const (
	offlineMessage  = "You are offline. Only cached songs can be played."
	playbackMessage = "Error playing song. Please try again."
)

// Control is the UI control bound to a playback session. SetPlaying reflects
// the play/pause state; only one control is ever in the playing state.
type Control interface {
	SetPlaying(bool)
}

// Handle is a live playable resource.
type Handle interface {
	// Start begins playback without blocking.
	Start() error
	// Wait blocks until playback ends naturally or fails. After Stop the
	// return value is not meaningful.
	Wait() error
	// Stop terminates playback.
	Stop()
}

// HandleFactory builds a Handle for a playable source (stream URL or cached
// file path).
type HandleFactory func(source string) Handle

// Prober reports whether the catalog server is reachable. Checked at
// failure time to pick the offline message.
type Prober interface {
	Healthy(ctx context.Context) bool
}

type session struct {
	songID  int
	control Control
	handle  Handle
}

// Opts contains the dependencies for creating a Controller.
type Opts struct {
	Factory  HandleFactory
	Resolve  func(songID int) string // Maps a song to its playable source
	Prober   Prober
	Notifier *notify.Service
	Logger   *log.Logger
	OnChange func() // Invoked after asynchronous state changes (TUI redraw hook)
}

// Controller implements the playback state machine: Idle or Playing, with
// toggle-to-stop and stop-then-start supersede semantics.
type Controller struct {
	mu       sync.Mutex
	active   *session
	factory  HandleFactory
	resolve  func(songID int) string
	prober   Prober
	notifier *notify.Service
	logger   *log.Logger
	onChange func()
}

// NewController creates a playback controller.
func NewController(opts Opts) *Controller {
	return &Controller{
		factory:  opts.Factory,
		resolve:  opts.Resolve,
		prober:   opts.Prober,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		onChange: opts.OnChange,
	}
}

// Play starts, toggles, or replaces playback.
//
//   - No active session: start one for songID and mark control playing.
//   - Active session on the same control: stop it and return to idle.
//   - Active session on a different control: stop the old session, reset its
//     control, then start the new one. No intermediate state shows two
//     controls playing.
func (c *Controller) Play(songID int, control Control) {
	c.mu.Lock()

	if prev := c.active; prev != nil {
		c.active = nil
		prev.handle.Stop()
		prev.control.SetPlaying(false)

		if prev.control == control {
			c.mu.Unlock()
			c.changed()
			return
		}
	}

	sess := &session{
		songID:  songID,
		control: control,
		handle:  c.factory(c.resolve(songID)),
	}

	control.SetPlaying(true)
	c.active = sess

	if err := sess.handle.Start(); err != nil {
		control.SetPlaying(false)
		c.active = nil
		c.mu.Unlock()

		if c.logger != nil {
			c.logger.Error("playback failed to start", "song_id", songID, "error", err)
		}
		c.reportFailure()
		c.changed()
		return
	}

	c.mu.Unlock()
	c.changed()

	go c.watch(sess)
}

// watch waits for the session's handle and routes its completion signal.
func (c *Controller) watch(sess *session) {
	err := sess.handle.Wait()

	c.mu.Lock()
	if c.active != sess {
		// Superseded session; its late signal must not touch the
		// current one.
		c.mu.Unlock()
		return
	}
	c.active = nil
	sess.control.SetPlaying(false)
	c.mu.Unlock()

	if err != nil {
		if c.logger != nil {
			c.logger.Error("playback failed", "song_id", sess.songID, "error", err)
		}
		c.reportFailure()
	}
	c.changed()
}

// reportFailure emits the playback-error notification, branching on
// connectivity probed now rather than at play time.
func (c *Controller) reportFailure() {
	if c.notifier == nil {
		return
	}

	message := playbackMessage
	if c.prober != nil && !c.prober.Healthy(context.Background()) {
		message = offlineMessage
	}
	c.notifier.Error(message)
}

// Playing returns the active song ID, or false when idle.
func (c *Controller) Playing() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return 0, false
	}
	return c.active.songID, true
}

// Stop terminates the active session, if any, and returns its control to
// idle. Used on shutdown.
func (c *Controller) Stop() {
	c.mu.Lock()
	prev := c.active
	c.active = nil
	if prev != nil {
		prev.handle.Stop()
		prev.control.SetPlaying(false)
	}
	c.mu.Unlock()

	if prev != nil {
		c.changed()
	}
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
