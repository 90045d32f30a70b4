package player

import (
	"fmt"
	"os/exec"
	"sync/atomic"

	"github.com/redcliffe/strum/internal/shared"
)

// processHandle plays a source by launching an external player process.
type processHandle struct {
	cmd     *exec.Cmd
	stopped atomic.Bool
}

func (h *processHandle) Start() error {
	if err := h.cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlaybackFailed, err)
	}
	return nil
}

func (h *processHandle) Wait() error {
	err := h.cmd.Wait()
	if h.stopped.Load() {
		// Killed by Stop; not a playback failure.
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPlaybackFailed, err)
	}
	return nil
}

func (h *processHandle) Stop() {
	h.stopped.Store(true)
	if h.cmd.Process != nil {
		_ = h.cmd.Process.Kill()
	}
}

// NewProcessFactory returns a [HandleFactory] launching the configured
// external player (mpv by default) against the playable source.
func NewProcessFactory(cfg shared.PlayerConfig) HandleFactory {
	command := cfg.Command
	if command == "" {
		command = "mpv"
	}

	return func(source string) Handle {
		args := make([]string, 0, len(cfg.Args)+1)
		args = append(args, cfg.Args...)
		args = append(args, source)
		return &processHandle{cmd: exec.Command(command, args...)}
	}
}
