package ui

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/list"
	"github.com/redcliffe/strum/internal/models"
)

var (
	_ list.Item = artistItem{}
	_ list.Item = songItem{}
	_ list.Item = resultItem{}
)

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string {
	desc := fmt.Sprintf("%d songs", i.artist.SongCount)
	if i.artist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.artist.Description)
	}
	return desc
}

// songControl is the playback control bound to one song row. It implements
// player.Control; SetPlaying is invoked from the controller's goroutines, so
// the flag is atomic.
type songControl struct {
	songID  int
	playing atomic.Bool
}

func (c *songControl) SetPlaying(v bool) { c.playing.Store(v) }

// songItem wraps [models.Song] plus its playback control to implement [list.Item].
type songItem struct {
	song    models.Song
	control *songControl
}

func newSongItem(song models.Song) songItem {
	return songItem{song: song, control: &songControl{songID: song.ID}}
}

func (i songItem) FilterValue() string { return i.song.Name }
func (i songItem) Title() string {
	if i.control.playing.Load() {
		return fmt.Sprintf("▶ %s", i.song.Name)
	}
	return i.song.Name
}
func (i songItem) Description() string {
	if i.song.Duration != "" {
		return i.song.Duration
	}
	return "—"
}

// resultItem wraps [models.SearchResult] to implement [list.Item].
type resultItem struct {
	result models.SearchResult
}

func (i resultItem) FilterValue() string { return i.result.Name }
func (i resultItem) Title() string       { return i.result.Name }
func (i resultItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.result.Artist, styles.badge.Render(i.result.Source))
	if i.result.Duration != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.result.Duration)
	}
	if i.result.Thumbnail != "" {
		desc = fmt.Sprintf("%s • ⛶", desc)
	}
	return desc
}
