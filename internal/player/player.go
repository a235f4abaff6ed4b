// Package player models playback state for a single media stream: the same
// rules the watch page applies in the browser, kept here so playback
// telemetry is validated server-side before a resume position is stored.
package player

import "math"

// Event is a state change reported by the media element. Media events, not
// toggle calls, are the source of truth for whether playback is running, so
// the controller stays consistent when playback is interrupted externally.
type Event int

const (
	EventPlay Event = iota
	EventPause
	EventEnded
	EventError
)

// Controller owns playback state for one stream URL. It holds no playlist;
// next/previous are resolved by the catalog layer. State lives only for the
// duration of a watch-page visit and is never shared between videos.
type Controller struct {
	src      string
	playing  bool
	progress float64 // percent, 0..100
	position float64 // seconds
	volume   float64 // 0..1
	duration float64 // seconds, 0 until metadata is known
	failed   bool
}

func New(src string) *Controller {
	return &Controller{src: src, volume: 1}
}

func (c *Controller) Src() string       { return c.src }
func (c *Controller) Playing() bool     { return c.playing }
func (c *Controller) Progress() float64 { return c.progress }
func (c *Controller) Position() float64 { return c.position }
func (c *Controller) Volume() float64   { return c.volume }
func (c *Controller) Duration() float64 { return c.duration }
func (c *Controller) Failed() bool      { return c.failed }

// TogglePlay flips the play intent and returns the requested state. The
// intent is provisional until the media element confirms it through
// HandleEvent.
func (c *Controller) TogglePlay() bool {
	if c.failed {
		return false
	}
	c.playing = !c.playing
	return c.playing
}

// HandleEvent reconciles state from a media-element event.
func (c *Controller) HandleEvent(e Event) {
	switch e {
	case EventPlay:
		c.playing = true
	case EventPause, EventEnded:
		c.playing = false
	case EventError:
		c.playing = false
		c.failed = true
	}
}

// Skip moves the position by delta seconds, clamped to [0, duration], and
// returns the new position. With unknown duration only the lower bound
// applies.
func (c *Controller) Skip(delta float64) float64 {
	pos := c.position + delta
	if pos < 0 {
		pos = 0
	}
	if c.duration > 0 && pos > c.duration {
		pos = c.duration
	}
	c.position = pos
	c.syncProgress()
	return c.position
}

// OnTimeUpdate records the playback clock. A zero or undefined total (media
// metadata not loaded yet) leaves progress unchanged.
func (c *Controller) OnTimeUpdate(current, total float64) {
	if math.IsNaN(current) || current < 0 {
		return
	}
	if math.IsNaN(total) || total <= 0 {
		c.position = current
		return
	}
	c.duration = total
	if current > total {
		current = total
	}
	c.position = current
	c.progress = current / total * 100
}

// SeekTo relocates playback to a percent of the duration. Progress is
// updated optimistically to the requested value; the next time update
// reconciles it. Returns the absolute target position in seconds.
func (c *Controller) SeekTo(percent float64) float64 {
	if math.IsNaN(percent) {
		return c.position
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	c.progress = percent
	if c.duration > 0 {
		c.position = percent / 100 * c.duration
	}
	return c.position
}

// SetVolume clamps the requested level to [0,1] and returns the applied
// value.
func (c *Controller) SetVolume(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	c.volume = level
	return c.volume
}

func (c *Controller) syncProgress() {
	if c.duration > 0 {
		c.progress = c.position / c.duration * 100
	}
}
