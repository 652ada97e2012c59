package player

import (
	"errors"
	"fmt"
)

const (
	EventPlay             = "play"
	EventPause            = "pause"
	EventTogglePlay       = "toggle-play"
	EventVolume           = "volume"
	EventToggleMute       = "toggle-mute"
	EventSeekStart        = "seek-start"
	EventSeekChange       = "seek-change"
	EventSeekCommit       = "seek-commit"
	EventTimeUpdate       = "timeupdate"
	EventProgress         = "progress"
	EventWaiting          = "waiting"
	EventCanPlay          = "canplay"
	EventPlaying          = "playing"
	EventPaused           = "paused"
	EventToggleFullscreen = "toggle-fullscreen"
	EventFullscreenChange = "fullscreenchange"
	EventQuality          = "quality"
	EventError            = "error"
	EventRetry            = "retry"
	EventLoad             = "load"
)

var ErrUnknownEvent = errors.New("Unknown player event")
var ErrInvalidQuality = errors.New("Invalid quality")

// Event is an intent from a display control or an event from the media
// element, as received from the page. Only the fields relevant to Name are read.
type Event struct {
	Name        string         `json:"name"`
	Value       float64        `json:"value"`
	CurrentTime float64        `json:"currentTime"`
	Duration    float64        `json:"duration"`
	BufferedEnd float64        `json:"bufferedEnd"`
	Active      bool           `json:"active"`
	Quality     string         `json:"quality"`
	Code        MediaErrorCode `json:"code"`
	Message     string         `json:"message"`
	Source      string         `json:"source"`
}

func Apply(c *Controller, e Event) error {
	switch e.Name {
	case EventPlay:
		c.Play()
	case EventPause:
		c.Pause()
	case EventTogglePlay:
		c.TogglePlay()
	case EventVolume:
		c.SetVolume(e.Value)
	case EventToggleMute:
		c.ToggleMute()
	case EventSeekStart:
		c.SeekStart()
	case EventSeekChange:
		c.SeekChange(e.Value)
	case EventSeekCommit:
		c.SeekCommit(e.Value)
	case EventTimeUpdate:
		c.OnTimeUpdate(e.CurrentTime, e.Duration)
	case EventProgress:
		c.OnProgress(e.BufferedEnd, e.Duration)
	case EventWaiting:
		c.OnBufferingStart()
	case EventCanPlay:
		c.OnCanPlay()
	case EventPlaying:
		c.OnPlaying()
	case EventPaused:
		c.OnPaused()
	case EventToggleFullscreen:
		c.ToggleFullscreen()
	case EventFullscreenChange:
		c.OnFullscreenChange(e.Active)
	case EventQuality:
		q, ok := ParseQuality(e.Quality)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidQuality, e.Quality)
		}
		c.SetQuality(q)
	case EventError:
		c.OnError(MediaError{Code: e.Code, Message: e.Message})
	case EventRetry:
		c.RetryLoad()
	case EventLoad:
		c.Load(e.Source)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, e.Name)
	}

	return nil
}
