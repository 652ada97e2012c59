// Package player implements the playback controller: the single owner of one
// player's runtime state.
//
// The controller is driven by two kinds of input: intents from the display
// controls (play, seek, volume, ...) and events reported by the media element
// (time updates, buffering, errors, ...). It never assumes a command succeeded;
// the media element's events are the source of truth. Recoverable faults are
// retried with exponential backoff, everything else waits for the user.
package player

import (
	"log/slog"
	"math"
	"sync"

	"github.com/btmxh/folio/internal/clock"
)

type Quality string

const (
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	Quality360p  Quality = "360p"
	QualityAuto  Quality = "auto"
)

func ParseQuality(s string) (Quality, bool) {
	switch q := Quality(s); q {
	case Quality1080p, Quality720p, Quality480p, Quality360p, QualityAuto:
		return q, true
	}

	return "", false
}

// Surface is the media element the controller drives.
type Surface interface {
	// Reload assigns src to the element again and restarts loading.
	Reload(src string)
	SeekTo(fraction float64)
	// SetFullscreen requests entering or leaving fullscreen. The request may be
	// denied; the outcome is reported through OnFullscreenChange.
	SetFullscreen(active bool) error
}

type State struct {
	Source       string  `json:"source"`
	Phase        Phase   `json:"phase"`
	IsPlaying    bool    `json:"isPlaying"`
	Volume       float64 `json:"volume"`
	Muted        bool    `json:"muted"`
	Played       float64 `json:"played"`
	Loaded       float64 `json:"loaded"`
	Duration     float64 `json:"duration"`
	Seeking      bool    `json:"seeking"`
	IsFullscreen bool    `json:"isFullscreen"`
	IsBuffering  bool    `json:"isBuffering"`
	IsReady      bool    `json:"isReady"`
	RetryCount   int     `json:"retryCount"`
	RetryPending bool    `json:"retryPending"`
	Quality      Quality `json:"quality"`
	Error        *Fault  `json:"error"`
}

type Options struct {
	Clock  clock.Clock
	Logger *slog.Logger
	// MaxRetries defaults to MaxRetries.
	MaxRetries int
	// Volume is the initial volume, 1 when zero.
	Volume float64
	// OnPlayingChange is called whenever IsPlaying flips.
	OnPlayingChange func(playing bool)
	// OnChange receives a snapshot after every state change.
	OnChange func(State)
}

type Controller struct {
	mutex           sync.Mutex
	surface         Surface
	clock           clock.Clock
	logger          *slog.Logger
	maxRetries      int
	initialVolume   float64
	onPlayingChange func(bool)
	onChange        func(State)

	state      State
	started    bool
	disposed   bool
	retryTimer clock.Timer
	generation int
}

func NewController(surface Surface, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = MaxRetries
	}
	if opts.Volume <= 0 || opts.Volume > 1 {
		opts.Volume = 1
	}

	c := &Controller{
		surface:         surface,
		clock:           opts.Clock,
		logger:          opts.Logger,
		maxRetries:      opts.MaxRetries,
		initialVolume:   opts.Volume,
		onPlayingChange: opts.OnPlayingChange,
		onChange:        opts.OnChange,
	}
	c.resetLocked("")
	return c
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func validDuration(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0) && d > 0
}

func (c *Controller) resetLocked(src string) {
	c.state = State{
		Source:  src,
		Volume:  c.initialVolume,
		Quality: QualityAuto,
	}
	c.started = false
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	if s.Error != nil {
		fault := *s.Error
		s.Error = &fault
	}

	switch {
	case s.Error != nil:
		s.Phase = PhaseError
	case s.RetryPending:
		s.Phase = PhaseRetrying
	case s.Source == "":
		s.Phase = PhaseIdle
	case !s.IsReady:
		s.Phase = PhaseLoading
	case s.IsBuffering:
		s.Phase = PhaseBuffering
	case s.IsPlaying:
		s.Phase = PhasePlaying
	case c.started:
		s.Phase = PhasePaused
	default:
		s.Phase = PhaseReady
	}

	return s
}

// update runs f under the lock. f reports whether the state changed and may
// return an effect to run once the lock is released. Callbacks also run
// unlocked so they may drive other controllers.
func (c *Controller) update(f func() (changed bool, effect func())) {
	c.mutex.Lock()
	if c.disposed {
		c.mutex.Unlock()
		return
	}

	wasPlaying := c.state.IsPlaying
	changed, effect := f()
	snapshot := c.snapshotLocked()
	c.mutex.Unlock()

	if effect != nil {
		effect()
	}
	if wasPlaying != snapshot.IsPlaying && c.onPlayingChange != nil {
		c.onPlayingChange(snapshot.IsPlaying)
	}
	if changed && c.onChange != nil {
		c.onChange(snapshot)
	}
}

func (c *Controller) State() State {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) stopRetryLocked() {
	c.generation++
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
	c.state.RetryPending = false
}

// Load replaces the media reference. All state is recreated, which is the only
// way RetryCount goes back to zero.
func (c *Controller) Load(src string) {
	c.update(func() (bool, func()) {
		c.stopRetryLocked()
		c.resetLocked(src)
		return true, nil
	})
}

// Dispose cancels any pending retry. Every later call is a no-op.
func (c *Controller) Dispose() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.disposed {
		return
	}
	c.stopRetryLocked()
	c.disposed = true
}

func (c *Controller) Play() {
	c.update(func() (bool, func()) {
		if c.state.Error != nil {
			c.logger.Debug("Play rejected while in error state", "src", c.state.Source)
			return false, nil
		}
		if c.state.IsPlaying {
			return false, nil
		}

		c.state.IsPlaying = true
		return true, nil
	})
}

func (c *Controller) Pause() {
	c.update(func() (bool, func()) {
		if c.state.Error != nil || !c.state.IsPlaying {
			return false, nil
		}

		c.state.IsPlaying = false
		return true, nil
	})
}

func (c *Controller) TogglePlay() {
	if c.State().IsPlaying {
		c.Pause()
	} else {
		c.Play()
	}
}

func (c *Controller) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}

	c.update(func() (bool, func()) {
		c.state.Volume = clamp01(v)
		c.state.Muted = c.state.Volume == 0
		return true, nil
	})
}

// ToggleMute keeps Volume so that unmuting restores it.
func (c *Controller) ToggleMute() {
	c.update(func() (bool, func()) {
		c.state.Muted = !c.state.Muted
		return true, nil
	})
}

func (c *Controller) canSeekLocked() bool {
	return c.state.Error == nil && validDuration(c.state.Duration)
}

func (c *Controller) SeekStart() {
	c.update(func() (bool, func()) {
		if !c.canSeekLocked() {
			return false, nil
		}

		c.state.Seeking = true
		return true, nil
	})
}

func (c *Controller) SeekChange(v float64) {
	c.update(func() (bool, func()) {
		if !c.canSeekLocked() || math.IsNaN(v) {
			return false, nil
		}

		c.state.Played = clamp01(v)
		return true, nil
	})
}

func (c *Controller) SeekCommit(v float64) {
	c.update(func() (bool, func()) {
		if !c.canSeekLocked() || math.IsNaN(v) {
			return false, nil
		}

		c.state.Seeking = false
		c.state.Played = clamp01(v)
		played := c.state.Played
		return true, func() { c.surface.SeekTo(played) }
	})
}

func (c *Controller) OnTimeUpdate(currentTime, duration float64) {
	c.update(func() (bool, func()) {
		if c.state.Seeking || c.state.Error != nil || !validDuration(duration) || math.IsNaN(currentTime) {
			return false, nil
		}

		c.state.Played = clamp01(currentTime / duration)
		c.state.Duration = duration
		return true, nil
	})
}

func (c *Controller) OnProgress(bufferedEnd, duration float64) {
	c.update(func() (bool, func()) {
		if c.state.Error != nil || !validDuration(duration) || math.IsNaN(bufferedEnd) {
			return false, nil
		}

		c.state.Loaded = clamp01(bufferedEnd / duration)
		return true, nil
	})
}

func (c *Controller) OnBufferingStart() {
	c.update(func() (bool, func()) {
		c.state.IsBuffering = true
		return true, nil
	})
}

func (c *Controller) OnCanPlay() {
	c.update(func() (bool, func()) {
		c.state.IsBuffering = false
		if c.state.Error == nil {
			c.state.IsReady = true
		}
		return true, nil
	})
}

// OnPlaying is the media element confirming playback.
func (c *Controller) OnPlaying() {
	c.update(func() (bool, func()) {
		if c.state.Error != nil {
			return false, nil
		}

		c.state.IsBuffering = false
		c.state.IsReady = true
		c.state.IsPlaying = true
		c.started = true
		return true, nil
	})
}

func (c *Controller) OnPaused() {
	c.update(func() (bool, func()) {
		c.state.IsPlaying = false
		return true, nil
	})
}

// ToggleFullscreen only issues the request; IsFullscreen follows
// OnFullscreenChange.
func (c *Controller) ToggleFullscreen() {
	c.update(func() (bool, func()) {
		if c.state.Error != nil {
			return false, nil
		}

		target := !c.state.IsFullscreen
		return false, func() {
			if err := c.surface.SetFullscreen(target); err != nil {
				c.logger.Warn("Fullscreen request denied", "active", target, "err", err)
			}
		}
	})
}

func (c *Controller) OnFullscreenChange(active bool) {
	c.update(func() (bool, func()) {
		c.state.IsFullscreen = active
		return true, nil
	})
}

// SetQuality records the selection only; stream switching is not implemented.
func (c *Controller) SetQuality(q Quality) {
	c.update(func() (bool, func()) {
		c.state.Quality = q
		c.logger.Debug("Quality selected", "quality", q, "src", c.state.Source)
		return true, nil
	})
}

// OnError converts a media element error into the error state. Network faults
// arm an automatic retry; the error stays visible until it fires.
func (c *Controller) OnError(raw MediaError) {
	c.update(func() (bool, func()) {
		c.stopRetryLocked()

		c.state.IsPlaying = false
		c.state.Played = 0
		c.state.Loaded = 0
		c.state.IsBuffering = false
		c.state.IsReady = false

		fault := ClassifyError(c.state.Source, raw)
		fault.Retryable = fault.Retryable && c.state.RetryCount < c.maxRetries
		c.state.Error = &fault

		c.logger.Warn("Playback error",
			"src", c.state.Source,
			"code", raw.Code,
			"message", raw.Message,
			"kind", fault.Kind,
			"retryable", fault.Retryable,
			"retryCount", c.state.RetryCount)

		if fault.Kind == FaultNetwork && fault.Retryable {
			c.scheduleRetryLocked()
		}

		return true, nil
	})
}

// RetryLoad is the manual retry. It clears the error right away and reloads
// the source after the backoff delay. While an automatic retry is pending it
// runs that retry now instead, since its attempt is already counted.
func (c *Controller) RetryLoad() {
	c.update(func() (bool, func()) {
		if c.state.RetryPending {
			c.stopRetryLocked()
			c.state.Error = nil
			c.state.IsBuffering = true
			c.state.IsReady = false

			src := c.state.Source
			return true, func() { c.surface.Reload(src) }
		}

		if c.state.RetryCount >= c.maxRetries {
			return false, nil
		}

		c.stopRetryLocked()
		c.state.Error = nil
		c.state.IsBuffering = true
		c.state.IsReady = false
		c.scheduleRetryLocked()
		return true, nil
	})
}

func (c *Controller) scheduleRetryLocked() {
	delay := RetryDelay(c.state.RetryCount)
	c.state.RetryCount++
	c.state.RetryPending = true

	generation := c.generation
	c.logger.Info("Scheduling playback retry",
		"src", c.state.Source,
		"attempt", c.state.RetryCount,
		"delay", delay)
	c.retryTimer = c.clock.AfterFunc(delay, func() {
		c.fireRetry(generation)
	})
}

func (c *Controller) fireRetry(generation int) {
	c.update(func() (bool, func()) {
		if generation != c.generation {
			return false, nil
		}

		c.retryTimer = nil
		c.state.RetryPending = false
		c.state.Error = nil
		c.state.IsBuffering = true
		c.state.IsReady = false

		src := c.state.Source
		return true, func() { c.surface.Reload(src) }
	})
}
