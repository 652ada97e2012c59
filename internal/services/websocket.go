package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/btmxh/folio/internal/clock"
	"github.com/btmxh/folio/internal/errs"
	"github.com/btmxh/folio/internal/events"
	"github.com/btmxh/folio/internal/media"
	"github.com/btmxh/folio/internal/player"
	"github.com/dchest/uniuri"
	"golang.org/x/net/websocket"
)

type WebSocketMsgType string
type CommandAction string

const (
	// server -> page
	Handshake WebSocketMsgType = "handshake"
	StateMsg  WebSocketMsgType = "state"
	Command   WebSocketMsgType = "command"
	ErrorMsg  WebSocketMsgType = "error"

	// page -> server
	Mount   WebSocketMsgType = "mount"
	Unmount WebSocketMsgType = "unmount"
	Event   WebSocketMsgType = "event"
	Overlay WebSocketMsgType = "overlay"

	ReloadAction     CommandAction = "reload"
	SeekAction       CommandAction = "seek"
	FullscreenAction CommandAction = "fullscreen"
)

var ErrUnknownMessage = errors.New("Unknown message type.")
var ErrUnknownPlayer = errors.New("No such player on this page.")
var ErrMissingPlayerId = errors.New("Player ID must not be empty.")
var ErrMarkupNotPlayable = errors.New("Embed markup can not be driven by a player.")
var ErrSessionClosed = errors.New("Player session closed.")

type WebSocketMsg struct {
	Type    WebSocketMsgType `json:"type"`
	Payload interface{}      `json:"payload"`
}

type IncomingWebSocketMsg struct {
	Type    WebSocketMsgType `json:"type"`
	Payload json.RawMessage  `json:"payload"`
}

type HandshakePayload struct {
	Id   string `json:"id"`
	Page string `json:"page"`
}

type MountPayload struct {
	Player string  `json:"player"`
	Source string  `json:"source"`
	Volume float64 `json:"volume"`
}

type UnmountPayload struct {
	Player string `json:"player"`
}

type EventPayload struct {
	Player string       `json:"player"`
	Event  player.Event `json:"event"`
}

type OverlayPayload struct {
	Overlay string `json:"overlay"`
	Open    bool   `json:"open"`
}

type StatePayload struct {
	Player string       `json:"player"`
	State  player.State `json:"state"`
}

type CommandPayload struct {
	Player   string        `json:"player"`
	Action   CommandAction `json:"action"`
	Source   string        `json:"source,omitempty"`
	Fraction float64       `json:"fraction,omitempty"`
	Active   bool          `json:"active,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Sender delivers one message to the page. It must be safe to call after the
// connection has gone away.
type Sender func(msg WebSocketMsg) error

// PlayerSession is the server side of one hosting page: every player mounted on
// the page has its own controller here.
type PlayerSession struct {
	id       string
	page     string
	clock    clock.Clock
	logger   *slog.Logger
	playback *events.Bus[events.PlaybackChanged]
	overlays *events.Bus[events.OverlayChanged]

	sendMutex sync.Mutex
	send      Sender

	mutex   sync.RWMutex
	players map[string]*player.Controller
	closed  bool
}

func (s *PlayerSession) Id() string {
	return s.id
}

func (s *PlayerSession) Page() string {
	return s.page
}

func (s *PlayerSession) Send(msg WebSocketMsg) error {
	s.sendMutex.Lock()
	defer s.sendMutex.Unlock()

	if err := s.send(msg); err != nil {
		s.logger.Warn("Unable to send WebSocket message to client", "type", msg.Type, "err", err)
		return err
	}
	return nil
}

// ErrorHandler reports public errors back to the page.
func (s *PlayerSession) ErrorHandler(title string) errs.ErrorHandler {
	return errs.NewLogErrorHandler(s.logger, title, func(err error) error {
		return s.Send(WebSocketMsg{Type: ErrorMsg, Payload: ErrorPayload{Message: err.Error()}})
	})
}

func (s *PlayerSession) Player(id string) *player.Controller {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.players[id]
}

func (s *PlayerSession) NumPlayers() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.players)
}

// PauseAllExcept pauses every player of the page except the given one.
func (s *PlayerSession) PauseAllExcept(except string) {
	s.mutex.RLock()
	var others []*player.Controller
	for id, c := range s.players {
		if id != except {
			others = append(others, c)
		}
	}
	s.mutex.RUnlock()

	for _, c := range others {
		c.Pause()
	}
}

func playableSource(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if media.Classify(raw) == media.MediaKindMarkup {
		return "", ErrMarkupNotPlayable
	}

	return media.NormalizeVideoURL(raw)
}

func (s *PlayerSession) newController(id string, volume float64) *player.Controller {
	return player.NewController(&socketSurface{session: s, player: id}, player.Options{
		Clock:  s.clock,
		Logger: s.logger.With("player", id),
		Volume: volume,
		OnPlayingChange: func(playing bool) {
			s.playback.Publish(events.PlaybackChanged{Page: s.id, Player: id, Playing: playing})
		},
		OnChange: func(state player.State) {
			s.Send(WebSocketMsg{Type: StateMsg, Payload: StatePayload{Player: id, State: state}})
		},
	})
}

// Mount creates the controller for a player, or points an existing one at a
// new source.
func (s *PlayerSession) Mount(p MountPayload) error {
	if p.Player == "" {
		return ErrMissingPlayerId
	}

	src, err := playableSource(p.Source)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return ErrSessionClosed
	}
	c, ok := s.players[p.Player]
	if !ok {
		c = s.newController(p.Player, p.Volume)
		s.players[p.Player] = c
	}
	s.mutex.Unlock()

	s.logger.Debug("Mounting player", "player", p.Player, "src", src, "existing", ok)
	c.Load(src)
	return nil
}

func (s *PlayerSession) Unmount(p UnmountPayload) error {
	s.mutex.Lock()
	c, ok := s.players[p.Player]
	delete(s.players, p.Player)
	s.mutex.Unlock()

	if !ok {
		return ErrUnknownPlayer
	}

	c.Dispose()
	return nil
}

func (s *PlayerSession) Dispatch(p EventPayload) error {
	c := s.Player(p.Player)
	if c == nil {
		return ErrUnknownPlayer
	}

	if p.Event.Name == player.EventLoad {
		src, err := playableSource(p.Event.Source)
		if err != nil {
			return err
		}
		p.Event.Source = src
	}

	return player.Apply(c, p.Event)
}

func (s *PlayerSession) SetOverlay(p OverlayPayload) {
	s.overlays.Publish(events.OverlayChanged{Page: s.id, Overlay: p.Overlay, Open: p.Open})
}

func decodePayload[T any](msg IncomingWebSocketMsg) (T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("invalid %s payload: %w", msg.Type, err)
	}
	return payload, nil
}

func (s *PlayerSession) HandleMessage(msg IncomingWebSocketMsg) error {
	switch msg.Type {
	case Mount:
		p, err := decodePayload[MountPayload](msg)
		if err != nil {
			return err
		}
		return s.Mount(p)
	case Unmount:
		p, err := decodePayload[UnmountPayload](msg)
		if err != nil {
			return err
		}
		return s.Unmount(p)
	case Event:
		p, err := decodePayload[EventPayload](msg)
		if err != nil {
			return err
		}
		return s.Dispatch(p)
	case Overlay:
		p, err := decodePayload[OverlayPayload](msg)
		if err != nil {
			return err
		}
		s.SetOverlay(p)
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}

// Close disposes every controller of the page.
func (s *PlayerSession) Close() {
	s.mutex.Lock()
	players := s.players
	s.players = make(map[string]*player.Controller)
	s.closed = true
	s.mutex.Unlock()

	for _, c := range players {
		c.Dispose()
	}
}

type socketSurface struct {
	session *PlayerSession
	player  string
}

func (s *socketSurface) Reload(src string) {
	s.session.Send(WebSocketMsg{Type: Command, Payload: CommandPayload{Player: s.player, Action: ReloadAction, Source: src}})
}

func (s *socketSurface) SeekTo(fraction float64) {
	s.session.Send(WebSocketMsg{Type: Command, Payload: CommandPayload{Player: s.player, Action: SeekAction, Fraction: fraction}})
}

func (s *socketSurface) SetFullscreen(active bool) error {
	return s.session.Send(WebSocketMsg{Type: Command, Payload: CommandPayload{Player: s.player, Action: FullscreenAction, Active: active}})
}

// Coordinator keeps at most one player of a page playing, and pauses a page's
// players while an overlay is open over it.
type Coordinator struct {
	lookup      func(page string) *PlayerSession
	unsubscribe []func()
}

func NewCoordinator(playback *events.Bus[events.PlaybackChanged], overlays *events.Bus[events.OverlayChanged], lookup func(page string) *PlayerSession) *Coordinator {
	c := &Coordinator{lookup: lookup}
	c.unsubscribe = append(c.unsubscribe,
		playback.Subscribe(c.onPlaybackChanged),
		overlays.Subscribe(c.onOverlayChanged),
	)
	return c
}

func (c *Coordinator) onPlaybackChanged(e events.PlaybackChanged) {
	if !e.Playing {
		return
	}

	if session := c.lookup(e.Page); session != nil {
		session.PauseAllExcept(e.Player)
	}
}

func (c *Coordinator) onOverlayChanged(e events.OverlayChanged) {
	if !e.Open {
		return
	}

	if session := c.lookup(e.Page); session != nil {
		session.logger.Debug("Overlay opened, pausing players", "overlay", e.Overlay)
		session.PauseAllExcept("")
	}
}

func (c *Coordinator) Stop() {
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
}

type WebSocketManager struct {
	clock       clock.Clock
	playback    *events.Bus[events.PlaybackChanged]
	overlays    *events.Bus[events.OverlayChanged]
	coordinator *Coordinator

	sessions map[string]*PlayerSession
	mutex    sync.RWMutex
}

func NewWebSocketManager(c clock.Clock) *WebSocketManager {
	if c == nil {
		c = clock.Real()
	}

	manager := &WebSocketManager{
		clock:    c,
		playback: events.NewBus[events.PlaybackChanged](),
		overlays: events.NewBus[events.OverlayChanged](),
		sessions: make(map[string]*PlayerSession),
	}
	manager.coordinator = NewCoordinator(manager.playback, manager.overlays, manager.Get)
	return manager
}

func (manager *WebSocketManager) Add(page string, send Sender) *PlayerSession {
	id := uniuri.New()
	session := &PlayerSession{
		id:       id,
		page:     page,
		clock:    manager.clock,
		logger:   slog.Default().With("sid", id, "page", page),
		playback: manager.playback,
		overlays: manager.overlays,
		send:     send,
		players:  make(map[string]*player.Controller),
	}

	manager.mutex.Lock()
	manager.sessions[id] = session
	manager.mutex.Unlock()

	session.Send(WebSocketMsg{Type: Handshake, Payload: HandshakePayload{Id: id, Page: page}})
	return session
}

func (manager *WebSocketManager) AddConn(page string, conn *websocket.Conn) *PlayerSession {
	return manager.Add(page, func(msg WebSocketMsg) error {
		return websocket.JSON.Send(conn, msg)
	})
}

func (manager *WebSocketManager) Remove(id string) {
	manager.mutex.Lock()
	session, ok := manager.sessions[id]
	delete(manager.sessions, id)
	manager.mutex.Unlock()

	if ok {
		session.Close()
	}
}

func (manager *WebSocketManager) Get(id string) *PlayerSession {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return manager.sessions[id]
}

func (manager *WebSocketManager) Count() int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()
	return len(manager.sessions)
}

// Close drops every session and stops coordinating.
func (manager *WebSocketManager) Close() {
	manager.mutex.Lock()
	sessions := manager.sessions
	manager.sessions = make(map[string]*PlayerSession)
	manager.mutex.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	manager.coordinator.Stop()
}
