// Package session persists the login session with file watching, so a login
// or logout in another instance is picked up live.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/biliinsight-tui/internal/logger"
	"github.com/j-veylop/biliinsight-tui/internal/models"
)

// File represents the JSON file structure for session storage.
type File struct {
	Session *models.Session  `json:"session,omitempty"`
	User    *models.UserInfo `json:"user,omitempty"`
	Version int              `json:"version,omitempty"`
}

// Event represents a session store event.
type Event struct {
	Type    EventType
	Error   error
	Session *models.Session
}

// EventType defines the type of session event.
type EventType int

const (
	EventSessionLoaded EventType = iota
	EventSessionChanged
	EventSessionCleared
	EventError
)

const debounceInterval = 100 * time.Millisecond

// Service keeps the current session in memory and mirrors it to disk.
type Service struct {
	mu            sync.RWMutex
	session       *models.Session
	user          *models.UserInfo
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates a session store, loads any saved session and starts watching
// the file.
func New(filePath string) (*Service, error) {
	if filePath == "" {
		return nil, errors.New("session path is empty")
	}

	s := &Service{
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := s.Load(); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventSessionLoaded, Session: s.Current()})

	return s, nil
}

// Events returns the event channel for subscribing to session changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Path returns the session file path.
func (s *Service) Path() string {
	return s.filePath
}

// Load reads the session file. A missing file means logged out.
func (s *Service) Load() error {
	file, err := s.readFile()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.session, s.user = file.Session, file.User
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the saved session, or nil when logged out.
func (s *Service) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	sess := *s.session
	sess.Cookies = append([]models.Cookie(nil), s.session.Cookies...)
	return &sess
}

// User returns the cached account info, or nil.
func (s *Service) User() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Save stores a new session and optional account info.
func (s *Service) Save(session models.Session, user *models.UserInfo) error {
	if !session.Valid() {
		return fmt.Errorf("session has no %s cookie", models.SessionCookie)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevSession, prevUser := s.session, s.user
	s.session = &session
	s.user = user

	if err := s.saveLocked(); err != nil {
		s.session, s.user = prevSession, prevUser
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.sendEvent(Event{Type: EventSessionChanged, Session: &session})
	return nil
}

// SetUser updates the cached account info of the current session.
func (s *Service) SetUser(user models.UserInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return errors.New("no session to attach user info to")
	}
	s.user = &user
	if err := s.saveLocked(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear logs out by forgetting the session and removing the file.
func (s *Service) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session, s.user = nil, nil
	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	s.sendEvent(Event{Type: EventSessionCleared})
	return nil
}

func (s *Service) readFile() (File, error) {
	var file File

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return file, nil
		}
		return file, err
	}
	if len(data) == 0 {
		return file, nil
	}

	if err := json.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("failed to parse session file: %w", err)
	}
	if file.Session != nil && !file.Session.Valid() {
		logger.Warn("ignoring saved session without credentials", "path", s.filePath)
		file.Session, file.User = nil, nil
	}
	return file, nil
}

// saveLocked saves the session to the JSON file (must hold lock).
func (s *Service) saveLocked() error {
	data, err := json.MarshalIndent(File{Session: s.session, User: s.user, Version: 1}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to temp file first, then rename
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpFile, s.filePath); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory to catch creation and removal of the file.
	if err := watcher.Add(filepath.Dir(s.filePath)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			s.mu.Lock()
			if s.debounceTimer != nil {
				s.debounceTimer.Stop()
			}
			s.debounceTimer = time.AfterFunc(debounceInterval, s.handleFileChange)
			s.mu.Unlock()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// handleFileChange reloads the file and reports a login or logout made
// elsewhere. Writes that leave the credentials unchanged emit nothing.
func (s *Service) handleFileChange() {
	file, err := s.readFile()
	if err != nil {
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	s.mu.Lock()
	before := credential(s.session)
	s.session, s.user = file.Session, file.User
	after := credential(s.session)
	s.mu.Unlock()

	switch {
	case before == after:
	case after == "":
		logger.Info("session cleared externally", "path", s.filePath)
		s.sendEvent(Event{Type: EventSessionCleared})
	default:
		logger.Info("session changed externally", "path", s.filePath)
		s.sendEvent(Event{Type: EventSessionChanged, Session: s.Current()})
	}
}

func credential(sess *models.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Cookie(models.SessionCookie)
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	s.mu.Lock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.mu.Unlock()

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
