// Package clipboard wires the preference store, the clipboard backend and the
// transfer broker into a session used by the command line and the window.
package clipboard

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/platform"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/storage"
	"github.com/berrythewa/fmclip/internal/transfer"
)

// Options tune Open.
type Options struct {
	// NoClipboard opens only the store. Broker stays nil.
	NoClipboard bool
	// Clipboard replaces the configured backend.
	Clipboard platform.Clipboard

	Prompter transfer.Prompter
	Opener   transfer.Opener
	OnStatus func(message string)
	OnSelect func(ct snippet.ContentType)
}

// Session owns the resources of one process.
type Session struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     *storage.BoltStorage
	Clipboard platform.Clipboard
	Broker    *transfer.Broker
}

// Open creates a session from cfg.
func Open(cfg *config.Config, logger *zap.Logger, opts Options) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.OpenFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	s := &Session{Config: cfg, Logger: logger, Store: store}
	if opts.NoClipboard {
		return s, nil
	}

	clip := opts.Clipboard
	if clip == nil {
		if clip, err = platform.New(cfg, logger); err != nil {
			store.Close()
			return nil, err
		}
	}
	s.Clipboard = clip

	opener := opts.Opener
	if opener == nil {
		opener = transfer.BrowserOpener{}
	}

	s.Broker, err = transfer.NewBroker(transfer.Config{
		Clipboard:   clip,
		Preferences: store.Preferences(),
		Files:       transfer.OSFiles{},
		Prompter:    opts.Prompter,
		Opener:      opener,
		Recorder:    store.History(),
		Logger:      logger.Named("transfer"),
		OnStatus:    opts.OnStatus,
		OnSelect:    opts.OnSelect,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create broker: %w", err)
	}
	return s, nil
}

// Preferences is a shortcut to the preference store.
func (s *Session) Preferences() *storage.Preferences {
	return s.Store.Preferences()
}

// History is a shortcut to the transfer history.
func (s *Session) History() *storage.History {
	return s.Store.History()
}

// Close releases the clipboard backend and the database.
func (s *Session) Close() error {
	var errs []error
	if s.Clipboard != nil {
		if err := s.Clipboard.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close clipboard: %w", err))
		}
	}
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
