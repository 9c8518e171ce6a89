package platform

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
)

// Clipboard defines the interface for clipboard operations
// Each platform implements this interface with native clipboard handling
type Clipboard interface {
	// Name identifies the backend in logs and messages.
	Name() string

	// ReadTyped returns the clipboard payload and its type tag. It returns
	// nil, nil when the clipboard is empty.
	ReadTyped(ctx context.Context) (*types.ClipboardContent, error)

	// WriteTyped replaces the clipboard with content under its tag.
	WriteTyped(ctx context.Context, content *types.ClipboardContent) error

	// Close releases any resources held by the clipboard implementation
	Close() error
}

// Options are passed to every backend factory.
type Options struct {
	Logger  *zap.Logger
	Timeout time.Duration
	// Detect is used by backends that cannot carry a tag and must infer it.
	Detect snippet.Options
}

// ClipboardFactory creates a clipboard backend.
type ClipboardFactory func(opts Options) (Clipboard, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]ClipboardFactory{}
)

// RegisterClipboardFactory makes a backend available under name.
func RegisterClipboardFactory(name string, factory ClipboardFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// Available lists registered backend names.
func Available() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the backend selected by cfg.Clipboard.Backend.
func New(cfg *config.Config, logger *zap.Logger) (Clipboard, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	name := config.ResolveBackend(cfg.Clipboard.Backend)
	if name == config.BackendNative {
		name = nativeBackend()
	}

	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("clipboard backend %q is not available on this platform (available: %v)", name, Available())
	}

	opts := Options{
		Logger:  logger.Named("clipboard"),
		Timeout: cfg.Clipboard.Timeout,
		Detect: snippet.Options{
			AutoDetect:               true,
			PreferModernLayoutFormat: cfg.Defaults.PreferModernLayoutFormat,
			PreferModernThemeFormat:  cfg.Defaults.PreferModernThemeFormat,
		},
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}

	clip, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s clipboard: %w", name, err)
	}

	logger.Debug("Clipboard backend ready", zap.String("backend", clip.Name()))
	return clip, nil
}

// withTimeout bounds ctx by the backend timeout unless it already has an
// earlier deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
