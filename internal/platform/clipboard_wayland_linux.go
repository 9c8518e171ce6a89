//go:build linux
// +build linux

package platform

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/types"
)

const (
	toolWlPaste = "wl-paste"
	toolWlCopy  = "wl-copy"
)

// WaylandClipboard talks to the compositor through wl-clipboard.
type WaylandClipboard struct {
	opts Options
}

// NewWaylandClipboard creates the Wayland backend.
func NewWaylandClipboard(opts Options) (Clipboard, error) {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return nil, fmt.Errorf("WAYLAND_DISPLAY is not set")
	}
	for _, tool := range []string{toolWlPaste, toolWlCopy} {
		if !haveTool(tool) {
			return nil, fmt.Errorf("%s not found, install wl-clipboard", tool)
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &WaylandClipboard{opts: opts}, nil
}

func (c *WaylandClipboard) Name() string { return config.BackendWayland }

// ReadTyped implements Clipboard.
func (c *WaylandClipboard) ReadTyped(ctx context.Context) (*types.ClipboardContent, error) {
	ctx, cancel := withTimeout(ctx, c.opts.Timeout)
	defer cancel()

	out, err := runOutput(ctx, toolWlPaste, "--list-types")
	if err != nil {
		// wl-paste exits 1 on an empty clipboard
		if exitCode(err) == 1 {
			return nil, nil
		}
		return nil, err
	}

	offered := strings.Fields(string(out))
	i, tag := pickFormat(offered)
	if i < 0 {
		c.opts.Logger.Debug("No host tool format on the clipboard", zap.Strings("types", offered))
		if len(offered) == 0 {
			return nil, nil
		}
		return inferFromText(ctx, c.opts, func(ctx context.Context) ([]byte, error) {
			return runOutput(ctx, toolWlPaste, "--no-newline")
		})
	}

	data, err := runOutput(ctx, toolWlPaste, "--no-newline", "--type", offered[i])
	if err != nil {
		return nil, err
	}
	return types.NewClipboardContent(tag, data), nil
}

// WriteTyped implements Clipboard.
func (c *WaylandClipboard) WriteTyped(ctx context.Context, content *types.ClipboardContent) error {
	ctx, cancel := withTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return runInput(ctx, content.Data, toolWlCopy, "--type", FormatName(content.Tag))
}

func (c *WaylandClipboard) Close() error { return nil }

// inferFromText reads the plain-text flavour and detects its type, so a
// definition copied as text from an editor can still be exported.
func inferFromText(ctx context.Context, opts Options, read func(context.Context) ([]byte, error)) (*types.ClipboardContent, error) {
	data, err := read(ctx)
	if err != nil {
		return nil, nil
	}
	return inferContent(string(data), opts.Detect, opts.Logger), nil
}
