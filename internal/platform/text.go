package platform

import (
	"context"
	"fmt"

	cliplib "github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/berrythewa/fmclip/internal/config"
	"github.com/berrythewa/fmclip/internal/snippet"
	"github.com/berrythewa/fmclip/internal/types"
)

func init() {
	RegisterClipboardFactory(config.BackendText, NewTextClipboard)
}

// TextClipboard uses the plain-text clipboard. The tag is inferred from the
// payload on read and cannot be carried on write.
type TextClipboard struct {
	logger *zap.Logger
	detect snippet.Options
}

// NewTextClipboard creates the text backend.
func NewTextClipboard(opts Options) (Clipboard, error) {
	if cliplib.Unsupported {
		return nil, fmt.Errorf("no text clipboard utility found")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextClipboard{logger: logger, detect: opts.Detect}, nil
}

func (c *TextClipboard) Name() string { return config.BackendText }

// ReadTyped implements Clipboard.
func (c *TextClipboard) ReadTyped(ctx context.Context) (*types.ClipboardContent, error) {
	text, err := cliplib.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read text clipboard: %w", err)
	}
	return inferContent(text, c.detect, c.logger), nil
}

// WriteTyped implements Clipboard.
func (c *TextClipboard) WriteTyped(ctx context.Context, content *types.ClipboardContent) error {
	c.logger.Warn("Text clipboard cannot carry a type, pasting may need the native backend",
		zap.String("tag", content.Tag))
	if err := cliplib.WriteAll(content.Text()); err != nil {
		return fmt.Errorf("failed to write text clipboard: %w", err)
	}
	return nil
}

func (c *TextClipboard) Close() error { return nil }

// inferContent tags plain text with the detected type. Text that is not a
// recognizable definition yields untagged content.
func inferContent(text string, opts snippet.Options, logger *zap.Logger) *types.ClipboardContent {
	if text == "" {
		return nil
	}
	opts.AutoDetect = true
	out := snippet.Detect(text, opts)
	if !out.OK() {
		logger.Debug("Clipboard text is not a definition", zap.String("outcome", out.Kind.String()))
		return types.NewClipboardContent("", []byte(text))
	}
	return types.NewClipboardContent(out.Type.Tag, []byte(text))
}
